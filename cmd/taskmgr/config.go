package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/taskmgr/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, TASKMGR_* environment
variables and flags have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(a.cfg, format)
			if err != nil {
				return userError("%v", err)
			}
			if a.cfg.File != "" {
				fmt.Fprintf(a.stdout, "# from %s\n", a.cfg.File)
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or toml")
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with the current settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigMayBeMissing: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configInitPath()
			if err := config.WriteSample(path, a.cfg, force); err != nil {
				return userError("%v", err)
			}
			fmt.Fprintf(a.stdout, "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// configInitPath is --config when given, otherwise config.toml in the first
// config search directory.
func (a *app) configInitPath() string {
	if a.configFile != "" {
		return a.configFile
	}
	dir := config.DefaultConfigDir()
	if len(a.opts.configDirs) > 0 {
		dir = a.opts.configDirs[0]
	}
	return filepath.Join(dir, "config.toml")
}
