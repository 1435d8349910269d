package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/taskmgr/internal/migrate"
	"github.com/mschirtzinger/taskmgr/internal/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	var (
		from, to       string
		dryRun, backup bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the task list between storage backends",
		Long: `Copy the task list from one backend to another inside the data directory.

The source must hold a valid task list; a malformed source is reported instead
of being treated as empty. With --backup the destination's previous value is kept
under "<key>.backup.<timestamp>".

After migrating, set storage.backend (or pass --backend) to use the new store.`,
		Example: `  taskmgr migrate --from file --to sqlite
  taskmgr migrate --from sqlite --to file --backup
  taskmgr migrate --from file --to sqlite --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == to {
				return userError("--from and --to must differ")
			}

			src, err := storage.Open(storage.Options{Backend: from, Dir: a.cfg.Storage.Dir})
			if err != nil {
				return userError("invalid --from: %v", err)
			}
			defer src.Close()

			dst, err := storage.Open(storage.Options{Backend: to, Dir: a.cfg.Storage.Dir})
			if err != nil {
				return userError("invalid --to: %v", err)
			}
			defer dst.Close()

			result, err := migrate.Migrate(cmd.Context(), migrate.Options{
				From:   src,
				To:     dst,
				Key:    a.cfg.Storage.Key,
				DryRun: dryRun,
				Backup: backup,
			})
			if err != nil {
				return storageError(err)
			}

			if result.DryRun {
				fmt.Fprintf(a.stdout, "dry run: would copy %d tasks from %s to %s\n", result.TasksCopied, from, to)
				return nil
			}
			if result.BackupKey != "" {
				fmt.Fprintf(a.stdout, "backup: %s\n", result.BackupKey)
			}
			fmt.Fprintf(a.stdout, "copied %d tasks from %s to %s\n", result.TasksCopied, from, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", storage.BackendFile, "source backend (file or sqlite)")
	cmd.Flags().StringVar(&to, "to", storage.BackendSQLite, "destination backend (file or sqlite)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the source without writing")
	cmd.Flags().BoolVar(&backup, "backup", false, "back up the destination's current value first")
	return cmd
}
