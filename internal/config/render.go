package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const sampleHeader = `# taskmgr configuration
#
# Every key can be overridden with an environment variable, for example
# TASKMGR_USER_NAME or TASKMGR_STORAGE_BACKEND, and with CLI flags.

`

// Marshal renders cfg as "yaml" or "toml".
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml", "":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config as yaml: %w", err)
		}
		return data, nil
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to marshal config as toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or toml)", format)
	}
}

// WriteSample writes a TOML config file populated from cfg to path.
// An existing file is only replaced when force is set.
func WriteSample(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}

	body, err := Marshal(cfg, "toml")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data := append([]byte(sampleHeader), body...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
