package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("user", "", "")
	fs.String("backend", "", "")
	fs.String("data-dir", "", "")
	fs.Int("port", 0, "")
	fs.Bool("no-color", false, "")
	return fs
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{SearchDirs: []string{}})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Storage.Backend != "file" {
		t.Errorf("Storage.Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "tasks" {
		t.Errorf("Storage.Key = %q, want tasks", cfg.Storage.Key)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.User.Name == "" {
		t.Error("User.Name should never be empty")
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want none", cfg.File)
	}
}

func TestLoad_FileThenEnvThenFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", `
[user]
name = "From File"

[storage]
backend = "sqlite"
dir = "/tmp/from-file"

[server]
port = 9000
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(Options{SearchDirs: []string{dir}})
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.User.Name != "From File" {
			t.Errorf("User.Name = %q, want From File", cfg.User.Name)
		}
		if cfg.Storage.Backend != "sqlite" || cfg.Server.Port != 9000 {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if !strings.HasSuffix(cfg.File, "config.toml") {
			t.Errorf("File = %q, want config.toml", cfg.File)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("TASKMGR_USER_NAME", "From Env")
		cfg, err := Load(Options{SearchDirs: []string{dir}})
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.User.Name != "From Env" {
			t.Errorf("User.Name = %q, want From Env", cfg.User.Name)
		}
	})

	t.Run("flag overrides env", func(t *testing.T) {
		t.Setenv("TASKMGR_USER_NAME", "From Env")
		fs := newFlags()
		if err := fs.Parse([]string{"--user", "From Flag", "--port", "7000"}); err != nil {
			t.Fatalf("Parse() failed: %v", err)
		}
		cfg, err := Load(Options{SearchDirs: []string{dir}, Flags: fs})
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.User.Name != "From Flag" {
			t.Errorf("User.Name = %q, want From Flag", cfg.User.Name)
		}
		if cfg.Server.Port != 7000 {
			t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
		}
		// Unset flags leave file values alone.
		if cfg.Storage.Backend != "sqlite" {
			t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
		}
	})
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", "user:\n  name: Yaml User\nui:\n  no_color: true\n")

	cfg, err := Load(Options{File: path})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.User.Name != "Yaml User" {
		t.Errorf("User.Name = %q, want Yaml User", cfg.User.Name)
	}
	if !cfg.UI.NoColor {
		t.Error("UI.NoColor = false, want true")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "missing explicit file",
			opts: Options{File: filepath.Join(dir, "nope.toml")},
			want: "failed to read config file",
		},
		{
			name: "bad backend",
			opts: Options{File: writeFile(t, dir, "bad.toml", "[storage]\nbackend = \"redis\"\n")},
			want: "invalid storage.backend",
		},
		{
			name: "bad port",
			opts: Options{File: writeFile(t, dir, "port.toml", "[server]\nport = 70000\n")},
			want: "server.port",
		},
		{
			name: "unparseable",
			opts: Options{File: writeFile(t, dir, "broken.toml", "[storage\n")},
			want: "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	cfg := Default()
	cfg.User.Name = "Ada"

	y, err := Marshal(cfg, "yaml")
	if err != nil {
		t.Fatalf("Marshal(yaml) failed: %v", err)
	}
	var fromYAML Config
	if err := yaml.Unmarshal(y, &fromYAML); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if fromYAML.User.Name != "Ada" {
		t.Errorf("yaml user.name = %q, want Ada", fromYAML.User.Name)
	}

	tm, err := Marshal(cfg, "toml")
	if err != nil {
		t.Fatalf("Marshal(toml) failed: %v", err)
	}
	var fromTOML Config
	if _, err := toml.Decode(string(tm), &fromTOML); err != nil {
		t.Fatalf("toml output does not parse: %v", err)
	}
	if fromTOML.Storage.Key != "tasks" {
		t.Errorf("toml storage.key = %q, want tasks", fromTOML.Storage.Key)
	}

	if _, err := Marshal(cfg, "ini"); err == nil {
		t.Error("Marshal(ini) = nil error, want unknown format")
	}
}

func TestWriteSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	cfg := Default()
	cfg.User.Name = "Sample"

	if err := WriteSample(path, cfg, false); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	if err := WriteSample(path, cfg, false); err == nil {
		t.Error("second WriteSample() without force should fail")
	}
	if err := WriteSample(path, cfg, true); err != nil {
		t.Errorf("WriteSample(force) failed: %v", err)
	}

	loaded, err := Load(Options{File: path})
	if err != nil {
		t.Fatalf("Load(sample) failed: %v", err)
	}
	if loaded.User.Name != "Sample" {
		t.Errorf("User.Name = %q, want Sample", loaded.User.Name)
	}
}
