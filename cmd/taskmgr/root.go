package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/taskmgr/internal/config"
	"github.com/mschirtzinger/taskmgr/internal/logging"
	"github.com/mschirtzinger/taskmgr/internal/persist"
	"github.com/mschirtzinger/taskmgr/internal/session"
	"github.com/mschirtzinger/taskmgr/internal/storage"
	"github.com/mschirtzinger/taskmgr/internal/ui"
)

// rootOptions holds process-level dependencies that tests replace.
type rootOptions struct {
	// configDirs overrides the config search path (nil: the default config dir).
	configDirs []string

	// interactive reports whether prompts may be shown (default: stdin and
	// stdout are terminals).
	interactive func() bool
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	opts   rootOptions

	configFile string

	cfg       *config.Config
	logs      *logging.Logger
	logStderr bool
	store     storage.Store
	sess      *session.Session
}

// execute runs taskmgr with args and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts rootOptions) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, opts: opts}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return codeFor(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskmgr",
		Short: "A small personal task list",
		Long: `taskmgr keeps an ordered list of tasks, each with a title and a completed flag.

Tasks are numbered from 1 in the order they were added. The list is saved after
every change, so the CLI, the TUI (taskmgr tui) and the browser view
(taskmgr serve) all see the same tasks.

Run without a subcommand to print the list.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/taskmgr/config.toml)")
	flags.String("data-dir", "", "directory holding the task list")
	flags.String("backend", "", "storage backend: file, sqlite or memory")
	flags.String("storage-key", "", "storage key the list is saved under")
	flags.String("user", "", "display name shown in the welcome line")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-file", "", "write logs to this file (rotated)")
	flags.Bool("debug", false, "log to stderr")

	root.AddCommand(
		newAddCmd(a),
		newToggleCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newStatsCmd(a),
		newServeCmd(a),
		newTUICmd(a),
		newConfigCmd(a),
		newMigrateCmd(a),
		newVersionCmd(a),
	)
	return root
}

// annotationConfigMayBeMissing marks commands that accept a --config path that
// does not exist yet.
const annotationConfigMayBeMissing = "config-may-be-missing"

// setup loads configuration and the base logger. Storage is opened on demand.
func (a *app) setup(cmd *cobra.Command) error {
	file := a.configFile
	if file != "" && cmd.Annotations[annotationConfigMayBeMissing] == "true" {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			file = ""
		}
	}

	cfg, err := config.Load(config.Options{
		File:       file,
		SearchDirs: a.opts.configDirs,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return userError("%v", err)
	}
	a.cfg = cfg

	a.logStderr = cfg.Log.Debug || cmd.Name() == "serve"
	logs, err := logging.New(logging.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Stderr:     a.logStderr,
		Writer:     a.stderr,
	})
	if err != nil {
		return userError("failed to open log file: %v", err)
	}
	a.logs = logs
	return nil
}

// warnLogger returns a component logger whose output always reaches stderr.
func (a *app) warnLogger(name string) *log.Logger {
	if a.logStderr {
		return a.logs.Component(name)
	}
	return log.New(io.MultiWriter(a.logs.Writer(), a.stderr), "["+name+"] ", 0)
}

// openSession opens the configured store and seeds a session from it.
func (a *app) openSession(ctx context.Context) (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}

	store, err := storage.Open(storage.Options{
		Backend: a.cfg.Storage.Backend,
		Dir:     a.cfg.Storage.Dir,
	})
	if err != nil {
		return nil, storageError(err)
	}
	a.store = store

	bridge := persist.New(store, &persist.Config{
		Key:    a.cfg.Storage.Key,
		Logger: a.warnLogger("persist"),
	})
	a.sess = session.New(ctx, bridge, session.Options{
		User:   a.cfg.User.Name,
		Logger: a.logs.Component("session"),
	})
	return a.sess, nil
}

func (a *app) renderer() *ui.Renderer {
	return ui.New(a.stdout, a.cfg.UI.NoColor)
}

func (a *app) isInteractive() bool {
	if a.opts.interactive != nil {
		return a.opts.interactive()
	}
	in, ok := a.stdin.(*os.File)
	return ok && ui.IsTTY(in) && ui.IsTTY(a.stdout)
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			fmt.Fprintf(a.stderr, "warning: failed to close storage: %v\n", err)
		}
	}
	if a.logs != nil {
		_ = a.logs.Close()
	}
}
