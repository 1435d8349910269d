package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/taskmgr/internal/session"
	"github.com/mschirtzinger/taskmgr/internal/storage"
	"github.com/mschirtzinger/taskmgr/internal/watch"
	"github.com/mschirtzinger/taskmgr/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list to browsers",
		Long: `Start an HTTP server with the task list page.

Open the printed URL in a browser to add, toggle and delete tasks. Pages update
live over a WebSocket, including changes made with the CLI while the server runs
(file backend only).

Endpoints:
  /            task list page
  /api/tasks   current state as JSON
  /api/actions POST {"type":"ADD_TASK","title":"..."} and friends
  /ws          WebSocket stream of snapshots
  /health      health check`,
		Example: `  taskmgr serve                  # http://localhost:8080
  taskmgr serve --port 9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().IntP("port", "p", 8080, "port to listen on")
	cmd.Flags().String("host", "localhost", "interface to listen on")
	cmd.Flags().Bool("watch", true, "reload when the task file changes on disk")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	sess, err := a.openSession(ctx)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	server := web.NewServer(sess, &web.Config{
		Addr:   addr,
		Logger: a.logs.Component("web"),
	})
	if err := server.Start(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task manager running at http://%s\n", server.Addr())
	fmt.Fprintln(a.stdout, "Press Ctrl+C to stop...")

	if a.cfg.Server.Watch {
		if file, ok := a.store.(*storage.File); ok {
			stop, err := a.watchFile(ctx, sess, file.Path(a.cfg.Storage.Key))
			if err != nil {
				a.logs.Component("watch").Printf("Warning: live reload disabled: %v", err)
			} else {
				defer stop()
			}
		}
	}

	<-ctx.Done()

	fmt.Fprintln(a.stdout, "Shutting down...")
	if err := server.Stop(); err != nil {
		return err
	}
	return nil
}

// watchFile reloads sess whenever path changes. The returned func stops the
// watcher and waits for the reload loop to exit.
func (a *app) watchFile(ctx context.Context, sess *session.Session, path string) (func(), error) {
	logger := a.logs.Component("watch")
	w, err := watch.New(path, &watch.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case _, ok := <-w.Changes():
				if !ok {
					return
				}
				snap := sess.Reload(ctx)
				logger.Printf("Reloaded %d tasks from %s", snap.Counts.Total, path)
			case _, ok := <-w.Errors():
				if !ok {
					return
				}
			}
		}
	}()

	return func() {
		_ = w.Stop()
		<-done
	}, nil
}
