// Command taskmgr manages a personal task list from the terminal, a TUI, or a
// browser.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, rootOptions{})
	stop()
	os.Exit(code)
}
