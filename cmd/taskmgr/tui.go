package main

import (
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/taskmgr/internal/tui"
	"github.com/mschirtzinger/taskmgr/internal/ui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Manage tasks in an interactive terminal UI",
		Long: `Open a full-screen task list.

Keys:
  up/k, down/j   move the cursor
  space, enter   toggle the selected task
  d, x           delete the selected task
  a              add a task (enter to save, esc to cancel)
  r              reload from storage
  q, ctrl+c      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.IsTTY(a.stdout) {
				return userError("tui requires a terminal")
			}
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), sess, a.renderer())
		},
	}
}
