package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/taskmgr/internal/tasks"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task to the end of the list",
		Long: `Add a task with the given title. Arguments are joined with spaces.

With no arguments on a terminal, taskmgr prompts for the title.`,
		Example: `  taskmgr add Buy milk
  taskmgr add "Call the bank"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if len(args) == 0 && a.isInteractive() {
				var err error
				if title, err = promptTitle(); err != nil {
					return err
				}
			}
			if err := (tasks.Task{Title: title}).Validate(); err != nil {
				return userError("title required")
			}

			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := sess.Submit(cmd.Context(), title); err != nil {
				return storageError(fmt.Errorf("failed to save task: %w", err))
			}
			fmt.Fprintln(a.stdout, "ok")
			return nil
		},
	}
}

func promptTitle() (string, error) {
	var title string
	err := huh.NewInput().
		Title("New task").
		Placeholder("Add new task").
		Value(&title).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", userError("cancelled")
		}
		return "", fmt.Errorf("failed to read title: %w", err)
	}
	return title, nil
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <n>",
		Short: "Flip a task between open and completed",
		Long: `Flip the completed flag of task number n (as shown by taskmgr list).

A number outside the list changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := taskIndex(args[0])
			if err != nil {
				return err
			}
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.Toggle(cmd.Context(), index); err != nil {
				return storageError(fmt.Errorf("failed to save task list: %w", err))
			}
			fmt.Fprintln(a.stdout, "ok")
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <n>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Long: `Remove task number n (as shown by taskmgr list). Later tasks move up by one.

A number outside the list changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := taskIndex(args[0])
			if err != nil {
				return err
			}
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.Delete(cmd.Context(), index); err != nil {
				return storageError(fmt.Errorf("failed to save task list: %w", err))
			}
			fmt.Fprintln(a.stdout, "ok")
			return nil
		},
	}
}

// taskIndex converts a 1-based task number to a list position.
func taskIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, userError("invalid task number %q", arg)
	}
	return n - 1, nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the task list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context())
		},
	}
}

func (a *app) runList(ctx context.Context) error {
	sess, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, a.renderer().Snapshot(sess.Snapshot()))
	return nil
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the task counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, a.renderer().Counts(sess.Snapshot().Counts))
			return nil
		},
	}
}
