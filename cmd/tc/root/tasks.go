package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskcade/internal/ui"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("text is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := a.coord.AddTask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), t.Text, ui.Muted.Render(t.ID))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks, err := a.coord.Tasks(ctx)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No tasks yet. Add one with: tc add \"Water the plants\""))
				return nil
			}
			for i, t := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s\n", i+1, ui.TaskText(t.Text, t.Completed))
			}
			today, err := a.coord.CompletedToday(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("%d completed today", today)))
			return nil
		},
	}
}

func newDoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "do <n|id>",
		Short: "Toggle a task's completion (completing pays out points)",
		Args:  exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			a, cleanup, err := openApp(ctx, cmd, printNotifier(out), printCelebrator{w: out})
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := a.coord.ResolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			t, res, err := a.coord.ToggleTask(ctx, t.ID)
			if err != nil {
				return err
			}
			if res == nil {
				fmt.Fprintf(out, "%s %s\n", ui.Warn.Render(ui.IconOpen+" Reopened"), t.Text)
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.IconDone+" Done"), t.Text)
			fmt.Fprintln(out, ui.LabelValue("Level", res.Progress.Level)+"  "+ui.LabelValue("Points", res.Progress.Points))
			return nil
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <n|id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := a.coord.ResolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.coord.DeleteTask(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render("🗑️ Deleted"), t.Text)
			return nil
		},
	}
}
