package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"taskcade/internal/engine"
	"taskcade/internal/game"
	"taskcade/internal/tui"
	"taskcade/internal/ui"
)

func printGameTable(w io.Writer, c *engine.Coordinator) {
	for _, row := range c.Policy().Table(c.Progress()) {
		state := ui.Good.Render("unlocked")
		if !row.Unlocked {
			state = ui.Muted.Render(fmt.Sprintf("level %d", row.Entry.RequiredLevel))
		}
		fmt.Fprintf(w, "- %s %-20s %s %s\n", ui.LockIcon(row.Unlocked), row.Entry.Name, state, ui.Muted.Render(string(row.Entry.ID)))
	}
}

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List mini-games and their unlock levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconGame, "Arcade"))
			printGameTable(cmd.OutOrStdout(), a.coord)
			return nil
		},
	}
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <game>",
		Short: "Launch an unlocked mini-game",
		Args:  exactlyOne("game"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := game.ParseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			inbox := tui.NewInbox()
			a, cleanup, err := openApp(ctx, cmd, inbox, inbox)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := a.coord.LaunchGame(ctx, id); err != nil {
				return err
			}
			return tui.RunBoard(ctx, a.coord, inbox, cmd.OutOrStdout())
		},
	}
}

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			inbox := tui.NewInbox()
			a, cleanup, err := openApp(ctx, cmd, inbox, inbox)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, a.coord, inbox, cmd.OutOrStdout())
		},
	}
}
