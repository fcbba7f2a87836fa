package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskcade/internal/engine"
	"taskcade/internal/game"
	"taskcade/internal/ui"
)

const statusHistory = 10

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, points, unlocks and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()

			cu, err := a.auth.Current(ctx)
			if err != nil {
				return err
			}
			p := a.coord.Progress()
			need := engine.ExperienceNeeded(p.Level)
			today, err := a.coord.CompletedToday(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Player Status"))
			if cu != nil {
				fmt.Fprintln(out, ui.LabelValue("User", cu.Username))
			} else {
				fmt.Fprintln(out, ui.LabelValue("User", ui.Muted.Render("not signed in")))
			}
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			fmt.Fprintln(out, ui.LabelValue("Points", p.Points))
			fmt.Fprintf(out, "%s %s %s\n", ui.Key.Render("XP:"), ui.ProgressBar(p.Experience, need, 20), ui.Muted.Render(fmt.Sprintf("%d/%d", p.Experience, need)))
			fmt.Fprintln(out, ui.LabelValue("Tasks completed", fmt.Sprintf("%d (%d today)", p.TasksCompleted, today)))
			fmt.Fprintln(out, ui.LabelValue("Games played", p.GamesPlayed))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconGame+" Games"))
			printGameTable(out, a.coord)
			if next, ok := a.coord.Policy().NextUnlock(p); ok {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Next unlock: %s at level %d", next.Name, next.RequiredLevel)))
			}
			fmt.Fprintln(out, "")

			achievements, err := a.coord.Achievements(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Achievements"))
			for _, ach := range achievements {
				if ach.Earned {
					fmt.Fprintf(out, "- %s %s %s\n", ach.Icon, ui.Good.Render(ach.Name), ui.Muted.Render(ach.Description))
				} else {
					fmt.Fprintf(out, "- %s %s\n", ui.Muted.Render(ui.IconLock+" "+ach.Name), ui.Muted.Render(ach.Description))
				}
			}
			fmt.Fprintln(out, "")

			history, err := a.coord.RewardLog(ctx)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				return nil
			}
			if len(history) > statusHistory {
				history = history[:statusHistory]
			}
			fmt.Fprintln(out, ui.H2.Render(ui.IconScroll+" Recent rewards"))
			for _, e := range history {
				what := "task"
				if e.Source == "game" {
					what = fmt.Sprintf("%s (score %d)", a.coord.Registry().DisplayName(game.ID(e.Game)), e.Score)
				}
				fmt.Fprintf(out, "- %s %s %s\n", ui.Points(e.Points), what, ui.Muted.Render(e.AwardedAt.Local().Format("Jan 2 15:04")))
			}
			return nil
		},
	}

	return cmd
}
