package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskcade/internal/ui"
)

const Version = "0.1.0"

var (
	flagDB      string
	flagBackend string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "tc",
	Short:         "TaskCade: a to-do list that pays out in arcade games",
	Long:          "TaskCade is a local-first task tracker. Completing tasks earns points and levels, and levels unlock mini-games whose scores feed back into your progress.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default ~/.taskcade.db)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend (sqlite|bolt)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(
		newSignupCmd(),
		newSigninCmd(),
		newSignoutCmd(),
		newWhoamiCmd(),
		newAddCmd(),
		newListCmd(),
		newDoCmd(),
		newRmCmd(),
		newStatusCmd(),
		newGamesCmd(),
		newPlayCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
