package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dcosme/score-qualtrics/lib/telemetry"

	"github.com/spf13/cobra"
)

var configPath *string
var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "scoreq",
	Short: "scoreq fetches, cleans and scores survey responses from Qualtrics.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
		err := telemetry.SetupFromEnv(cmd.Context(), "scoreq")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		telemetry.InstrumentPerfStats(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Shutdown(context.Background())
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String(
		"config", "config.json5", "The pipeline configuration file.",
	)
	verbose = rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false, "Enable debug logging and raw API exchange dumps.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
