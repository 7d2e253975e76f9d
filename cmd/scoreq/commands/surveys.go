package commands

import (
	"os"

	"github.com/dcosme/score-qualtrics/lib/report"
	"github.com/dcosme/score-qualtrics/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(surveysCmd)
}

var surveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "Prints the surveys visible to the configured API token.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := newQualtricsClient(cfg)

		surveys, err := client.ListSurveys(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list surveys", err)
		}
		report.RenderSurveys(os.Stdout, surveys)
	},
}
