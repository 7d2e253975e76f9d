package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dcosme/score-qualtrics/lib/report"
	"github.com/dcosme/score-qualtrics/lib/scorestore"
	"github.com/dcosme/score-qualtrics/lib/serviceutil"

	"github.com/spf13/cobra"
)

var reportRunId *string
var reportEmail *bool

func init() {
	reportRunId = reportCmd.Flags().String("run", "", "The scoring run to report; defaults to the latest.")
	reportEmail = reportCmd.Flags().Bool("email", false, "Also email the audit report to the configured recipients.")
	rootCmd.AddCommand(reportCmd)
}

func renderAudit(ctx context.Context, store scorestore.Store, out io.Writer) {
	fails, dups, err := store.PullAudit(ctx)
	if err != nil {
		serviceutil.Fatal("failed to read audit tables", err)
	}

	fmt.Fprintln(out, "coercion audit:")
	report.RenderCoercionAudit(out, fails)
	fmt.Fprintln(out, "duplicate responses:")
	report.RenderDuplicates(out, dups)
}

var reportCmd = &cobra.Command{
	Use:   "report [--run <id>] [--email]",
	Short: "Renders the scored results and the data-quality audit.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()

		database, err := cfg.Store.open()
		if err != nil {
			serviceutil.Fatal("failed to open store", err)
		}
		defer database.Close()
		store := scorestore.NewStore(database)

		runId := *reportRunId
		if runId == "" {
			runId, err = store.LatestRun(ctx)
			if err != nil {
				serviceutil.Fatal("failed to look up latest run", err)
			}
		}
		if runId == "" {
			serviceutil.Fatal("nothing to report", fmt.Errorf("run `scoreq score` first"))
		}

		results, err := store.PullResults(ctx, runId)
		if err != nil {
			serviceutil.Fatal("failed to read scored results", err)
		}

		fmt.Printf("scored results (run %s):\n", runId)
		report.RenderResults(os.Stdout, results)
		renderAudit(ctx, store, os.Stdout)

		if *reportEmail {
			var audit strings.Builder
			renderAudit(ctx, store, &audit)
			err = report.EmailAudit(
				cfg.Email,
				fmt.Sprintf("scoreq audit, run %s", runId),
				audit.String(),
			)
			if err != nil {
				serviceutil.Fatal("failed to email audit report", err)
			}
			slog.Info("emailed audit report", "to", cfg.Email.To)
		}
	},
}
