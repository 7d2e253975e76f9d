package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dcosme/score-qualtrics/lib/report"
	"github.com/dcosme/score-qualtrics/lib/rubric"
	"github.com/dcosme/score-qualtrics/lib/scorestore"
	"github.com/dcosme/score-qualtrics/lib/scoring"
	"github.com/dcosme/score-qualtrics/lib/serviceutil"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Scores the cleaned responses against the rubric directory.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()

		database, err := cfg.Store.open()
		if err != nil {
			serviceutil.Fatal("failed to open store", err)
		}
		defer database.Close()
		store := scorestore.NewStore(database)

		records, err := store.PullResponses(ctx, "")
		if err != nil {
			serviceutil.Fatal("failed to read cleaned responses", err)
		}
		if len(records) == 0 {
			serviceutil.Fatal("store holds no cleaned responses", fmt.Errorf("run `scoreq clean` first"))
		}

		rubrics, err := rubric.Load(cfg.Rubrics.Dir)
		if err != nil {
			serviceutil.Fatal("failed to load rubrics", err)
		}
		if len(rubrics) == 0 {
			serviceutil.Fatal("no rubrics found", fmt.Errorf("no *_scoring_rubric.csv in %s", cfg.Rubrics.Dir))
		}
		for i := range rubrics {
			if tolerance, ok := cfg.Rubrics.Tolerance[rubrics[i].Name]; ok {
				rubrics[i].Tolerance = tolerance
			}
		}

		items := map[string]bool{}
		surveys := map[string]bool{}
		for _, r := range records {
			items[r.Item] = true
			surveys[r.Survey] = true
		}
		itemNames := make([]string, 0, len(items))
		for item := range items {
			itemNames = append(itemNames, item)
		}
		for _, r := range rubrics {
			problems := rubric.Validate(r, itemNames)
			if len(problems) > 0 {
				slog.Warn("rubric references unknown items", "scale", r.Name, "count", len(problems))
				report.RenderRubricProblems(os.Stderr, problems)
			}
		}

		results := scoring.Score(ctx, records, rubrics)

		runId, err := random.String(12)
		if err != nil {
			serviceutil.Fatal("failed to generate run id", err)
		}
		err = store.PushResults(ctx, runId, time.Now(), results)
		if err != nil {
			serviceutil.Fatal("failed to store scored results", err)
		}

		slog.Info("scored responses",
			"run_id", runId,
			"surveys", len(surveys),
			"results", len(results),
			"rubrics", len(rubrics),
		)
	},
}
