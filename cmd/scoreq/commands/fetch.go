package commands

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dcosme/score-qualtrics/lib/qualtrics"
	"github.com/dcosme/score-qualtrics/lib/restyutil"
	"github.com/dcosme/score-qualtrics/lib/serviceutil"
	"github.com/dcosme/score-qualtrics/lib/tidy"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func newQualtricsClient(cfg Config) *qualtrics.Client {
	if *verbose {
		qualtrics.SetRestyInstrumentOutput(
			restyutil.NewFilesystemOutput(".dev/resty/qualtrics"),
		)
	}
	client, err := qualtrics.NewClient(qualtrics.ClientOptions{
		BaseUrl:  cfg.Qualtrics.BaseUrl,
		ApiToken: cfg.Qualtrics.ApiToken,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize qualtrics client", err)
	}
	return client
}

func writeRaw(path string, table tidy.WideTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(table.Columns)
	if err != nil {
		return err
	}
	err = w.WriteAll(table.Rows)
	if err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Exports the configured surveys' responses into the raw directory.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := newQualtricsClient(cfg)

		err := os.MkdirAll(cfg.RawDir, 0755)
		if err != nil {
			serviceutil.Fatal("failed to create raw directory", err)
		}

		for _, name := range cfg.Surveys {
			survey, err := client.FindSurvey(cmd.Context(), name)
			if err != nil {
				serviceutil.Fatal("failed to resolve survey", err)
			}

			slog.Info("exporting responses", "survey", survey.Name, "id", survey.Id)
			table, err := client.ExportResponses(cmd.Context(), survey.Id)
			if err != nil {
				serviceutil.Fatal("failed to export responses", err)
			}

			path := filepath.Join(cfg.RawDir, survey.Name+".csv")
			err = writeRaw(path, table)
			if err != nil {
				serviceutil.Fatal("failed to write raw export", err)
			}
			slog.Info("wrote raw export", "path", path, "rows", len(table.Rows))
		}
	},
}
