package commands

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dcosme/score-qualtrics/lib/scorestore"
	"github.com/dcosme/score-qualtrics/lib/serviceutil"
	"github.com/dcosme/score-qualtrics/lib/tidy"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func readRaw(path string) (tidy.WideTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return tidy.WideTable{}, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return tidy.WideTable{}, err
	}
	if len(rows) == 0 {
		return tidy.WideTable{}, fmt.Errorf("%s is empty", path)
	}
	return tidy.WideTable{Columns: rows[0], Rows: rows[1:]}, nil
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Reshapes and cleans raw exports into the response store.",
	Long: `Reshapes each raw export into long-format records, resolves subject
identity, filters subject ids, applies manual corrections and the
duplicate drop-list, then stores the cleaned records together with the
coercion audit and any unresolved duplicate conflicts.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()

		database, err := cfg.Store.open()
		if err != nil {
			serviceutil.Fatal("failed to open store", err)
		}
		defer database.Close()
		store := scorestore.NewStore(database)

		textItems := map[string]bool{}
		for _, item := range cfg.Clean.TextItems {
			textItems[item] = true
		}

		paths, err := filepath.Glob(filepath.Join(cfg.RawDir, "*.csv"))
		if err != nil {
			serviceutil.Fatal("failed to list raw exports", err)
		}
		if len(paths) == 0 {
			serviceutil.Fatal("no raw exports found", fmt.Errorf("nothing matches %s/*.csv", cfg.RawDir))
		}

		for _, path := range paths {
			survey := strings.TrimSuffix(filepath.Base(path), ".csv")

			table, err := readRaw(path)
			if err != nil {
				serviceutil.Fatal("failed to read raw export", err)
			}

			records, err := tidy.Melt(ctx, survey, table, cfg.Clean.Config)
			if err != nil {
				serviceutil.Fatal("failed to reshape export", err)
			}

			applied := tidy.ApplyCorrections(records, cfg.Clean.Corrections)
			records = tidy.DropResponses(records, cfg.Clean.DropResponses)

			fails := tidy.AuditCoercion(records, func(item string) bool {
				return !textItems[item]
			})
			dups := tidy.FindDuplicates(records)
			for _, d := range dups {
				slog.Warn(
					"unresolved duplicate responses; scores for this subject will aggregate across submissions",
					"survey", d.Survey, "sid", d.SID, "response_ids", d.ResponseIDs,
				)
			}

			err = store.PushClean(ctx, survey, records, fails, dups)
			if err != nil {
				serviceutil.Fatal("failed to store cleaned records", err)
			}
			slog.Info(
				"cleaned survey",
				"survey", survey,
				"records", len(records),
				"corrections", applied,
				"uncoercible", len(fails),
				"duplicates", len(dups),
			)
		}

		renderAudit(ctx, store, os.Stdout)
	},
}
