package commands

import (
	"database/sql"

	"github.com/dcosme/score-qualtrics/lib/configutil"
	"github.com/dcosme/score-qualtrics/lib/report"
	"github.com/dcosme/score-qualtrics/lib/scorestore/db"
	"github.com/dcosme/score-qualtrics/lib/serviceutil"
	"github.com/dcosme/score-qualtrics/lib/sqliteutil"
	"github.com/dcosme/score-qualtrics/lib/tidy"
)

type QualtricsConfig struct {
	// e.g. https://yourdatacenter.qualtrics.com
	BaseUrl  string `json:"base_url"`
	ApiToken string `json:"api_token"`
}

type StoreConfig struct {
	// local sqlite file, used when no url is configured
	File string `json:"file"`
	// remote libsql url, for a store shared across a team
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c StoreConfig) open() (*sql.DB, error) {
	if c.Url != "" {
		return sqliteutil.OpenRemote(db.Schema, c.Url, c.AuthToken)
	}
	file := c.File
	if file == "" {
		file = "scoreq.db"
	}
	return sqliteutil.OpenDB(db.Schema, file)
}

type CleanConfig struct {
	tidy.Config
	// items whose values are free text, excluded from the numeric
	// coercion audit
	TextItems []string `json:"text_items"`
	// operator-curated point fixes, applied in order before the audit
	Corrections []tidy.Correction `json:"corrections"`
	// response ids dropped wholesale to resolve duplicate submissions
	DropResponses []string `json:"drop_responses"`
}

type RubricsConfig struct {
	// directory holding *_scoring_rubric.csv files
	Dir string `json:"dir"`
	// per-scale overrides of the rubric's missing tolerance
	Tolerance map[string]float64 `json:"tolerance"`
}

type Config struct {
	Qualtrics QualtricsConfig   `json:"qualtrics"`
	Store     StoreConfig       `json:"store"`
	RawDir    string            `json:"raw_dir"`
	Surveys   []string          `json:"surveys"`
	Clean     CleanConfig       `json:"clean"`
	Rubrics   RubricsConfig     `json:"rubrics"`
	Email     report.SmtpConfig `json:"email"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.RawDir == "" {
		cfg.RawDir = "raw"
	}
	return cfg
}
