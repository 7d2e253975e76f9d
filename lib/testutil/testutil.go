package testutil

import (
	"database/sql"
	"testing"

	"github.com/dcosme/score-qualtrics/lib/sqliteutil"
	"github.com/dcosme/score-qualtrics/lib/telemetry"

	_ "modernc.org/sqlite"
)

type StoreParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type StoreResult struct {
	DB *sql.DB
}

// SetupStore prepares test telemetry and an in-memory sqlite database
// with the given schema applied.
func SetupStore(t testing.TB, params StoreParams) (StoreResult, func()) {
	cleanup := telemetry.SetupForTesting(t, "test:"+params.Name)

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}

	var database *sql.DB
	if params.DbSchema != "" {
		var err error
		database, err = sqliteutil.OpenDB(params.DbSchema, dbpath)
		if err != nil {
			t.Fatal(err)
		}
	}

	return StoreResult{DB: database}, func() {
		if database != nil {
			database.Close()
		}
		cleanup()
	}
}
