package sqliteutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// OpenDB opens (creating if necessary) a local sqlite database and
// applies the given schema. `:memory:` is accepted for tests.
func OpenDB(schema, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}

	if path != ":memory:" {
		_, statErr := os.Stat(path)
		if os.IsNotExist(statErr) {
			f, err := os.Create(path)
			if err != nil {
				return nil, err
			}
			f.Close()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	return db, applySchema(db, schema)
}

// OpenRemote opens a remote libsql database, for teams sharing a
// hosted copy of the store instead of a local file.
func OpenRemote(schema, url, authToken string) (*sql.DB, error) {
	if authToken != "" {
		url = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, err
	}
	return db, applySchema(db, schema)
}

func applySchema(db *sql.DB, schema string) error {
	if schema == "" {
		return nil
	}
	_, err := db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return err
	}
	return nil
}
