package testutil

import (
	"database/sql"
	"testing"

	// sqlite driver for in-memory test databases.
	_ "modernc.org/sqlite"
)

// OpenSQLite opens a private in-memory SQLite database and closes it when
// the test ends. The pool is pinned to one connection because every new
// connection to ":memory:" would see an empty database.
func OpenSQLite(t testing.TB, statements ...string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to run setup statement %q: %v", stmt, err)
		}
	}
	return db
}
