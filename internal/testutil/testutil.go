package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/pkruk/flashdeck/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied. Foreign keys are enabled to match production behavior.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the
	// whole test.
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), conn))
	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
