package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rosterboard/internal/rosterd"
)

// SQLite opens a database in a temp dir seeded with the activities. The
// caller is responsible for closing the store.
func (b *Builder) SQLite() *rosterd.SQLiteStore {
	b.t.Helper()
	return NewTestDB(b.t, b)
}

// NewTestDB opens a fresh SQLite store seeded from b.
func NewTestDB(t *testing.T, b *Builder) *rosterd.SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.db")
	store, err := rosterd.OpenSQLite(context.Background(), path, b.Entries())
	require.NoError(t, err)
	return store
}
