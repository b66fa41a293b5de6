package rosterd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSeed_ReplacesActivities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("activities:\n  - name: Chess Club\n  - name: Gym Class\n"), 0o600))
	entries, err := LoadSeed(path)
	require.NoError(t, err)
	store := NewMemoryStore(entries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop, err := WatchSeed(ctx, store, path)
	require.NoError(t, err)
	defer func() { _ = stop() }()

	require.NoError(t, os.WriteFile(path, []byte("activities:\n  - name: Chess Club\n"), 0o600))

	assert.Eventually(t, func() bool {
		snap, err := store.Snapshot(ctx)
		return err == nil && snap.Len() == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatchSeed_InvalidSeedKeepsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("activities:\n  - name: Chess Club\n"), 0o600))
	store := NewMemoryStore(DefaultActivities())

	reloadSeed(context.Background(), store, filepath.Join(t.TempDir(), "missing.yaml"))
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())

	reloadSeed(context.Background(), store, path)
	snap, err = store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chess Club"}, snap.Names())
}
