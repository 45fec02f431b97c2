package eventstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndByRun(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	at := time.UnixMilli(1_700_000_000_123)
	e, err := NewRunStarted("run-1", at, RunStartedData{SourceDir: "/p/sources", Output: "/p/out.html"})
	require.NoError(t, err)
	e.EventMetadata = map[string]string{"host": "ci"}
	require.NoError(t, store.Append(ctx, e))

	other, err := NewRunStarted("run-2", at, RunStartedData{})
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, other))

	events, err := store.ByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.Equal(t, "run-1", got.RunID())
	assert.Equal(t, TypeRunStarted, got.Type())
	assert.True(t, got.Timestamp().Equal(at))
	assert.Equal(t, "ci", got.Metadata()["host"])

	var data RunStartedData
	require.NoError(t, Decode(got, &data))
	assert.Equal(t, "/p/out.html", data.Output)
}

func TestRange(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 3; i++ {
		e, err := NewRunStarted("run", base.Add(time.Duration(i)*time.Hour), RunStartedData{})
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, e))
	}

	events, err := store.Range(ctx, base.Add(-time.Minute), base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gall", "history.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, path)
}
