package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarewrighter/scan3data/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestRunLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)

	run, err := store.CreateRun(ctx, "set-1", "/data/set-1")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	result := &model.RunResult{
		Artifacts:  10,
		Processed:  9,
		Skipped:    1,
		Extracted:  8,
		Corrected:  4,
		DurationMS: 1234,
	}
	require.NoError(t, store.CompleteRun(ctx, run.ID, result))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.ScanSetID("set-1"), got.ScanSetID)
	assert.Equal(t, "/data/set-1", got.Dir)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, *result, *got.Result)
}

func TestFailRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)

	run, err := store.CreateRun(ctx, "set-2", "/data/set-2")
	require.NoError(t, err)

	result := &model.RunResult{Artifacts: 3, Error: "artifact list unwritable"}
	require.NoError(t, store.FailRun(ctx, run.ID, result))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	require.NotNil(t, runs[0].Result)
	assert.Equal(t, "artifact list unwritable", runs[0].Result.Error)
}

func TestFinishUnknownRun(t *testing.T) {
	t.Parallel()
	store := openStore(t)

	err := store.CompleteRun(context.Background(), "no-such-run", &model.RunResult{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "not found")
}

func TestListRunsLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.CreateRun(ctx, "set", "/data/set")
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	// Zero limit falls back to the default.
	runs, err = store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()
	store := openStore(t)

	require.NoError(t, store.Migrate(context.Background()))
}
