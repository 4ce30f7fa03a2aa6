package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartAndFinishRun(t *testing.T) {
	store := newTestStore(t)
	started := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	run := &Run{SearchQuery: "dance", SkipPercent: 12, MaxVideos: 20, StartedAt: started}
	require.NoError(t, store.StartRun(run))
	assert.NotZero(t, run.ID)
	assert.Equal(t, RunStatusInProgress, run.Status)

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "dance", got.SearchQuery)
	assert.Equal(t, RunStatusInProgress, got.Status)
	assert.Nil(t, got.FinishedAt)

	finished := started.Add(10 * time.Minute)
	run.Status = RunStatusCompleted
	run.Total, run.Watched, run.Skipped, run.Failed = 20, 18, 2, 1
	run.FinishedAt = &finished
	require.NoError(t, store.FinishRun(run))

	got, err = store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, 20, got.Total)
	assert.Equal(t, 18, got.Watched)
	assert.Equal(t, 2, got.Skipped)
	assert.Equal(t, 1, got.Failed)
	assert.Empty(t, got.ErrorMessage)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, finished.Unix(), got.FinishedAt.Unix())
	assert.Equal(t, started.Unix(), got.StartedAt.Unix())
}

func TestFinishRunKeepsErrorMessage(t *testing.T) {
	store := newTestStore(t)

	run := &Run{SearchQuery: "cats", SkipPercent: 0, MaxVideos: 5}
	require.NoError(t, store.StartRun(run))

	run.Status = RunStatusNoResults
	run.ErrorMessage = "search results did not load"
	require.NoError(t, store.FinishRun(run))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusNoResults, got.Status)
	assert.Equal(t, "search results did not load", got.ErrorMessage)
}

func TestFinishUnknownRun(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.FinishRun(&Run{}), ErrRunNotFound)
	assert.ErrorIs(t, store.FinishRun(&Run{ID: 42, Status: RunStatusFailed}), ErrRunNotFound)

	_, err := store.GetRun(42)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestDailyStatsAccumulate(t *testing.T) {
	store := newTestStore(t)
	day := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	for i, counts := range [][3]int{{10, 2, 0}, {5, 5, 1}} {
		run := &Run{SearchQuery: "dance", MaxVideos: 20, StartedAt: day.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, store.StartRun(run))
		run.Status = RunStatusCompleted
		run.Watched, run.Skipped, run.Failed = counts[0], counts[1], counts[2]
		run.Total = run.Watched + run.Skipped
		require.NoError(t, store.FinishRun(run))
	}

	stats, err := store.GetDailyStats(day)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", stats.Date)
	assert.Equal(t, 2, stats.Runs)
	assert.Equal(t, 15, stats.VideosWatched)
	assert.Equal(t, 7, stats.VideosSkipped)
	assert.Equal(t, 1, stats.VideosFailed)
}

func TestDailyStatsEmptyDay(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.GetDailyStats(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", stats.Date)
	assert.Zero(t, stats.Runs)
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	for i, q := range []string{"first", "second", "third"} {
		run := &Run{SearchQuery: q, StartedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.StartRun(run))
	}

	runs, err := store.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third", runs[0].SearchQuery)
	assert.Equal(t, "second", runs[1].SearchQuery)

	all, err := store.RecentRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.StartRun(&Run{SearchQuery: "dance"}))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "dance", runs[0].SearchQuery)
}
