package revision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internwatch/internal/gh"
)

type fakeLister struct {
	commits []gh.Commit
	err     error
}

func (f fakeLister) ListCommits(_ context.Context, _ string, _ time.Time, limit int) ([]gh.Commit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.commits) > limit {
		return f.commits[:limit], nil
	}
	return f.commits, nil
}

func history(ages ...time.Duration) fakeLister {
	now := time.Now()
	commits := make([]gh.Commit, 0, len(ages))
	for i, age := range ages {
		commits = append(commits, gh.Commit{
			SHA:         string(rune('a' + i)),
			CommittedAt: now.Add(-age),
		})
	}
	return fakeLister{commits: commits}
}

func TestLatestTwo(t *testing.T) {
	sel, err := LatestTwo{}.Select(context.Background(), history(time.Hour, 2*time.Hour), "dev")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Current())
	assert.Equal(t, "b", sel.Previous())
}

func TestLatestTwoSingleRevision(t *testing.T) {
	sel, err := LatestTwo{}.Select(context.Background(), history(time.Hour), "dev")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Current())
	assert.Empty(t, sel.Previous())
}

func TestEmptyHistoryFails(t *testing.T) {
	strategies := []Strategy{
		LatestTwo{},
		Window{Lookback: 24 * time.Hour},
		Marker{SHA: "abc"},
	}
	for _, s := range strategies {
		_, err := s.Select(context.Background(), fakeLister{}, "dev")
		assert.ErrorIs(t, err, ErrNoRevisions)
	}
}

func TestWindowPreviousIsFirstOutside(t *testing.T) {
	// a,b inside the 24h window; c is the revision immediately
	// preceding the oldest inside, so it becomes the baseline.
	lister := history(time.Hour, 3*time.Hour, 30*time.Hour, 48*time.Hour)

	sel, err := Window{Lookback: 24 * time.Hour}.Select(context.Background(), lister, "dev")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Current())
	assert.Equal(t, "c", sel.Previous())
	assert.Equal(t, []string{"a", "b", "c"}, sel.Revisions)
}

func TestWindowNothingNew(t *testing.T) {
	// Every commit is older than the window: baseline equals head so
	// the diff is empty rather than the whole table being "new".
	lister := history(30*time.Hour, 40*time.Hour)

	sel, err := Window{Lookback: 24 * time.Hour}.Select(context.Background(), lister, "dev")
	require.NoError(t, err)
	assert.Equal(t, sel.Current(), sel.Previous())
}

func TestWindowWholePageInside(t *testing.T) {
	// Listing limit reached while still inside the window: degrade to
	// the oldest listed revision.
	lister := history(time.Hour, 2*time.Hour, 3*time.Hour)

	sel, err := Window{Lookback: 24 * time.Hour}.Select(context.Background(), lister, "dev")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Current())
	assert.Equal(t, "c", sel.Previous())
}

func TestMarkerFound(t *testing.T) {
	lister := history(time.Hour, 2*time.Hour, 3*time.Hour, 4*time.Hour)

	sel, err := Marker{SHA: "c"}.Select(context.Background(), lister, "dev")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Current())
	assert.Equal(t, "c", sel.Previous())
	assert.Equal(t, []string{"a", "b", "c"}, sel.Revisions)
}

func TestMarkerAtHead(t *testing.T) {
	lister := history(time.Hour, 2*time.Hour)

	sel, err := Marker{SHA: "a"}.Select(context.Background(), lister, "dev")
	require.NoError(t, err)
	assert.Equal(t, sel.Current(), sel.Previous())
}

func TestMarkerStaleDegrades(t *testing.T) {
	// Marker no longer in the listing: baseline falls back to the
	// oldest listed revision rather than failing the run.
	lister := history(time.Hour, 2*time.Hour, 3*time.Hour)

	sel, err := Marker{SHA: "zzz"}.Select(context.Background(), lister, "dev")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Current())
	assert.Equal(t, "c", sel.Previous())
}

func TestMarkerAbsentActsLikeLatestTwo(t *testing.T) {
	lister := history(time.Hour, 2*time.Hour, 3*time.Hour)

	sel, err := Marker{}.Select(context.Background(), lister, "dev")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Current())
	assert.Equal(t, "b", sel.Previous())
}
