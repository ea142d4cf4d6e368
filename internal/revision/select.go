package revision

import (
	"context"
	"errors"
	"time"

	"internwatch/internal/gh"
)

// ErrNoRevisions means the history provider listed nothing for the
// branch; the run aborts with no side effects.
var ErrNoRevisions = errors.New("no revisions found")

// listLimit bounds how far back one listing call reaches. A marker or
// window older than this degrades to the oldest listed revision; that
// silently drops history beyond the page, a known limitation.
const listLimit = 50

// Lister is the revision-history provider.
type Lister interface {
	ListCommits(ctx context.Context, branch string, since time.Time, limit int) ([]gh.Commit, error)
}

// Selection is an ordered run of revisions, newest first. The head is
// the snapshot to process; the tail is the baseline to diff against.
type Selection struct {
	Revisions []string
}

func (s Selection) Current() string { return s.Revisions[0] }

// Previous returns the baseline revision, or "" when none is known
// (first run against a single-revision history). It may equal Current,
// which means nothing changed since the last run.
func (s Selection) Previous() string {
	if len(s.Revisions) < 2 {
		return ""
	}
	return s.Revisions[len(s.Revisions)-1]
}

// Strategy picks which two revisions to compare. Exactly three exist:
// LatestTwo, Window, and Marker.
type Strategy interface {
	Select(ctx context.Context, lister Lister, branch string) (Selection, error)
}

// LatestTwo compares the newest revision against the one before it.
type LatestTwo struct{}

func (LatestTwo) Select(ctx context.Context, lister Lister, branch string) (Selection, error) {
	commits, err := lister.ListCommits(ctx, branch, time.Time{}, 2)
	if err != nil {
		return Selection{}, err
	}
	if len(commits) == 0 {
		return Selection{}, ErrNoRevisions
	}
	return Selection{Revisions: shas(commits)}, nil
}

// Window compares the newest revision against the one immediately
// preceding the oldest revision inside the lookback.
type Window struct {
	Lookback time.Duration
	Now      func() time.Time // nil means time.Now
}

func (w Window) Select(ctx context.Context, lister Lister, branch string) (Selection, error) {
	commits, err := lister.ListCommits(ctx, branch, time.Time{}, listLimit)
	if err != nil {
		return Selection{}, err
	}
	if len(commits) == 0 {
		return Selection{}, ErrNoRevisions
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	cutoff := now().Add(-w.Lookback)

	k := 0
	for k < len(commits) && commits[k].CommittedAt.After(cutoff) {
		k++
	}

	switch {
	case k == 0:
		// Nothing newer than the window: baseline equals head so the
		// diff comes out empty.
		return Selection{Revisions: []string{commits[0].SHA, commits[0].SHA}}, nil
	case k == len(commits):
		// Whole page is inside the window; degrade to the oldest listed.
		return Selection{Revisions: shas(commits)}, nil
	default:
		return Selection{Revisions: shas(commits[:k+1])}, nil
	}
}

// Marker compares the newest revision against a persisted
// last-processed SHA. A stale marker (not among listed revisions) is
// treated as absent rather than an error.
type Marker struct {
	SHA string // "" means no marker persisted yet
}

func (m Marker) Select(ctx context.Context, lister Lister, branch string) (Selection, error) {
	commits, err := lister.ListCommits(ctx, branch, time.Time{}, listLimit)
	if err != nil {
		return Selection{}, err
	}
	if len(commits) == 0 {
		return Selection{}, ErrNoRevisions
	}

	if m.SHA != "" {
		for i, c := range commits {
			if c.SHA != m.SHA {
				continue
			}
			if i == 0 {
				return Selection{Revisions: []string{commits[0].SHA, commits[0].SHA}}, nil
			}
			return Selection{Revisions: shas(commits[:i+1])}, nil
		}
		// Stale marker: use the oldest listed revision as the baseline,
		// or none when only one revision is known.
		return Selection{Revisions: shas(commits)}, nil
	}

	if len(commits) > 2 {
		commits = commits[:2]
	}
	return Selection{Revisions: shas(commits)}, nil
}

func shas(commits []gh.Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.SHA)
	}
	return out
}
