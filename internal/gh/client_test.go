package gh

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("SimplifyJobs", "Summer2026-Internships", "tok-123")
	c.APIBase = srv.URL
	c.RawBase = srv.URL
	return c
}

func TestListCommits(t *testing.T) {
	var gotReq *http.Request
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		fmt.Fprint(w, `[
			{"sha":"aaa","commit":{"committer":{"date":"2026-08-28T10:00:00Z"}}},
			{"sha":"bbb","commit":{"committer":{"date":"2026-08-27T10:00:00Z"}}}
		]`)
	}))

	commits, err := c.ListCommits(context.Background(), "dev", time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "aaa", commits[0].SHA)
	assert.Equal(t, 2026, commits[0].CommittedAt.Year())
	assert.True(t, commits[0].CommittedAt.After(commits[1].CommittedAt))

	require.NotNil(t, gotReq)
	assert.Equal(t, "/repos/SimplifyJobs/Summer2026-Internships/commits", gotReq.URL.Path)
	assert.Equal(t, "dev", gotReq.URL.Query().Get("sha"))
	assert.Equal(t, "2", gotReq.URL.Query().Get("per_page"))
	assert.Empty(t, gotReq.URL.Query().Get("since"))
	assert.Equal(t, "Bearer tok-123", gotReq.Header.Get("Authorization"))
}

func TestListCommitsSince(t *testing.T) {
	var since string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		since = r.URL.Query().Get("since")
		fmt.Fprint(w, `[]`)
	}))

	cut := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	commits, err := c.ListCommits(context.Background(), "dev", cut, 10)
	require.NoError(t, err)
	assert.Empty(t, commits)
	assert.Equal(t, "2026-08-27T12:00:00Z", since)
}

func TestFetchDocument(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/SimplifyJobs/Summer2026-Internships/aaa/README.md", r.URL.Path)
		fmt.Fprint(w, "# README\n<table></table>")
	}))

	doc, err := c.FetchDocument(context.Background(), "aaa")
	require.NoError(t, err)
	assert.Contains(t, doc, "<table>")
}

func TestNon2xxIsFatal(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := c.FetchDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	_, err = c.ListCommits(context.Background(), "gone", time.Time{}, 2)
	require.Error(t, err)
}
