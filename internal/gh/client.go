package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"

	userAgent = "internwatch/1.0 (+batch)"
)

// Commit is one revision of the tracked repository, newest-first as
// returned by the commits API.
type Commit struct {
	SHA         string
	CommittedAt time.Time
}

// Client reads the tracked document and its revision history. Retries
// are whatever retryablehttp offers; there is no retry policy above it.
type Client struct {
	Owner string
	Name  string
	Token string

	// Overridable for tests.
	APIBase string
	RawBase string

	hc      *retryablehttp.Client
	limiter *HostLimiter
}

func NewClient(owner, name, token string) *Client {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 2
	hc.Logger = nil
	hc.HTTPClient.Timeout = 30 * time.Second

	return &Client{
		Owner:   owner,
		Name:    name,
		Token:   token,
		APIBase: defaultAPIBase,
		RawBase: defaultRawBase,
		hc:      hc,
		limiter: NewHostLimiter(2.0, 4),
	}
}

// ListCommits returns up to limit commits of branch, newest first. A
// zero since lists unconditionally.
func (c *Client) ListCommits(ctx context.Context, branch string, since time.Time, limit int) ([]Commit, error) {
	q := url.Values{}
	q.Set("sha", branch)
	q.Set("per_page", strconv.Itoa(limit))
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	u := fmt.Sprintf("%s/repos/%s/%s/commits?%s", c.APIBase, c.Owner, c.Name, q.Encode())

	body, err := c.get(ctx, u, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}

	var raw []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Committer struct {
				Date time.Time `json:"date"`
			} `json:"committer"`
		} `json:"commit"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode commits: %w", err)
	}

	out := make([]Commit, 0, len(raw))
	for _, r := range raw {
		out = append(out, Commit{SHA: r.SHA, CommittedAt: r.Commit.Committer.Date})
	}
	return out, nil
}

// FetchDocument returns the raw README text at a revision.
func (c *Client) FetchDocument(ctx context.Context, rev string) (string, error) {
	u := fmt.Sprintf("%s/%s/%s/%s/README.md", c.RawBase, c.Owner, c.Name, rev)
	body, err := c.get(ctx, u, "")
	if err != nil {
		return "", fmt.Errorf("fetch document at %s: %w", shortSHA(rev), err)
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, u, accept string) ([]byte, error) {
	if err := c.limiter.WaitURL(ctx, u); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return io.ReadAll(io.LimitReader(res.Body, 20<<20))
}

func shortSHA(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
