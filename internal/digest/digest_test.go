package digest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internwatch/internal/domain"
	"internwatch/internal/filter"
)

func testRegion() filter.Region {
	return filter.Region{
		Tokens: []string{"canada", "toronto"},
		Codes:  []string{"ON", "BC"},
	}
}

func TestComputePartition(t *testing.T) {
	rows := []domain.Row{
		{Company: "Acme", Location: "Toronto, ON"},
		{Company: "Beta", Location: "Remote (US)"},
		{Company: "Gamma", Location: "Vancouver, BC"},
		{Company: "Delta", Location: "Berlin"},
	}

	s := Compute(rows, testRegion())
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.RegionMatch)
	assert.Equal(t, 2, s.Other)
	assert.Equal(t, s.Total, s.RegionMatch+s.Other)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, testRegion())
	assert.Zero(t, s.Total)
	assert.Equal(t, s.Total, s.RegionMatch+s.Other)
}

func TestPlainTextRows(t *testing.T) {
	stats := Stats{Total: 2, RegionMatch: 1, Other: 1}
	rows := []domain.Row{
		{Company: "Acme", Role: "SWE Intern", Location: "Toronto, ON", ApplicationURL: "https://simplify.jobs/p/1"},
		{Company: "Beta", Role: "SRE Intern", Location: "Remote (Canada)"},
	}

	got := PlainText(stats, rows)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2 new posting(s): 1 in Canada, 1 elsewhere.", lines[0])
	assert.Equal(t, "Acme — SWE Intern — Toronto, ON — https://simplify.jobs/p/1", lines[1])
	assert.Equal(t, "Beta — SRE Intern — Remote (Canada)", lines[2])
}

func TestPlainTextEmptyStateKeepsSummary(t *testing.T) {
	// Filtering a non-empty diff down to zero still renders the stats
	// line, never an empty body.
	stats := Stats{Total: 3, RegionMatch: 0, Other: 3}

	got := PlainText(stats, nil)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "3 new posting(s)")
	assert.Equal(t, "No new matching jobs today.", lines[1])
}

func TestHTMLEscapesUserText(t *testing.T) {
	stats := Stats{Total: 1, RegionMatch: 1}
	rows := []domain.Row{{
		Company:        `<script>alert("x")</script>`,
		Role:           "R&D Intern",
		Location:       "Toronto, ON",
		ApplicationURL: `https://example.com/apply?a=1&b="2"`,
	}}

	got := HTML(stats, rows)
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
	assert.Contains(t, got, "R&amp;D Intern")
	assert.Contains(t, got, `href="https://example.com/apply?a=1&amp;b=&#34;2&#34;"`)
}

func TestHTMLEmptyState(t *testing.T) {
	got := HTML(Stats{Total: 2, Other: 2}, nil)
	assert.Contains(t, got, "No new matching jobs today.")
	assert.NotContains(t, got, "<ul>")
}

func TestHTMLApplyButtonOnlyWithLink(t *testing.T) {
	stats := Stats{Total: 2, RegionMatch: 2}
	rows := []domain.Row{
		{Company: "Acme", Role: "SWE", Location: "Toronto, ON", ApplicationURL: "https://x.example"},
		{Company: "Beta", Role: "SRE", Location: "Ottawa, ON"},
	}

	got := HTML(stats, rows)
	assert.Equal(t, 1, strings.Count(got, ">Apply</a>"))
	assert.Contains(t, got, "<strong>Acme</strong>")
	assert.Contains(t, got, "<strong>Beta</strong>")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Summer 2026 internships digest (new: 4)", Subject(4))
}
