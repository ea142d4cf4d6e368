package digest

import (
	"fmt"
	"html"
	"strings"

	"internwatch/internal/domain"
	"internwatch/internal/filter"
)

const emptyStateLine = "No new matching jobs today."

// Stats partitions the unfiltered new-row set by the fixed region
// heuristic. RegionMatch+Other always equals Total.
type Stats struct {
	Total       int
	RegionMatch int
	Other       int
}

// Compute classifies rows for reporting. This uses the built-in
// heuristic regardless of the active filter configuration.
func Compute(rows []domain.Row, region filter.Region) Stats {
	s := Stats{Total: len(rows)}
	for _, r := range rows {
		if region.Matches(r.Location) {
			s.RegionMatch++
		} else {
			s.Other++
		}
	}
	return s
}

func (s Stats) summary() string {
	return fmt.Sprintf("%d new posting(s): %d in Canada, %d elsewhere.",
		s.Total, s.RegionMatch, s.Other)
}

// Subject builds the digest subject line from the filtered count.
func Subject(matched int) string {
	return fmt.Sprintf("Summer 2026 internships digest (new: %d)", matched)
}

// PlainText renders the summary line plus one line per filtered row,
// with the bare apply URL appended when one exists. An empty filtered
// set still renders the summary followed by an explicit empty-state
// sentence, never an empty body.
func PlainText(stats Stats, rows []domain.Row) string {
	lines := []string{stats.summary()}
	if len(rows) == 0 {
		lines = append(lines, emptyStateLine)
		return strings.Join(lines, "\n")
	}
	for _, r := range rows {
		line := fmt.Sprintf("%s — %s — %s", r.Company, r.Role, r.Location)
		if r.ApplicationURL != "" {
			line += " — " + r.ApplicationURL
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// HTML renders a minimal document. Every user-sourced string is
// escaped, including hrefs.
func HTML(stats Stats, rows []domain.Row) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><body>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(stats.summary()))

	if len(rows) == 0 {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(emptyStateLine))
	} else {
		b.WriteString("<ul>\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "<li><strong>%s</strong> — %s — %s",
				html.EscapeString(r.Company),
				html.EscapeString(r.Role),
				html.EscapeString(r.Location))
			if r.ApplicationURL != "" {
				fmt.Fprintf(&b,
					` <a href="%s" style="padding:2px 8px;background:#1a7f37;color:#fff;border-radius:4px;text-decoration:none">Apply</a>`,
					html.EscapeString(r.ApplicationURL))
			}
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("</body></html>\n")
	return b.String()
}
