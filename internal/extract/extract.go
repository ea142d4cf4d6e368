package extract

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"internwatch/internal/domain"
)

// ErrNoTables means the document contained no table markup at all. The
// caller decides whether that aborts the run; for the current snapshot
// it does.
var ErrNoTables = errors.New("no tables found in document")

const (
	rowCellCount = 5
	headerLabel  = "Company"

	// Positional cell layout of the listing tables.
	cellCompany = 0
	cellRole    = 1
	cellLoc     = 2
	cellApply   = 3
	cellAge     = 4
)

var (
	reBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
	reTag   = regexp.MustCompile(`(?s)<[^>]+>`)
)

// Extractor turns raw README markup into posting rows.
type Extractor struct {
	// BoardDomains rank apply links; a link whose host contains one of
	// these wins over any other link in the application cell.
	BoardDomains []string
}

// Extract returns every well-formed row from every table, in document
// order. Rows with the wrong cell count or a header label in the first
// cell are dropped silently.
func (e Extractor) Extract(doc string) ([]domain.Row, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	tables := d.Find("table")
	if tables.Length() == 0 {
		return nil, ErrNoTables
	}

	var rows []domain.Row
	tables.Each(func(_ int, t *goquery.Selection) {
		t.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if r, ok := e.parseRow(tr); ok {
				rows = append(rows, r)
			}
		})
	})
	return rows, nil
}

func (e Extractor) parseRow(tr *goquery.Selection) (domain.Row, bool) {
	cells := tr.Find("td,th")
	if cells.Length() != rowCellCount {
		return domain.Row{}, false
	}

	vals := make([]string, rowCellCount)
	link := ""
	cells.Each(func(i int, c *goquery.Selection) {
		raw, err := c.Html()
		if err != nil {
			raw = ""
		}
		vals[i] = cleanCell(raw)
		if i == cellApply {
			link = applyLink(c, e.BoardDomains)
		}
	})

	if vals[cellCompany] == headerLabel {
		return domain.Row{}, false
	}

	return domain.Row{
		Company:         vals[cellCompany],
		Role:            vals[cellRole],
		Location:        vals[cellLoc],
		ApplicationText: vals[cellApply],
		ApplicationURL:  link,
		Age:             vals[cellAge],
	}, true
}

// cleanCell normalizes one cell's inner markup. Order matters: line
// breaks become " | " before tags are stripped, entities are decoded
// after tags are gone, and trimming is last.
func cleanCell(raw string) string {
	s := reBreak.ReplaceAllString(raw, " | ")
	s = reTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

// applyLink picks the apply URL from a cell: the first link whose host
// contains a known board domain, else the first link.
func applyLink(c *goquery.Selection, boards []string) string {
	first := ""
	board := ""
	c.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return true
		}
		if first == "" {
			first = href
		}
		if hostContainsAny(href, boards) {
			board = href
			return false
		}
		return true
	})
	if board != "" {
		return board
	}
	return first
}

func hostContainsAny(raw string, boards []string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, b := range boards {
		if b == "" {
			continue
		}
		if strings.Contains(host, strings.ToLower(b)) {
			return true
		}
	}
	return false
}
