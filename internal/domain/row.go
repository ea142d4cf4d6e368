package domain

import "strings"

// Row is one internship posting extracted from a listing table.
type Row struct {
	Company         string
	Role            string
	Location        string
	ApplicationText string
	ApplicationURL  string
	Age             string
}

// Key identifies a posting across revisions. Two rows with the same
// trimmed company/role/location are the same posting even if the
// application text, link, or age column changed.
type Key struct {
	Company  string
	Role     string
	Location string
}

func (r Row) Key() Key {
	return Key{
		Company:  strings.TrimSpace(r.Company),
		Role:     strings.TrimSpace(r.Role),
		Location: strings.TrimSpace(r.Location),
	}
}
