package diff

import "internwatch/internal/domain"

// Rows returns every row of current whose identity key does not appear
// in previous, preserving current's order. A row whose non-key columns
// changed between revisions is not "new".
func Rows(current, previous []domain.Row) []domain.Row {
	prev := make(map[domain.Key]struct{}, len(previous))
	for _, r := range previous {
		prev[r.Key()] = struct{}{}
	}

	var out []domain.Row
	for _, r := range current {
		if _, ok := prev[r.Key()]; !ok {
			out = append(out, r)
		}
	}
	return out
}
