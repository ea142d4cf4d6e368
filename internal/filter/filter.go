package filter

import (
	"strings"

	"internwatch/internal/domain"
)

// Config drives the three row predicates: location, then include
// keywords, then exclude keywords. A nil/empty list disables its
// predicate; normalization upstream already dropped blank entries.
type Config struct {
	LocationEnabled bool
	LocationsAllow  []string // explicit allowlist; empty falls back to Region
	Include         []string
	Exclude         []string
	Region          Region
}

// Keep applies the predicates in sequence, short-circuiting per row on
// the first failure. Input order is preserved.
func Keep(rows []domain.Row, cfg Config) []domain.Row {
	var out []domain.Row
	for _, r := range rows {
		if !passesLocation(cfg, r) {
			continue
		}
		title := strings.ToLower(r.Company + " " + r.Role)
		if len(cfg.Include) > 0 && !containsAnyCI(title, cfg.Include) {
			continue
		}
		if len(cfg.Exclude) > 0 && containsAnyCI(title, cfg.Exclude) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func passesLocation(cfg Config, r domain.Row) bool {
	if !cfg.LocationEnabled {
		return true
	}
	if len(cfg.LocationsAllow) > 0 {
		return containsAnyCI(strings.ToLower(r.Location), cfg.LocationsAllow)
	}
	return cfg.Region.Matches(r.Location)
}

// containsAnyCI reports whether the lower-cased haystack contains any
// needle, lower-cased. Blank needles never match.
func containsAnyCI(hay string, needles []string) bool {
	for _, n := range needles {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if strings.Contains(hay, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
