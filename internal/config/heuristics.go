package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Heuristics are the built-in lists behind the region-match rule and the
// apply-link preference. They ship as data so a deployment can override
// them in a YAML file without code changes.
type Heuristics struct {
	// RegionTokens match case-insensitively as substrings of a location.
	RegionTokens []string `yaml:"region_tokens"`
	// ProvinceCodes match as whole words, case-sensitive as given.
	ProvinceCodes []string `yaml:"province_codes"`
	// BoardDomains rank apply links: a link whose host contains one of
	// these wins over any other link in the same cell.
	BoardDomains []string `yaml:"board_domains"`
}

func DefaultHeuristics() Heuristics {
	return Heuristics{
		RegionTokens: []string{
			"canada",
			"toronto",
			"vancouver",
			"montreal",
			"montréal",
			"ottawa",
			"waterloo",
			"kitchener",
			"calgary",
			"edmonton",
			"mississauga",
			"winnipeg",
			"halifax",
			"victoria",
			"quebec",
		},
		ProvinceCodes: []string{
			"ON", "BC", "QC", "AB", "MB", "SK", "NS", "NB", "NL", "PE", "YT", "NT", "NU",
		},
		BoardDomains: []string{
			"simplify.jobs",
		},
	}
}

// LoadHeuristics reads an override file when path is non-empty. Fields
// left empty in the file keep their built-in values.
func LoadHeuristics(path string) (Heuristics, error) {
	def := DefaultHeuristics()
	if path == "" {
		return def, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("read heuristics file: %w", err)
	}
	var h Heuristics
	if err := yaml.Unmarshal(b, &h); err != nil {
		return def, fmt.Errorf("parse heuristics file %s: %w", path, err)
	}

	if len(h.RegionTokens) == 0 {
		h.RegionTokens = def.RegionTokens
	}
	if len(h.ProvinceCodes) == 0 {
		h.ProvinceCodes = def.ProvinceCodes
	}
	if len(h.BoardDomains) == 0 {
		h.BoardDomains = def.BoardDomains
	}
	return h, nil
}
