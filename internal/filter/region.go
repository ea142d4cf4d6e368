package filter

import (
	"strings"
	"unicode"
)

// Region is the built-in location heuristic: region-name tokens match
// as case-insensitive substrings, short codes match as whole words with
// the casing given. The same rule classifies rows for reporting,
// independent of whatever allowlist is filtering.
type Region struct {
	Tokens []string
	Codes  []string
}

func (r Region) Matches(location string) bool {
	low := strings.ToLower(location)
	for _, t := range r.Tokens {
		if t == "" {
			continue
		}
		if strings.Contains(low, strings.ToLower(t)) {
			return true
		}
	}
	for _, c := range r.Codes {
		if c == "" {
			continue
		}
		if containsWord(location, c) {
			return true
		}
	}
	return false
}

// containsWord reports whether w occurs in s bounded by non-word
// characters, so "ON" hits "Toronto, ON" but not "London".
func containsWord(s, w string) bool {
	for i := 0; i+len(w) <= len(s); {
		j := strings.Index(s[i:], w)
		if j < 0 {
			return false
		}
		j += i
		before := j == 0 || !isWordChar(rune(s[j-1]))
		after := j+len(w) == len(s) || !isWordChar(rune(s[j+len(w)]))
		if before && after {
			return true
		}
		i = j + 1
	}
	return false
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
