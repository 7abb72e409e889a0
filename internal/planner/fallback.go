// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"strings"
	"time"
	"unicode"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// Fallback is the heuristic decomposition relative to the current date.
func Fallback(query string) types.SearchSpec {
	return FallbackAt(query, time.Now())
}

// FallbackAt is the heuristic decomposition relative to now, using the
// default classification code and window. It is pure and total: it makes no
// external calls and accepts any string, including the empty one.
func FallbackAt(query string, now time.Time) types.SearchSpec {
	return FallbackWith(query, now, types.PlannerConfig{})
}

// FallbackWith is FallbackAt with configured defaults. Zero fields of cfg
// take the built-in values.
func FallbackWith(query string, now time.Time, cfg types.PlannerConfig) types.SearchSpec {
	ipc := cfg.DefaultIPC
	if ipc == "" {
		ipc = defaultIPC
	}
	years := cfg.WindowYears
	if years <= 0 {
		years = defaultWindowYears
	}
	return types.SearchSpec{
		Keywords:  heuristicKeywords(query),
		IPCCodes:  []string{ipc},
		DateRange: defaultWindow(now, years),
		Source:    types.SpecFromFallback,
	}
}

// heuristicKeywords lowercases the query, splits it on anything that is not
// a letter, digit or hyphen, and keeps up to five distinct tokens longer than
// three characters that are not stop words.
func heuristicKeywords(query string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-')
	})
	seen := make(map[string]bool)
	keywords := []string{}
	for _, tok := range tokens {
		tok = strings.Trim(tok, "-")
		if len([]rune(tok)) < minKeywordLen || stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
		if len(keywords) == MaxFallbackKeywords {
			break
		}
	}
	return keywords
}

// defaultWindow spans the given number of calendar years ending on 31 December
// of now's year.
func defaultWindow(now time.Time, years int) types.DateRange {
	y := now.UTC().Year()
	return types.DateRange{
		Start: time.Date(y-years+1, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}
