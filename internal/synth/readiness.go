// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

const (
	maxTRL            = 9
	descriptionLength = 300
)

// DefaultRecencyThreshold is the date from which documents earn the
// readiness recency bonus.
var DefaultRecencyThreshold = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// TRL estimates a technology readiness level: 5 for a patent or 3 for a
// paper, plus one per five citations up to two, plus one when the document
// is dated on or after threshold, capped at 9.
func TRL(d types.Document, threshold time.Time) int {
	trl := 3
	if d.Kind == types.KindPatent {
		trl = 5
	}
	trl += min(2, max(0, d.CitationCount)/5)
	if !d.Date.IsZero() && !d.Date.Before(threshold) {
		trl++
	}
	return min(maxTRL, trl)
}

// Innovations highlights the n most cited documents, newest first among
// equals.
func Innovations(docs []types.Document, n int, threshold time.Time) []types.Innovation {
	ranked := append([]types.Document(nil), docs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CitationCount != ranked[j].CitationCount {
			return ranked[i].CitationCount > ranked[j].CitationCount
		}
		return ranked[i].Date.After(ranked[j].Date)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]types.Innovation, 0, len(ranked))
	for _, d := range ranked {
		title := d.Title
		if title == "" {
			title = "Untitled"
		}
		out = append(out, types.Innovation{
			Title:       title,
			Description: truncate(d.Abstract),
			Source:      innovationSource(d),
			Date:        d.Date,
			TRL:         TRL(d, threshold),
		})
	}
	return out
}

func innovationSource(d types.Document) string {
	if d.Kind == types.KindPatent {
		return d.ID + " (" + d.Organization + ")"
	}
	return d.ID + " (Research Paper)"
}

// truncate cuts s to 300 characters and marks the cut.
func truncate(s string) string {
	if s == "" {
		return "No description available"
	}
	if utf8.RuneCountInString(s) <= descriptionLength {
		return s
	}
	return string([]rune(s)[:descriptionLength]) + "..."
}

// Landscape summarizes patent holdings per assignee, largest first and
// first-seen order among equals.
func Landscape(docs []types.Document) []types.LandscapeEntry {
	index := make(map[string]int)
	var out []types.LandscapeEntry
	for _, d := range docs {
		if d.Kind != types.KindPatent {
			continue
		}
		i, ok := index[d.Organization]
		if !ok {
			i = len(out)
			index[d.Organization] = i
			out = append(out, types.LandscapeEntry{Organization: d.Organization, IPCCounts: map[string]int{}})
		}
		out[i].Patents++
		for _, code := range d.IPCCodes {
			out[i].IPCCounts[code]++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Patents > out[j].Patents })
	return out
}
