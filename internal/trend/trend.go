// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trend bins documents into per-year counts for named keyword
// groups. Every function here is pure.
package trend

import (
	"math"
	"sort"
	"strings"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// DefaultGroups returns the built-in aerospace technology groups.
func DefaultGroups() []types.KeywordGroup {
	return []types.KeywordGroup{
		{Name: "Electric Propulsion Systems", Keywords: []string{"electric", "propulsion", "ion", "thruster"}},
		{Name: "Advanced Composite Materials", Keywords: []string{"composite", "materials", "carbon", "fiber"}},
		{Name: "Autonomous Navigation", Keywords: []string{"autonomous", "navigation", "unmanned", "drone"}},
		{Name: "Hypersonic Technology", Keywords: []string{"hypersonic", "scramjet", "mach", "high-speed"}},
		{Name: "Reusable Launch Systems", Keywords: []string{"reusable", "landing", "recovery", "return"}},
	}
}

// Analyzer computes trend series over a fixed registry of groups.
type Analyzer struct {
	// Groups are reported in this order. Empty means DefaultGroups.
	Groups []types.KeywordGroup
}

// Analyze returns one series per group that matched at least one document.
// Documents are binned by calendar year and undated documents are left
// out of every series. Within a year a document matches when any of the
// group's keywords occurs in its title or abstract, ignoring case. Years
// without a match are omitted and points are ordered by year.
//
// The result never depends on the order of docs.
func (a Analyzer) Analyze(docs []types.Document) []types.TrendSeries {
	groups := a.Groups
	if len(groups) == 0 {
		groups = DefaultGroups()
	}

	type bin struct {
		total int
		texts []string
	}
	bins := make(map[int]*bin)
	for _, d := range docs {
		if d.Date.IsZero() {
			continue
		}
		y := d.Date.Year()
		b := bins[y]
		if b == nil {
			b = &bin{}
			bins[y] = b
		}
		b.total++
		b.texts = append(b.texts, strings.ToLower(d.Text()))
	}
	years := make([]int, 0, len(bins))
	for y := range bins {
		years = append(years, y)
	}
	sort.Ints(years)

	out := []types.TrendSeries{}
	for _, g := range groups {
		keywords := lowered(g.Keywords)
		var points []types.TrendPoint
		for _, y := range years {
			b := bins[y]
			count := 0
			for _, text := range b.texts {
				if containsAny(text, keywords) {
					count++
				}
			}
			if count > 0 {
				points = append(points, types.TrendPoint{Year: y, Count: count, TotalDocs: b.total})
			}
		}
		if len(points) == 0 {
			continue
		}
		out = append(out, types.TrendSeries{
			Name:     g.Name,
			Keywords: append([]string(nil), g.Keywords...),
			Points:   points,
		})
	}
	return out
}

func lowered(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Timeline flattens series into the share of each year's documents that
// matched each group, as a percentage rounded to one decimal.
func Timeline(series []types.TrendSeries) []types.TimelinePoint {
	var out []types.TimelinePoint
	for _, s := range series {
		for _, p := range s.Points {
			share := 0.0
			if p.TotalDocs > 0 {
				share = math.Round(float64(p.Count)/float64(p.TotalDocs)*1000) / 10
			}
			out = append(out, types.TimelinePoint{
				Category: s.Name,
				Year:     p.Year,
				Count:    p.Count,
				Share:    share,
			})
		}
	}
	return out
}

// Names lists the series names in order.
func Names(series []types.TrendSeries) []string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
	}
	return names
}
