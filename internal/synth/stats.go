// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"sort"
	"time"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// TopOrganizations is the length of Statistics.TopOrganizations.
const TopOrganizations = 5

// ComputeStatistics derives the corpus figures. It never calls out and
// never fails. Organizations tied on count keep first-seen order.
func ComputeStatistics(docs []types.Document) types.Statistics {
	st := types.Statistics{Total: len(docs), TopOrganizations: []types.OrgCount{}}

	counts := make(map[string]int)
	var order []string
	for _, d := range docs {
		switch d.Kind {
		case types.KindPatent:
			st.Patents++
		case types.KindPaper:
			st.Papers++
		}
		if !d.Date.IsZero() {
			if st.Earliest.IsZero() || d.Date.Before(st.Earliest) {
				st.Earliest = d.Date
			}
			if d.Date.After(st.Latest) {
				st.Latest = d.Date
			}
		}
		if _, ok := counts[d.Organization]; !ok {
			order = append(order, d.Organization)
		}
		counts[d.Organization]++
	}

	orgs := make([]types.OrgCount, len(order))
	for i, name := range order {
		orgs[i] = types.OrgCount{Name: name, Count: counts[name]}
	}
	sort.SliceStable(orgs, func(i, j int) bool { return orgs[i].Count > orgs[j].Count })
	if len(orgs) > TopOrganizations {
		orgs = orgs[:TopOrganizations]
	}
	st.TopOrganizations = append(st.TopOrganizations, orgs...)
	return st
}

// dateSpan renders the corpus date range, or "N/A" when nothing is dated.
func dateSpan(st types.Statistics) string {
	if st.Earliest.IsZero() {
		return "N/A"
	}
	return st.Earliest.Format(time.DateOnly) + " to " + st.Latest.Format(time.DateOnly)
}

func orgNames(orgs []types.OrgCount, n int) []string {
	names := make([]string, 0, min(n, len(orgs)))
	for _, o := range orgs[:min(n, len(orgs))] {
		names = append(names, o.Name)
	}
	return names
}
