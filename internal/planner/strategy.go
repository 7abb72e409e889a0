// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"fmt"
	"strings"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// Strategies are human-readable catalogue queries derived from a spec.
// They are reported alongside results so a researcher can rerun a search
// by hand.
type Strategies struct {
	Patents string `json:"patents" yaml:"patents"`
	Papers  string `json:"papers" yaml:"papers"`
}

// BuildStrategies renders a Google-Patents style boolean query and an arXiv
// query for spec.
func BuildStrategies(spec types.SearchSpec) Strategies {
	var patent []string
	if len(spec.Keywords) > 0 {
		patent = append(patent, "("+joinQuoted(spec.Keywords, " OR ", "")+")")
	}
	if len(spec.IPCCodes) > 0 {
		patent = append(patent, "("+joinQuoted(spec.IPCCodes, " OR ", "cpc:")+")")
	}
	if len(spec.Organizations) > 0 {
		patent = append(patent, "("+joinQuoted(spec.Organizations, " OR ", "assignee:")+")")
	}
	if spec.DateRange.Valid() {
		patent = append(patent, fmt.Sprintf("publication_date:[%s TO %s]",
			spec.DateRange.Start.Format("2006-01-02"), spec.DateRange.End.Format("2006-01-02")))
	}

	papers := joinQuoted(spec.Keywords, " AND ", "")
	if cats := spec.Categories; len(cats) > 0 {
		filter := make([]string, len(cats))
		for i, c := range cats {
			filter[i] = "cat:" + c
		}
		papers = fmt.Sprintf("(%s) AND (%s)", papers, strings.Join(filter, " OR "))
	}

	return Strategies{Patents: strings.Join(patent, " AND "), Papers: papers}
}

func joinQuoted(values []string, sep, prefix string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf(`%s"%s"`, prefix, v)
	}
	return strings.Join(quoted, sep)
}
