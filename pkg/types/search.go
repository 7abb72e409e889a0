// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the icarus research
// pipeline: the search specification produced by the planner, the raw and
// normalized document records, the derived citation graph and trend series,
// and the final research report.
package types

import (
	"strings"
	"time"
)

// SpecSource records which planner path produced a SearchSpec.
type SpecSource string

const (
	// SpecFromLLM means the completion response parsed as structured data.
	SpecFromLLM SpecSource = "llm"
	// SpecFromLLMRegex means the structured parse failed and fields were
	// recovered from the raw response text.
	SpecFromLLMRegex SpecSource = "llm-regex"
	// SpecFromFallback means the heuristic decomposer produced the spec.
	SpecFromFallback SpecSource = "fallback"
)

// DateRange is an inclusive calendar interval.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Valid reports whether both bounds are set and Start is not after End.
func (r DateRange) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.Start.After(r.End)
}

// Contains reports whether t falls inside the range. An unset bound is open.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// SearchSpec is the structured decomposition of a free-text research query.
// Set-valued fields hold distinct values in first-seen order. A SearchSpec is
// read-only once produced; callers that need to modify one take a Clone.
type SearchSpec struct {
	// Keywords are ordered search terms, most significant first.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// IPCCodes are International Patent Classification codes (e.g. "B64G").
	IPCCodes []string `json:"ipc_codes" yaml:"ipc_codes"`

	// Subsystems are technology areas such as "propulsion" or "materials".
	Subsystems []string `json:"subsystems" yaml:"subsystems"`

	// DateRange bounds the publication dates of interest.
	DateRange DateRange `json:"date_range" yaml:"date_range"`

	// Organizations optionally restrict results to named assignees or institutions.
	Organizations []string `json:"organizations" yaml:"organizations"`

	// Categories are paper catalogue categories derived from Subsystems
	// (e.g. "physics.flu-dyn").
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Source records which planner path produced the spec.
	Source SpecSource `json:"source" yaml:"source"`
}

// Clone returns a deep copy of s.
func (s SearchSpec) Clone() SearchSpec {
	out := s
	out.Keywords = append([]string(nil), s.Keywords...)
	out.IPCCodes = append([]string(nil), s.IPCCodes...)
	out.Subsystems = append([]string(nil), s.Subsystems...)
	out.Organizations = append([]string(nil), s.Organizations...)
	out.Categories = append([]string(nil), s.Categories...)
	return out
}

// Filters are caller-supplied constraints applied on top of the planner's
// decomposition. Non-empty fields override the planned values.
type Filters struct {
	// DateRange overrides the implied date range when set.
	DateRange DateRange `json:"date_range" yaml:"date_range"`

	// Organizations restricts results to these assignees or institutions.
	Organizations []string `json:"organizations,omitempty" yaml:"organizations,omitempty"`

	// TechCategories are display names such as "Propulsion" or "Materials".
	// They are lowercased into subsystems.
	TechCategories []string `json:"tech_categories,omitempty" yaml:"tech_categories,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.DateRange.IsZero() && len(f.Organizations) == 0 && len(f.TechCategories) == 0
}

// Distinct returns the non-empty values of in with duplicates removed,
// keeping first-seen order. Comparison ignores case and surrounding space.
func Distinct(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
