// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Outcome is the result of one adapter invocation.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeTransientFailure Outcome = "transient_failure"
	OutcomePermanentFailure Outcome = "permanent_failure"
)

// AdapterStatus reports how one source adapter fared during collection.
type AdapterStatus struct {
	Adapter  string        `json:"adapter" yaml:"adapter"`
	Kind     Kind          `json:"kind" yaml:"kind"`
	Outcome  Outcome       `json:"outcome" yaml:"outcome"`
	Records  int           `json:"records" yaml:"records"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// OrgCount is an organization and its document count.
type OrgCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Statistics are the deterministic corpus figures the narrative is built on.
type Statistics struct {
	Total            int        `json:"total" yaml:"total"`
	Patents          int        `json:"patents" yaml:"patents"`
	Papers           int        `json:"papers" yaml:"papers"`
	Earliest         time.Time  `json:"earliest,omitempty" yaml:"earliest,omitempty"`
	Latest           time.Time  `json:"latest,omitempty" yaml:"latest,omitempty"`
	TopOrganizations []OrgCount `json:"top_organizations" yaml:"top_organizations"`
}

// NarrativeSource records whether the narrative came from the completion
// backend or the deterministic template.
type NarrativeSource string

const (
	NarrativeLLM      NarrativeSource = "llm"
	NarrativeTemplate NarrativeSource = "template"
	NarrativeNoData   NarrativeSource = "no_data"
)

// Finding is a titled group of findings. Findings keep their order so
// reports render stably.
type Finding struct {
	Topic string   `json:"topic" yaml:"topic"`
	Items []string `json:"items" yaml:"items"`
}

// Narrative is the prose part of a report.
type Narrative struct {
	Summary     string          `json:"executive_summary" yaml:"executive_summary"`
	Methodology string          `json:"methodology" yaml:"methodology"`
	Findings    []Finding       `json:"detailed_findings" yaml:"detailed_findings"`
	Source      NarrativeSource `json:"source" yaml:"source"`
}

// Innovation is a highlighted document with an estimated technology
// readiness level.
type Innovation struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Source      string    `json:"source" yaml:"source"`
	Date        time.Time `json:"date" yaml:"date"`
	TRL         int       `json:"trl" yaml:"trl"`
}

// LandscapeEntry summarizes one assignee's patent holdings.
type LandscapeEntry struct {
	Organization string         `json:"organization" yaml:"organization"`
	Patents      int            `json:"total_patents" yaml:"total_patents"`
	IPCCounts    map[string]int `json:"ipc_counts" yaml:"ipc_counts"`
}

// TechnicalSpecification lists the parameters extracted from one document.
type TechnicalSpecification struct {
	SourceID   string            `json:"source_id" yaml:"source_id"`
	Kind       Kind              `json:"kind" yaml:"kind"`
	Title      string            `json:"title" yaml:"title"`
	Parameters map[string]string `json:"parameters" yaml:"parameters"`
}

// ResearchReport is the final output of one pipeline run.
type ResearchReport struct {
	ID        string     `json:"id" yaml:"id"`
	Query     string     `json:"query" yaml:"query"`
	Spec      SearchSpec `json:"search_spec" yaml:"search_spec"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`

	Narrative      Narrative                `json:"narrative" yaml:"narrative"`
	Statistics     Statistics               `json:"statistics" yaml:"statistics"`
	Innovations    []Innovation             `json:"innovations" yaml:"innovations"`
	Specifications []TechnicalSpecification `json:"specifications,omitempty" yaml:"specifications,omitempty"`
	Landscape      []LandscapeEntry         `json:"patent_landscape,omitempty" yaml:"patent_landscape,omitempty"`

	CitationGraph CitationGraph   `json:"citation_graph" yaml:"citation_graph"`
	Trends        []TrendSeries   `json:"trend_series" yaml:"trend_series"`
	Timeline      []TimelinePoint `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Documents     []Document      `json:"raw_documents" yaml:"raw_documents"`

	// Status has one entry per registered adapter, patents first, each
	// category in registration order.
	Status []AdapterStatus `json:"status" yaml:"status"`

	// Skipped counts records dropped for a missing or unparseable date.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Duplicates counts records dropped because their key was already seen.
	Duplicates int `json:"duplicates" yaml:"duplicates"`
}
