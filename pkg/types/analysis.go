// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EdgeCitation is the only edge type the graph builder emits.
const EdgeCitation = "citation"

// GraphNode is one document in the citation graph.
type GraphNode struct {
	ID           string    `json:"id" yaml:"id"`
	Kind         Kind      `json:"kind" yaml:"kind"`
	Title        string    `json:"title" yaml:"title"`
	Organization string    `json:"organization" yaml:"organization"`
	Date         time.Time `json:"date" yaml:"date"`
}

// Key returns the node key, matching Document.Key.
func (n GraphNode) Key() string {
	return string(n.Kind) + ":" + n.ID
}

// Edge points from a later document to an earlier one it is assumed to cite.
// Source and Target are document keys.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type" yaml:"type"`
}

// CitationGraph is a directed acyclic graph over the corpus. For every edge,
// the source sorts strictly after the target by date.
type CitationGraph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []Edge      `json:"edges" yaml:"edges"`
}

// KeywordGroup names a technology and the keywords that identify it.
type KeywordGroup struct {
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
}

// TrendPoint is one year of a trend series. 0 < Count <= TotalDocs.
type TrendPoint struct {
	Year      int `json:"year" yaml:"year"`
	Count     int `json:"count" yaml:"count"`
	TotalDocs int `json:"total_docs" yaml:"total_docs"`
}

// TrendSeries is the per-year match count of one keyword group.
type TrendSeries struct {
	Name     string       `json:"name" yaml:"name"`
	Keywords []string     `json:"keywords" yaml:"keywords"`
	Points   []TrendPoint `json:"data" yaml:"data"`
}

// TimelinePoint is the share of a year's documents that match a group.
type TimelinePoint struct {
	Category string  `json:"category" yaml:"category"`
	Year     int     `json:"year" yaml:"year"`
	Count    int     `json:"count" yaml:"count"`
	Share    float64 `json:"percentage" yaml:"percentage"`
}
