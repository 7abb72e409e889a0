// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Kind tags a record as a patent or a paper. The tag is authoritative;
// downstream stages never infer kind from record shape.
type Kind string

const (
	KindPatent Kind = "patent"
	KindPaper  Kind = "paper"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindPatent || k == KindPaper
}

// PatentFields is the catalogue payload of a patent record. Dates are kept
// as the catalogue reported them; the normalizer parses them.
type PatentFields struct {
	ID              string   `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	Abstract        string   `json:"abstract" yaml:"abstract"`
	Assignee        string   `json:"assignee" yaml:"assignee"`
	Inventors       []string `json:"inventors,omitempty" yaml:"inventors,omitempty"`
	IPCCodes        []string `json:"ipc_codes,omitempty" yaml:"ipc_codes,omitempty"`
	PublicationDate string   `json:"publication_date" yaml:"publication_date"`
	FilingDate      string   `json:"filing_date,omitempty" yaml:"filing_date,omitempty"`
	ClaimsCount     int      `json:"claims_count,omitempty" yaml:"claims_count,omitempty"`
	CitationCount   int      `json:"citation_count" yaml:"citation_count"`
	URL             string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// PaperFields is the catalogue payload of a paper record.
type PaperFields struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Summary       string   `json:"summary" yaml:"summary"`
	Authors       []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Category      string   `json:"category,omitempty" yaml:"category,omitempty"`
	Published     string   `json:"published" yaml:"published"`
	Updated       string   `json:"updated,omitempty" yaml:"updated,omitempty"`
	CitationCount int      `json:"citation_count" yaml:"citation_count"`
	URL           string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// RawRecord is a catalogue result tagged with its kind. Exactly one payload
// is set and it must match Kind.
type RawRecord struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Source names the adapter that produced the record.
	Source string `json:"source" yaml:"source"`

	Patent *PatentFields `json:"patent,omitempty" yaml:"patent,omitempty"`
	Paper  *PaperFields  `json:"paper,omitempty" yaml:"paper,omitempty"`
}

// PatentRecord wraps a patent payload.
func PatentRecord(source string, p PatentFields) RawRecord {
	return RawRecord{Kind: KindPatent, Source: source, Patent: &p}
}

// PaperRecord wraps a paper payload.
func PaperRecord(source string, p PaperFields) RawRecord {
	return RawRecord{Kind: KindPaper, Source: source, Paper: &p}
}

// ID returns the catalogue identifier of whichever payload is set.
func (r RawRecord) ID() string {
	switch {
	case r.Patent != nil:
		return r.Patent.ID
	case r.Paper != nil:
		return r.Paper.ID
	default:
		return ""
	}
}

// Document is the normalized, kind-agnostic form of a record. Documents are
// immutable after the normalizer creates them.
type Document struct {
	// ID is unique within a kind.
	ID string `json:"id" yaml:"id"`

	Kind Kind `json:"kind" yaml:"kind"`

	Title string `json:"title" yaml:"title"`

	// Abstract is the patent abstract or paper summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Organization is the patent assignee or the paper's first author.
	Organization string `json:"organization" yaml:"organization"`

	// Date is the publication date. Always set on a Document.
	Date time.Time `json:"date" yaml:"date"`

	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// Source names the adapter the record came from.
	Source string `json:"source" yaml:"source"`

	IPCCodes []string `json:"ipc_codes,omitempty" yaml:"ipc_codes,omitempty"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`

	// Parameters maps a vocabulary parameter name to its extracted value.
	Parameters map[string]string `json:"extracted_parameters,omitempty" yaml:"extracted_parameters,omitempty"`
}

// Key returns the dedup key of the document: kind and id.
func (d Document) Key() string {
	return string(d.Kind) + ":" + d.ID
}

// Text returns the searchable text of the document.
func (d Document) Text() string {
	return d.Title + " " + d.Abstract
}
