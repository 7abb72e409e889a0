// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps tagged raw records into canonical documents,
// drops duplicates and undated records, and attaches heuristically
// extracted engineering parameters.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/charmbracelet/log"

	"github.com/ashr-exe/icarus-insight/internal/logging"
	"github.com/ashr-exe/icarus-insight/internal/source"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// UnknownOrganization is used when a record names no assignee or author.
const UnknownOrganization = "Unknown"

// ErrContractViolation is the adapter contract error. Normalize wraps it
// for records whose payload does not match their kind tag.
var ErrContractViolation = source.ErrContractViolation

// Skip records a raw record dropped for lacking a usable date.
type Skip struct {
	Key    string `json:"key" yaml:"key"`
	Source string `json:"source" yaml:"source"`
	Reason string `json:"reason" yaml:"reason"`
}

// Corpus is the normalized output of one run.
type Corpus struct {
	Documents  []types.Document
	Skipped    []Skip
	Duplicates int
}

// Normalizer converts raw records. The zero value uses the default
// parameter vocabulary and discards logs.
type Normalizer struct {
	Extractor *Extractor
	Logger    *log.Logger
}

// Normalize converts records using a default Normalizer.
func Normalize(records []types.RawRecord) (Corpus, error) {
	return (&Normalizer{}).Normalize(records)
}

// Normalize converts records in order. The first record with a given
// kind:id key wins, so callers that pass records in adapter registration
// order get registration-order tie breaking. A record that breaks the kind
// contract aborts with an error wrapping ErrContractViolation.
func (n *Normalizer) Normalize(records []types.RawRecord) (Corpus, error) {
	logger := logging.OrDiscard(n.Logger)
	ex := n.Extractor
	if ex == nil {
		ex = DefaultExtractor()
	}

	var c Corpus
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		doc, rawDate, err := convert(r)
		if err != nil {
			return Corpus{}, fmt.Errorf("record %d from %q: %w", i, r.Source, err)
		}
		key := doc.Key()
		if seen[key] {
			c.Duplicates++
			continue
		}

		d, err := ParseDate(rawDate)
		if err != nil {
			c.Skipped = append(c.Skipped, Skip{Key: key, Source: r.Source, Reason: err.Error()})
			logger.Debug("skipping record", "key", key, "source", r.Source, "reason", err)
			continue
		}
		seen[key] = true

		doc.Date = d
		doc.Parameters = ex.Extract(doc.Text())
		c.Documents = append(c.Documents, doc)
	}

	if len(c.Skipped) > 0 || c.Duplicates > 0 {
		logger.Info("normalized records",
			"documents", len(c.Documents), "skipped", len(c.Skipped), "duplicates", c.Duplicates)
	}
	return c, nil
}

// convert maps r by its kind tag and returns the raw date string alongside.
func convert(r types.RawRecord) (types.Document, string, error) {
	switch r.Kind {
	case types.KindPatent:
		if r.Patent == nil || r.Paper != nil {
			return types.Document{}, "", fmt.Errorf("%w: patent record without exactly a patent payload", ErrContractViolation)
		}
		p := r.Patent
		if p.ID == "" {
			return types.Document{}, "", fmt.Errorf("%w: patent record without id", ErrContractViolation)
		}
		return types.Document{
			ID:            p.ID,
			Kind:          types.KindPatent,
			Title:         p.Title,
			Abstract:      p.Abstract,
			Organization:  orUnknown(p.Assignee),
			CitationCount: p.CitationCount,
			Source:        r.Source,
			IPCCodes:      append([]string(nil), p.IPCCodes...),
			URL:           p.URL,
		}, p.PublicationDate, nil

	case types.KindPaper:
		if r.Paper == nil || r.Patent != nil {
			return types.Document{}, "", fmt.Errorf("%w: paper record without exactly a paper payload", ErrContractViolation)
		}
		p := r.Paper
		if p.ID == "" {
			return types.Document{}, "", fmt.Errorf("%w: paper record without id", ErrContractViolation)
		}
		org := ""
		if len(p.Authors) > 0 {
			org = p.Authors[0]
		}
		return types.Document{
			ID:            p.ID,
			Kind:          types.KindPaper,
			Title:         p.Title,
			Abstract:      p.Summary,
			Organization:  orUnknown(org),
			CitationCount: p.CitationCount,
			Source:        r.Source,
			Category:      p.Category,
			URL:           p.URL,
		}, p.Published, nil

	default:
		return types.Document{}, "", fmt.Errorf("%w: unknown kind %q", ErrContractViolation, r.Kind)
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return UnknownOrganization
	}
	return s
}

var isoLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01", "2006"}

// ParseDate parses a catalogue date and truncates it to a UTC calendar day.
// ISO forms are tried first, then dateparse for everything else.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	return day(t), nil
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Specifications lists the extracted parameters of every document that
// has an abstract.
func Specifications(docs []types.Document) []types.TechnicalSpecification {
	var out []types.TechnicalSpecification
	for _, d := range docs {
		if strings.TrimSpace(d.Abstract) == "" {
			continue
		}
		params := make(map[string]string, len(d.Parameters))
		for k, v := range d.Parameters {
			params[k] = v
		}
		title := d.Title
		if title == "" {
			title = "Untitled"
		}
		out = append(out, types.TechnicalSpecification{
			SourceID:   d.ID,
			Kind:       d.Kind,
			Title:      title,
			Parameters: params,
		})
	}
	return out
}
