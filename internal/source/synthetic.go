// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

var (
	syntheticAssignees = []string{
		"Boeing", "Airbus", "Lockheed Martin", "SpaceX", "NASA",
		"Northrop Grumman", "General Electric Aviation", "Rolls-Royce",
		"Raytheon Technologies", "Safran", "Blue Origin", "United Technologies",
	}
	inventorFirst = []string{"John", "Jane", "Michael", "Sarah", "David", "Lisa", "Robert", "Emily"}
	inventorLast  = []string{"Smith", "Johnson", "Williams", "Jones", "Brown", "Davis", "Miller", "Wilson"}
	authorFirst   = []string{"Wei", "Maria", "Hassan", "Sophie", "Jun", "Alexandra", "Karthik", "Elena"}
	authorLast    = []string{"Zhang", "Rodriguez", "Al-Farsi", "Müller", "Tanaka", "Ivanova", "Patel", "Dubois"}
	arxivCats     = []string{
		"physics.flu-dyn", "cond-mat.mtrl-sci", "cs.RO", "physics.app-ph",
		"eess.SP", "astro-ph.IM", "math.OC", "cs.CV",
	}

	// measurements give synthetic abstracts something for the parameter
	// extractor to find.
	measurements = []string{
		"achieving 42% efficiency",
		"operating at 650 K",
		"delivering 120 N of thrust",
		"drawing 4.5 kW of power",
		"with a mass of 12 kg",
		"spanning 3.2 m",
		"",
	}
)

// Synthetic generates plausible records without network access. Output is
// a pure function of Seed and the criteria.
type Synthetic struct {
	Seed uint64

	// Label overrides the adapter name in status reports.
	Label string
}

// Name returns Label, or "synthetic" when it is empty.
func (s *Synthetic) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return "synthetic"
}

// SearchPatents generates up to MaxResults (default 10) patents.
func (s *Synthetic) SearchPatents(ctx context.Context, c PatentCriteria) ([]types.RawRecord, error) {
	if err := checkRange(s.Name(), c.DateRange); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Transient(s.Name(), err)
	}

	rng := s.rng("patent", c.Keywords, c.IPCCodes, c.Assignees)
	subject := strings.Join(c.Keywords[:min(3, len(c.Keywords))], " ")
	if subject == "" {
		subject = "aerospace innovation"
	}
	ipc := "B64G"
	if len(c.IPCCodes) > 0 {
		ipc = c.IPCCodes[0]
	}
	pub := yearWindow(2010, 2023, c.DateRange)

	n := maxOrDefault(c.MaxResults, 10, 100)
	records := make([]types.RawRecord, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("US%dA1", 10000000+i*111)
		assignee := pick(rng, syntheticAssignees)
		if len(c.Assignees) > 0 {
			assignee = c.Assignees[(i-1)%len(c.Assignees)]
		}
		f := types.PatentFields{
			ID:              id,
			Title:           fmt.Sprintf("Advanced %s System", titleCase(subject)),
			Abstract:        withMeasurement(rng, fmt.Sprintf("A novel system for %s that improves efficiency and performance in aerospace applications", subject)),
			Assignee:        assignee,
			Inventors:       []string{person(rng, inventorFirst, inventorLast), person(rng, inventorFirst, inventorLast)},
			IPCCodes:        []string{ipc},
			PublicationDate: pub.random(rng).Format("2006-01-02"),
			FilingDate:      randomDate(rng, 2005, 2020).Format("2006-01-02"),
			ClaimsCount:     10 + i,
			CitationCount:   i * 3,
			URL:             "https://patents.google.com/patent/" + id + "/en",
		}
		records = append(records, types.PatentRecord(s.Name(), f))
	}
	return records, nil
}

// SearchPapers generates up to MaxResults (default 10) papers, cycling
// through the query terms.
func (s *Synthetic) SearchPapers(ctx context.Context, c PaperCriteria) ([]types.RawRecord, error) {
	if err := checkRange(s.Name(), c.DateRange); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Transient(s.Name(), err)
	}

	terms := strings.Fields(c.Query)
	rng := s.rng("paper", terms, c.Categories)
	pub := yearWindow(2015, 2023, c.DateRange)

	n := maxOrDefault(c.MaxResults, 10, 100)
	records := make([]types.RawRecord, 0, n)
	for i := 1; i <= n; i++ {
		term := "aerospace"
		if len(terms) > 0 {
			term = terms[i%len(terms)]
		}
		id := fmt.Sprintf("2310.%d", 10000+i)
		category := pick(rng, arxivCats)
		if len(c.Categories) > 0 {
			category = c.Categories[(i-1)%len(c.Categories)]
		}
		published := pub.random(rng)
		f := types.PaperFields{
			ID:            id,
			Title:         fmt.Sprintf("Advanced %s Methods for Aerospace Applications", titleCase(term)),
			Summary:       withMeasurement(rng, fmt.Sprintf("We present novel %s techniques applicable to aerospace engineering, focusing on improved efficiency and performance", term)),
			Authors:       []string{person(rng, authorFirst, authorLast), person(rng, authorFirst, authorLast)},
			Category:      category,
			Published:     published.Format("2006-01-02"),
			Updated:       published.AddDate(0, 0, rng.IntN(90)).Format("2006-01-02"),
			CitationCount: rng.IntN(40),
			URL:           "https://arxiv.org/abs/" + id,
		}
		records = append(records, types.PaperRecord(s.Name(), f))
	}
	return records, nil
}

// rng derives a generator from the seed and the criteria so equal inputs
// produce equal records.
func (s *Synthetic) rng(kind string, parts ...[]string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(kind))
	for _, p := range parts {
		for _, v := range p {
			h.Write([]byte{0})
			h.Write([]byte(strings.ToLower(v)))
		}
		h.Write([]byte{1})
	}
	return rand.New(rand.NewPCG(s.Seed, h.Sum64()))
}

type window struct{ start, end time.Time }

// yearWindow is the default [from, to] year span narrowed to r. When the
// two do not overlap, r itself is used.
func yearWindow(from, to int, r types.DateRange) window {
	w := window{
		start: time.Date(from, 1, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(to, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	if !r.Start.IsZero() && r.Start.After(w.start) {
		w.start = r.Start
	}
	if !r.End.IsZero() && r.End.Before(w.end) {
		w.end = r.End
	}
	if w.start.After(w.end) {
		w = window{start: r.Start, end: r.End}
		if w.start.IsZero() {
			w.start = w.end
		}
		if w.end.IsZero() {
			w.end = w.start
		}
	}
	return w
}

func (w window) random(rng *rand.Rand) time.Time {
	days := int(w.end.Sub(w.start).Hours() / 24)
	if days <= 0 {
		return w.start
	}
	return w.start.AddDate(0, 0, rng.IntN(days+1))
}

func randomDate(rng *rand.Rand, from, to int) time.Time {
	return window{
		start: time.Date(from, 1, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(to, 12, 31, 0, 0, 0, 0, time.UTC),
	}.random(rng)
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}

func person(rng *rand.Rand, first, last []string) string {
	return pick(rng, first) + " " + pick(rng, last)
}

func withMeasurement(rng *rand.Rand, sentence string) string {
	if m := pick(rng, measurements); m != "" {
		return sentence + ", " + m + "."
	}
	return sentence + "."
}

// titleCase upper-cases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
