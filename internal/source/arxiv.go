// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivDefaultQuery is searched when the criteria carry no terms.
const arxivDefaultQuery = "all:aerospace"

// Arxiv queries the arXiv Atom API.
type Arxiv struct {
	HTTPOptions
}

// Name returns the adapter identifier.
func (a *Arxiv) Name() string { return "arxiv" }

// SearchPapers queries arXiv and returns one record per entry.
func (a *Arxiv) SearchPapers(ctx context.Context, c PaperCriteria) ([]types.RawRecord, error) {
	if err := checkRange(a.Name(), c.DateRange); err != nil {
		return nil, err
	}

	params := url.Values{
		"search_query": {buildArxivQuery(c)},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxOrDefault(c.MaxResults, 20, 500))},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, Permanent(a.Name(), fmt.Errorf("creating request: %w", err))
	}

	resp, err := a.fetch(ctx, a.Name(), req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, Permanent(a.Name(), fmt.Errorf("parsing arXiv response: %w", err))
	}

	records := make([]types.RawRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}
		f := types.PaperFields{
			ID:        arxivID,
			Title:     collapseSpace(entry.Title),
			Summary:   collapseSpace(entry.Summary),
			Published: entry.Published,
			Updated:   entry.Updated,
			Category:  entry.PrimaryCategory.Term,
			URL:       "https://arxiv.org/abs/" + arxivID,
		}
		if f.Category == "" && len(entry.Categories) > 0 {
			f.Category = entry.Categories[0].Term
		}
		for _, au := range entry.Authors {
			f.Authors = append(f.Authors, strings.TrimSpace(au.Name))
		}
		records = append(records, types.PaperRecord(a.Name(), f))
	}
	return records, nil
}

// buildArxivQuery ANDs every query term, ORs the category filters, and
// bounds submission dates when a range is given.
func buildArxivQuery(c PaperCriteria) string {
	var parts []string
	if terms := strings.Fields(c.Query); len(terms) > 0 {
		for i, t := range terms {
			terms[i] = "all:" + t
		}
		parts = append(parts, strings.Join(terms, " AND "))
	}
	if len(c.Categories) > 0 {
		cats := make([]string, len(c.Categories))
		for i, cat := range c.Categories {
			cats[i] = "cat:" + cat
		}
		parts = append(parts, "("+strings.Join(cats, " OR ")+")")
	}
	if !c.DateRange.Start.IsZero() || !c.DateRange.End.IsZero() {
		from, to := "000001010000", "999912312359"
		if !c.DateRange.Start.IsZero() {
			from = c.DateRange.Start.Format("20060102") + "0000"
		}
		if !c.DateRange.End.IsZero() {
			to = c.DateRange.End.Format("20060102") + "2359"
		}
		parts = append(parts, fmt.Sprintf("submittedDate:[%s TO %s]", from, to))
	}
	if len(parts) == 0 || (len(parts) == 1 && strings.HasPrefix(parts[0], "submittedDate")) {
		parts = append([]string{arxivDefaultQuery}, parts...)
	}
	return strings.Join(parts, " AND ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Published       string          `xml:"published"`
	Updated         string          `xml:"updated"`
	Authors         []arxivAuthor   `xml:"author"`
	PrimaryCategory arxivCategory   `xml:"primary_category"`
	Categories      []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" becomes "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
