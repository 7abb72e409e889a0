// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,publicationDate,citationCount,fieldsOfStudy,url"

// SemanticScholar queries the Semantic Scholar Graph API.
type SemanticScholar struct {
	HTTPOptions
	APIKey string
}

// Name returns the adapter identifier.
func (s *SemanticScholar) Name() string { return "semantic_scholar" }

// SearchPapers queries Semantic Scholar. Papers without any date are still
// returned; the normalizer decides whether to keep them.
func (s *SemanticScholar) SearchPapers(ctx context.Context, c PaperCriteria) ([]types.RawRecord, error) {
	if err := checkRange(s.Name(), c.DateRange); err != nil {
		return nil, err
	}

	q := c.Query
	if q == "" {
		q = "aerospace"
	}
	params := url.Values{
		"query":  {q},
		"limit":  {strconv.Itoa(maxOrDefault(c.MaxResults, 20, 100))},
		"fields": {semanticFields},
	}
	if yr := buildYearRange(c.DateRange); yr != "" {
		params.Set("year", yr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, Permanent(s.Name(), fmt.Errorf("creating request: %w", err))
	}
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	resp, err := s.fetch(ctx, s.Name(), req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, Permanent(s.Name(), fmt.Errorf("parsing Semantic Scholar response: %w", err))
	}

	records := make([]types.RawRecord, 0, len(sr.Data))
	for _, paper := range sr.Data {
		f := types.PaperFields{
			Title:         paper.Title,
			Summary:       paper.Abstract,
			Published:     paper.PublicationDate,
			CitationCount: paper.CitationCount,
			URL:           paper.URL,
		}
		if f.Published == "" && paper.Year > 0 {
			f.Published = strconv.Itoa(paper.Year) + "-01-01"
		}

		// Prefer the arXiv ID so records dedupe against the arXiv adapter.
		switch {
		case paper.ExternalIDs.ArXiv != "":
			f.ID = paper.ExternalIDs.ArXiv
		case paper.ExternalIDs.DOI != "":
			f.ID = paper.ExternalIDs.DOI
		default:
			f.ID = paper.PaperID
		}
		if len(paper.FieldsOfStudy) > 0 {
			f.Category = paper.FieldsOfStudy[0]
		}
		for _, a := range paper.Authors {
			f.Authors = append(f.Authors, a.Name)
		}
		records = append(records, types.PaperRecord(s.Name(), f))
	}
	return records, nil
}

// buildYearRange returns a Semantic Scholar year filter string (e.g. "2020-2023").
func buildYearRange(r types.DateRange) string {
	switch {
	case !r.Start.IsZero() && !r.End.IsZero():
		return fmt.Sprintf("%d-%d", r.Start.Year(), r.End.Year())
	case !r.Start.IsZero():
		return fmt.Sprintf("%d-", r.Start.Year())
	case !r.End.IsZero():
		return fmt.Sprintf("-%d", r.End.Year())
	default:
		return ""
	}
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	CitationCount   int                 `json:"citationCount"`
	FieldsOfStudy   []string            `json:"fieldsOfStudy"`
	URL             string              `json:"url"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}

type semanticExternalIDs struct {
	ArXiv string `json:"ArXiv"`
	DOI   string `json:"DOI"`
}
