// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlex queries the OpenAlex Works API.
type OpenAlex struct {
	HTTPOptions
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the adapter identifier.
func (o *OpenAlex) Name() string { return "openalex" }

// SearchPapers queries OpenAlex and returns one record per work.
func (o *OpenAlex) SearchPapers(ctx context.Context, c PaperCriteria) ([]types.RawRecord, error) {
	if err := checkRange(o.Name(), c.DateRange); err != nil {
		return nil, err
	}

	q := c.Query
	if q == "" {
		q = "aerospace"
	}
	params := url.Values{
		"search":   {q},
		"per_page": {strconv.Itoa(maxOrDefault(c.MaxResults, 20, 200))},
	}
	if f := buildOpenAlexFilter(c.DateRange); f != "" {
		params.Set("filter", f)
	}
	if o.Email != "" {
		params.Set("mailto", o.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, Permanent(o.Name(), fmt.Errorf("creating request: %w", err))
	}

	resp, err := o.fetch(ctx, o.Name(), req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, Permanent(o.Name(), fmt.Errorf("parsing OpenAlex response: %w", err))
	}

	records := make([]types.RawRecord, 0, len(oar.Results))
	for _, work := range oar.Results {
		f := types.PaperFields{
			ID:            openAlexID(work),
			Title:         work.Title,
			Summary:       reconstructAbstract(work.AbstractInvertedIndex),
			Published:     work.PublicationDate,
			CitationCount: work.CitedByCount,
			URL:           work.ID,
		}
		if f.Published == "" && work.PublicationYear > 0 {
			f.Published = strconv.Itoa(work.PublicationYear) + "-01-01"
		}
		if work.PrimaryTopic.DisplayName != "" {
			f.Category = work.PrimaryTopic.DisplayName
		}
		if work.OpenAccess.OAURL != "" {
			f.URL = work.OpenAccess.OAURL
		}
		for _, a := range work.Authorships {
			f.Authors = append(f.Authors, a.Author.DisplayName)
		}
		records = append(records, types.PaperRecord(o.Name(), f))
	}
	return records, nil
}

// openAlexID prefers the bare DOI and falls back to the OpenAlex work ID.
func openAlexID(w openAlexWork) string {
	if w.DOI != "" {
		return strings.TrimPrefix(w.DOI, "https://doi.org/")
	}
	return strings.TrimPrefix(w.ID, "https://openalex.org/")
}

// buildOpenAlexFilter builds the publication date filter.
func buildOpenAlexFilter(r types.DateRange) string {
	var filters []string
	if !r.Start.IsZero() {
		filters = append(filters, "from_publication_date:"+r.Start.Format("2006-01-02"))
	}
	if !r.End.IsZero() {
		filters = append(filters, "to_publication_date:"+r.End.Format("2006-01-02"))
	}
	return strings.Join(filters, ",")
}

// reconstructAbstract rebuilds plain text from an OpenAlex inverted index,
// which maps each word to the positions where it occurs.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	PrimaryTopic          openAlexTopic        `json:"primary_topic"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	OAURL string `json:"oa_url"`
}

type openAlexTopic struct {
	DisplayName string `json:"display_name"`
}
