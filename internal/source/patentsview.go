// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// patentsViewSearchBase is the PatentsView patent search endpoint. Declared
// as a var so tests can substitute an httptest server.
var patentsViewSearchBase = "https://search.patentsview.org/api/v1/patent/"

// patentsViewFields lists the fields requested from the API.
const patentsViewFields = `["patent_id","patent_title","patent_abstract","patent_date","patent_num_claims",` +
	`"patent_num_times_cited_by_us_patents","assignees.assignee_organization",` +
	`"inventors.inventor_name_first","inventors.inventor_name_last","cpc_current.cpc_group_id"]`

// patentsViewEarliest anchors the query when no criterion is given.
const patentsViewEarliest = "1976-01-01"

// PatentsView queries the USPTO PatentsView search API.
type PatentsView struct {
	HTTPOptions
	APIKey string
}

// Name returns the adapter identifier.
func (p *PatentsView) Name() string { return "patentsview" }

// SearchPatents queries PatentsView and returns one record per patent.
func (p *PatentsView) SearchPatents(ctx context.Context, c PatentCriteria) ([]types.RawRecord, error) {
	if err := checkRange(p.Name(), c.DateRange); err != nil {
		return nil, err
	}

	params := url.Values{
		"q": {buildPatentsViewQuery(c)},
		"f": {patentsViewFields},
		"o": {fmt.Sprintf(`{"size":%d}`, maxOrDefault(c.MaxResults, 20, 1000))},
		"s": {`[{"patent_date":"desc"}]`},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, patentsViewSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, Permanent(p.Name(), fmt.Errorf("creating request: %w", err))
	}
	if p.APIKey != "" {
		req.Header.Set("X-Api-Key", p.APIKey)
	}

	resp, err := p.fetch(ctx, p.Name(), req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var pvr patentsViewResponse
	if err := json.NewDecoder(resp.Body).Decode(&pvr); err != nil {
		return nil, Permanent(p.Name(), fmt.Errorf("parsing PatentsView response: %w", err))
	}
	if pvr.Error {
		return nil, Permanent(p.Name(), fmt.Errorf("PatentsView rejected query"))
	}

	records := make([]types.RawRecord, 0, len(pvr.Patents))
	for _, patent := range pvr.Patents {
		patentID := "US" + patent.PatentID
		f := types.PatentFields{
			ID:              patentID,
			Title:           patent.PatentTitle,
			Abstract:        patent.PatentAbstract,
			PublicationDate: patent.PatentDate,
			ClaimsCount:     patent.NumClaims,
			CitationCount:   patent.TimesCited,
			URL:             "https://patents.google.com/patent/" + patentID,
		}
		for _, a := range patent.Assignees {
			if a.Organization != "" {
				f.Assignee = a.Organization
				break
			}
		}
		for _, inv := range patent.Inventors {
			name := strings.TrimSpace(inv.First + " " + inv.Last)
			if name != "" {
				f.Inventors = append(f.Inventors, name)
			}
		}
		for _, cpc := range patent.CPC {
			if cpc.GroupID != "" {
				f.IPCCodes = append(f.IPCCodes, cpc.GroupID)
			}
		}
		f.IPCCodes = types.Distinct(f.IPCCodes)
		records = append(records, types.PatentRecord(p.Name(), f))
	}
	return records, nil
}

// buildPatentsViewQuery constructs the JSON query parameter from the criteria
// using PatentsView operators. Conditions are joined with _and.
func buildPatentsViewQuery(c PatentCriteria) string {
	var conditions []string

	// Keywords: any keyword in title or abstract.
	if len(c.Keywords) > 0 {
		combined := escapeJSON(strings.Join(c.Keywords, " "))
		conditions = append(conditions,
			fmt.Sprintf(`{"_or":[{"_text_any":{"patent_title":"%s"}},{"_text_any":{"patent_abstract":"%s"}}]}`,
				combined, combined))
	}

	// Classification: any code as a CPC group prefix.
	if len(c.IPCCodes) > 0 {
		var ors []string
		for _, code := range c.IPCCodes {
			ors = append(ors, fmt.Sprintf(`{"_begins":{"cpc_current.cpc_group_id":"%s"}}`, escapeJSON(code)))
		}
		conditions = append(conditions, orGroup(ors))
	}

	if len(c.Assignees) > 0 {
		var ors []string
		for _, a := range c.Assignees {
			ors = append(ors, fmt.Sprintf(`{"_contains":{"assignees.assignee_organization":"%s"}}`, escapeJSON(a)))
		}
		conditions = append(conditions, orGroup(ors))
	}

	if !c.DateRange.Start.IsZero() {
		conditions = append(conditions,
			fmt.Sprintf(`{"_gte":{"patent_date":"%s"}}`, c.DateRange.Start.Format("2006-01-02")))
	}
	if !c.DateRange.End.IsZero() {
		conditions = append(conditions,
			fmt.Sprintf(`{"_lte":{"patent_date":"%s"}}`, c.DateRange.End.Format("2006-01-02")))
	}

	switch len(conditions) {
	case 0:
		return fmt.Sprintf(`{"_gte":{"patent_date":"%s"}}`, patentsViewEarliest)
	case 1:
		return conditions[0]
	default:
		return fmt.Sprintf(`{"_and":[%s]}`, strings.Join(conditions, ","))
	}
}

func orGroup(conds []string) string {
	if len(conds) == 1 {
		return conds[0]
	}
	return fmt.Sprintf(`{"_or":[%s]}`, strings.Join(conds, ","))
}

// escapeJSON escapes a string for safe inclusion in a JSON string value.
func escapeJSON(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// PatentsView API JSON structures.
type patentsViewResponse struct {
	Error   bool                `json:"error"`
	Patents []patentsViewPatent `json:"patents"`
	Count   int                 `json:"count"`
	Total   int                 `json:"total_hits"`
}

type patentsViewPatent struct {
	PatentID       string                `json:"patent_id"`
	PatentTitle    string                `json:"patent_title"`
	PatentAbstract string                `json:"patent_abstract"`
	PatentDate     string                `json:"patent_date"`
	NumClaims      int                   `json:"patent_num_claims"`
	TimesCited     int                   `json:"patent_num_times_cited_by_us_patents"`
	Assignees      []patentsViewAssignee `json:"assignees"`
	Inventors      []patentsViewInventor `json:"inventors"`
	CPC            []patentsViewCPC      `json:"cpc_current"`
}

type patentsViewAssignee struct {
	Organization string `json:"assignee_organization"`
}

type patentsViewInventor struct {
	First string `json:"inventor_name_first"`
	Last  string `json:"inventor_name_last"`
}

type patentsViewCPC struct {
	GroupID string `json:"cpc_group_id"`
}
