// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

func TestBuildPatentsViewQuery(t *testing.T) {
	tests := []struct {
		name string
		crit PatentCriteria
		want string
	}{
		{
			name: "keywords only",
			crit: PatentCriteria{Keywords: []string{"ion", "thruster"}},
			want: `{"_or":[{"_text_any":{"patent_title":"ion thruster"}},{"_text_any":{"patent_abstract":"ion thruster"}}]}`,
		},
		{
			name: "single ipc code",
			crit: PatentCriteria{IPCCodes: []string{"B64G"}},
			want: `{"_begins":{"cpc_current.cpc_group_id":"B64G"}}`,
		},
		{
			name: "two assignees",
			crit: PatentCriteria{Assignees: []string{"NASA", "Boeing"}},
			want: `{"_or":[{"_contains":{"assignees.assignee_organization":"NASA"}},{"_contains":{"assignees.assignee_organization":"Boeing"}}]}`,
		},
		{
			name: "keywords and date range",
			crit: PatentCriteria{
				Keywords:  []string{"scramjet"},
				DateRange: types.DateRange{Start: date(2010, 1, 1), End: date(2024, 12, 31)},
			},
			want: `{"_and":[{"_or":[{"_text_any":{"patent_title":"scramjet"}},{"_text_any":{"patent_abstract":"scramjet"}}]},{"_gte":{"patent_date":"2010-01-01"}},{"_lte":{"patent_date":"2024-12-31"}}]}`,
		},
		{
			name: "empty criteria",
			crit: PatentCriteria{},
			want: `{"_gte":{"patent_date":"1976-01-01"}}`,
		},
		{
			name: "quoted keyword is escaped",
			crit: PatentCriteria{Keywords: []string{`"hall"`}},
			want: `{"_or":[{"_text_any":{"patent_title":"\"hall\""}},{"_text_any":{"patent_abstract":"\"hall\""}}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPatentsViewQuery(tt.crit)
			if got != tt.want {
				t.Errorf("buildPatentsViewQuery() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestEscapeJSON(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`normal text`, `normal text`},
		{`text with "quotes"`, `text with \"quotes\"`},
		{`text with \backslash`, `text with \\backslash`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeJSON(tt.input); got != tt.want {
				t.Errorf("escapeJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

const samplePatentsViewJSON = `{
  "error": false,
  "patents": [
    {
      "patent_id": "10123456",
      "patent_title": "Gridded Ion Thruster With Improved Erosion Resistance",
      "patent_abstract": "An ion thruster achieving 65% efficiency.",
      "patent_date": "2019-04-16",
      "patent_num_claims": 20,
      "patent_num_times_cited_by_us_patents": 14,
      "assignees": [{"assignee_organization": ""}, {"assignee_organization": "Aerojet Rocketdyne"}],
      "inventors": [
        {"inventor_name_first": "Ada", "inventor_name_last": "Smith"},
        {"inventor_name_first": "", "inventor_name_last": "Jones"}
      ],
      "cpc_current": [{"cpc_group_id": "B64G1/405"}, {"cpc_group_id": "B64G1/405"}, {"cpc_group_id": "F03H1/00"}]
    },
    {
      "patent_id": "9876543",
      "patent_title": "Reusable Booster Recovery",
      "patent_abstract": "",
      "patent_date": "2016-07-01",
      "patent_num_claims": 5
    }
  ],
  "count": 2,
  "total_hits": 2
}`

func TestPatentsViewSearch(t *testing.T) {
	var gotKey string
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query()
		w.Write([]byte(samplePatentsViewJSON))
	}))
	defer ts.Close()

	old := patentsViewSearchBase
	patentsViewSearchBase = ts.URL + "/"
	defer func() { patentsViewSearchBase = old }()

	p := &PatentsView{HTTPOptions: HTTPOptions{Client: ts.Client()}, APIKey: "test-key"}
	records, err := p.SearchPatents(context.Background(), PatentCriteria{Keywords: []string{"ion"}, MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, `{"size":5}`, gotQuery.Get("o"))

	r0 := records[0]
	assert.Equal(t, types.KindPatent, r0.Kind)
	assert.Equal(t, "patentsview", r0.Source)
	require.NotNil(t, r0.Patent)
	assert.Nil(t, r0.Paper)
	assert.Equal(t, "US10123456", r0.Patent.ID)
	assert.Equal(t, "Aerojet Rocketdyne", r0.Patent.Assignee)
	assert.Equal(t, []string{"Ada Smith", "Jones"}, r0.Patent.Inventors)
	assert.Equal(t, []string{"B64G1/405", "F03H1/00"}, r0.Patent.IPCCodes)
	assert.Equal(t, "2019-04-16", r0.Patent.PublicationDate)
	assert.Equal(t, 14, r0.Patent.CitationCount)
	assert.Equal(t, "https://patents.google.com/patent/US10123456", r0.Patent.URL)

	assert.Equal(t, "US9876543", records[1].Patent.ID)
	assert.Empty(t, records[1].Patent.Assignee)
}

func TestPatentsViewNoResults(t *testing.T) {
	ts := jsonServer(http.StatusOK, `{"error":false,"patents":[],"count":0,"total_hits":0}`)
	defer ts.Close()

	old := patentsViewSearchBase
	patentsViewSearchBase = ts.URL + "/"
	defer func() { patentsViewSearchBase = old }()

	p := &PatentsView{HTTPOptions: HTTPOptions{Client: ts.Client()}}
	records, err := p.SearchPatents(context.Background(), PatentCriteria{Keywords: []string{"nothing"}})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPatentsViewFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Class
	}{
		{"bad request", http.StatusBadRequest, `{}`, ClassPermanent},
		{"forbidden", http.StatusForbidden, `{}`, ClassPermanent},
		{"unavailable", http.StatusServiceUnavailable, `{}`, ClassTransient},
		{"server error", http.StatusInternalServerError, `{}`, ClassTransient},
		{"malformed body", http.StatusOK, `not json`, ClassPermanent},
		{"api error flag", http.StatusOK, `{"error":true}`, ClassPermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := jsonServer(tt.status, tt.body)
			defer ts.Close()

			old := patentsViewSearchBase
			patentsViewSearchBase = ts.URL + "/"
			defer func() { patentsViewSearchBase = old }()

			p := &PatentsView{HTTPOptions: HTTPOptions{Client: ts.Client()}}
			_, err := p.SearchPatents(context.Background(), PatentCriteria{Keywords: []string{"ion"}})
			require.Error(t, err)
			assert.Equal(t, tt.want, ClassOf(err))
		})
	}
}

func TestPatentsViewInvertedRange(t *testing.T) {
	p := &PatentsView{}
	_, err := p.SearchPatents(context.Background(), PatentCriteria{
		DateRange: types.DateRange{Start: date(2024, 1, 1), End: date(2010, 1, 1)},
	})
	require.Error(t, err)
	assert.Equal(t, ClassPermanent, ClassOf(err))
}
