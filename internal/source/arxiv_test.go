// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		name string
		crit PaperCriteria
		want string
	}{
		{
			name: "terms only",
			crit: PaperCriteria{Query: "hall thruster"},
			want: "all:hall AND all:thruster",
		},
		{
			name: "terms and categories",
			crit: PaperCriteria{Query: "scramjet", Categories: []string{"physics.flu-dyn", "physics.app-ph"}},
			want: "all:scramjet AND (cat:physics.flu-dyn OR cat:physics.app-ph)",
		},
		{
			name: "date range",
			crit: PaperCriteria{
				Query:     "drone",
				DateRange: types.DateRange{Start: date(2020, 1, 1), End: date(2023, 12, 31)},
			},
			want: "all:drone AND submittedDate:[202001010000 TO 202312312359]",
		},
		{
			name: "empty criteria",
			crit: PaperCriteria{},
			want: "all:aerospace",
		},
		{
			name: "date only falls back to default terms",
			crit: PaperCriteria{DateRange: types.DateRange{Start: date(2020, 1, 1)}},
			want: "all:aerospace AND submittedDate:[202001010000 TO 999912312359]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildArxivQuery(tt.crit); got != tt.want {
				t.Errorf("buildArxivQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041v12", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v1", "hep-th/9901001"},
		{"not-a-url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extractArxivID(tt.input); got != tt.want {
				t.Errorf("extractArxivID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

const sampleArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2305.01234v2</id>
    <updated>2023-06-01T00:00:00Z</updated>
    <published>2023-05-02T17:59:59Z</published>
    <title>Plasma Plume
      Diagnostics of a Hall Thruster</title>
    <summary>  We measure a thrust of 85 mN at 1.5 kW.  </summary>
    <author><name>Wei Zhang</name></author>
    <author><name>Elena Ivanova</name></author>
    <arxiv:primary_category term="physics.plasm-ph" scheme="http://arxiv.org/schemas/atom"/>
    <category term="physics.plasm-ph" scheme="http://arxiv.org/schemas/atom"/>
    <category term="physics.app-ph" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2201.00002v1</id>
    <published>2022-01-03T00:00:00Z</published>
    <title>Composite Layups</title>
    <summary>Carbon fiber.</summary>
    <category term="cond-mat.mtrl-sci" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, sampleArxivFeed)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	a := &Arxiv{HTTPOptions: HTTPOptions{Client: ts.Client()}}
	records, err := a.SearchPapers(context.Background(), PaperCriteria{Query: "hall thruster"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "all:hall AND all:thruster", gotQuery)

	p := records[0].Paper
	require.NotNil(t, p)
	assert.Equal(t, types.KindPaper, records[0].Kind)
	assert.Equal(t, "arxiv", records[0].Source)
	assert.Equal(t, "2305.01234", p.ID)
	assert.Equal(t, "Plasma Plume Diagnostics of a Hall Thruster", p.Title)
	assert.Equal(t, "We measure a thrust of 85 mN at 1.5 kW.", p.Summary)
	assert.Equal(t, []string{"Wei Zhang", "Elena Ivanova"}, p.Authors)
	assert.Equal(t, "physics.plasm-ph", p.Category)
	assert.Equal(t, "2023-05-02T17:59:59Z", p.Published)
	assert.Equal(t, "https://arxiv.org/abs/2305.01234", p.URL)

	// No primary category: first listed category is used.
	assert.Equal(t, "cond-mat.mtrl-sci", records[1].Paper.Category)
}

func TestArxivFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Class
	}{
		{"bad request", http.StatusBadRequest, ``, ClassPermanent},
		{"unavailable", http.StatusServiceUnavailable, ``, ClassTransient},
		{"malformed feed", http.StatusOK, `<feed><entry>`, ClassPermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := jsonServer(tt.status, tt.body)
			defer ts.Close()

			old := arxivAPIBase
			arxivAPIBase = ts.URL
			defer func() { arxivAPIBase = old }()

			a := &Arxiv{HTTPOptions: HTTPOptions{Client: ts.Client()}}
			_, err := a.SearchPapers(context.Background(), PaperCriteria{Query: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.want, ClassOf(err))
		})
	}
}
