// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/internal/httputil"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

func TestMain(m *testing.M) {
	httputil.RetryBaseDelay = time.Millisecond
	os.Exit(m.Run())
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func jsonServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func TestStatusErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		want   Class
	}{
		{http.StatusBadRequest, ClassPermanent},
		{http.StatusUnauthorized, ClassPermanent},
		{http.StatusNotFound, ClassPermanent},
		{http.StatusRequestTimeout, ClassTransient},
		{http.StatusTooManyRequests, ClassTransient},
		{http.StatusInternalServerError, ClassTransient},
		{http.StatusServiceUnavailable, ClassTransient},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := StatusError("x", tt.status)
			assert.Equal(t, tt.want, ClassOf(err))
			assert.ErrorIs(t, err, ErrStatus)
		})
	}
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, ClassTransient, ClassOf(errors.New("connection reset")))
	assert.Equal(t, ClassTransient, ClassOf(context.DeadlineExceeded))
	assert.Equal(t, ClassPermanent, ClassOf(fmt.Errorf("wrapped: %w", ErrInvalidCriteria)))
	assert.Equal(t, ClassPermanent, ClassOf(fmt.Errorf("outer: %w", Permanent("a", errors.New("bad")))))
}

func TestErrorMessage(t *testing.T) {
	err := Transient("arxiv", errors.New("timeout"))
	assert.Equal(t, "arxiv: transient: timeout", err.Error())
}

func TestCheckRange(t *testing.T) {
	assert.NoError(t, checkRange("a", types.DateRange{}))
	assert.NoError(t, checkRange("a", types.DateRange{Start: date(2020, 1, 1)}))
	assert.NoError(t, checkRange("a", types.DateRange{Start: date(2020, 1, 1), End: date(2020, 1, 1)}))

	err := checkRange("a", types.DateRange{Start: date(2021, 1, 1), End: date(2020, 1, 1)})
	require.Error(t, err)
	assert.Equal(t, ClassPermanent, ClassOf(err))
	assert.ErrorIs(t, err, ErrInvalidCriteria)
}

func TestCriteriaFor(t *testing.T) {
	spec := types.SearchSpec{
		Keywords:      []string{"ion", "thruster"},
		IPCCodes:      []string{"B64G"},
		Organizations: []string{"NASA"},
		Categories:    []string{"physics.app-ph"},
		DateRange:     types.DateRange{Start: date(2015, 1, 1), End: date(2020, 12, 31)},
	}

	pc := PatentCriteriaFor(spec, 7)
	assert.Equal(t, []string{"ion", "thruster"}, pc.Keywords)
	assert.Equal(t, []string{"NASA"}, pc.Assignees)
	assert.Equal(t, 7, pc.MaxResults)
	pc.Keywords[0] = "changed"
	assert.Equal(t, "ion", spec.Keywords[0], "criteria must not alias the spec")

	qc := PaperCriteriaFor(spec, 5)
	assert.Equal(t, "ion thruster", qc.Query)
	assert.Equal(t, []string{"physics.app-ph"}, qc.Categories)
	assert.Equal(t, spec.DateRange, qc.DateRange)
}

func TestRegistryNames(t *testing.T) {
	var r Registry
	r.AddPatents(&PatentsView{}, &Synthetic{})
	r.AddPapers(&Arxiv{}, &SemanticScholar{}, &OpenAlex{})
	assert.Equal(t, []string{"patentsview", "synthetic", "arxiv", "semantic_scholar", "openalex"}, r.Names())
}

func TestFetchSetsUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	resp, err := HTTPOptions{Client: ts.Client()}.fetch(context.Background(), "t", req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "icarus/0.1", got)
}

func TestFetchTransportErrorIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	_, err = HTTPOptions{}.fetch(context.Background(), "t", req)
	require.Error(t, err)
	assert.Equal(t, ClassTransient, ClassOf(err))
}

func TestMaxOrDefault(t *testing.T) {
	assert.Equal(t, 20, maxOrDefault(0, 20, 100))
	assert.Equal(t, 5, maxOrDefault(5, 20, 100))
	assert.Equal(t, 100, maxOrDefault(500, 20, 100))
}

func TestFromConfig(t *testing.T) {
	offline := FromConfig(types.SourcesConfig{Offline: true, Seed: 3, EnableArxiv: true}, nil)
	assert.Equal(t, []string{"synthetic-patents", "synthetic-papers"}, offline.Names())

	online := FromConfig(types.SourcesConfig{
		HTTPConfig:        types.HTTPConfig{Timeout: time.Second, UserAgent: "test/1"},
		EnablePatentsView: true,
		EnableArxiv:       true,
		EnableOpenAlex:    true,
		PatentsViewAPIKey: "pv",
		OpenAlexEmail:     "a@b.c",
	}, nil)
	assert.Equal(t, []string{"patentsview", "arxiv", "openalex"}, online.Names())
	pv := online.Patents[0].(*PatentsView)
	assert.Equal(t, "pv", pv.APIKey)
	assert.Equal(t, "test/1", pv.UserAgent)
	assert.Equal(t, time.Second, pv.Client.Timeout)
}
