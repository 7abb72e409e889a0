// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source defines the catalogue adapter contracts and provides the
// patent and paper adapters.
//
// Adapters are read-only and side-effect-free. "No matches" is an empty
// slice with a nil error. Failures are reported as *Error values classified
// Transient or Permanent so the collector can record them.
package source

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ashr-exe/icarus-insight/internal/httputil"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// PatentCriteria selects patents. Every field is optional.
type PatentCriteria struct {
	Keywords   []string
	IPCCodes   []string
	DateRange  types.DateRange
	Assignees  []string
	MaxResults int
}

// PaperCriteria selects papers. Every field is optional.
type PaperCriteria struct {
	Query      string
	MaxResults int
	Categories []string
	DateRange  types.DateRange
}

// PatentSource searches a patent catalogue.
type PatentSource interface {
	Name() string
	SearchPatents(ctx context.Context, c PatentCriteria) ([]types.RawRecord, error)
}

// PaperSource searches a paper catalogue.
type PaperSource interface {
	Name() string
	SearchPapers(ctx context.Context, c PaperCriteria) ([]types.RawRecord, error)
}

// PatentCriteriaFor derives patent criteria from a search spec.
func PatentCriteriaFor(spec types.SearchSpec, maxResults int) PatentCriteria {
	return PatentCriteria{
		Keywords:   append([]string(nil), spec.Keywords...),
		IPCCodes:   append([]string(nil), spec.IPCCodes...),
		DateRange:  spec.DateRange,
		Assignees:  append([]string(nil), spec.Organizations...),
		MaxResults: maxResults,
	}
}

// PaperCriteriaFor derives paper criteria from a search spec.
func PaperCriteriaFor(spec types.SearchSpec, maxResults int) PaperCriteria {
	return PaperCriteria{
		Query:      strings.Join(spec.Keywords, " "),
		MaxResults: maxResults,
		Categories: append([]string(nil), spec.Categories...),
		DateRange:  spec.DateRange,
	}
}

// Registry holds adapters in registration order per kind.
type Registry struct {
	Patents []PatentSource
	Papers  []PaperSource
}

// AddPatents registers patent adapters after those already present.
func (r *Registry) AddPatents(s ...PatentSource) { r.Patents = append(r.Patents, s...) }

// AddPapers registers paper adapters after those already present.
func (r *Registry) AddPapers(s ...PaperSource) { r.Papers = append(r.Papers, s...) }

// FromConfig registers the adapters cfg enables. Offline mode registers
// one synthetic generator per category and nothing else.
func FromConfig(cfg types.SourcesConfig, logger *log.Logger) Registry {
	var r Registry
	if cfg.Offline {
		r.AddPatents(&Synthetic{Seed: cfg.Seed, Label: "synthetic-patents"})
		r.AddPapers(&Synthetic{Seed: cfg.Seed, Label: "synthetic-papers"})
		return r
	}

	opts := HTTPOptions{
		Client:    &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		Retry:     httputil.Policy{Logger: logger},
	}
	if cfg.EnablePatentsView {
		r.AddPatents(&PatentsView{HTTPOptions: opts, APIKey: cfg.PatentsViewAPIKey})
	}
	if cfg.EnableArxiv {
		r.AddPapers(&Arxiv{HTTPOptions: opts})
	}
	if cfg.EnableSemanticScholar {
		r.AddPapers(&SemanticScholar{HTTPOptions: opts, APIKey: cfg.SemanticScholarAPIKey})
	}
	if cfg.EnableOpenAlex {
		r.AddPapers(&OpenAlex{HTTPOptions: opts, Email: cfg.OpenAlexEmail})
	}
	return r
}

// Names lists adapter names, patents first.
func (r *Registry) Names() []string {
	var names []string
	for _, s := range r.Patents {
		names = append(names, s.Name())
	}
	for _, s := range r.Papers {
		names = append(names, s.Name())
	}
	return names
}

// HTTPOptions are shared by the network adapters.
type HTTPOptions struct {
	Client    *http.Client
	UserAgent string
	Retry     httputil.Policy
}

func (o HTTPOptions) client() *http.Client {
	if o.Client == nil {
		return http.DefaultClient
	}
	return o.Client
}

func (o HTTPOptions) userAgent() string {
	if o.UserAgent == "" {
		return "icarus/0.1"
	}
	return o.UserAgent
}

// fetch sends req with retries and turns transport failures and non-200
// statuses into classified errors. The caller closes the body on success.
func (o HTTPOptions) fetch(ctx context.Context, adapter string, req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", o.userAgent())
	resp, err := o.Retry.Do(ctx, o.client(), req)
	if err != nil {
		return nil, Transient(adapter, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, StatusError(adapter, resp.StatusCode)
	}
	return resp, nil
}

func maxOrDefault(n, def, ceiling int) int {
	if n <= 0 {
		n = def
	}
	if n > ceiling {
		n = ceiling
	}
	return n
}
