// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// QueryFile is a saved batch of research queries.
//
//	queries:
//	  - query: reusable launch vehicle landing legs
//	    from: 2015-01-01
//	    organizations: [SpaceX, Blue Origin]
type QueryFile struct {
	Queries []QueryEntry `yaml:"queries"`
}

// QueryEntry is one query with its filters in serializable form.
type QueryEntry struct {
	Query          string   `yaml:"query"`
	From           string   `yaml:"from,omitempty"`
	To             string   `yaml:"to,omitempty"`
	Organizations  []string `yaml:"organizations,omitempty"`
	TechCategories []string `yaml:"tech_categories,omitempty"`
}

// Request is a parsed query ready to run.
type Request struct {
	Query   string
	Filters types.Filters
}

// ReadQueryFile loads and validates a batch file.
func ReadQueryFile(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	reqs := make([]Request, 0, len(qf.Queries))
	for i, e := range qf.Queries {
		if err := CheckQuery(e.Query); err != nil {
			return nil, fmt.Errorf("query %d: %w", i+1, err)
		}
		f, err := ParseFilters(e.From, e.To, e.Organizations, e.TechCategories)
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", i+1, err)
		}
		reqs = append(reqs, Request{Query: e.Query, Filters: f})
	}
	return reqs, nil
}

// RunAll runs the requests with at most parallel concurrent runs and
// returns the reports in request order. The first failing run cancels the
// rest.
func (c *Controller) RunAll(ctx context.Context, reqs []Request, parallel int) ([]*types.ResearchReport, error) {
	reports := make([]*types.ResearchReport, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, r := range reqs {
		g.Go(func() error {
			rep, err := c.Run(gctx, r.Query, r.Filters)
			if err != nil {
				return fmt.Errorf("query %q: %w", r.Query, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
