// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one research query end to end: plan, collect
// patents and papers concurrently, normalize, derive the citation graph and
// trend series, and synthesize the report.
//
// A Controller keeps no state between runs. Every value a run produces is
// created for that run, so concurrent Run calls share nothing mutable.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ashr-exe/icarus-insight/internal/collect"
	"github.com/ashr-exe/icarus-insight/internal/graph"
	"github.com/ashr-exe/icarus-insight/internal/llm"
	"github.com/ashr-exe/icarus-insight/internal/logging"
	"github.com/ashr-exe/icarus-insight/internal/normalize"
	"github.com/ashr-exe/icarus-insight/internal/planner"
	"github.com/ashr-exe/icarus-insight/internal/source"
	"github.com/ashr-exe/icarus-insight/internal/synth"
	"github.com/ashr-exe/icarus-insight/internal/trend"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// ErrRunFailure is wrapped by errors that abort a run: an adapter broke its
// record contract, so partial results would be misleading.
var ErrRunFailure = errors.New("research run failed")

// Controller composes the pipeline stages. Fields are read-only after
// construction.
type Controller struct {
	Planner    *planner.Planner
	Collector  *collect.Collector
	Normalizer *normalize.Normalizer
	Graph      graph.Builder
	Trends     trend.Analyzer
	Synth      *synth.Synthesizer
	Logger     *log.Logger

	// Now stamps reports. Nil means time.Now.
	Now func() time.Time
}

// New wires a Controller from configuration. completer may be nil, in
// which case planning and synthesis take their deterministic paths.
func New(cfg types.Config, reg source.Registry, completer llm.Completer, logger *log.Logger) *Controller {
	ex := normalize.DefaultExtractor()
	if len(cfg.Parameters) > 0 {
		ex = normalize.NewExtractor(cfg.Parameters)
	}
	return &Controller{
		Planner: &planner.Planner{
			Completer: completer,
			Config:    cfg.Planner,
			Logger:    logger,
		},
		Collector: &collect.Collector{
			Patents:    reg.Patents,
			Papers:     reg.Papers,
			Timeout:    cfg.Sources.Timeout,
			MaxResults: cfg.Sources.MaxResults,
			Logger:     logger,
		},
		Normalizer: &normalize.Normalizer{Extractor: ex, Logger: logger},
		Graph:      graph.NewStructural(cfg.Graph),
		Trends:     trend.Analyzer{Groups: cfg.Trends},
		Synth: &synth.Synthesizer{
			Completer: completer,
			Config:    cfg.Synthesis,
			Logger:    logger,
		},
		Logger: logger,
	}
}

// Run executes one query. Adapter failures, unparsable backend answers and
// undated records are recorded in the report, not returned. The only
// errors are cancellation of ctx and ErrRunFailure.
func (c *Controller) Run(ctx context.Context, query string, filters types.Filters) (*types.ResearchReport, error) {
	id := uuid.NewString()
	logger := logging.OrDiscard(c.Logger).With("run", id)
	start := time.Now()

	spec := c.planner().Plan(ctx, query, filters)
	logger.Info("planned query", "source", spec.Source, "keywords", spec.Keywords, "ipc", spec.IPCCodes)

	patents, papers, err := c.collect(ctx, spec)
	if err != nil {
		return nil, err
	}

	records := make([]types.RawRecord, 0, len(patents.Records)+len(papers.Records))
	records = append(records, patents.Records...)
	records = append(records, papers.Records...)

	corpus, err := c.normalizer().Normalize(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunFailure, err)
	}
	docs := corpus.Documents

	builder := c.Graph
	if builder == nil {
		builder = &graph.Structural{}
	}
	citations := builder.Build(docs)
	trends := c.Trends.Analyze(docs)

	stats := synth.ComputeStatistics(docs)
	s := c.synthesizer()
	narrative := s.Narrate(ctx, query, docs, stats, trends)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status := make([]types.AdapterStatus, 0, len(patents.Status)+len(papers.Status))
	status = append(status, patents.Status...)
	status = append(status, papers.Status...)

	report := &types.ResearchReport{
		ID:             id,
		Query:          query,
		Spec:           spec,
		CreatedAt:      c.now().UTC(),
		Narrative:      narrative,
		Statistics:     stats,
		Innovations:    s.Innovations(docs),
		Specifications: normalize.Specifications(docs),
		Landscape:      synth.Landscape(docs),
		CitationGraph:  citations,
		Trends:         trends,
		Timeline:       trend.Timeline(trends),
		Documents:      docs,
		Status:         status,
		Skipped:        len(corpus.Skipped),
		Duplicates:     corpus.Duplicates,
	}
	if report.Documents == nil {
		report.Documents = []types.Document{}
	}

	logger.Info("run complete",
		"documents", len(docs), "edges", len(citations.Edges), "trends", len(trends),
		"failures", patents.Failures()+papers.Failures(), "narrative", narrative.Source,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return report, nil
}

// collect gathers both categories concurrently.
func (c *Controller) collect(ctx context.Context, spec types.SearchSpec) (collect.Result, collect.Result, error) {
	col := c.Collector
	if col == nil {
		col = &collect.Collector{}
	}

	var patents, papers collect.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		patents, err = col.CollectPatents(gctx, spec.Clone())
		return err
	})
	g.Go(func() error {
		var err error
		papers, err = col.CollectPapers(gctx, spec.Clone())
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, source.ErrContractViolation) {
			return collect.Result{}, collect.Result{}, fmt.Errorf("%w: %w", ErrRunFailure, err)
		}
		return collect.Result{}, collect.Result{}, err
	}
	return patents, papers, nil
}

func (c *Controller) planner() *planner.Planner {
	if c.Planner == nil {
		return &planner.Planner{Logger: c.Logger}
	}
	return c.Planner
}

func (c *Controller) normalizer() *normalize.Normalizer {
	if c.Normalizer == nil {
		return &normalize.Normalizer{Logger: c.Logger}
	}
	return c.Normalizer
}

func (c *Controller) synthesizer() *synth.Synthesizer {
	if c.Synth == nil {
		return &synth.Synthesizer{Logger: c.Logger}
	}
	return c.Synth
}

func (c *Controller) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
