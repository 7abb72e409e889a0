// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package planner decomposes a free-text research query into a SearchSpec.
//
// Plan never fails. It asks the completion backend for a structured
// decomposition, recovers fields from the raw response with regular
// expressions when the structure does not parse, and otherwise falls back to
// a pure heuristic over the query text.
package planner

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/ashr-exe/icarus-insight/internal/llm"
	"github.com/ashr-exe/icarus-insight/internal/logging"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

const (
	// MaxFallbackKeywords caps the keywords the heuristic path keeps.
	MaxFallbackKeywords = 5

	defaultIPC         = "B64G"
	defaultWindowYears = 15
	defaultMaxKeywords = 8
	minKeywordLen      = 4
)

// Planner turns queries into search specifications. A zero Planner is
// usable: it has no backend and always takes the heuristic path.
type Planner struct {
	// Completer is the optional text-completion backend.
	Completer llm.Completer

	Config types.PlannerConfig
	Logger *log.Logger

	// Now supplies the reference date for the default window. Nil means time.Now.
	Now func() time.Time
}

// Plan decomposes query and applies filters on top of the decomposition.
func (p *Planner) Plan(ctx context.Context, query string, filters types.Filters) types.SearchSpec {
	logger := logging.OrDiscard(p.Logger)
	now := p.now()

	spec, ok := p.decompose(ctx, query, logger)
	if !ok {
		spec = FallbackWith(query, now, p.Config)
	}
	spec = p.complete(spec, query, now)
	return applyFilters(spec, filters)
}

func (p *Planner) decompose(ctx context.Context, query string, logger *log.Logger) (types.SearchSpec, bool) {
	if p.Completer == nil {
		return types.SearchSpec{}, false
	}
	prompt, err := renderPrompt(query)
	if err != nil {
		logger.Warn("spec decomposition failed", "stage", "prompt", "err", err)
		return types.SearchSpec{}, false
	}
	raw, err := p.Completer.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("spec decomposition failed", "backend", p.Completer.Name(), "err", err)
		return types.SearchSpec{}, false
	}

	if spec, ok := parseStructured(raw, p.maxKeywords()); ok {
		return spec, true
	}
	if spec, ok := parseRegex(raw, p.maxKeywords()); ok {
		logger.Debug("structured decomposition unparsable, recovered fields by regex")
		return spec, true
	}
	logger.Warn("spec decomposition failed", "backend", p.Completer.Name(), "err", "unparsable response")
	return types.SearchSpec{}, false
}

// complete fills fields an otherwise successful decomposition left empty.
func (p *Planner) complete(spec types.SearchSpec, query string, now time.Time) types.SearchSpec {
	if len(spec.Keywords) == 0 {
		spec.Keywords = heuristicKeywords(query)
	}
	if len(spec.IPCCodes) == 0 {
		spec.IPCCodes = []string{p.defaultIPC()}
	}
	if !spec.DateRange.Valid() {
		spec.DateRange = defaultWindow(now, p.windowYears())
	}
	spec.Categories = ArxivCategories(spec.Subsystems)
	return spec
}

// applyFilters overlays caller filters. A single date bound replaces the
// matching bound of the planned range unless that would invert it.
func applyFilters(spec types.SearchSpec, f types.Filters) types.SearchSpec {
	r := spec.DateRange
	if !f.DateRange.Start.IsZero() {
		r.Start = f.DateRange.Start
	}
	if !f.DateRange.End.IsZero() {
		r.End = f.DateRange.End
	}
	if r.Valid() {
		spec.DateRange = r
	}
	if orgs := types.Distinct(f.Organizations); len(orgs) > 0 {
		spec.Organizations = orgs
	}
	if len(f.TechCategories) > 0 {
		subs := make([]string, 0, len(f.TechCategories))
		for _, c := range f.TechCategories {
			subs = append(subs, strings.ToLower(c))
		}
		spec.Subsystems = types.Distinct(append(subs, spec.Subsystems...))
		spec.Categories = ArxivCategories(spec.Subsystems)
	}
	return spec
}

func parseStructured(raw string, maxKeywords int) (types.SearchSpec, bool) {
	var d decomposition
	if err := llm.UnmarshalFlexible(raw, &d); err != nil {
		return types.SearchSpec{}, false
	}
	spec := types.SearchSpec{
		Keywords:      limit(types.Distinct(d.Keywords), maxKeywords),
		Subsystems:    types.Distinct(d.Subsystems),
		IPCCodes:      cleanIPC(d.IPCCodes),
		Organizations: types.Distinct(d.Organizations),
		Source:        types.SpecFromLLM,
	}
	if len(d.ImpliedDateRange) == 2 {
		spec.DateRange = parseRange(d.ImpliedDateRange[0], d.ImpliedDateRange[1])
	}
	if len(spec.Keywords) == 0 && len(spec.IPCCodes) == 0 && len(spec.Subsystems) == 0 {
		return types.SearchSpec{}, false
	}
	return spec, true
}

var (
	keywordsRe      = regexp.MustCompile(`(?is)keywords.*?[\[{]([^}\]]+)[}\]]`)
	subsystemsRe    = regexp.MustCompile(`(?is)subsystems.*?[\[{]([^}\]]+)[}\]]`)
	ipcRe           = regexp.MustCompile(`(?is)ipc_codes.*?[\[{]([^}\]]+)[}\]]`)
	organizationsRe = regexp.MustCompile(`(?is)organizations.*?[\[{]([^}\]]+)[}\]]`)
	dateRe          = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

func parseRegex(raw string, maxKeywords int) (types.SearchSpec, bool) {
	spec := types.SearchSpec{
		Keywords:      limit(splitList(raw, keywordsRe), maxKeywords),
		Subsystems:    splitList(raw, subsystemsRe),
		IPCCodes:      cleanIPC(splitList(raw, ipcRe)),
		Organizations: splitList(raw, organizationsRe),
		Source:        types.SpecFromLLMRegex,
	}
	if dates := dateRe.FindAllString(raw, 2); len(dates) == 2 {
		spec.DateRange = parseRange(dates[0], dates[1])
	}
	if len(spec.Keywords) == 0 && len(spec.IPCCodes) == 0 {
		return types.SearchSpec{}, false
	}
	return spec, true
}

func splitList(raw string, re *regexp.Regexp) []string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], ",")
	for i, part := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(part), `"'`)
	}
	return types.Distinct(parts)
}

// cleanIPC uppercases codes and drops tokens that cannot be classification codes.
func cleanIPC(codes []string) []string {
	var out []string
	for _, c := range types.Distinct(codes) {
		c = strings.ToUpper(strings.ReplaceAll(c, " ", ""))
		if len(c) < 3 || len(c) > 12 || !unicode.IsLetter(rune(c[0])) {
			continue
		}
		out = append(out, c)
	}
	return types.Distinct(out)
}

func parseRange(start, end string) types.DateRange {
	s, err1 := time.Parse("2006-01-02", strings.TrimSpace(start))
	e, err2 := time.Parse("2006-01-02", strings.TrimSpace(end))
	if err1 != nil || err2 != nil {
		return types.DateRange{}
	}
	return types.DateRange{Start: s, End: e}
}

func limit(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Planner) defaultIPC() string {
	if p.Config.DefaultIPC != "" {
		return p.Config.DefaultIPC
	}
	return defaultIPC
}

func (p *Planner) windowYears() int {
	if p.Config.WindowYears > 0 {
		return p.Config.WindowYears
	}
	return defaultWindowYears
}

func (p *Planner) maxKeywords() int {
	if p.Config.MaxKeywords > 0 {
		return p.Config.MaxKeywords
	}
	return defaultMaxKeywords
}
