// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth computes report statistics and composes the narrative.
//
// Statistics, readiness estimates, innovations and the patent landscape are
// deterministic. The narrative is requested from the completion backend
// when one is configured and otherwise, or on any failure, rendered from a
// template that cannot fail.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ashr-exe/icarus-insight/internal/llm"
	"github.com/ashr-exe/icarus-insight/internal/logging"
	"github.com/ashr-exe/icarus-insight/internal/trend"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// Fixed texts of the no-data narrative.
const (
	NoDataSummary     = "No relevant research data was found for your query."
	NoDataMethodology = "The search was conducted across patent databases and academic repositories."
)

const (
	defaultSampleDocuments = 10
	defaultMaxInnovations  = 5
)

// Synthesizer composes narratives. Its fields are read-only after
// construction.
type Synthesizer struct {
	// Completer is the optional text-completion backend.
	Completer llm.Completer

	Config types.SynthesisConfig
	Logger *log.Logger
}

// Threshold returns the configured recency threshold, or
// DefaultRecencyThreshold when unset or unparseable.
func (s *Synthesizer) Threshold() time.Time {
	if t, err := time.Parse(time.DateOnly, s.Config.RecencyThreshold); err == nil {
		return t
	}
	return DefaultRecencyThreshold
}

// Innovations applies the configured cap and threshold.
func (s *Synthesizer) Innovations(docs []types.Document) []types.Innovation {
	n := s.Config.MaxInnovations
	if n <= 0 {
		n = defaultMaxInnovations
	}
	return Innovations(docs, n, s.Threshold())
}

// NoData is the narrative for an empty corpus.
func NoData() types.Narrative {
	return types.Narrative{
		Summary:     NoDataSummary,
		Methodology: NoDataMethodology,
		Findings:    []types.Finding{},
		Source:      types.NarrativeNoData,
	}
}

// Narrate returns the report narrative. It never fails: an empty corpus
// yields NoData without calling the backend, and a missing, failing or
// unparsable backend yields Template.
func (s *Synthesizer) Narrate(ctx context.Context, query string, docs []types.Document,
	stats types.Statistics, trends []types.TrendSeries) types.Narrative {
	if len(docs) == 0 {
		return NoData()
	}
	if s.Completer != nil {
		n, err := s.narrateLLM(ctx, query, docs, stats, trends)
		if err == nil {
			return n
		}
		logging.OrDiscard(s.Logger).Warn("synthesis failed, using template",
			"backend", s.Completer.Name(), "err", err)
	}
	return Template(query, stats, trends)
}

func (s *Synthesizer) narrateLLM(ctx context.Context, query string, docs []types.Document,
	stats types.Statistics, trends []types.TrendSeries) (types.Narrative, error) {
	sample := s.Config.SampleDocuments
	if sample <= 0 {
		sample = defaultSampleDocuments
	}
	prompt, err := renderNarrativePrompt(query, docs[:min(sample, len(docs))], stats, trends)
	if err != nil {
		return types.Narrative{}, fmt.Errorf("rendering prompt: %w", err)
	}
	raw, err := s.Completer.Complete(ctx, prompt)
	if err != nil {
		return types.Narrative{}, err
	}

	var ans narrativeAnswer
	if err := llm.UnmarshalFlexible(raw, &ans); err != nil {
		return types.Narrative{}, fmt.Errorf("parsing narrative: %w", err)
	}
	if strings.TrimSpace(ans.ExecutiveSummary) == "" {
		return types.Narrative{}, fmt.Errorf("parsing narrative: no executive_summary")
	}
	methodology := strings.TrimSpace(ans.Methodology)
	if methodology == "" {
		methodology = templateMethodology(query, stats)
	}
	findings := []types.Finding(ans.DetailedFindings)
	if findings == nil {
		findings = []types.Finding{}
	}
	return types.Narrative{
		Summary:     strings.TrimSpace(ans.ExecutiveSummary),
		Methodology: methodology,
		Findings:    findings,
		Source:      types.NarrativeLLM,
	}, nil
}

// narrativeAnswer is the structured answer the backend is asked for.
type narrativeAnswer struct {
	ExecutiveSummary string      `json:"executive_summary" jsonschema:"description=a concise 3-4 paragraph overview of the findings"`
	Methodology      string      `json:"methodology" jsonschema:"description=a brief explanation of the research methodology"`
	DetailedFindings findingList `json:"detailed_findings" jsonschema:"description=key technical insights organized by topic"`
}

// findingList accepts either [{"topic":..,"items":[..]}] or an object
// keyed by topic whose values are strings or lists. Object key order is kept.
type findingList []types.Finding

func (f *findingList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = nil
		return nil
	case len(b) > 0 && b[0] == '[':
		var list []types.Finding
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*f = list
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("detailed_findings: want object or array, got %v", tok)
	}
	var out []types.Finding
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, types.Finding{Topic: key, Items: findingItems(raw)})
	}
	*f = out
	return nil
}

func findingItems(raw json.RawMessage) []string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return []string{s}
	}
	var list []any
	if json.Unmarshal(raw, &list) == nil {
		items := make([]string, 0, len(list))
		for _, v := range list {
			if str, ok := v.(string); ok {
				items = append(items, str)
			} else {
				items = append(items, fmt.Sprint(v))
			}
		}
		return items
	}
	return []string{string(raw)}
}

var narrativePromptTmpl = template.Must(template.New("narrative").Parse(`Generate a comprehensive research summary based on the following information.

QUERY: {{.Query}}

DOCUMENT STATISTICS:
- Total documents found: {{.Stats.Total}}
- Patents: {{.Stats.Patents}}
- Research papers: {{.Stats.Papers}}
- Date range: {{.Span}}
- Top organizations: {{.Orgs}}

SAMPLE DOCUMENTS:
{{- range .Sample}}
Title: {{.Title}}
Source: {{if eq .Kind "patent"}}Patent{{else}}Research Paper{{end}}
Date: {{.Date.Format "2006-01-02"}}
{{- end}}
{{if .Trends}}
Key technology trends:
{{- range .Trends}}
- {{.Name}}: {{len .Points}} data points over time
{{- end}}
{{end}}
Respond with a single JSON object matching this schema. Do not include any text outside the JSON object.
{{.Schema}}
`))

var narrativeSchema = llm.Schema(narrativeAnswer{})

func renderNarrativePrompt(query string, sample []types.Document, stats types.Statistics, trends []types.TrendSeries) (string, error) {
	orgs := make([]string, len(stats.TopOrganizations))
	for i, o := range stats.TopOrganizations {
		orgs[i] = fmt.Sprintf("%s (%d)", o.Name, o.Count)
	}
	var buf bytes.Buffer
	err := narrativePromptTmpl.Execute(&buf, struct {
		Query  string
		Stats  types.Statistics
		Span   string
		Orgs   string
		Sample []types.Document
		Trends []types.TrendSeries
		Schema string
	}{
		Query:  query,
		Stats:  stats,
		Span:   dateSpan(stats),
		Orgs:   strings.Join(orgs, ", "),
		Sample: sample,
		Trends: trends,
		Schema: narrativeSchema,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Template renders the narrative from statistics alone. It never fails.
func Template(query string, stats types.Statistics, trends []types.TrendSeries) types.Narrative {
	if stats.Total == 0 {
		return NoData()
	}
	span := dateSpan(stats)

	lead := "The subject area"
	if len(trends) > 0 {
		lead = trends[0].Name
	}
	contributors := strings.Join(orgNames(stats.TopOrganizations, 3), ", ")
	if contributors == "" {
		contributors = "no identifiable organization"
	}

	summary := fmt.Sprintf("This research analysis examined %d documents (%d patents and %d research papers) related to %q. "+
		"The documents span %s, with significant contributions from %s.\n\n"+
		"%s shows the most research activity, with patents focusing on technical implementations and papers exploring theoretical foundations.",
		stats.Total, stats.Patents, stats.Papers, query, span, contributors, lead)

	areas := trend.Names(trends)
	if len(areas) > 5 {
		areas = areas[:5]
	}
	if len(areas) == 0 {
		areas = []string{"No tracked technology group matched the collected documents."}
	}
	leading := orgNames(stats.TopOrganizations, TopOrganizations)

	return types.Narrative{
		Summary:     summary,
		Methodology: templateMethodology(query, stats),
		Findings: []types.Finding{
			{Topic: "Key Technical Areas", Items: areas},
			{Topic: "Leading Organizations", Items: leading},
			{Topic: "Research Timeline", Items: []string{fmt.Sprintf("Research activity spans %s.", span)}},
			{Topic: "Technology Readiness", Items: []string{readinessNote(stats)}},
		},
		Source: types.NarrativeTemplate,
	}
}

func templateMethodology(query string, stats types.Statistics) string {
	return fmt.Sprintf("This analysis searched patent databases and academic repositories for documents matching the query %q. "+
		"The search yielded %d relevant documents, which were analyzed for technical specifications, citation patterns and temporal trends.",
		query, stats.Total)
}

func readinessNote(stats types.Statistics) string {
	switch {
	case stats.Patents == 0:
		return "Only research papers were found; the technologies appear to be at an early research stage."
	case stats.Papers == 0:
		return "Only patents were found; the technologies appear to be in active commercial development."
	case stats.Patents >= stats.Papers:
		return "Patent activity matches or exceeds research output, suggesting technologies in active development."
	default:
		return "Research output exceeds patent activity, suggesting technologies still maturing toward application."
	}
}
