// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/internal/llm"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

var refDate = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return refDate }

// stubCompleter returns a canned response and records the prompt.
type stubCompleter struct {
	response string
	err      error
	prompt   string
}

func (s *stubCompleter) Name() string { return "stub" }

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func date(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

func TestFallbackAt(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "filters stop words and short tokens",
			query: "What research about ion thrusters for small satellites?",
			want:  []string{"thrusters", "small", "satellites"},
		},
		{
			name:  "caps at five and dedupes",
			query: "hypersonic scramjet hypersonic combustion inlet isolator nozzle cooling",
			want:  []string{"hypersonic", "scramjet", "combustion", "inlet", "isolator"},
		},
		{
			name:  "keeps hyphenated terms",
			query: "high-speed morphing wings",
			want:  []string{"high-speed", "morphing", "wings"},
		},
		{name: "empty query", query: "", want: []string{}},
		{name: "only punctuation", query: "?!... --- ,,,", want: []string{}},
		{name: "unicode", query: "Überschall Strömung über Flügel", want: []string{"überschall", "strömung", "über", "flügel"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := FallbackAt(tt.query, refDate)
			assert.Equal(t, tt.want, spec.Keywords)
			assert.LessOrEqual(t, len(spec.Keywords), MaxFallbackKeywords)
			assert.Equal(t, []string{"B64G"}, spec.IPCCodes)
			assert.Equal(t, date(2010, 1, 1), spec.DateRange.Start)
			assert.Equal(t, date(2024, 12, 31), spec.DateRange.End)
			assert.Equal(t, types.SpecFromFallback, spec.Source)
		})
	}
}

func TestFallbackAt_TotalOverArbitraryInput(t *testing.T) {
	inputs := []string{
		strings.Repeat("propulsion ", 10000),
		"\x00\xff\xfe invalid utf8",
		"日本語のクエリ",
		"    \t\n   ",
	}
	for _, in := range inputs {
		spec := FallbackAt(in, refDate)
		assert.LessOrEqual(t, len(spec.Keywords), MaxFallbackKeywords)
		assert.NotEmpty(t, spec.IPCCodes)
		assert.True(t, spec.DateRange.Valid())
	}
}

func TestFallbackWith_Config(t *testing.T) {
	spec := FallbackWith("reusable landing legs", refDate, types.PlannerConfig{DefaultIPC: "B64", WindowYears: 5})
	assert.Equal(t, []string{"B64"}, spec.IPCCodes)
	assert.Equal(t, date(2020, 1, 1), spec.DateRange.Start)
}

func TestPlan_StructuredResponse(t *testing.T) {
	stub := &stubCompleter{response: "```json\n" + `{
		"keywords": ["electric propulsion", "Hall thruster", "electric propulsion"],
		"subsystems": ["Propulsion", "materials"],
		"ipc_codes": ["f03h", "B64G"],
		"implied_date_range": ["2015-01-01", "2023-12-31"],
		"organizations": ["NASA"]
	}` + "\n```"}
	p := &Planner{Completer: stub, Now: fixedNow}

	spec := p.Plan(context.Background(), "hall thrusters", types.Filters{})

	assert.Equal(t, types.SpecFromLLM, spec.Source)
	assert.Equal(t, []string{"electric propulsion", "Hall thruster"}, spec.Keywords)
	assert.Equal(t, []string{"F03H", "B64G"}, spec.IPCCodes)
	assert.Equal(t, []string{"Propulsion", "materials"}, spec.Subsystems)
	assert.Equal(t, []string{"physics.flu-dyn", "cond-mat.mtrl-sci"}, spec.Categories)
	assert.Equal(t, []string{"NASA"}, spec.Organizations)
	assert.Equal(t, date(2015, 1, 1), spec.DateRange.Start)
	assert.Contains(t, stub.prompt, "hall thrusters")
	assert.Contains(t, stub.prompt, "G05D1")
	assert.Contains(t, stub.prompt, `"implied_date_range"`)
}

func TestPlan_RegexRecovery(t *testing.T) {
	stub := &stubCompleter{response: `Sure! Here is the breakdown:
keywords => [ 'scramjet', "hypersonic inlet" ]
ipc_codes: {F02K}
organizations = [Boeing, 'Lockheed Martin']
dates 2012-01-01 through 2020-12-31`}
	p := &Planner{Completer: stub, Now: fixedNow}

	spec := p.Plan(context.Background(), "scramjets", types.Filters{})

	assert.Equal(t, types.SpecFromLLMRegex, spec.Source)
	assert.Equal(t, []string{"scramjet", "hypersonic inlet"}, spec.Keywords)
	assert.Equal(t, []string{"F02K"}, spec.IPCCodes)
	assert.Equal(t, []string{"Boeing", "Lockheed Martin"}, spec.Organizations)
	assert.Equal(t, date(2012, 1, 1), spec.DateRange.Start)
	assert.Equal(t, date(2020, 12, 31), spec.DateRange.End)
}

func TestPlan_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		comp llm.Completer
	}{
		{name: "no backend", comp: nil},
		{name: "backend error", comp: &stubCompleter{err: errors.New("503")}},
		{name: "unparsable", comp: &stubCompleter{response: "I'm sorry, I can't help with that."}},
		{name: "empty structure", comp: &stubCompleter{response: `{"keywords": [], "ipc_codes": []}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Planner{Completer: tt.comp, Now: fixedNow}
			spec := p.Plan(context.Background(), "autonomous drone navigation", types.Filters{})
			assert.Equal(t, types.SpecFromFallback, spec.Source)
			assert.Equal(t, []string{"autonomous", "drone", "navigation"}, spec.Keywords)
			assert.Equal(t, []string{"B64G"}, spec.IPCCodes)
		})
	}
}

func TestPlan_FillsMissingFields(t *testing.T) {
	stub := &stubCompleter{response: `{"keywords": [], "subsystems": ["avionics"], "ipc_codes": [], "implied_date_range": ["2020-01-01", "2010-01-01"]}`}
	p := &Planner{Completer: stub, Now: fixedNow}

	spec := p.Plan(context.Background(), "radar altimeter calibration", types.Filters{})

	assert.Equal(t, types.SpecFromLLM, spec.Source)
	assert.Equal(t, []string{"radar", "altimeter", "calibration"}, spec.Keywords)
	assert.Equal(t, []string{"B64G"}, spec.IPCCodes)
	assert.Equal(t, []string{"eess.SP"}, spec.Categories)
	// Reversed range is replaced by the default window.
	assert.Equal(t, date(2010, 1, 1), spec.DateRange.Start)
}

func TestPlan_FiltersOverride(t *testing.T) {
	p := &Planner{Now: fixedNow}
	f := types.Filters{
		DateRange:      types.DateRange{Start: date(2018, 1, 1), End: date(2019, 12, 31)},
		Organizations:  []string{"SpaceX", "spacex", "Blue Origin"},
		TechCategories: []string{"Materials", "Structures"},
	}

	spec := p.Plan(context.Background(), "carbon fiber tanks", f)

	require.True(t, spec.DateRange.Valid())
	assert.Equal(t, date(2018, 1, 1), spec.DateRange.Start)
	assert.Equal(t, []string{"SpaceX", "Blue Origin"}, spec.Organizations)
	assert.Equal(t, []string{"materials", "structures"}, spec.Subsystems)
	assert.Equal(t, []string{"cond-mat.mtrl-sci", "physics.app-ph"}, spec.Categories)
}

func TestPlan_OpenEndedFilter(t *testing.T) {
	p := &Planner{Now: fixedNow}
	planned := p.Plan(context.Background(), "carbon fiber tanks", types.Filters{})

	spec := p.Plan(context.Background(), "carbon fiber tanks",
		types.Filters{DateRange: types.DateRange{Start: date(2021, 1, 1)}})
	assert.Equal(t, date(2021, 1, 1), spec.DateRange.Start)
	assert.Equal(t, planned.DateRange.End, spec.DateRange.End)

	// A start after the planned end would invert the range and is ignored.
	spec = p.Plan(context.Background(), "carbon fiber tanks",
		types.Filters{DateRange: types.DateRange{Start: planned.DateRange.End.AddDate(1, 0, 0)}})
	assert.Equal(t, planned.DateRange, spec.DateRange)
}

func TestPlan_KeywordCap(t *testing.T) {
	stub := &stubCompleter{response: `{"keywords": ["a1","a2","a3","a4","a5","a6","a7","a8","a9","a10"], "ipc_codes": ["B64"]}`}
	p := &Planner{Completer: stub, Now: fixedNow, Config: types.PlannerConfig{MaxKeywords: 6}}
	spec := p.Plan(context.Background(), "q", types.Filters{})
	assert.Len(t, spec.Keywords, 6)
}

func TestArxivCategories(t *testing.T) {
	got := ArxivCategories([]string{"Propulsion", "aerodynamics", "unknown", " avionics "})
	assert.Equal(t, []string{"physics.flu-dyn", "eess.SP"}, got)
	assert.Empty(t, ArxivCategories(nil))
}

func TestKnownIPC(t *testing.T) {
	assert.True(t, KnownIPC("b64g"))
	assert.True(t, KnownIPC("G05D1"))
	assert.False(t, KnownIPC("A61K"))
}

func TestBuildStrategies(t *testing.T) {
	spec := types.SearchSpec{
		Keywords:      []string{"ion thruster", "xenon"},
		IPCCodes:      []string{"F03H", "B64G"},
		Organizations: []string{"NASA"},
		DateRange:     types.DateRange{Start: date(2015, 1, 1), End: date(2020, 12, 31)},
		Categories:    []string{"physics.flu-dyn"},
	}
	s := BuildStrategies(spec)
	assert.Equal(t,
		`("ion thruster" OR "xenon") AND (cpc:"F03H" OR cpc:"B64G") AND (assignee:"NASA") AND publication_date:[2015-01-01 TO 2020-12-31]`,
		s.Patents)
	assert.Equal(t, `("ion thruster" AND "xenon") AND (cat:physics.flu-dyn)`, s.Papers)

	plain := BuildStrategies(types.SearchSpec{Keywords: []string{"drone"}})
	assert.Equal(t, `("drone")`, plain.Patents)
	assert.Equal(t, `"drone"`, plain.Papers)
}
