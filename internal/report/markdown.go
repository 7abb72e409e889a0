// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

const markdownTmpl = `# Research Report: {{.Query}}

_Run {{.ID}} · {{date .CreatedAt}} · narrative: {{.Narrative.Source}}_

## Executive Summary

{{.Narrative.Summary}}

## Methodology

{{.Narrative.Methodology}}

## Detailed Findings
{{range .Narrative.Findings}}
### {{.Topic}}
{{range .Items}}
- {{.}}
{{- end}}
{{end}}
## Statistics

| Metric | Value |
|---|---|
| Documents | {{.Statistics.Total}} |
| Patents | {{.Statistics.Patents}} |
| Papers | {{.Statistics.Papers}} |
| Date range | {{span .Statistics}} |
| Skipped records | {{.Skipped}} |
| Duplicate records | {{.Duplicates}} |
{{if .Statistics.TopOrganizations}}
### Top Organizations
{{range .Statistics.TopOrganizations}}
- {{.Name}}: {{.Count}}
{{- end}}
{{end}}
{{- if .Innovations}}
## Key Innovations
{{range .Innovations}}
### {{.Title}}

{{.Description}}

Source: {{.Source}} · {{date .Date}} · TRL {{.TRL}}
{{end}}
{{- end}}
{{- if .Landscape}}
## Patent Landscape

| Organization | Patents | IPC classes |
|---|---|---|
{{- range .Landscape}}
| {{cell .Organization}} | {{.Patents}} | {{ipc .IPCCounts}} |
{{- end}}
{{end}}
{{- if .Trends}}
## Technology Trends
{{range .Trends}}
### {{.Name}}

| Year | Matches | Documents |
|---|---|---|
{{- range .Points}}
| {{.Year}} | {{.Count}} | {{.TotalDocs}} |
{{- end}}
{{end}}
{{- end}}
## Citation Graph

{{len .CitationGraph.Nodes}} nodes, {{len .CitationGraph.Edges}} edges.

## Sources

| Adapter | Kind | Outcome | Records |
|---|---|---|---|
{{- range .Status}}
| {{.Adapter}} | {{.Kind}} | {{.Outcome}} | {{.Records}} |
{{- end}}
`

var markdown = template.Must(template.New("report").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02") },
	"span": func(st types.Statistics) string {
		if st.Earliest.IsZero() {
			return "N/A"
		}
		return st.Earliest.Format("2006-01-02") + " to " + st.Latest.Format("2006-01-02")
	},
	"cell": func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
	"ipc":  ipcSummary,
}).Parse(markdownTmpl))

// Markdown renders r as a Markdown document.
func Markdown(w io.Writer, r *types.ResearchReport) error {
	if err := markdown.Execute(w, r); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	return nil
}

// ipcSummary lists IPC classes by descending count, ties by code.
func ipcSummary(counts map[string]int) string {
	codes := make([]string, 0, len(counts))
	for k := range counts {
		codes = append(codes, k)
	}
	slices.SortFunc(codes, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = fmt.Sprintf("%s (%d)", c, counts[c])
	}
	return strings.Join(parts, ", ")
}
