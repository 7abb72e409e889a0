// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"bytes"
	"text/template"

	"github.com/ashr-exe/icarus-insight/internal/llm"
)

// decomposition is the structured answer the backend is asked for.
type decomposition struct {
	Keywords         []string `json:"keywords" jsonschema:"description=3-8 key technical terms,minItems=1"`
	Subsystems       []string `json:"subsystems" jsonschema:"description=2-4 relevant aerospace subsystems"`
	IPCCodes         []string `json:"ipc_codes" jsonschema:"description=codes from the catalogue"`
	ImpliedDateRange []string `json:"implied_date_range" jsonschema:"description=[start end] as YYYY-MM-DD or empty,maxItems=2"`
	Organizations    []string `json:"organizations" jsonschema:"description=companies or organizations implied by the query"`
}

var decompositionPromptTmpl = template.Must(template.New("decompose").Parse(`Decompose the following aerospace research query into searchable components.

Query: {{.Query}}

Identify:
1. keywords: key technical terms (list of 3-8 terms)
2. subsystems: relevant aerospace subsystems (list 2-4, e.g. propulsion, materials, aerodynamics, structures, avionics)
3. ipc_codes: potential IPC/CPC codes from this catalogue:
{{- range .Catalogue}}
   - {{.Code}}: {{.Description}}
{{- end}}
4. implied_date_range: date range of interest as ["YYYY-MM-DD", "YYYY-MM-DD"], or [] if none is implied
5. organizations: relevant companies or organizations, or [] if none is implied

Respond with a single JSON object matching this schema. Do not include any text outside the JSON object.
{{.Schema}}
`))

var decompositionSchema = llm.Schema(decomposition{})

func renderPrompt(query string) (string, error) {
	var buf bytes.Buffer
	err := decompositionPromptTmpl.Execute(&buf, struct {
		Query     string
		Catalogue []IPCCode
		Schema    string
	}{Query: query, Catalogue: IPCCatalogue, Schema: decompositionSchema})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
