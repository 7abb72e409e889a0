// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import "strings"

// IPCCode is an aerospace patent classification code and its scope.
type IPCCode struct {
	Code        string
	Description string
}

// IPCCatalogue lists the classification codes offered to the backend.
var IPCCatalogue = []IPCCode{
	{"B64", "Aircraft, aviation, cosmonautics"},
	{"B64C", "Aeroplanes; Helicopters"},
	{"B64D", "Equipment for fitting in or to aircraft"},
	{"B64F", "Ground or aircraft-carrier-deck installations"},
	{"B64G", "Cosmonautics; Vehicles or equipment therefor"},
	{"F02K", "Jet propulsion plants"},
	{"F03H", "Producing a reactive propulsive thrust"},
	{"G01C", "Measuring distances, levels or bearings; Surveying; Navigation"},
	{"G01S", "Radio direction-finding, navigation"},
	{"G05D1", "Control of position or course in two dimensions or three dimensions"},
}

// KnownIPC reports whether code is in the catalogue.
func KnownIPC(code string) bool {
	for _, c := range IPCCatalogue {
		if strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

// subsystemCategories maps aerospace subsystems to arXiv categories.
var subsystemCategories = map[string]string{
	"propulsion":   "physics.flu-dyn",
	"materials":    "cond-mat.mtrl-sci",
	"aerodynamics": "physics.flu-dyn",
	"structures":   "physics.app-ph",
	"avionics":     "eess.SP",
}

// ArxivCategories maps subsystems to distinct arXiv categories in
// first-seen order. Unknown subsystems are ignored.
func ArxivCategories(subsystems []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range subsystems {
		cat, ok := subsystemCategories[strings.ToLower(strings.TrimSpace(s))]
		if !ok || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

// stopWords are dropped by the heuristic decomposer.
var stopWords = map[string]bool{
	"what": true, "when": true, "where": true, "which": true,
	"research": true, "find": true, "about": true, "with": true,
	"that": true, "this": true, "these": true, "those": true,
	"from": true, "into": true, "there": true, "their": true,
	"have": true, "been": true, "latest": true, "recent": true,
}
