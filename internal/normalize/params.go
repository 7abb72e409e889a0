// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultVocabulary maps each tracked parameter name to its canonical unit.
var DefaultVocabulary = map[string]string{
	"efficiency":  "%",
	"temperature": "K",
	"thrust":      "N",
	"power":       "W",
	"weight":      "kg",
	"size":        "m",
}

// Extractor finds engineering parameters in free text.
//
// Extraction is a heuristic, not an authoritative reading of the document.
// A parameter is emitted whenever its name occurs in the text, ignoring
// case. If a number followed by the parameter's unit (optionally SI
// prefixed) also occurs, the first such measurement is the value;
// otherwise the value is "unquantified (<unit>)". The name and the number
// are not checked to belong together.
type Extractor struct {
	params []parameter
}

type parameter struct {
	name    string
	unit    string
	measure *regexp.Regexp
}

// NewExtractor builds an extractor over vocab. Empty names are ignored.
func NewExtractor(vocab map[string]string) *Extractor {
	names := make([]string, 0, len(vocab))
	for name := range vocab {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	e := &Extractor{}
	for _, name := range names {
		unit := vocab[name]
		e.params = append(e.params, parameter{
			name:    strings.ToLower(strings.TrimSpace(name)),
			unit:    unit,
			measure: measurePattern(unit),
		})
	}
	return e
}

var defaultExtractor = NewExtractor(DefaultVocabulary)

// DefaultExtractor returns the extractor over DefaultVocabulary.
func DefaultExtractor() *Extractor { return defaultExtractor }

// measurePattern matches a number, an optional space, an optional SI prefix
// and the unit, not followed by a letter. Percent takes no prefix.
func measurePattern(unit string) *regexp.Regexp {
	if unit == "" {
		return nil
	}
	prefix := `[kMGmµu]?`
	if unit == "%" {
		prefix = ""
	}
	return regexp.MustCompile(`(?:^|[^\w.])(\d+(?:\.\d+)?)\s?(` + prefix + regexp.QuoteMeta(unit) + `)(?:$|[^A-Za-z])`)
}

// Extract returns the parameters found in text, or nil when none are.
func (e *Extractor) Extract(text string) map[string]string {
	lower := strings.ToLower(text)
	var out map[string]string
	for _, p := range e.params {
		if !strings.Contains(lower, p.name) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[p.name] = p.value(text)
	}
	return out
}

func (p parameter) value(text string) string {
	if p.measure != nil {
		if m := p.measure.FindStringSubmatch(text); m != nil {
			return m[1] + m[2]
		}
	}
	return "unquantified (" + p.unit + ")"
}
