// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// CSLItem is a bibliography entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Abstract  string    `yaml:"abstract,omitempty"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	DOI       string    `yaml:"DOI,omitempty"`
	URL       string    `yaml:"URL,omitempty"`
	Publisher string    `yaml:"publisher,omitempty"`
	Number    string    `yaml:"number,omitempty"`
}

// CSLName is a person or organization name.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate holds date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSL writes the documents as a CSL-YAML list.
func CSL(w io.Writer, docs []types.Document) error {
	items := make([]CSLItem, len(docs))
	for i, d := range docs {
		items[i] = toCSLItem(d)
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("marshaling CSL: %w", err)
	}
	return enc.Close()
}

// toCSLItem maps a document onto CSL. Patents carry their assignee as a
// literal author and their number; papers split the first author's name.
func toCSLItem(d types.Document) CSLItem {
	item := CSLItem{
		ID:       d.ID,
		Title:    d.Title,
		Abstract: d.Abstract,
		URL:      d.URL,
	}
	switch d.Kind {
	case types.KindPatent:
		item.Type = "patent"
		item.Number = d.ID
		if d.Organization != "" {
			item.Author = []CSLName{{Literal: d.Organization}}
		}
	default:
		item.Type = "article"
		if d.Organization != "" {
			item.Author = []CSLName{parseAuthorName(d.Organization)}
		}
		if strings.HasPrefix(d.ID, "10.") {
			item.DOI = d.ID
		}
	}
	if !d.Date.IsZero() {
		item.Issued = &CSLDate{DateParts: [][]int{{d.Date.Year(), int(d.Date.Month()), d.Date.Day()}}}
	}
	return item
}

// parseAuthorName splits on the last space: everything before is given,
// the last token is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{Given: name[:idx], Family: name[idx+1:]}
}
