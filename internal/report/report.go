// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders research reports for export and writes them to
// disk or object storage.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatCSL      Format = "csl"
)

// Formats lists every supported format in export order.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML, FormatCSV, FormatCSL}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "csl", "bib":
		return FormatCSL, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ContentType returns the MIME type of an export.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatCSL:
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// Ext is the file extension of an export.
func (f Format) Ext() string {
	if f == FormatCSL {
		return "csl.yaml"
	}
	return string(f)
}

// Render writes r to w in format f.
func Render(w io.Writer, r *types.ResearchReport, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		return Markdown(w, r)
	case FormatHTML:
		return HTML(w, r)
	case FormatCSV:
		return CSV(w, r.Documents)
	case FormatCSL:
		return CSL(w, r.Documents)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// Bytes renders r into memory.
func Bytes(r *types.ResearchReport, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, r, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the export file name of r in format f.
func FileName(r *types.ResearchReport, f Format) string {
	return "report-" + r.ID + "." + f.Ext()
}

// WriteFiles renders r in each format into dir and returns the written
// paths in format order.
func WriteFiles(dir string, r *types.ResearchReport, formats []Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, err := Bytes(r, f)
		if err != nil {
			return paths, fmt.Errorf("rendering %s: %w", f, err)
		}
		path := filepath.Join(dir, FileName(r, f))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Uploader stores rendered exports under a key.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Upload renders r in each format and hands the exports to u. It returns
// the stored locations in format order.
func Upload(ctx context.Context, u Uploader, prefix string, r *types.ResearchReport, formats []Format) ([]string, error) {
	locations := make([]string, 0, len(formats))
	for _, f := range formats {
		data, err := Bytes(r, f)
		if err != nil {
			return locations, fmt.Errorf("rendering %s: %w", f, err)
		}
		key := FileName(r, f)
		if prefix = strings.Trim(prefix, "/"); prefix != "" {
			key = prefix + "/" + key
		}
		loc, err := u.Upload(ctx, key, f.ContentType(), data)
		if err != nil {
			return locations, fmt.Errorf("uploading %s: %w", key, err)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}
