// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

var csvHeader = []string{
	"kind", "id", "title", "organization", "date", "citation_count",
	"source", "ipc_codes", "category", "url", "parameters",
}

// CSV writes one row per document, in report order.
func CSV(w io.Writer, docs []types.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, d := range docs {
		row := []string{
			string(d.Kind),
			d.ID,
			d.Title,
			d.Organization,
			d.Date.Format("2006-01-02"),
			strconv.Itoa(d.CitationCount),
			d.Source,
			strings.Join(d.IPCCodes, ";"),
			d.Category,
			d.URL,
			parameterCell(d.Parameters),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %s: %w", d.Key(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parameterCell(params map[string]string) string {
	keys := slices.Sorted(maps.Keys(params))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	return strings.Join(parts, ";")
}
