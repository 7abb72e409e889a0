// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/internal/report"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []report.Format
		wantErr bool
	}{
		{name: "none"},
		{name: "dedup", in: []string{"md", "markdown", "json"}, want: []report.Format{report.FormatMarkdown, report.FormatJSON}},
		{name: "all", in: []string{"csv", "ALL"}, want: report.Formats},
		{name: "unknown", in: []string{"docx"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFormats(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
