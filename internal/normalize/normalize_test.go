// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

func patent(id, date string) types.RawRecord {
	return types.PatentRecord("pv", types.PatentFields{
		ID: id, Title: "Ion thruster", Abstract: "Thrust of 120 N.", Assignee: "NASA",
		IPCCodes: []string{"B64G"}, PublicationDate: date, CitationCount: 4,
	})
}

func paper(source, id, date string, authors ...string) types.RawRecord {
	return types.PaperRecord(source, types.PaperFields{
		ID: id, Title: "Composite panels", Summary: "Carbon fiber layups.", Authors: authors,
		Category: "cond-mat.mtrl-sci", Published: date,
	})
}

func TestNormalizeMapsFields(t *testing.T) {
	c, err := Normalize([]types.RawRecord{
		patent("US1", "2019-04-16"),
		paper("arxiv", "2301.1", "2023-01-05T10:00:00Z", "Wei Zhang", "Maria Rodriguez"),
	})
	require.NoError(t, err)
	require.Len(t, c.Documents, 2)

	want := types.Document{
		ID: "US1", Kind: types.KindPatent, Title: "Ion thruster", Abstract: "Thrust of 120 N.",
		Organization: "NASA", Date: time.Date(2019, 4, 16, 0, 0, 0, 0, time.UTC), CitationCount: 4,
		Source: "pv", IPCCodes: []string{"B64G"}, Parameters: map[string]string{"thrust": "120N"},
	}
	if diff := cmp.Diff(want, c.Documents[0]); diff != "" {
		t.Errorf("patent document mismatch (-want +got):\n%s", diff)
	}

	p := c.Documents[1]
	assert.Equal(t, types.KindPaper, p.Kind)
	assert.Equal(t, "Wei Zhang", p.Organization)
	assert.Equal(t, "Carbon fiber layups.", p.Abstract)
	assert.Equal(t, "cond-mat.mtrl-sci", p.Category)
	assert.Equal(t, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Nil(t, p.Parameters)
}

func TestNormalizeUnknownOrganization(t *testing.T) {
	c, err := Normalize([]types.RawRecord{
		paper("arxiv", "a", "2020-01-01"),
		types.PatentRecord("pv", types.PatentFields{ID: "US2", PublicationDate: "2020-01-01"}),
	})
	require.NoError(t, err)
	assert.Equal(t, UnknownOrganization, c.Documents[0].Organization)
	assert.Equal(t, UnknownOrganization, c.Documents[1].Organization)
}

func TestNormalizeDedupFirstWins(t *testing.T) {
	c, err := Normalize([]types.RawRecord{
		paper("arxiv", "2301.1", "2023-01-01", "First"),
		paper("semantic_scholar", "2301.1", "2023-01-01", "Second"),
		// Same id, different kind: not a duplicate.
		types.PatentRecord("pv", types.PatentFields{ID: "2301.1", PublicationDate: "2020-01-01"}),
	})
	require.NoError(t, err)
	require.Len(t, c.Documents, 2)
	assert.Equal(t, "arxiv", c.Documents[0].Source)
	assert.Equal(t, "First", c.Documents[0].Organization)
	assert.Equal(t, 1, c.Duplicates)
}

func TestNormalizeSkipsUndated(t *testing.T) {
	c, err := Normalize([]types.RawRecord{
		paper("s2", "a", ""),
		paper("s2", "b", "sometime soon"),
		paper("s2", "c", "2021-02-03"),
	})
	require.NoError(t, err)
	require.Len(t, c.Documents, 1)
	assert.Equal(t, "c", c.Documents[0].ID)
	require.Len(t, c.Skipped, 2)
	assert.Equal(t, "paper:a", c.Skipped[0].Key)
	assert.Equal(t, "missing date", c.Skipped[0].Reason)
	assert.Contains(t, c.Skipped[1].Reason, "unparseable")
}

func TestNormalizeSkippedRecordDoesNotShadowLaterCopy(t *testing.T) {
	c, err := Normalize([]types.RawRecord{
		paper("s2", "x", ""),
		paper("arxiv", "x", "2022-06-01"),
	})
	require.NoError(t, err)
	require.Len(t, c.Documents, 1)
	assert.Equal(t, "arxiv", c.Documents[0].Source)
	assert.Zero(t, c.Duplicates)
}

func TestNormalizeContractViolation(t *testing.T) {
	tests := []struct {
		name   string
		record types.RawRecord
	}{
		{"patent tag with paper payload", types.RawRecord{Kind: types.KindPatent, Paper: &types.PaperFields{ID: "p"}}},
		{"paper tag without payload", types.RawRecord{Kind: types.KindPaper}},
		{"both payloads", types.RawRecord{Kind: types.KindPaper, Paper: &types.PaperFields{ID: "p"}, Patent: &types.PatentFields{ID: "q"}}},
		{"unknown kind", types.RawRecord{Kind: "standard"}},
		{"empty id", types.PatentRecord("pv", types.PatentFields{PublicationDate: "2020-01-01"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]types.RawRecord{paper("a", "ok", "2020-01-01"), tt.record})
			require.ErrorIs(t, err, ErrContractViolation)
		})
	}
}

func TestNormalizeEmpty(t *testing.T) {
	c, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, c.Documents)
	assert.Empty(t, c.Skipped)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2020-03-15", time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"2023-05-02T17:59:59Z", time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC), false},
		{"2018", time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"2018-07", time.Date(2018, 7, 1, 0, 0, 0, 0, time.UTC), false},
		{"March 4, 2021", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), false},
		{"  2020-03-15  ", time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"not a date", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		})
	}
}

func TestSpecifications(t *testing.T) {
	docs := []types.Document{
		{ID: "a", Kind: types.KindPatent, Title: "T", Abstract: "x", Parameters: map[string]string{"power": "4kW"}},
		{ID: "b", Kind: types.KindPaper, Abstract: "  "},
		{ID: "c", Kind: types.KindPaper, Abstract: "y"},
	}
	specs := Specifications(docs)
	require.Len(t, specs, 2)
	assert.Equal(t, "a", specs[0].SourceID)
	assert.Equal(t, map[string]string{"power": "4kW"}, specs[0].Parameters)
	assert.Equal(t, "Untitled", specs[1].Title)
	assert.Empty(t, specs[1].Parameters)

	specs[0].Parameters["power"] = "changed"
	assert.Equal(t, "4kW", docs[0].Parameters["power"])
}
