// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

func TestSyntheticPatents(t *testing.T) {
	s := &Synthetic{Seed: 42}
	c := PatentCriteria{Keywords: []string{"ion", "thruster"}, IPCCodes: []string{"F03H"}}

	records, err := s.SearchPatents(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, records, 10)

	first := records[0].Patent
	assert.Equal(t, "US10000111A1", first.ID)
	assert.Equal(t, "Advanced Ion Thruster System", first.Title)
	assert.True(t, strings.HasPrefix(first.Abstract, "A novel system for ion thruster"))
	assert.Equal(t, []string{"F03H"}, first.IPCCodes)
	assert.Equal(t, 11, first.ClaimsCount)
	assert.Equal(t, 3, first.CitationCount)
	assert.Contains(t, syntheticAssignees, first.Assignee)
	assert.Len(t, first.Inventors, 2)

	for _, r := range records {
		assert.Equal(t, types.KindPatent, r.Kind)
		d, err := time.Parse("2006-01-02", r.Patent.PublicationDate)
		require.NoError(t, err)
		assert.True(t, d.Year() >= 2010 && d.Year() <= 2023, "year %d", d.Year())
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	c := PaperCriteria{Query: "hypersonic scramjet"}
	a, err := (&Synthetic{Seed: 7}).SearchPapers(context.Background(), c)
	require.NoError(t, err)
	b, err := (&Synthetic{Seed: 7}).SearchPapers(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := (&Synthetic{Seed: 8}).SearchPapers(context.Background(), c)
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestSyntheticPapersRespectCriteria(t *testing.T) {
	s := &Synthetic{Seed: 1}
	r := types.DateRange{Start: date(2020, 1, 1), End: date(2020, 12, 31)}
	records, err := s.SearchPapers(context.Background(), PaperCriteria{
		Query:      "drone navigation",
		MaxResults: 4,
		Categories: []string{"cs.RO"},
		DateRange:  r,
	})
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Terms cycle starting from the second.
	assert.Equal(t, "Advanced Navigation Methods for Aerospace Applications", records[0].Paper.Title)
	assert.Equal(t, "Advanced Drone Methods for Aerospace Applications", records[1].Paper.Title)
	assert.Equal(t, "2310.10001", records[0].Paper.ID)

	for _, rec := range records {
		assert.Equal(t, "cs.RO", rec.Paper.Category)
		d, err := time.Parse("2006-01-02", rec.Paper.Published)
		require.NoError(t, err)
		assert.True(t, r.Contains(d), "%s outside range", rec.Paper.Published)
	}
}

func TestSyntheticCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Synthetic{}).SearchPatents(ctx, PatentCriteria{})
	require.Error(t, err)
	assert.Equal(t, ClassTransient, ClassOf(err))
}

func TestYearWindowDisjoint(t *testing.T) {
	w := yearWindow(2015, 2023, types.DateRange{Start: date(2000, 1, 1), End: date(2001, 1, 1)})
	assert.Equal(t, date(2000, 1, 1), w.start)
	assert.Equal(t, date(2001, 1, 1), w.end)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Ion Thruster", titleCase("ion thruster"))
	assert.Equal(t, "Müller", titleCase("müller"))
}
