// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs", "icarus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func report(id string, created time.Time) *types.ResearchReport {
	return &types.ResearchReport{
		ID:         id,
		Query:      "ion thrusters " + id,
		CreatedAt:  created,
		Narrative:  types.Narrative{Summary: "summary", Source: types.NarrativeTemplate},
		Statistics: types.Statistics{Total: 3, Patents: 2, Papers: 1},
		Documents: []types.Document{
			{ID: "US1", Kind: types.KindPatent, Title: "Thruster", Date: time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
		Status: []types.AdapterStatus{
			{Adapter: "patentsview", Kind: types.KindPatent, Outcome: types.OutcomeSuccess, Records: 2},
			{Adapter: "arxiv", Kind: types.KindPaper, Outcome: types.OutcomePermanentFailure},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	want := report("a", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, want.Query, got.Query)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, want.Documents, got.Documents)
	assert.Equal(t, want.Status, got.Status)
}

func TestLoadMissing(t *testing.T) {
	s := openStore(t)
	_, err := s.Load(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveReplaces(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	r := report("a", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Save(ctx, r))

	r.Query = "updated"
	require.NoError(t, s.Save(ctx, r))

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "updated", list[0].Query)
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, r := range []struct {
		id    string
		hours int
	}{{"old", 0}, {"new", 48}, {"mid", 24}} {
		require.NoError(t, s.Save(ctx, report(r.id, base.Add(time.Duration(r.hours)*time.Hour))))
	}

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
	assert.Equal(t, 3, list[0].Documents)
	assert.Equal(t, 1, list[0].Failures)
	assert.Equal(t, "template", list[0].Narrative)
	assert.True(t, list[0].CreatedAt.Equal(base.Add(48*time.Hour)))

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, report("a", time.Now())))

	require.NoError(t, s.Delete(ctx, "a"))
	require.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
	_, err := s.Load(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentSave(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Save(ctx, report(string(rune('a'+i)), time.Now())))
		}()
	}
	wg.Wait()

	list, err := s.List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, list, 10)
}
