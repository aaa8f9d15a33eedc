// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muchan23/paper-research-agent/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Entry{
		SessionID:  "sess-1",
		Query:      "quantum error correction",
		YearFilter: ">=2020",
		Requested:  25,
		Actual:     2,
		Truncated:  true,
		Warning:    "page budget exhausted",
		Papers: []types.Paper{
			{ID: "W1", Title: "First"},
			{ID: "W2", Title: "Second"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, "quantum error correction", got.Query)
	assert.Equal(t, ">=2020", got.YearFilter)
	assert.True(t, got.Truncated)
	assert.Equal(t, "page budget exhausted", got.Warning)
	require.Len(t, got.Papers, 2)
	assert.Equal(t, "First", got.Papers[0].Title)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "no-such-id")
	assert.ErrorContains(t, err, "not found")
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i, q := range []string{"older", "newer"} {
		_, err := s.Record(ctx, Entry{
			SessionID: "sess-1",
			Query:     q,
			CreatedAt: time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "newer", entries[0].Query)
	assert.Equal(t, "older", entries[1].Query)
	// List omits the heavy result payload.
	assert.Nil(t, entries[0].Papers)
}

func TestListLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, Entry{SessionID: "s", Query: "q",
			CreatedAt: time.Date(2026, 8, 1, i, 0, 0, 0, time.UTC)})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestReopenExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewStore(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	id, err := s1.Record(ctx, Entry{SessionID: "s", Query: "persisted"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewStore(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Query)
}
