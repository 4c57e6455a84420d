package stack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mbetts/wosync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "stack.json"))
}

func TestStore_LoadMissingFileIsEmpty(t *testing.T) {
	s := newStore(t)
	stack, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, stack)
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	order := testutil.NewStackedOrder("1234567", true,
		testutil.NewEntry(10, testutil.Day(9, 0)),
		testutil.NewEntry(20, testutil.Day(9, 30), testutil.WithNoun(300), testutil.WithPushed()),
	)

	require.NoError(t, s.Upsert(order))

	stack, err := s.Load()
	require.NoError(t, err)
	require.Len(t, stack, 1)
	got := stack[0]
	assert.Equal(t, "1234567", got.Number)
	assert.True(t, got.CloseOnPush)
	require.Len(t, got.Services, 2)
	assert.False(t, bool(got.Services[0].Pushed))
	assert.True(t, bool(got.Services[1].Pushed))
	require.NotNil(t, got.Services[1].NounCode)
	assert.Equal(t, 300, *got.Services[1].NounCode)
	assert.Equal(t, testutil.Day(9, 30), got.Services[1].At.Time)
}

func TestStore_UpsertReplacesWholesale(t *testing.T) {
	s := newStore(t)

	first := testutil.NewStackedOrder("1234567", false,
		testutil.NewEntry(10, testutil.Day(9, 0)),
		testutil.NewEntry(20, testutil.Day(9, 30)),
	)
	require.NoError(t, s.Upsert(first))

	second := testutil.NewStackedOrder("1234567", true,
		testutil.NewEntry(30, testutil.Day(10, 0)),
	)
	require.NoError(t, s.Upsert(second))

	stack, err := s.Load()
	require.NoError(t, err)
	require.Len(t, stack, 1)
	require.Len(t, stack[0].Services, 1, "re-staging replaces, never merges")
	assert.Equal(t, 30, stack[0].Services[0].VerbCode)
	assert.True(t, stack[0].CloseOnPush)
}

func TestStore_UpsertKeepsStagingOrder(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Upsert(testutil.NewStackedOrder("1111111", false, testutil.NewEntry(1, testutil.Day(9, 0)))))
	require.NoError(t, s.Upsert(testutil.NewStackedOrder("2222222", false, testutil.NewEntry(2, testutil.Day(9, 0)))))
	require.NoError(t, s.Upsert(testutil.NewStackedOrder("1111111", false, testutil.NewEntry(3, testutil.Day(9, 0)))))

	stack, err := s.Load()
	require.NoError(t, err)
	require.Len(t, stack, 2)
	assert.Equal(t, "1111111", stack[0].Number)
	assert.Equal(t, "2222222", stack[1].Number)
}

func TestStore_Remove(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Upsert(testutil.NewStackedOrder("1111111", false, testutil.NewEntry(1, testutil.Day(9, 0)))))
	require.NoError(t, s.Upsert(testutil.NewStackedOrder("2222222", false, testutil.NewEntry(2, testutil.Day(9, 0)))))

	require.NoError(t, s.Remove("1111111"))

	stack, err := s.Load()
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, "2222222", stack[0].Number)
}

func TestStore_Clear(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Upsert(testutil.NewStackedOrder("1111111", false, testutil.NewEntry(1, testutil.Day(9, 0)))))
	require.NoError(t, s.Clear())

	stack, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, stack)

	// Clearing an already-empty store is fine.
	require.NoError(t, s.Clear())
}

func TestStore_CorruptSnapshotBackedUp(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrCorrupt)

	_, statErr := os.Stat(s.Path() + ".corrupt")
	assert.NoError(t, statErr, "bad snapshot should be preserved")
}
