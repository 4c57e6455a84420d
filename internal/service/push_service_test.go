package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mbetts/wosync/internal/codes"
	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/pusher"
	"github.com/mbetts/wosync/internal/remote"
	"github.com/mbetts/wosync/internal/repository"
	"github.com/mbetts/wosync/internal/stack"
	"github.com/mbetts/wosync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRetry = remote.RetryPolicy{Attempts: 1}

func TestPush_PushesStagedOrders(t *testing.T) {
	dir := t.TempDir()
	store := stack.NewStore(filepath.Join(dir, "stack.json"))
	require.NoError(t, store.Save(domain.Stack{
		testutil.NewStackedOrder("1234567", false,
			testutil.NewEntry(10, testutil.Day(9, 0)),
			testutil.NewEntry(20, testutil.Day(9, 30), testutil.WithNoun(300)),
		),
	}))

	ch := testutil.NewFakeChannel()
	svc := NewPushService(pusher.New(ch, store, nil), nil, store, nil, 1, testRetry)

	report, err := svc.Push(context.Background(), PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pushed)
	assert.Zero(t, report.Failed)
	assert.Len(t, ch.Submitted["1234567"], 2)

	stk, err := store.Load()
	require.NoError(t, err)
	assert.True(t, stk[0].FullyPushed())
}

func TestPush_DryRunLeavesEverythingAlone(t *testing.T) {
	dir := t.TempDir()
	store := stack.NewStore(filepath.Join(dir, "stack.json"))
	require.NoError(t, store.Save(domain.Stack{
		testutil.NewStackedOrder("1234567", false, testutil.NewEntry(10, testutil.Day(9, 0))),
	}))

	ch := testutil.NewFakeChannel()
	svc := NewPushService(pusher.New(ch, store, nil), nil, store, nil, 1, testRetry)

	report, err := svc.Push(context.Background(), PushOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Zero(t, ch.OpenCount)

	stk, _ := store.Load()
	assert.False(t, stk[0].FullyPushed())
}

func TestPush_MarkFilesTagsSourceNotes(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	workOrders := repository.NewSQLiteWorkOrderRepo(database)
	require.NoError(t, workOrders.Upsert(ctx, &domain.WorkOrder{Number: "1234567", Open: true}))
	refs := repository.NewSQLiteReferenceRepo(database)
	require.NoError(t, refs.UpsertVerb(ctx, "Inspected", repository.VerbDef{Code: 10}))

	dir := t.TempDir()
	notePath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notePath, []byte("[Inspected] (2025-03-24 09:00) => checked"), 0o600))

	store := stack.NewStore(filepath.Join(dir, "stack.json"))
	staging := NewStageService(workOrders, codes.NewResolver(refs), store, nil, 0)
	_, err := staging.StageFile(ctx, notePath, "1234567")
	require.NoError(t, err)

	ch := testutil.NewFakeChannel()
	svc := NewPushService(pusher.New(ch, store, nil), staging, store, nil, 1, testRetry)

	report, err := svc.Push(ctx, PushOptions{MarkFiles: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pushed)

	raw, err := os.ReadFile(notePath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "=+")
}

func TestPush_OpenFailureSurfaces(t *testing.T) {
	dir := t.TempDir()
	store := stack.NewStore(filepath.Join(dir, "stack.json"))
	require.NoError(t, store.Save(domain.Stack{
		testutil.NewStackedOrder("1234567", false, testutil.NewEntry(10, testutil.Day(9, 0))),
	}))

	svc := NewPushService(pusher.New(testutil.FailingOpener{}, store, nil), nil, store, nil, 1, testRetry)
	_, err := svc.Push(context.Background(), PushOptions{})
	require.Error(t, err)
}
