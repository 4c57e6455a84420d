package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mbetts/wosync/internal/codes"
	"github.com/mbetts/wosync/internal/db"
	"github.com/mbetts/wosync/internal/pusher"
	"github.com/mbetts/wosync/internal/remote"
	"github.com/mbetts/wosync/internal/repository"
	"github.com/mbetts/wosync/internal/service"
	"github.com/mbetts/wosync/internal/stack"
	"github.com/mbetts/wosync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB, a temp stack file,
// and a scripted remote channel for CLI integration tests.
func testApp(t *testing.T) (*App, *testutil.FakeChannel, string) {
	t.Helper()
	database := testutil.NewTestDB(t)
	dir := t.TempDir()

	workOrders := repository.NewSQLiteWorkOrderRepo(database)
	refs := repository.NewSQLiteReferenceRepo(database)
	store := stack.NewStore(filepath.Join(dir, "stack.json"))
	ch := testutil.NewFakeChannel()

	staging := service.NewStageService(workOrders, codes.NewResolver(refs), store, nil, 0)
	retry := remote.RetryPolicy{Attempts: 1}

	return &App{
		Staging:    staging,
		Push:       service.NewPushService(pusher.New(ch, store, nil), staging, store, nil, 1, retry),
		Stack:      service.NewStackService(store),
		WorkOrders: service.NewWorkOrderService(workOrders),
		Codes:      service.NewCodeService(refs, db.NewUnitOfWork(database)),
	}, ch, dir
}

// executeCmd runs a cobra command and captures cobra-level output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func seedCodes(t *testing.T, app *App) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, app.Codes.AddVerb(ctx, "Inspected", 10, false))
	require.NoError(t, app.Codes.AddVerb(ctx, "Replaced", 20, true))
	require.NoError(t, app.Codes.AddNoun(ctx, "Filter", 300))
}

func writeNotes(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _, _ := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "wosync")
}

func TestWorkOrderAddAndClose(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "wo", "add", "1234567", "--control", "12345678")
	require.NoError(t, err)

	wo, err := app.WorkOrders.Get(context.Background(), "1234567")
	require.NoError(t, err)
	assert.Equal(t, "12345678", wo.ControlNumber)
	assert.True(t, wo.Open)

	_, err = executeCmd(t, app, "wo", "close", "1234567")
	require.NoError(t, err)

	wo, err = app.WorkOrders.Get(context.Background(), "1234567")
	require.NoError(t, err)
	assert.False(t, wo.Open)
}

func TestWorkOrderAdd_BadNumber(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "wo", "add", "12")
	assert.Error(t, err)
}

func TestCodesAddVerb_BadCode(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "codes", "add-verb", "Inspected", "ten")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid code")
}

func TestStageCmd_RequiresWorkOrderFlag(t *testing.T) {
	app, _, dir := testApp(t)
	path := writeNotes(t, dir, "[Inspected] (2025-03-24 09:00) => checked")

	_, err := executeCmd(t, app, "stage", path)
	assert.Error(t, err)
}

func TestStageThenPushFlow(t *testing.T) {
	app, ch, dir := testApp(t)
	seedCodes(t, app)

	_, err := executeCmd(t, app, "wo", "add", "1234567")
	require.NoError(t, err)

	path := writeNotes(t, dir, `[Inspected] (2025-03-24 09:00) => checked
[Replaced, Filter] (2025-03-24 09:30) => swapped filter`)

	_, err = executeCmd(t, app, "stage", path, "--work-order", "1234567")
	require.NoError(t, err)

	stk, err := app.Stack.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stk, 1)
	assert.Len(t, stk[0].Services, 2)

	_, err = executeCmd(t, app, "push")
	require.NoError(t, err)
	assert.Len(t, ch.Submitted["1234567"], 2)

	stk, err = app.Stack.List(context.Background())
	require.NoError(t, err)
	assert.True(t, stk[0].FullyPushed())
}

func TestPushCmd_DryRunOpensNoSession(t *testing.T) {
	app, ch, dir := testApp(t)
	seedCodes(t, app)

	_, err := executeCmd(t, app, "wo", "add", "1234567")
	require.NoError(t, err)

	path := writeNotes(t, dir, "[Inspected] (2025-03-24 09:00) => checked")
	_, err = executeCmd(t, app, "stage", path, "--work-order", "1234567")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "push", "--dry-run")
	require.NoError(t, err)
	assert.Zero(t, ch.OpenCount)
}

func TestStackRemoveAndPrune(t *testing.T) {
	app, _, dir := testApp(t)
	seedCodes(t, app)

	_, err := executeCmd(t, app, "wo", "add", "1234567")
	require.NoError(t, err)
	path := writeNotes(t, dir, "[Inspected] (2025-03-24 09:00) => checked")
	_, err = executeCmd(t, app, "stage", path, "--work-order", "1234567")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "push")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "stack", "prune")
	require.NoError(t, err)

	stk, err := app.Stack.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stk)
}
