package formatter

import (
	"strings"
	"testing"

	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/pusher"
	"github.com/mbetts/wosync/internal/repository"
	"github.com/mbetts/wosync/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatStackList_StatusPerOrder(t *testing.T) {
	out := FormatStackList(domain.Stack{
		testutil.NewStackedOrder("1111111", false, testutil.NewEntry(10, testutil.Day(9, 0), testutil.WithPushed())),
		testutil.NewStackedOrder("2222222", true,
			testutil.NewEntry(10, testutil.Day(9, 0), testutil.WithPushed()),
			testutil.NewEntry(20, testutil.Day(9, 30)),
		),
	})

	assert.Contains(t, out, "1111111")
	assert.Contains(t, out, "1/1")
	assert.Contains(t, out, "pushed")
	assert.Contains(t, out, "2222222")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "partial")
	assert.Contains(t, out, "close")
}

func TestFormatStackedOrder_EntriesAndNotes(t *testing.T) {
	wo := testutil.NewStackedOrder("1234567", true,
		testutil.NewEntry(10, testutil.Day(9, 0), testutil.WithDuration(30)),
		testutil.NewEntry(20, testutil.Day(9, 30), testutil.WithNoun(300), testutil.WithPushed()),
	)

	out := FormatStackedOrder(wo)
	assert.Contains(t, out, "1234567")
	assert.Contains(t, out, "90000001")
	assert.Contains(t, out, "2025-03-24 09:00")
	assert.Contains(t, out, "30m")
	assert.Contains(t, out, "300")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "pushed")
	assert.Contains(t, out, "combined fixture notes")
}

func TestFormatPushReport_TotalsAndClosure(t *testing.T) {
	report := &pusher.Report{
		Pushed:  2,
		Skipped: 1,
		Failed:  1,
		Orders: []pusher.OrderReport{
			{
				Number: "1234567",
				Entries: []pusher.EntryReport{
					{At: testutil.Day(9, 0), State: domain.PushDone},
					{At: testutil.Day(9, 30), State: domain.PushDuplicate},
					{At: testutil.Day(10, 0), State: domain.PushFailed, Err: "submit rejected"},
				},
				Closure: pusher.CloseBlocked,
			},
		},
	}

	out := FormatPushReport(report)
	assert.Contains(t, out, "1234567")
	assert.Contains(t, out, "duplicate")
	assert.Contains(t, out, "submit rejected")
	assert.Contains(t, out, "close skipped")
	assert.Contains(t, out, "pushed 2, skipped 1 duplicates, 1 failed")
}

func TestFormatPushReport_DryRun(t *testing.T) {
	report := &pusher.Report{
		DryRun: true,
		Orders: []pusher.OrderReport{
			{Number: "1234567", Entries: []pusher.EntryReport{{At: testutil.Day(9, 0), State: domain.PushPending}}},
		},
	}

	out := FormatPushReport(report)
	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "would push")
}

func TestFormatCodeTable_SortedKeywords(t *testing.T) {
	out := FormatCodeTable(&repository.CodeTable{
		Verbs: map[string]repository.VerbDef{
			"Replaced":  {Code: 20, RequiresNoun: true},
			"Inspected": {Code: 10},
		},
		Nouns: map[string]int{"Filter": 300},
	})

	assert.Contains(t, out, "Inspected")
	assert.Contains(t, out, "required")
	assert.Contains(t, out, "Filter")
	assert.Less(t, strings.Index(out, "Inspected"), strings.Index(out, "Replaced"))
}
