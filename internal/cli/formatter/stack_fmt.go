package formatter

import (
	"fmt"
	"strings"

	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/noteparse"
)

// FormatStackList renders the staged work orders as a table.
func FormatStackList(stk domain.Stack) string {
	rows := make([][]string, 0, len(stk))
	for _, wo := range stk {
		pushed := 0
		for _, svc := range wo.Services {
			if bool(svc.Pushed) {
				pushed++
			}
		}

		status := StyleYellow.Render("pending")
		if wo.FullyPushed() {
			status = StyleGreen.Render("pushed")
		} else if pushed > 0 {
			status = StyleBlue.Render("partial")
		}

		closing := ""
		if wo.CloseOnPush {
			closing = "close"
		}

		rows = append(rows, []string{
			wo.Number,
			fmt.Sprintf("%d/%d", pushed, len(wo.Services)),
			status,
			closing,
		})
	}
	return RenderTable([]string{"WORK ORDER", "PUSHED", "STATUS", "ON PUSH"}, rows)
}

// FormatStackedOrder renders one staged work order with its entries.
func FormatStackedOrder(wo *domain.StackedWorkOrder) string {
	var b strings.Builder

	b.WriteString(Header("Work order " + wo.Number))
	b.WriteString("\n")
	if wo.ControlNumber != nil {
		b.WriteString(fmt.Sprintf("Control number: %s\n", *wo.ControlNumber))
	}
	if wo.CloseOnPush {
		b.WriteString(StyleYellow.Render("Will be closed after a successful push") + "\n")
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(wo.Services))
	for _, svc := range wo.Services {
		noun := ""
		if svc.NounCode != nil {
			noun = fmt.Sprintf("%d", *svc.NounCode)
		}
		state := domain.PushPending
		if bool(svc.Pushed) {
			state = domain.PushDone
		}
		rows = append(rows, []string{
			svc.At.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", svc.VerbCode),
			noun,
			fmt.Sprintf("%dm", svc.DurationMin),
			PushStateIndicator(state),
		})
	}
	b.WriteString(RenderTable([]string{"WHEN", "VERB", "NOUN", "DURATION", "STATE"}, rows))

	if wo.Notes != "" {
		b.WriteString("\n")
		b.WriteString(Dim(wo.Notes))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatDroppedLines renders parser exclusions as warnings.
func FormatDroppedLines(dropped []noteparse.DroppedLine) string {
	var b strings.Builder
	for _, d := range dropped {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("line %d dropped (%s): %s", d.Line, d.Reason, d.Text)))
		b.WriteString("\n")
	}
	return b.String()
}
