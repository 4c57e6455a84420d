package formatter

import (
	"fmt"
	"strings"

	"github.com/mbetts/wosync/internal/pusher"
)

// FormatPushReport renders one push run: per-order entry outcomes and the
// batch totals.
func FormatPushReport(report *pusher.Report) string {
	var b strings.Builder

	if report.DryRun {
		b.WriteString(Header("Push (dry run)"))
	} else {
		b.WriteString(Header("Push"))
	}
	b.WriteString("\n")

	if len(report.Orders) == 0 {
		b.WriteString("Nothing staged.\n")
		return b.String()
	}

	for _, order := range report.Orders {
		b.WriteString(Bold("Work order " + order.Number))
		b.WriteString("\n")

		if order.Err != "" {
			b.WriteString(StyleRed.Render("  " + order.Err))
			b.WriteString("\n")
		}
		for _, entry := range order.Entries {
			line := fmt.Sprintf("  %s  %s", entry.At.Format("2006-01-02 15:04"), PushStateIndicator(entry.State))
			if entry.Err != "" {
				line += "  " + StyleRed.Render(entry.Err)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

		switch order.Closure {
		case pusher.CloseDone:
			b.WriteString(StyleGreen.Render("  work order closed"))
			b.WriteString("\n")
		case pusher.CloseBlocked:
			b.WriteString(StyleYellow.Render("  close skipped: not everything pushed"))
			b.WriteString("\n")
		case pusher.CloseFailed:
			b.WriteString(StyleRed.Render("  close failed"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	verb := "pushed"
	if report.DryRun {
		verb = "would push"
	}
	b.WriteString(fmt.Sprintf("%s %d, skipped %d duplicates, %d failed\n",
		verb, report.Pushed, report.Skipped, report.Failed))
	return b.String()
}
