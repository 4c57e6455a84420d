package cli

import (
	"context"
	"fmt"

	"github.com/mbetts/wosync/internal/cli/formatter"
	"github.com/mbetts/wosync/internal/service"
	"github.com/spf13/cobra"
)

func newPushCmd(app *App) *cobra.Command {
	var dryRun, mark bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push staged entries to their remote work orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Push.Push(context.Background(), service.PushOptions{
				DryRun:    dryRun,
				MarkFiles: mark,
			})
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatPushReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be pushed without touching the remote")
	cmd.Flags().BoolVar(&mark, "mark", false, "Tag pushed lines in the source note files afterwards")

	return cmd
}
