package cli

import (
	"context"
	"fmt"

	"github.com/mbetts/wosync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	var workOrder string

	cmd := &cobra.Command{
		Use:   "stage FILE",
		Short: "Parse a note file and stage its entries for a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Staging.StageFile(context.Background(), args[0], workOrder)
			if res != nil && len(res.Dropped) > 0 {
				fmt.Print(formatter.FormatDroppedLines(res.Dropped))
			}
			if err != nil {
				return err
			}

			fmt.Printf("Staged %d entries for work order %s\n", res.Staged, res.Order.Number)
			if res.Clamped > 0 {
				fmt.Println(formatter.Dim(fmt.Sprintf("%d out-of-order entries clamped to zero minutes", res.Clamped)))
			}
			if res.Order.CloseOnPush {
				fmt.Println(formatter.Dim("work order will be closed after a successful push"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&workOrder, "work-order", "", "Work order number (7 digits)")
	_ = cmd.MarkFlagRequired("work-order")

	return cmd
}
