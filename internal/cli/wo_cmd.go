package cli

import (
	"context"
	"fmt"

	"github.com/mbetts/wosync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newWorkOrderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wo",
		Short: "Maintain the local work-order reference table",
	}

	cmd.AddCommand(
		newWorkOrderAddCmd(app),
		newWorkOrderListCmd(app),
		newWorkOrderCloseCmd(app),
		newWorkOrderRemoveCmd(app),
	)

	return cmd
}

func newWorkOrderAddCmd(app *App) *cobra.Command {
	var controlNumber string

	cmd := &cobra.Command{
		Use:   "add NUMBER",
		Short: "Register a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.WorkOrders.Add(context.Background(), args[0], controlNumber, true); err != nil {
				return err
			}
			fmt.Printf("Added work order %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&controlNumber, "control", "", "Control number (8 digits)")

	return cmd
}

func newWorkOrderListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known work orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := app.WorkOrders.List(context.Background(), !all)
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Println("No work orders found.")
				return nil
			}
			fmt.Print(formatter.FormatWorkOrderList(orders))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include locally closed work orders")

	return cmd
}

func newWorkOrderCloseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "close NUMBER",
		Short: "Mark a work order closed locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.WorkOrders.Close(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Closed work order %s\n", args[0])
			return nil
		},
	}
}

func newWorkOrderRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NUMBER",
		Short: "Forget a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.WorkOrders.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed work order %s\n", args[0])
			return nil
		},
	}
}
