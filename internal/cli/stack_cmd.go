package cli

import (
	"context"
	"fmt"

	"github.com/mbetts/wosync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Inspect and maintain the staged work-order stack",
	}

	cmd.AddCommand(
		newStackListCmd(app),
		newStackShowCmd(app),
		newStackRemoveCmd(app),
		newStackClearCmd(app),
		newStackPruneCmd(app),
	)

	return cmd
}

func newStackListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List staged work orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			stk, err := app.Stack.List(context.Background())
			if err != nil {
				return err
			}
			if len(stk) == 0 {
				fmt.Println("Nothing staged.")
				return nil
			}
			fmt.Print(formatter.FormatStackList(stk))
			return nil
		},
	}
}

func newStackShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NUMBER",
		Short: "Show one staged work order in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := app.Stack.Show(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatStackedOrder(order))
			return nil
		},
	}
}

func newStackRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NUMBER",
		Short: "Unstage one work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Stack.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed work order %s from the stack\n", args[0])
			return nil
		},
	}
}

func newStackClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Unstage everything",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Stack.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Println("Stack cleared.")
			return nil
		},
	}
}

func newStackPruneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop fully pushed work orders from the stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			pruned, err := app.Stack.Prune(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d fully pushed work orders\n", pruned)
			return nil
		},
	}
}
