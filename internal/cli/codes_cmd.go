package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mbetts/wosync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Maintain the verb/noun code tables",
	}

	cmd.AddCommand(
		newCodesAddVerbCmd(app),
		newCodesAddNounCmd(app),
		newCodesListCmd(app),
		newCodesImportCmd(app),
	)

	return cmd
}

func parseCode(raw string) (int, error) {
	code, err := strconv.Atoi(raw)
	if err != nil || code < 0 {
		return 0, fmt.Errorf("invalid code %q: expected a non-negative integer", raw)
	}
	return code, nil
}

func newCodesAddVerbCmd(app *App) *cobra.Command {
	var requiresNoun bool

	cmd := &cobra.Command{
		Use:   "add-verb KEYWORD CODE",
		Short: "Register a verb keyword",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseCode(args[1])
			if err != nil {
				return err
			}
			if err := app.Codes.AddVerb(context.Background(), args[0], code, requiresNoun); err != nil {
				return err
			}
			fmt.Printf("Added verb %s -> %d\n", args[0], code)
			return nil
		},
	}

	cmd.Flags().BoolVar(&requiresNoun, "requires-noun", false, "Entries using this verb must name a noun")

	return cmd
}

func newCodesAddNounCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-noun KEYWORD CODE",
		Short: "Register a noun keyword",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseCode(args[1])
			if err != nil {
				return err
			}
			if err := app.Codes.AddNoun(context.Background(), args[0], code); err != nil {
				return err
			}
			fmt.Printf("Added noun %s -> %d\n", args[0], code)
			return nil
		},
	}
}

func newCodesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the code tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := app.Codes.Table(context.Background())
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatCodeTable(table))
			return nil
		},
	}
}

func newCodesImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a TOML code file into the tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbs, nouns, err := app.Codes.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d verbs and %d nouns\n", verbs, nouns)
			return nil
		},
	}
}
