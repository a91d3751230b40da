package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List configured tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		names := a.registry.Names()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tables configured.")
			return nil
		}
		for _, name := range names {
			def, _ := a.registry.Definition(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-30s %d rows, %d columns\n",
				name, def.Title, len(def.Rows), len(def.Columns))
		}
		return nil
	},
}
