package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "List tenants with saved views or manual groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		tenants, err := a.registry.Tenants(cmd.Context())
		if err != nil {
			return err
		}
		if len(tenants) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tenant state stored.")
			return nil
		}
		names := make([]string, 0, len(tenants))
		for name := range tenants {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", name, strings.Join(tenants[name], ", "))
		}
		return nil
	},
}
