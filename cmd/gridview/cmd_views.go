package main

import (
	"fmt"

	"github.com/rpggio/gridview/internal/controller"
	"github.com/spf13/cobra"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Manage a tenant's saved views",
}

var viewsListCmd = &cobra.Command{
	Use:   "list <table>",
	Short: "List saved views, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(cmd, args[0], func(t *controller.Table) error {
			views := t.ListViews()
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved views.")
				return nil
			}
			for _, v := range views {
				marker := " "
				if v.Current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %-24s %s\n",
					marker, v.ID, v.Name, v.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var viewsDeleteCmd = &cobra.Command{
	Use:   "delete <table> <view-id>",
	Short: "Delete a saved view",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(cmd, args[0], func(t *controller.Table) error {
			if err := t.DeleteView(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted view %s\n", args[1])
			return nil
		})
	},
}

var viewsClearCmd = &cobra.Command{
	Use:   "clear <table>",
	Short: "Delete every saved view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTable(cmd, args[0], func(t *controller.Table) error {
			if err := t.ClearViews(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared saved views.")
			return nil
		})
	},
}

func init() {
	viewsCmd.AddCommand(viewsListCmd, viewsDeleteCmd, viewsClearCmd)
}

// withTable opens the app and runs fn against the tenant's table.
func withTable(cmd *cobra.Command, name string, fn func(*controller.Table) error) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.registry.With(cmd.Context(), tenantFlag, name, fn)
}
