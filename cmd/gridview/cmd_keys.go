package main

import (
	"fmt"

	"github.com/rpggio/gridview/internal/sqlite"
	"github.com/spf13/cobra"
)

var keysDescription string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys for the HTTP transport",
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Issue a new API key for --tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKeys(cmd, func(keys *sqlite.APIKeyRepository) error {
			token, err := keys.Create(cmd.Context(), tenantFlag, keysDescription)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Store this token now; it cannot be shown again.")
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		})
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List API keys for --tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKeys(cmd, func(keys *sqlite.APIKeyRepository) error {
			list, err := keys.List(cmd.Context(), tenantFlag)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No API keys.")
				return nil
			}
			for _, k := range list {
				lastUsed := "never"
				if k.LastUsed != nil {
					lastUsed = k.LastUsed.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s created %s  last used %s\n",
					k.Hash, k.Description, k.CreatedAt.Local().Format("2006-01-02 15:04"), lastUsed)
			}
			return nil
		})
	},
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke <hash>",
	Short: "Revoke an API key by its hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKeys(cmd, func(keys *sqlite.APIKeyRepository) error {
			if err := keys.Revoke(cmd.Context(), tenantFlag, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked %s\n", args[0])
			return nil
		})
	},
}

func init() {
	keysCreateCmd.Flags().StringVar(&keysDescription, "description", "", "note stored with the key")
	keysCmd.AddCommand(keysCreateCmd, keysListCmd, keysRevokeCmd)
}

func withKeys(cmd *cobra.Command, fn func(*sqlite.APIKeyRepository) error) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(sqlite.NewAPIKeyRepository(a.db))
}
