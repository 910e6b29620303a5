/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/nosaterra/apiserver/config"
	"github.com/nosaterra/apiserver/internal/db"
	"github.com/nosaterra/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// indexesCmd represents the indexes command.
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Ensure document-store indexes",
	Long: `Ensures the document-store indexes exist, notably the unique
email index on the users collection. The server also does this at
startup; this command exists for provisioning a database ahead of time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		client, database, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()

		if err := store.NewUserRepository(database).EnsureIndexes(cmd.Context()); err != nil {
			return fmt.Errorf("ensure indexes failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
