package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cvmfinance/orcr-api/internal/database"
)

var migrateRollback bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations",
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		direction := "up"
		if migrateRollback {
			direction = "down"
		}
		return database.Migrate(ctx, a.db, direction)
	}),
}

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
}
