package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cvmfinance/orcr-api/internal/database"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/services"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed geography reference data and an optional first administrator",
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		if err := database.SeedGeography(ctx, a.db); err != nil {
			return fmt.Errorf("seed geography: %w", err)
		}
		fmt.Println("Seeded geography")

		if seedAdminEmail == "" {
			return nil
		}
		if _, err := a.repos.User.FindByEmail(ctx, strings.ToLower(seedAdminEmail)); err == nil {
			fmt.Println("Administrator already exists:", seedAdminEmail)
			return nil
		}
		user, err := a.svcs.User.Create(ctx, services.UserInput{
			Email:     seedAdminEmail,
			Password:  seedAdminPassword,
			FirstName: "System",
			LastName:  "Administrator",
			Role:      models.RoleAdmin,
		}, services.SystemActor())
		if err != nil {
			return err
		}
		fmt.Println("Seeded administrator:", user.Email)
		return nil
	}),
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "", "create an administrator with this email")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password for the seeded administrator")
}
