package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/services"
)

var newUser services.UserInput

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a staff account",
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		user, err := a.svcs.User.Create(ctx, newUser, services.SystemActor())
		if err != nil {
			return err
		}
		fmt.Printf("created %s %s (%s) id=%s\n", user.Role, user.Email, user.FullName(), user.ID)
		return nil
	}),
}

var deactivateUserCmd = &cobra.Command{
	Use:   "deactivate-user <email>",
	Short: "Deactivate a staff account; its open sessions stop working immediately",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		user, err := a.svcs.User.DeactivateByEmail(ctx, args[0], services.SystemActor())
		if err != nil {
			return err
		}
		fmt.Printf("deactivated %s id=%s\n", user.Email, user.ID)
		return nil
	}),
}

func init() {
	f := createUserCmd.Flags()
	f.StringVar(&newUser.Email, "email", "", "login email")
	f.StringVar(&newUser.Password, "password", "", "initial password")
	f.StringVar(&newUser.FirstName, "first-name", "", "first name")
	f.StringVar(&newUser.LastName, "last-name", "", "last name")
	f.StringVar(&newUser.Role, "role", models.RoleProcessor, "ADMIN or PROCESSOR")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}
