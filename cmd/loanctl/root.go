package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/config"
	"github.com/cvmfinance/orcr-api/internal/database"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/cvmfinance/orcr-api/pkg/logger"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:           "loanctl",
	Short:         "Loan back office maintenance",
	Long:          `Runs schema migrations, seeds reference data and manages staff accounts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	_ = v.BindPFlag("DATABASE_URL", rootCmd.PersistentFlags().Lookup("database-url"))

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(deactivateUserCmd)
}

// app is the wiring shared by the subcommands
type app struct {
	cfg   *config.Config
	db    *gorm.DB
	repos *repository.Repositories
	svcs  *services.Services
}

func openApp() (*app, error) {
	cfg, err := config.LoadFrom(v)
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Environment)

	db, err := database.Connect(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	provider := auth.NewJWTProvider(repos.User, auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL, nil))
	svcs := services.NewServices(repos, repository.NewTransactor(db), provider, cfg, nil)

	return &app{cfg: cfg, db: db, repos: repos, svcs: svcs}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a, args)
	}
}
