package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"aiteam/internal/config"
	"aiteam/internal/database"
	"aiteam/internal/logging"
	"aiteam/internal/metrics"
	"aiteam/internal/services"
)

var (
	dbFlag    string
	userFlag  string
	levelFlag string
	rootCmd   = &cobra.Command{
		Use:           "aiteamctl",
		Short:         "Command line access to AI Team settings, chat, keys and projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database path (defaults to AITEAM_DB_PATH or the app database)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User ID to act as (defaults to AITEAM_USER_ID)")
	rootCmd.PersistentFlags().StringVar(&levelFlag, "log-level", "warn", "Log level written to stderr")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withServices builds the service container, runs fn and shuts it down.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, svc *services.Services) error) error {
	log := logging.NewWithWriter(os.Stderr, "aiteamctl", levelFlag)

	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if userFlag != "" {
		cfg.UserID = userFlag
	}

	db, err := database.Init(database.Config{
		Path:     cfg.DBPath,
		LogLevel: logger.Silent,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	svc, err := services.New(services.Deps{
		Config:  cfg,
		DB:      db,
		Log:     log,
		Metrics: metrics.New(),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc.Startup(ctx)
	defer svc.Shutdown()

	return fn(ctx, svc)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func currentUserID(svc *services.Services) string {
	if u := svc.Users.Current(); u != nil {
		return u.ID
	}
	return ""
}
