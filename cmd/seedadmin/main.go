// Command seedadmin creates the initial admin account. Run once against a
// freshly migrated database; subsequent admins are created through the API.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
	"github.com/kassatrack/cash_report_app/internal/platform/config"
	"github.com/kassatrack/cash_report_app/internal/repositories/database/pgsql"
	"github.com/kassatrack/cash_report_app/internal/utils"
	"github.com/kassatrack/cash_report_app/pkg/database"
)

func main() {
	username := flag.String("username", "admin", "username for the admin account")
	password := flag.String("password", "", "password for the admin account (required)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *password == "" {
		logger.Error("missing required -password flag")
		os.Exit(2)
	}
	if len(*password) < 8 {
		logger.Error("password must be at least 8 characters")
		os.Exit(2)
	}

	if err := run(context.Background(), logger, *username, *password); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, username, password string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("PGSQL_URL is not set")
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	now := time.Now().UTC()
	admin := domain.UserCredentials{
		User: domain.User{
			UserID:      uuid.NewString(),
			Username:    username,
			Role:        domain.RoleAdmin,
			IsActive:    true,
			DeviceLimit: 0, // unlimited
			Locations:   nil,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		PasswordHash: hash,
	}

	if err := repos.UserRepo.SaveUser(ctx, admin); err != nil {
		return err
	}

	logger.Info("admin account created",
		slog.String("userID", admin.UserID),
		slog.String("username", admin.Username))
	return nil
}
