// Command adduser creates or updates a back-office staff account.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Priyanshux26/Gym-management-system/internal/app"
	"github.com/Priyanshux26/Gym-management-system/internal/auth"
	"github.com/Priyanshux26/Gym-management-system/internal/config"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/observability"
)

func main() {
	username := flag.String("username", "", "staff username")
	password := flag.String("password", "", "staff password")
	roleName := flag.String("role", string(auth.RoleReceptionist), "admin or receptionist")
	flag.Parse()

	logger := observability.NewLogger("info")
	defer func() { _ = logger.Sync() }()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	role, err := auth.ParseRole(*roleName)
	if err != nil {
		logger.Fatal("invalid role", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}
	user, err := store.UpsertUser(ctx, domain.User{Username: *username, PasswordHash: hash, Role: string(role)})
	if err != nil {
		logger.Fatal("failed to save user", zap.Error(err))
	}
	logger.Info("staff account saved",
		zap.Int64("id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", user.Role))
}
