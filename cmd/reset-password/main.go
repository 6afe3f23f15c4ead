package main

import (
	"context"
	"flag"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/database"
	"go-inventory-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()
	cfg := config.Load()

	email := flag.String("email", cfg.Admin.Email, "email of the account to reset")
	password := flag.String("password", cfg.Admin.Password, "new password")
	flag.Parse()

	log := logger.New(logger.Config{Level: "info", Encoding: "console", DisableStacktrace: true})
	defer func() { _ = log.Sync() }()
	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	ctx := context.Background()
	users := repository.NewUserRepo(db)

	// 3. Find user
	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatal("user not found", zap.String("email", *email), zap.Error(err))
	}

	// 4. Hash new password
	if err := user.SetPassword(*password); err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}

	// 5. Update and sign out every session
	if err := users.UpdatePassword(ctx, user.ID, user.Password, uuid.NewString()); err != nil {
		log.Fatal("failed to update password", zap.Error(err))
	}

	log.Info("password reset", zap.String("email", *email))
}
