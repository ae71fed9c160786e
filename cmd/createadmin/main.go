// Command createadmin creates the first admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. It does nothing when the email is already registered.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bookvault/internal/auth"
	"bookvault/internal/config"
	"bookvault/internal/logger"
	"bookvault/internal/mail"
	"bookvault/internal/repositories"
	"bookvault/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Must(config.EnvProduction).Fatal("invalid configuration", zap.Error(err))
	}
	log := logger.Must(cfg.Env)
	defer log.Sync()

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	db, err := repositories.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	sessions := auth.NewSessionIssuer(auth.SessionConfig{
		Secret:     cfg.JWTSecret,
		TTL:        cfg.SessionTTL,
		CookieName: cfg.SessionCookieName,
		Production: cfg.IsProduction(),
	})
	notifier := mail.NewNotifier(mail.NewLogSender(log), mail.NotifierConfig{FrontendURL: cfg.FrontendURL})
	authService := services.NewAuthService(
		repositories.NewGORMUserRepository(db),
		auth.NewPasswordHasher(auth.DefaultHashCost),
		sessions,
		notifier,
		log,
		services.AuthOptions{},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	created, err := authService.EnsureAdmin(ctx, services.RegisterInput{
		FirstName: "Admin",
		LastName:  "User",
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
	})
	if err != nil {
		log.Fatal("failed to create admin", zap.Error(err))
	}
	if created {
		log.Info("admin account created", zap.String("email", cfg.AdminEmail))
	} else {
		log.Info("admin account already exists", zap.String("email", cfg.AdminEmail))
	}
}
