package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bookvault/internal/app"
	"bookvault/internal/auth"
	"bookvault/internal/config"
	"bookvault/internal/jobs"
	"bookvault/internal/logger"
	"bookvault/internal/mail"
	"bookvault/internal/repositories"
	"bookvault/internal/storage"
	"bookvault/pkg/rabbitmq"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		// The logger depends on the environment, so fall back to a production one.
		logger.Must(config.EnvProduction).Fatal("invalid configuration", zap.Error(err))
	}
	log := logger.Must(cfg.Env)
	defer log.Sync()

	// --- Database ---
	db, err := repositories.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// --- Mail transport ---
	var transport mail.Sender = mail.NewLogSender(log)
	if cfg.MailEnabled() {
		transport = mail.NewBrevoSender(mail.BrevoConfig{APIKey: cfg.MailAPIKey, URL: cfg.MailAPIURL}, log)
	} else {
		log.Warn("MAIL_API_KEY not set, emails will only be logged")
	}

	sender := transport
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: rabbitmq.DefaultQueue}, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqClient.Close()
		sender = mail.NewQueueSender(mqClient)

		worker := mail.NewQueueWorker(transport, log)
		go func() {
			if err := mqClient.Consume(worker.Handle); err != nil {
				log.Error("mail queue consumer stopped", zap.Error(err))
			}
		}()
	}

	notifier := mail.NewNotifier(sender, mail.NotifierConfig{
		FromEmail:   cfg.MailFromEmail,
		FromName:    cfg.MailFromName,
		FrontendURL: cfg.FrontendURL,
		OTPValidFor: auth.OTPTTL,
	})

	// --- Object storage ---
	var store storage.ObjectStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			log.Fatal("failed to configure object storage", zap.Error(err))
		}
		store = s3Store
	} else {
		log.Warn("S3_BUCKET not set, uploads are kept in memory")
		store = storage.NewMemoryStore(cfg.BaseURL + "/files")
	}

	// --- HTTP app ---
	application := app.New(app.Deps{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Notifier: notifier,
		Store:    store,
	})

	// --- Background jobs ---
	scheduler := jobs.NewScheduler(log)
	if err := scheduler.Add("credential-sweeper", cfg.CleanupSchedule, jobs.NewCredentialSweeper(application.Users, log)); err != nil {
		log.Fatal("failed to schedule credential sweeper", zap.Error(err))
	}
	if application.Limiter != nil {
		if err := scheduler.Add("rate-limit-sweeper", "@every 1m", jobs.NewSweepJob("rate-limit-sweeper", application.Limiter, log)); err != nil {
			log.Fatal("failed to schedule rate limit sweeper", zap.Error(err))
		}
	}
	scheduler.Start()

	// --- Start HTTP server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", zap.String("addr", cfg.HTTPAddress()), zap.String("env", cfg.Env))
		if err := application.Fiber.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := application.Fiber.ShutdownWithContext(ctx); err != nil {
		log.Error("error during server shutdown", zap.Error(err))
	}
	scheduler.Stop(ctx)

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server gracefully stopped")
}
