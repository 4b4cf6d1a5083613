package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evently/config"
	_ "evently/docs"
	"evently/internal/adapters/auth"
	"evently/internal/adapters/email"
	"evently/internal/adapters/revalidate"
	deliveryhttp "evently/internal/delivery/http"
	"evently/internal/delivery/http/controllers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/repository/postgres"
	"evently/internal/services"
)

// @title Evently API
// @version 1.0
// @description Event management backend: search, browse, and manage events and categories.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	eventRepo := postgres.NewEventRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	userRepo := postgres.NewUserRepository(db)

	verifier := auth.NewJWTVerifier(cfg.AuthJWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	invalidator, err := revalidate.NewInvalidator(revalidate.InvalidatorConfig{
		Provider: cfg.RevalidateProvider,
		URL:      cfg.RevalidateURL,
		Secret:   cfg.RevalidateSecret,
	})
	if err != nil {
		logger.Error("failed to create path invalidator", "err", err)
		os.Exit(1)
	}

	eventService := services.NewEventService(eventRepo, categoryRepo, userRepo, invalidator, emailService, logger, cfg.RequestTimeout)
	categoryService := services.NewCategoryService(categoryRepo, cfg.RequestTimeout)
	userService := services.NewUserService(userRepo, cfg.RequestTimeout)

	eventController := controllers.NewEventController(logger, eventService)
	categoryController := controllers.NewCategoryController(logger, categoryService)
	webhookController := controllers.NewWebhookController(logger, userService, cfg.WebhookSecret)

	mux := deliveryhttp.NewRouter(eventController, categoryController, webhookController, verifier, logger)

	var handler http.Handler = mux
	handler = middleware.MetricsMiddleware(handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(os.Getenv("CORS_ORIGIN"), handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
