package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "looppilot/cmd/api"
	authRepo "looppilot/internal/auth/repository"
	authUsecase "looppilot/internal/auth/usecase"
	billingDomain "looppilot/internal/billing/domain"
	billingRepo "looppilot/internal/billing/repository"
	billingUsecase "looppilot/internal/billing/usecase"
	draftUsecase "looppilot/internal/draft/usecase"
	inboxRepo "looppilot/internal/inbox/repository"
	"looppilot/internal/inbox/scheduler"
	inboxUsecase "looppilot/internal/inbox/usecase"
	"looppilot/internal/notification"
	sequenceRepo "looppilot/internal/sequence/repository"
	sequenceUsecase "looppilot/internal/sequence/usecase"
	"looppilot/pkg/ai"
	"looppilot/pkg/config"
	"looppilot/pkg/database"
	"looppilot/pkg/gmail"
	"looppilot/pkg/logger"
	"looppilot/pkg/stripe"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(api.Models()...); err != nil {
		log.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	threadRepo := inboxRepo.NewGormThreadRepository(db)
	syncStateRepo := inboxRepo.NewGormSyncStateRepository(db)
	tokenRepo := inboxRepo.NewGormTokenRepository(db)
	usageRepo := billingRepo.NewUsageRepository(db)
	templateRepo := sequenceRepo.NewGormTemplateRepository(db)
	seqRepo := sequenceRepo.NewGormSequenceRepository(db)

	// External services
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	var billingProvider billingDomain.Provider
	if cfg.StripeEnabled() {
		billingProvider = stripe.NewService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, checkout and webhooks disabled")
	}

	draftWriter, err := ai.NewDraftWriter(ai.Config{
		Provider: ai.ProviderType(cfg.AIProvider),
		APIKey:   cfg.AIAPIKey,
		BaseURL:  cfg.AIBaseURL,
		Model:    cfg.AIModel,
	}, log)
	if err != nil {
		log.Warn("Failed to initialize AI provider, using templates", "provider", cfg.AIProvider, "error", err)
		draftWriter = ai.NewTemplateWriter()
	} else {
		log.Info("Draft writer initialized", "provider", cfg.AIProvider)
	}

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepo, cfg)
	inboxUc := inboxUsecase.NewInboxUsecase(threadRepo, syncStateRepo, tokenRepo, gmailService, authUc, cfg, log)
	billingUc := billingUsecase.NewBillingUsecase(userRepo, usageRepo, billingProvider, cfg, log)
	draftUc := draftUsecase.NewDraftUsecase(billingUc, draftWriter, log)
	sequenceUc := sequenceUsecase.NewSequenceUsecase(templateRepo, seqRepo)

	// Background sync
	syncScheduler := scheduler.NewSyncScheduler(inboxUc, cfg.SyncInterval, log)
	syncScheduler.Start(ctx)
	defer syncScheduler.Stop()

	// Initialize Notification Service (Pub/Sub)
	// Only start if project ID and topic are configured
	if cfg.GoogleProjectID != "" && cfg.GooglePubSubTopic != "" {
		notifService, err := notification.NewService(ctx, cfg.GoogleProjectID, cfg.PubSubTopicName(), cfg.GoogleCredentials, inboxUc, log)
		if err != nil {
			log.Error("[PubSub] failed to initialize notification service", "error", err)
		} else {
			go notifService.Start(ctx)
			defer notifService.Close()
		}
	} else {
		log.Info("[PubSub] GOOGLE_PROJECT_ID or GOOGLE_PUBSUB_TOPIC not set, push sync disabled")
	}

	// Initialize HTTP handler
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(authUc, inboxUc, billingUc, draftUc, sequenceUc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
}
