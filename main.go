// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillshare-api/config"
	"skillshare-api/controllers"
	"skillshare-api/middleware"
	"skillshare-api/routes"
	"skillshare-api/store"
	"skillshare-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := utils.NewLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	// Open the document store
	db, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	tokens := utils.NewTokenManager([]byte(cfg.TokenSecret), cfg.TokenTTL)
	emailService := utils.NewEmailService(utils.NewSender(utils.EmailOptions{
		Provider:       cfg.MailProvider,
		PostmarkToken:  cfg.PostmarkToken,
		SendgridAPIKey: cfg.SendgridAPIKey,
		From:           cfg.EmailSender,
	}, logger), logger)
	if cfg.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is not set, payment intents will fail")
	}
	payments := utils.NewStripeProvider(cfg.StripeSecretKey)

	// Initialize controllers
	timeout := cfg.RequestTimeout
	c := routes.Controllers{
		Auth:            controllers.NewAuthController(tokens, logger),
		Users:           controllers.NewUserController(db.Users, logger, timeout),
		Reviews:         controllers.NewReviewController(db.Reviews, logger, timeout),
		TeacherRequests: controllers.NewTeacherRequestController(db, emailService, logger, timeout),
		Classes:         controllers.NewClassController(db.Classes, logger, timeout),
		Enrollments:     controllers.NewEnrollmentController(db.Enrollments, logger, timeout),
		Payments:        controllers.NewPaymentController(db.Payments, payments, cfg.Currency, emailService, logger, timeout),
		Health:          controllers.NewHealthController(db, logger, timeout),
	}
	guard := middleware.NewGuard(tokens, db.Users, logger, timeout)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, guard, c)
	handler := routes.Handler(router, logger, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("SkillShare is running", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config, logger *zap.Logger) (*store.Store, error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	}

	ctx := context.Background()
	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx, client, cfg.DatabaseName); err != nil {
		logger.Warn("could not ensure indexes, signup idempotency relies on upserts only", zap.Error(err))
	}
	return store.NewMongo(client, cfg.DatabaseName, cfg.ReviewsDBName), nil
}
