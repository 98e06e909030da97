package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daralachab/reservation-api/internal/auth"
	"github.com/daralachab/reservation-api/internal/config"
	"github.com/daralachab/reservation-api/internal/database"
	"github.com/daralachab/reservation-api/internal/events"
	"github.com/daralachab/reservation-api/internal/handlers"
	"github.com/daralachab/reservation-api/internal/logging"
	"github.com/daralachab/reservation-api/internal/notifier"
	"github.com/daralachab/reservation-api/internal/ratelimit"
	"github.com/daralachab/reservation-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	for _, flag := range cfg.InvalidFlags {
		logger.Warn("Ignoring unparseable boolean setting, using default", zap.String("setting", flag))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to Database
	st, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize Notifiers
	notifiers := []notifier.Notifier{
		notifier.NewEmailSender(cfg, logger),
		notifier.NewSMSSender(cfg, logger),
	}
	discordNotifier, err := notifier.NewDiscordNotifier(cfg, logger)
	if err != nil {
		logger.Info("Discord notifier not initialized", zap.Error(err))
	} else {
		notifiers = append(notifiers, discordNotifier)
	}
	dispatcher := notifier.NewDispatcher(logger.Named("notifier"), cfg.NotifyAsync, notifiers...)

	publisher := events.NewPublisher(cfg.AMQPURL, cfg.EventsQueue, logger)
	if !publisher.Enabled() {
		logger.Info("AMQP_URL not set, reservation events are not published")
	}

	// Initialize Handlers
	gate := auth.NewGate(cfg, logger)
	if cfg.AdminAPIKey == "" {
		logger.Warn("ADMIN_API_KEY not set, admin endpoints are unprotected")
	}
	reservationSvc := service.NewReservationService(st, dispatcher, publisher, cfg.StrictStatus, logger)
	reservationHandler := handlers.NewReservationHandler(reservationSvc, gate, cfg.RestaurantName, cfg.PricePerPerson, logger)
	statusHandler := handlers.NewStatusHandler(service.NewStatusCheckService(st), logger)

	limiter := newLimiter(ctx, cfg, logger)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, gate, statusHandler, reservationHandler, limiter, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start Server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		logger.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown", zap.Error(err))
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn("Pending notifications dropped", zap.Error(err))
	}
	if err := st.Close(shutdownCtx); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	}
}

// newLimiter prefers Redis so every instance shares the window, and falls
// back to in-process buckets.
func newLimiter(ctx context.Context, cfg *config.Config, logger *zap.Logger) ratelimit.Limiter {
	if !cfg.RateLimitEnabled {
		return nil
	}
	if cfg.RedisAddr != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			logger.Info("Rate limiting through redis", zap.String("addr", cfg.RedisAddr))
			return ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMinute)
		}
		logger.Warn("Redis unavailable, rate limiting in process", zap.Error(err))
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
}
