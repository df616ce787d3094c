package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/api"
	"github.com/akylbek/payment-system/payways/internal/config"
	"github.com/akylbek/payment-system/payways/internal/gateway"
	"github.com/akylbek/payment-system/payways/internal/interfaces"
	"github.com/akylbek/payment-system/payways/internal/messaging"
	"github.com/akylbek/payment-system/payways/internal/repository"
	"github.com/akylbek/payment-system/payways/internal/service"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize telemetry
	if err = telemetry.InitTelemetry(cfg); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting PayWays", zap.String("store", cfg.StoreBackend))

	store, err := openStore(cfg)
	if err != nil {
		telemetry.Logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	sessionStore, closeSessions, err := openSessionStore(cfg)
	if err != nil {
		telemetry.Logger.Fatal("Failed to open session store", zap.Error(err))
	}
	defer closeSessions()

	provider, closeProvider, err := riskProvider(cfg)
	if err != nil {
		telemetry.Logger.Fatal("Failed to set up risk provider", zap.Error(err))
	}
	defer closeProvider()

	var publisher interfaces.EventPublisher = messaging.LogPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	state := service.NewAppState(context.Background(), service.AppStateOptions{
		Store:        store,
		SessionStore: sessionStore,
		Assessor:     gateway.New(provider),
		Publisher:    publisher,
		AdminEmail:   cfg.AdminEmail,
		DisplayDelay: cfg.SettleDisplayDelay,
		SessionTTL:   cfg.SessionTTL,
	})

	r := api.NewRouter(state, api.RouterOptions{
		ServiceName: cfg.ServiceName,
		SessionTTL:  cfg.SessionTTL,
	})

	// Setup HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("PayWays starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}

func openStore(cfg *config.Config) (interfaces.KeyValueStore, error) {
	switch cfg.StoreBackend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		store := repository.NewPostgresStore(db)
		if err := store.InitDB(); err != nil {
			db.Close()
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		return store, nil
	case "buntdb", "":
		return repository.OpenBuntStore(cfg.BuntDBPath)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func openSessionStore(cfg *config.Config) (interfaces.SessionStore, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		return repository.NewRedisSessionStore(client), func() { client.Close() }, nil
	case "memory", "":
		store, err := repository.OpenBuntStore(":memory:")
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}

// riskProvider returns nil when no credential is configured; the gateway then
// answers every request with its unconfigured verdict.
func riskProvider(cfg *config.Config) (gateway.Provider, func(), error) {
	switch cfg.RiskProvider {
	case "nats":
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to NATS: %w", err)
		}
		return gateway.NewNATSProvider(nc, cfg.FraudSubject, cfg.RiskTimeout), nc.Close, nil
	case "gemini", "":
		if cfg.GeminiAPIKey == "" {
			telemetry.Logger.Warn("Risk gateway credential not configured; payments default to low risk")
			return nil, func() {}, nil
		}
		return gateway.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.RiskTimeout), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown risk provider %q", cfg.RiskProvider)
}
