package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftlist/internal/api"
	"github.com/Kerhoff/giftlist/internal/auth"
	"github.com/Kerhoff/giftlist/internal/config"
	"github.com/Kerhoff/giftlist/internal/metrics"
	"github.com/Kerhoff/giftlist/internal/repository/memory"
	"github.com/Kerhoff/giftlist/internal/repository/postgres"
	"github.com/Kerhoff/giftlist/internal/service"
	"github.com/Kerhoff/giftlist/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting giftlist...")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	visibility, err := service.ParseItemVisibility(cfg.ItemVisibility)
	if err != nil {
		l.Fatalf("Invalid item visibility: %v", err)
	}

	verifier, err := newVerifier(cfg, l)
	if err != nil {
		l.Fatalf("Failed to configure token verification: %v", err)
	}

	// Storage and service layer
	var (
		svc   *service.Service
		store api.Pinger
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		l.Warn("Using in-memory storage; data is lost on restart")
		mem := memory.New()
		svc = service.New(l, mem.Users(), mem.Wishlists(), mem.Memberships(), mem.Items(), visibility)
		store = mem
	default:
		db, err := config.NewDatabase(ctx, cfg, l)
		if err != nil {
			l.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Run migrations
		if err := db.Migrate(cfg.MigrationsPath); err != nil {
			l.Fatalf("Failed to run migrations: %v", err)
		}

		svc = service.New(l,
			postgres.NewUserRepository(db.DB),
			postgres.NewWishlistRepository(db.DB),
			postgres.NewMembershipRepository(db.DB),
			postgres.NewItemRepository(db.DB),
			visibility,
		)
		store = db
	}
	l.WithField("item_visibility", svc.Visibility()).Info("Service layer ready")

	// HTTP API server
	apiServer := api.NewServer(svc, verifier, l, api.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Store:              store,
	})
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      apiServer.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Prometheus metrics server
	var metricsServer *http.Server
	if cfg.PrometheusPort != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", metrics.Handler())
		metricsServer = &http.Server{
			Addr:              ":" + cfg.PrometheusPort,
			Handler:           mux,
			ReadHeaderTimeout: cfg.HTTPReadTimeout,
		}
		go func() {
			l.Infof("Metrics server listening on :%s", cfg.PrometheusPort)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	l.Info("giftlist started successfully")

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	l.Info("Shutting down HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown error: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			l.Errorf("Metrics server shutdown error: %v", err)
		}
	}

	l.Info("giftlist stopped")
}

func newVerifier(cfg *config.Config, l *logrus.Logger) (auth.Verifier, error) {
	if cfg.JWTPublicKeyFile != "" {
		if cfg.JWTSecret != "" {
			l.Warn("Both JWT_SECRET and JWT_PUBLIC_KEY_FILE are set; using the public key")
		}
		return auth.NewJWTVerifierFromFile(cfg.JWTPublicKeyFile, cfg.JWTIssuer, cfg.JWTAudience)
	}
	return auth.NewJWTVerifier(auth.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
}
