package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pix-link-gateway/config"
	"pix-link-gateway/internal/adapter/gateway/fusionpay"
	"pix-link-gateway/internal/adapter/http/handler"
	pgStorage "pix-link-gateway/internal/adapter/storage/postgres"
	redisStorage "pix-link-gateway/internal/adapter/storage/redis"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/internal/service"
	"pix-link-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Pix Link Gateway")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	vendorRepo := pgStorage.NewVendorRepo(pool)
	linkRepo := pgStorage.NewLinkRepo(pool)
	credRepo := pgStorage.NewCredentialRepo(pool)

	// Initialize Redis stores
	linkCache := redisStorage.NewLinkCache(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	codeGen := service.NewShortCodeGenerator(linkRepo)

	// Initialize business services
	authSvc := service.NewAuthService(vendorRepo, hashSvc, tokenSvc)
	linkSvc := service.NewLinkService(linkRepo, codeGen, linkCache, log)
	credSvc := service.NewCredentialService(credRepo)
	resolver := service.NewRoutingResolver(linkRepo, credRepo, cfg.Gateway.PublicKey, cfg.Gateway.SecretKey, log)
	gateway := fusionpay.NewClient(cfg.Gateway, nil, log)

	// Instrument tracker with its background sweep
	tracker := service.NewMemoryTracker(log)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go tracker.Run(sweepCtx)

	checkoutSvc := service.NewCheckoutService(linkSvc, resolver, gateway, tracker, cfg.Gateway, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := handler.SetupRouter(handler.RouterDeps{
		AuthSvc:        authSvc,
		LinkSvc:        linkSvc,
		CheckoutSvc:    checkoutSvc,
		CredentialSvc:  credSvc,
		Tracker:        tracker,
		TokenSvc:       tokenSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		PublicURL:      cfg.Server.PublicURL,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
