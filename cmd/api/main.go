package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custodial-wallet-backend/config"
	httpHandler "custodial-wallet-backend/internal/adapter/http/handler"
	marketAdapter "custodial-wallet-backend/internal/adapter/market"
	ratesAdapter "custodial-wallet-backend/internal/adapter/rates"
	pgStorage "custodial-wallet-backend/internal/adapter/storage/postgres"
	redisStorage "custodial-wallet-backend/internal/adapter/storage/redis"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/internal/service"
	"custodial-wallet-backend/pkg/logger"
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
		Msg("Starting Custodial Wallet Backend")

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
	userRepo := pgStorage.NewUserRepo(pool)
	swapTxRepo := pgStorage.NewSwapTransactionRepo(pool)
	adminRepo := pgStorage.NewAdminRepo(pool)
	ebookRepo := pgStorage.NewEbookRepo(pool)
	statementRepo := pgStorage.NewStatementRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	marketCache := redisStorage.NewMarketCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// External clients
	coinGecko := ratesAdapter.NewCoinGeckoClient(cfg.Rates.CoinGeckoURL, cfg.Rates.HTTPTimeout, nil, log)
	binance := marketAdapter.NewBinanceClient(cfg.Rates.BinanceURL, cfg.Rates.HTTPTimeout, nil, log)

	// Initialize business services
	rateSvc := service.NewRateService(coinGecko, cfg.Rates.CacheTTL, log)
	authSvc := service.NewAuthService(userRepo, adminRepo, hashSvc, tokenSvc, log)
	userSvc := service.NewUserService(userRepo, log)
	walletSvc := service.NewWalletService(userRepo)
	swapSvc := service.NewSwapService(userRepo, swapTxRepo, rateSvc, transactor, log)
	marketSvc := service.NewMarketService(binance, marketCache, cfg.Rates.MarketCacheTTL, log)
	ebookSvc := service.NewEbookService(ebookRepo)
	statementSvc := service.NewStatementService(statementRepo)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		UserSvc:        userSvc,
		WalletSvc:      walletSvc,
		SwapSvc:        swapSvc,
		MarketSvc:      marketSvc,
		EbookSvc:       ebookSvc,
		StatementSvc:   statementSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
