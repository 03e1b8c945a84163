package handler

import (
	"custodial-wallet-backend/internal/adapter/http/middleware"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	UserSvc        ports.UserService
	WalletSvc      ports.WalletService
	SwapSvc        ports.SwapService
	MarketSvc      ports.MarketDataService
	EbookSvc       ports.EbookService
	StatementSvc   ports.StatementService
	TokenSvc       ports.TokenService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	marketHandler := NewMarketHandler(deps.MarketSvc)
	market := v1.Group("/market", rl("market"))
	{
		market.GET("/coins", marketHandler.Coins)
		market.GET("/coins/:symbol", marketHandler.CoinStats)
		market.GET("/klines/:symbol", marketHandler.Klines)
		market.GET("/depth/:symbol", marketHandler.OrderBook)
	}

	// --- User routes (JWT, user role) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	userOnly := middleware.RequireRole(service.RoleUser)

	userHandler := NewUserHandler(deps.AuthSvc, deps.UserSvc)
	users := v1.Group("/users/me", jwtAuth, userOnly)
	{
		users.GET("", userHandler.GetProfile)
		users.PUT("", userHandler.UpdateProfile)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets", jwtAuth, userOnly)
	{
		wallets.GET("", walletHandler.GetBalances)
	}

	swapHandler := NewSwapHandler(deps.SwapSvc)
	swaps := v1.Group("/swaps", jwtAuth, userOnly)
	{
		swaps.POST("/deposit", rl("swaps"), swapHandler.Deposit)
		swaps.POST("/usd-to-crypto", rl("swaps"), swapHandler.USDToCrypto)
		swaps.POST("/crypto-to-usd", rl("swaps"), swapHandler.CryptoToUSD)
		swaps.POST("/crypto-to-crypto", rl("swaps"), swapHandler.CryptoToCrypto)
		swaps.GET("", swapHandler.ListTransactions)
		swaps.GET("/:id", swapHandler.GetTransaction)
	}

	ebookHandler := NewEbookHandler(deps.EbookSvc)
	ebooks := v1.Group("/ebooks", jwtAuth, userOnly)
	{
		ebooks.POST("", ebookHandler.Create)
		ebooks.GET("", ebookHandler.List)
		ebooks.GET("/:id", ebookHandler.Get)
		ebooks.PUT("/:id", ebookHandler.Update)
		ebooks.DELETE("/:id", ebookHandler.Delete)
	}

	statementHandler := NewStatementHandler(deps.StatementSvc)
	statements := v1.Group("/statements", jwtAuth, userOnly)
	{
		statements.POST("", statementHandler.Save)
		statements.GET("", statementHandler.List)
		statements.GET("/:id", statementHandler.Get)
		statements.PUT("/:id", statementHandler.Update)
		statements.DELETE("/:id", statementHandler.Delete)
	}

	// --- Admin routes (JWT, admin role) ---
	adminOnly := middleware.RequireRole(service.RoleAdmin)
	adminHandler := NewAdminHandler(deps.AuthSvc, deps.UserSvc)

	admin := v1.Group("/admin")
	{
		admin.POST("/auth/login", rl("auth_login"), adminHandler.Login)
		admin.POST("/auth/register", jwtAuth, adminOnly, rl("admin"), adminHandler.Register)
		admin.GET("/me", jwtAuth, adminOnly, rl("admin"), adminHandler.GetProfile)
		admin.GET("/admins", jwtAuth, adminOnly, rl("admin"), adminHandler.ListAdmins)

		adminUsers := admin.Group("/users", jwtAuth, adminOnly, rl("admin"))
		{
			adminUsers.GET("", adminHandler.ListUsers)
			adminUsers.PATCH("/:id/status", adminHandler.SetUserStatus)
		}
	}

	return r
}
