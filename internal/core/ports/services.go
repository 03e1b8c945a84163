package ports

import (
	"context"
	"encoding/json"
	"time"

	"custodial-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSource fetches spot USD prices from an upstream provider. Input and
// output are keyed by canonical asset symbol; translation to provider ids is
// the source's concern.
type RateSource interface {
	FetchUSDPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// RateProvider resolves USD rates for supported assets, caching upstream
// responses. USD itself always resolves to 1.
type RateProvider interface {
	GetUSDRate(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetUSDRates(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// SwapResult is returned by every settlement operation: the user aggregate
// after the mutation, the logged transaction, and the priced quote.
type SwapResult struct {
	User        *domain.UserAccount
	Transaction *domain.SwapTransaction
	Quote       domain.SwapQuote
}

// SwapService executes the four settlement operations. Each call is atomic:
// balance mutation and transaction record commit together or not at all.
type SwapService interface {
	DepositUSD(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*SwapResult, error)
	USDToCrypto(ctx context.Context, userID uuid.UUID, toSymbol string, usdAmount decimal.Decimal) (*SwapResult, error)
	CryptoToUSD(ctx context.Context, userID uuid.UUID, fromSymbol string, cryptoAmount decimal.Decimal) (*SwapResult, error)
	CryptoToCrypto(ctx context.Context, userID uuid.UUID, fromSymbol, toSymbol string, fromAmount decimal.Decimal) (*SwapResult, error)
	GetTransaction(ctx context.Context, userID, txID uuid.UUID) (*domain.SwapTransaction, error)
	ListTransactions(ctx context.Context, params SwapListParams) ([]domain.SwapTransaction, int64, error)
}

// WalletService exposes read-side views of a user's holdings.
type WalletService interface {
	GetBalances(ctx context.Context, userID uuid.UUID) (*domain.UserAccount, error)
}

// TokenClaims are the validated contents of an access token.
type TokenClaims struct {
	SubjectID uuid.UUID
	Role      string
}

// TokenService issues and validates signed access tokens.
type TokenService interface {
	Generate(subjectID uuid.UUID, role string) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// HashService hashes and verifies user credentials.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// AuthService handles registration and login for users and admins.
type AuthService interface {
	RegisterUser(ctx context.Context, user *domain.UserAccount, password string) (*domain.UserAccount, error)
	LoginUser(ctx context.Context, email, password string) (*domain.UserAccount, string, error)
	GetUserProfile(ctx context.Context, id uuid.UUID) (*domain.UserAccount, error)
	RegisterAdmin(ctx context.Context, admin *domain.Admin, password string) (*domain.Admin, error)
	LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, error)
	GetAdminProfile(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
}

// UserService manages profile updates and the admin user surface.
type UserService interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, phone string) (*domain.UserAccount, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]domain.UserAccount, int64, error)
	SetUserStatus(ctx context.Context, id uuid.UUID, active bool) (*domain.UserAccount, error)
}

// MarketDataService proxies public market endpoints with short-lived caching.
// Payloads pass through as raw JSON; when the upstream rate-limits, the last
// cached payload is served instead.
type MarketDataService interface {
	Coins(ctx context.Context) (json.RawMessage, error)
	CoinStats(ctx context.Context, symbol string) (json.RawMessage, error)
	Klines(ctx context.Context, symbol, interval string, limit int) (json.RawMessage, error)
	OrderBook(ctx context.Context, symbol string, limit int) (json.RawMessage, error)
}

// MarketSource is the upstream market data API.
type MarketSource interface {
	FetchCoins(ctx context.Context) (json.RawMessage, error)
	FetchCoinStats(ctx context.Context, symbol string) (json.RawMessage, error)
	FetchKlines(ctx context.Context, symbol, interval string, limit int) (json.RawMessage, error)
	FetchOrderBook(ctx context.Context, symbol string, limit int) (json.RawMessage, error)
}

// MarketCache caches market payloads. Set writes a fresh entry with the given
// TTL plus a long-lived stale copy; Get returns only fresh entries while
// GetStale also returns expired ones for rate-limit fallback.
type MarketCache interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	GetStale(ctx context.Context, key string) (json.RawMessage, bool, error)
	Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error
}

// AuditService records audit events without blocking the request path.
type AuditService interface {
	Record(ctx context.Context, entry *domain.AuditLog)
}

// EbookService manages user reading notes.
type EbookService interface {
	Create(ctx context.Context, e *domain.Ebook) (*domain.Ebook, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Ebook, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Ebook, error)
	Update(ctx context.Context, e *domain.Ebook) (*domain.Ebook, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// StatementService manages user statements keyed by period.
type StatementService interface {
	Save(ctx context.Context, s *domain.Statement) (*domain.Statement, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Statement, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error)
	Update(ctx context.Context, s *domain.Statement) (*domain.Statement, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// RateLimitStore tracks request counts per key within a fixed window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}
