package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"custodial-wallet-backend/internal/adapter/http/dto"
	"custodial-wallet-backend/internal/adapter/http/middleware"
	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/internal/core/ports/mocks"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func authedContext(t *testing.T, method, path string, body interface{}, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, w := testContext(t, method, path, body)
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, "user")
	return c, w
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	created := domain.NewUserAccount("alice@example.com", "hash", "Alice", "Nguyen")
	mockAuth.EXPECT().RegisterUser(gomock.Any(), gomock.Any(), "password123").DoAndReturn(
		func(ctx context.Context, user *domain.UserAccount, password string) (*domain.UserAccount, error) {
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "Alice", user.FirstName)
			return created, nil
		},
	)

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:     "alice@example.com",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Nguyen",
	})

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, created.ID.String(), data["id"])
	assert.Equal(t, "alice@example.com", data["email"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	c, w := testContext(t, http.MethodPost, "/api/v1/auth/register", map[string]string{})

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SWP_004")
}

func TestRegister_EmailExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().RegisterUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, apperror.ErrEmailExists())

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:     "taken@example.com",
		Password:  "password123",
		FirstName: "Bob",
		LastName:  "Tran",
	})

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_002")
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	user := domain.NewUserAccount("alice@example.com", "hash", "Alice", "Nguyen")
	mockAuth.EXPECT().LoginUser(gomock.Any(), "alice@example.com", "password123").Return(user, "jwt-token-123", nil)

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().LoginUser(gomock.Any(), "bad@example.com", "bad12345").Return(nil, "", apperror.ErrInvalidCredentials())

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "bad@example.com",
		Password: "bad12345",
	})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_001")
}

// --- Swap Handler Tests ---

func sampleResult(userID uuid.UUID) *ports.SwapResult {
	user := domain.NewUserAccount("alice@example.com", "hash", "Alice", "Nguyen")
	user.ID = userID
	rate := decimal.NewFromInt(64000)
	one := decimal.NewFromInt(1)
	tx := &domain.SwapTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        domain.SwapTypeUSDToCrypto,
		FromSymbol:  "USD",
		ToSymbol:    "BTC",
		FromAmount:  decimal.NewFromInt(640),
		ToAmount:    decimal.RequireFromString("0.01"),
		Rate:        decimal.RequireFromString("0.000015625"),
		USDRateFrom: &one,
		USDRateTo:   &rate,
		Status:      domain.SwapStatusCompleted,
	}
	return &ports.SwapResult{User: user, Transaction: tx, Quote: tx.QuoteOf()}
}

func TestDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	userID := uuid.New()
	mockSwap.EXPECT().DepositUSD(gomock.Any(), userID, decimal.RequireFromString("100.25")).Return(sampleResult(userID), nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/swaps/deposit", dto.DepositRequest{Amount: "100.25"}, userID)

	h.Deposit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Contains(t, data, "transaction")
	assert.Contains(t, data, "wallet")
}

func TestDeposit_BadAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	c, w := authedContext(t, http.MethodPost, "/api/v1/swaps/deposit", dto.DepositRequest{Amount: "not-a-number"}, uuid.New())

	h.Deposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SWP_002")
}

func TestDeposit_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	c, w := testContext(t, http.MethodPost, "/api/v1/swaps/deposit", dto.DepositRequest{Amount: "10"})

	h.Deposit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUSDToCrypto_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	userID := uuid.New()
	mockSwap.EXPECT().USDToCrypto(gomock.Any(), userID, "BTC", decimal.NewFromInt(640)).Return(sampleResult(userID), nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/swaps/usd-to-crypto", dto.USDToCryptoRequest{
		ToSymbol:  "BTC",
		USDAmount: "640",
	}, userID)

	h.USDToCrypto(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	txView := data["transaction"].(map[string]interface{})
	assert.Equal(t, "USD_TO_CRYPTO", txView["type"])
	assert.Equal(t, "0.01", txView["to_amount"])
}

func TestUSDToCrypto_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	userID := uuid.New()
	mockSwap.EXPECT().USDToCrypto(gomock.Any(), userID, "BTC", gomock.Any()).Return(nil, apperror.ErrInsufficientFunds("USD"))

	c, w := authedContext(t, http.MethodPost, "/api/v1/swaps/usd-to-crypto", dto.USDToCryptoRequest{
		ToSymbol:  "BTC",
		USDAmount: "99999",
	}, userID)

	h.USDToCrypto(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "SWP_001")
}

func TestCryptoToCrypto_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	userID := uuid.New()
	mockSwap.EXPECT().CryptoToCrypto(gomock.Any(), userID, "BTC", "ETH", decimal.RequireFromString("0.1")).Return(sampleResult(userID), nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/swaps/crypto-to-crypto", dto.CryptoToCryptoRequest{
		FromSymbol: "BTC",
		ToSymbol:   "ETH",
		Amount:     "0.1",
	}, userID)

	h.CryptoToCrypto(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetTransaction_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	c, w := authedContext(t, http.MethodGet, "/api/v1/swaps/nope", nil, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.GetTransaction(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransaction_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	userID := uuid.New()
	txID := uuid.New()
	mockSwap.EXPECT().GetTransaction(gomock.Any(), userID, txID).Return(nil, apperror.ErrNotFound("transaction"))

	c, w := authedContext(t, http.MethodGet, "/api/v1/swaps/"+txID.String(), nil, userID)
	c.Params = gin.Params{{Key: "id", Value: txID.String()}}

	h.GetTransaction(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "SWP_005")
}

func TestListTransactions_TypeFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	userID := uuid.New()
	mockSwap.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, params ports.SwapListParams) ([]domain.SwapTransaction, int64, error) {
			require.NotNil(t, params.Type)
			assert.Equal(t, domain.SwapTypeUSDDeposit, *params.Type)
			return []domain.SwapTransaction{}, 0, nil
		},
	)

	c, w := authedContext(t, http.MethodGet, "/api/v1/swaps?type=USD_DEPOSIT", nil, userID)

	h.ListTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListTransactions_UnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSwap := mocks.NewMockSwapService(ctrl)
	h := NewSwapHandler(mockSwap)

	c, w := authedContext(t, http.MethodGet, "/api/v1/swaps?type=BOGUS", nil, uuid.New())

	h.ListTransactions(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Wallet Handler Tests ---

func TestGetBalances_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	userID := uuid.New()
	user := domain.NewUserAccount("alice@example.com", "hash", "Alice", "Nguyen")
	user.ID = userID
	user.USDWallet.Balance = decimal.RequireFromString("250.50")
	mockWallet.EXPECT().GetBalances(gomock.Any(), userID).Return(user, nil)

	c, w := authedContext(t, http.MethodGet, "/api/v1/wallets", nil, userID)

	h.GetBalances(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "250.5", data["usd_balance"])
	wallets := data["wallets"].([]interface{})
	assert.Len(t, wallets, len(domain.SupportedAssets()))
}

// --- Market Handler Tests ---

func TestMarketCoins_PassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketDataService(ctrl)
	h := NewMarketHandler(mockMarket)

	payload := json.RawMessage(`[{"symbol":"BTCUSDT","lastPrice":"64000"}]`)
	mockMarket.EXPECT().Coins(gomock.Any()).Return(payload, nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/market/coins", nil)

	h.Coins(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(payload), w.Body.String())
}

func TestMarketKlines_QueryParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketDataService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().Klines(gomock.Any(), "BTCUSDT", "4h", 50).Return(json.RawMessage(`[]`), nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/market/klines/BTCUSDT?interval=4h&limit=50", nil)
	c.Params = gin.Params{{Key: "symbol", Value: "BTCUSDT"}}

	h.Klines(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMarketKlines_BadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketDataService(ctrl)
	h := NewMarketHandler(mockMarket)

	c, w := testContext(t, http.MethodGet, "/api/v1/market/klines/BTCUSDT?limit=0", nil)
	c.Params = gin.Params{{Key: "symbol", Value: "BTCUSDT"}}

	h.Klines(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarketCoins_UpstreamRateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketDataService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().Coins(gomock.Any()).Return(nil, apperror.ErrRateLimitExceeded())

	c, w := testContext(t, http.MethodGet, "/api/v1/market/coins", nil)

	h.Coins(c)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_003")
}

// --- Ebook Handler Tests ---

func TestEbookCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEbook := mocks.NewMockEbookService(ctrl)
	h := NewEbookHandler(mockEbook)

	userID := uuid.New()
	mockEbook.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, e *domain.Ebook) (*domain.Ebook, error) {
			assert.Equal(t, userID, e.UserID)
			assert.Equal(t, "Trading Notes", e.Title)
			e.ID = uuid.New()
			return e, nil
		},
	)

	c, w := authedContext(t, http.MethodPost, "/api/v1/ebooks", dto.EbookRequest{Title: "Trading Notes"}, userID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestEbookGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEbook := mocks.NewMockEbookService(ctrl)
	h := NewEbookHandler(mockEbook)

	userID := uuid.New()
	id := uuid.New()
	mockEbook.EXPECT().Get(gomock.Any(), userID, id).Return(nil, apperror.ErrNotFound("ebook"))

	c, w := authedContext(t, http.MethodGet, "/api/v1/ebooks/"+id.String(), nil, userID)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEbookDelete_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEbook := mocks.NewMockEbookService(ctrl)
	h := NewEbookHandler(mockEbook)

	userID := uuid.New()
	id := uuid.New()
	mockEbook.EXPECT().Delete(gomock.Any(), userID, id).Return(nil)

	c, w := authedContext(t, http.MethodDelete, "/api/v1/ebooks/"+id.String(), nil, userID)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

// --- Statement Handler Tests ---

func TestStatementSave_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStmt := mocks.NewMockStatementService(ctrl)
	h := NewStatementHandler(mockStmt)

	userID := uuid.New()
	mockStmt.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *domain.Statement) (*domain.Statement, error) {
			assert.Equal(t, "2026-08", s.Period)
			s.ID = uuid.New()
			return s, nil
		},
	)

	c, w := authedContext(t, http.MethodPost, "/api/v1/statements", dto.StatementRequest{
		Period:  "2026-08",
		Summary: "august activity",
	}, userID)

	h.Save(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestStatementUpdate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStmt := mocks.NewMockStatementService(ctrl)
	h := NewStatementHandler(mockStmt)

	userID := uuid.New()
	id := uuid.New()
	mockStmt.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *domain.Statement) (*domain.Statement, error) {
			assert.Equal(t, id, s.ID)
			assert.Equal(t, userID, s.UserID)
			assert.Equal(t, "amended", s.Summary)
			return s, nil
		},
	)

	c, w := authedContext(t, http.MethodPut, "/api/v1/statements/"+id.String(), dto.StatementRequest{
		Period:  "2026-08",
		Summary: "amended",
	}, userID)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatementUpdate_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStmt := mocks.NewMockStatementService(ctrl)
	h := NewStatementHandler(mockStmt)

	c, w := authedContext(t, http.MethodPut, "/api/v1/statements/not-a-uuid", dto.StatementRequest{
		Period: "2026-08",
	}, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatementSave_BadPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStmt := mocks.NewMockStatementService(ctrl)
	h := NewStatementHandler(mockStmt)

	mockStmt.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, apperror.Validation("period must be formatted YYYY-MM"))

	c, w := authedContext(t, http.MethodPost, "/api/v1/statements", dto.StatementRequest{Period: "august"}, uuid.New())

	h.Save(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Admin Handler Tests ---

func TestAdminLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	mockUser := mocks.NewMockUserService(ctrl)
	h := NewAdminHandler(mockAuth, mockUser)

	admin := &domain.Admin{ID: uuid.New(), Email: "ops@example.com", Name: "Ops", Role: domain.AdminRoleSuper}
	mockAuth.EXPECT().LoginAdmin(gomock.Any(), "ops@example.com", "password123").Return(admin, "admin-token", nil)

	c, w := testContext(t, http.MethodPost, "/api/v1/admin/auth/login", dto.LoginRequest{
		Email:    "ops@example.com",
		Password: "password123",
	})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "admin-token", data["token"])
}

func TestAdminSetUserStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	mockUser := mocks.NewMockUserService(ctrl)
	h := NewAdminHandler(mockAuth, mockUser)

	user := domain.NewUserAccount("alice@example.com", "hash", "Alice", "Nguyen")
	user.IsActive = false
	inactive := false
	mockUser.EXPECT().SetUserStatus(gomock.Any(), user.ID, false).Return(user, nil)

	c, w := testContext(t, http.MethodPatch, "/api/v1/admin/users/"+user.ID.String()+"/status", dto.SetUserStatusRequest{IsActive: &inactive})
	c.Params = gin.Params{{Key: "id", Value: user.ID.String()}}

	h.SetUserStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, false, data["is_active"])
}

func TestAdminListUsers_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	mockUser := mocks.NewMockUserService(ctrl)
	h := NewAdminHandler(mockAuth, mockUser)

	users := []domain.UserAccount{*domain.NewUserAccount("a@example.com", "h", "A", "A")}
	mockUser.EXPECT().ListUsers(gomock.Any(), 1, 20).Return(users, int64(1), nil)

	c, w := testContext(t, http.MethodGet, "/api/v1/admin/users", nil)

	h.ListUsers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, float64(1), data["total"])
}

// --- Health Check Tests ---

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Ping(ctx context.Context) error { return f.err }
func (f fakeChecker) Name() string                   { return f.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck(fakeChecker{name: "postgres"}, fakeChecker{name: "redis"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck(fakeChecker{name: "postgres", err: errors.New("connection refused")}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}
