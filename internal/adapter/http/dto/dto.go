package dto

import (
	"custodial-wallet-backend/internal/core/domain"
)

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
}

// LoginRequest is the request body for user and admin login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminRegisterRequest is the request body for creating an admin account.
type AdminRegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Role     string `json:"role" binding:"omitempty,oneof=super support"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AdminLoginResponse is the response body for successful admin login.
type AdminLoginResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
}

// DepositRequest is the request body for a USD deposit.
// Amounts travel as decimal strings to avoid float precision loss.
type DepositRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// USDToCryptoRequest is the request body for buying an asset with USD.
type USDToCryptoRequest struct {
	ToSymbol  string `json:"to_symbol" binding:"required,symbol"`
	USDAmount string `json:"usd_amount" binding:"required"`
}

// CryptoToUSDRequest is the request body for selling an asset into USD.
type CryptoToUSDRequest struct {
	FromSymbol string `json:"from_symbol" binding:"required,symbol"`
	Amount     string `json:"amount" binding:"required"`
}

// CryptoToCryptoRequest is the request body for a cross-asset swap.
type CryptoToCryptoRequest struct {
	FromSymbol string `json:"from_symbol" binding:"required,symbol"`
	ToSymbol   string `json:"to_symbol" binding:"required,symbol"`
	Amount     string `json:"amount" binding:"required"`
}

// EbookRequest is the request body for creating or updating an ebook.
type EbookRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255"`
	Author  string `json:"author" binding:"omitempty,max=255"`
	Content string `json:"content" binding:"omitempty"`
}

// StatementRequest is the request body for saving a statement.
type StatementRequest struct {
	Period  string                 `json:"period" binding:"required"`
	Summary string                 `json:"summary" binding:"omitempty,max=1024"`
	Details map[string]interface{} `json:"details" binding:"omitempty"`
}

// SetUserStatusRequest is the admin request body for enabling or
// disabling a user account.
type SetUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// AdminResponse is the public view of an admin account.
type AdminResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// WalletEntryResponse is one asset's balances in the wallet view.
type WalletEntryResponse struct {
	Currency      string `json:"currency"`
	Address       string `json:"address"`
	Balance       string `json:"balance"`
	LockedBalance string `json:"locked_balance"`
}

// WalletResponse is the full holdings view: the USD wallet plus every
// supported asset's balances.
type WalletResponse struct {
	USDBalance       string                `json:"usd_balance"`
	USDLockedBalance string                `json:"usd_locked_balance"`
	Wallets          []WalletEntryResponse `json:"wallets"`
}

// QuoteResponse is the pricing attached to a settlement result.
type QuoteResponse struct {
	FromSymbol  string  `json:"from_symbol"`
	ToSymbol    string  `json:"to_symbol"`
	FromAmount  string  `json:"from_amount"`
	ToAmount    string  `json:"to_amount"`
	USDRateFrom *string `json:"usd_rate_from,omitempty"`
	USDRateTo   *string `json:"usd_rate_to,omitempty"`
}

// TransactionResponse is the view of one settlement record.
type TransactionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	FromSymbol  string  `json:"from_symbol"`
	ToSymbol    string  `json:"to_symbol"`
	FromAmount  string  `json:"from_amount"`
	ToAmount    string  `json:"to_amount"`
	Rate        string  `json:"rate"`
	USDRateFrom *string `json:"usd_rate_from,omitempty"`
	USDRateTo   *string `json:"usd_rate_to,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// SwapResponse is the response body for a settlement operation.
type SwapResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Quote       QuoteResponse       `json:"quote"`
	Wallet      WalletResponse      `json:"wallet"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// UserListResponse wraps a paginated user list for the admin surface.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// NewUserResponse maps a user aggregate to its public view.
func NewUserResponse(u *domain.UserAccount) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// NewAdminResponse maps an admin account to its public view.
func NewAdminResponse(a *domain.Admin) AdminResponse {
	return AdminResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		Name:      a.Name,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// NewWalletResponse maps a user aggregate to the holdings view.
func NewWalletResponse(u *domain.UserAccount) WalletResponse {
	entries := u.Wallets()
	out := make([]WalletEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, WalletEntryResponse{
			Currency:      e.Currency,
			Address:       e.Address,
			Balance:       e.Balance.String(),
			LockedBalance: e.LockedBalance.String(),
		})
	}
	return WalletResponse{
		USDBalance:       u.USDWallet.Balance.String(),
		USDLockedBalance: u.USDWallet.LockedBalance.String(),
		Wallets:          out,
	}
}

// NewTransactionResponse maps a settlement record to its view.
func NewTransactionResponse(t *domain.SwapTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:         t.ID.String(),
		Type:       string(t.Type),
		FromSymbol: t.FromSymbol,
		ToSymbol:   t.ToSymbol,
		FromAmount: t.FromAmount.String(),
		ToAmount:   t.ToAmount.String(),
		Rate:       t.Rate.String(),
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if t.USDRateFrom != nil {
		s := t.USDRateFrom.String()
		resp.USDRateFrom = &s
	}
	if t.USDRateTo != nil {
		s := t.USDRateTo.String()
		resp.USDRateTo = &s
	}
	return resp
}

// NewQuoteResponse maps a quote to its view.
func NewQuoteResponse(q domain.SwapQuote) QuoteResponse {
	resp := QuoteResponse{
		FromSymbol: q.FromSymbol,
		ToSymbol:   q.ToSymbol,
		FromAmount: q.FromAmount.String(),
		ToAmount:   q.ToAmount.String(),
	}
	if q.USDRateFrom != nil {
		s := q.USDRateFrom.String()
		resp.USDRateFrom = &s
	}
	if q.USDRateTo != nil {
		s := q.USDRateTo.String()
		resp.USDRateTo = &s
	}
	return resp
}

// TotalPages computes the page count for a paginated response.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return int(pages)
}
