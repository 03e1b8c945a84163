package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Codes branched on programmatically.
const (
	CodeNotFound  = "SWP_005"
	CodeRateLimit = "RATE_003"
)

// ---- Ledger & Swap Business Logic (SWP) ----

func ErrInsufficientFunds(symbol string) *AppError {
	return New("SWP_001", fmt.Sprintf("Insufficient %s balance", symbol), http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("SWP_002", "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrUnsupportedAsset(symbol string) *AppError {
	return New("SWP_003", fmt.Sprintf("Unsupported coin symbol: %s", symbol), http.StatusBadRequest)
}

func ErrInvalidRequest(message string) *AppError {
	return New("SWP_004", message, http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Rate Source (RATE) ----

func ErrRateFetchFailure(err error) *AppError {
	return Wrap("RATE_001", "Failed to fetch exchange rates", http.StatusBadGateway, err)
}

func ErrRateMissing(symbol string) *AppError {
	return New("RATE_002", fmt.Sprintf("Unable to fetch USD rate for %s", symbol), http.StatusBadGateway)
}

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimit, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAccountDisabled() *AppError {
	return New("AUTH_004", "Account is deactivated", http.StatusForbidden)
}

// ---- System & Infrastructure (SYS) ----

func ErrPersistence(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrUpstreamUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Upstream market data unavailable", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a SWP_004-style validation error.
func Validation(message string) *AppError {
	return New("SWP_004", message, http.StatusBadRequest)
}
