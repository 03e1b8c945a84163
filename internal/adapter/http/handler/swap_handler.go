package handler

import (
	"strconv"

	"custodial-wallet-backend/internal/adapter/http/dto"
	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"
	"custodial-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SwapHandler handles deposit and swap endpoints.
type SwapHandler struct {
	swapSvc ports.SwapService
}

// NewSwapHandler creates a new SwapHandler.
func NewSwapHandler(swapSvc ports.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

func swapResponse(result *ports.SwapResult) dto.SwapResponse {
	return dto.SwapResponse{
		Transaction: dto.NewTransactionResponse(result.Transaction),
		Quote:       dto.NewQuoteResponse(result.Quote),
		Wallet:      dto.NewWalletResponse(result.User),
	}
}

// Deposit handles POST /api/v1/swaps/deposit.
func (h *SwapHandler) Deposit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.swapSvc.DepositUSD(c.Request.Context(), userID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, swapResponse(result))
}

// USDToCrypto handles POST /api/v1/swaps/usd-to-crypto.
func (h *SwapHandler) USDToCrypto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.USDToCryptoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := dto.ParseAmount(req.USDAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.swapSvc.USDToCrypto(c.Request.Context(), userID, req.ToSymbol, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, swapResponse(result))
}

// CryptoToUSD handles POST /api/v1/swaps/crypto-to-usd.
func (h *SwapHandler) CryptoToUSD(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CryptoToUSDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.swapSvc.CryptoToUSD(c.Request.Context(), userID, req.FromSymbol, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, swapResponse(result))
}

// CryptoToCrypto handles POST /api/v1/swaps/crypto-to-crypto.
func (h *SwapHandler) CryptoToCrypto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CryptoToCryptoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.swapSvc.CryptoToCrypto(c.Request.Context(), userID, req.FromSymbol, req.ToSymbol, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, swapResponse(result))
}

// GetTransaction handles GET /api/v1/swaps/:id.
func (h *SwapHandler) GetTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	tx, err := h.swapSvc.GetTransaction(c.Request.Context(), userID, txID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewTransactionResponse(tx))
}

var validSwapTypes = map[domain.SwapType]bool{
	domain.SwapTypeUSDDeposit:     true,
	domain.SwapTypeUSDToCrypto:    true,
	domain.SwapTypeCryptoToUSD:    true,
	domain.SwapTypeCryptoToCrypto: true,
}

// ListTransactions handles GET /api/v1/swaps.
func (h *SwapHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	params := ports.SwapListParams{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("type"); raw != "" {
		swapType := domain.SwapType(raw)
		if !validSwapTypes[swapType] {
			response.Error(c, apperror.Validation("unknown transaction type"))
			return
		}
		params.Type = &swapType
	}

	items, total, err := h.swapSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.TransactionResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewTransactionResponse(&items[i]))
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	response.OK(c, dto.TransactionListResponse{
		Items:      out,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: dto.TotalPages(total, params.PageSize),
	})
}
