package handler

import (
	"net/http"
	"strconv"

	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"
	"custodial-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// MarketHandler proxies public market data endpoints. Upstream payloads are
// returned verbatim, outside the standard response envelope.
type MarketHandler struct {
	marketSvc ports.MarketDataService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc ports.MarketDataService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// Coins handles GET /api/v1/market/coins.
func (h *MarketHandler) Coins(c *gin.Context) {
	payload, err := h.marketSvc.Coins(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// CoinStats handles GET /api/v1/market/coins/:symbol.
func (h *MarketHandler) CoinStats(c *gin.Context) {
	payload, err := h.marketSvc.CoinStats(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// Klines handles GET /api/v1/market/klines/:symbol.
func (h *MarketHandler) Klines(c *gin.Context) {
	interval := c.DefaultQuery("interval", "1h")
	limit, err := parseLimit(c.DefaultQuery("limit", "100"), 1000)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.marketSvc.Klines(c.Request.Context(), c.Param("symbol"), interval, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// OrderBook handles GET /api/v1/market/depth/:symbol.
func (h *MarketHandler) OrderBook(c *gin.Context) {
	limit, err := parseLimit(c.DefaultQuery("limit", "100"), 5000)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.marketSvc.OrderBook(c.Request.Context(), c.Param("symbol"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func parseLimit(raw string, max int) (int, error) {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > max {
		return 0, apperror.Validation("invalid limit")
	}
	return limit, nil
}
