package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"custodial-wallet-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Binance REST API root.
const DefaultBaseURL = "https://api.binance.com/api/v3"

// pairPattern constrains trading pair symbols passed through to the upstream.
var pairPattern = regexp.MustCompile(`^[A-Z0-9]{2,20}$`)

// HTTPDoer is the subset of http.Client the adapter needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BinanceClient proxies public Binance market endpoints. Payloads are passed
// through untouched as raw JSON. It implements ports.MarketSource.
type BinanceClient struct {
	baseURL string
	client  HTTPDoer
	log     zerolog.Logger
}

// NewBinanceClient creates a client against baseURL. If doer is nil a default
// http.Client with the given timeout is used.
func NewBinanceClient(baseURL string, timeout time.Duration, doer HTTPDoer, log zerolog.Logger) *BinanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &BinanceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  doer,
		log:     log.With().Str("component", "binance").Logger(),
	}
}

// FetchCoins returns 24h ticker statistics for all trading pairs.
func (c *BinanceClient) FetchCoins(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/ticker/24hr", nil)
}

// FetchCoinStats returns 24h ticker statistics for a single trading pair.
func (c *BinanceClient) FetchCoinStats(ctx context.Context, symbol string) (json.RawMessage, error) {
	pair, err := normalizePair(symbol)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, "/ticker/24hr", url.Values{"symbol": {pair}})
}

// FetchKlines returns candlestick data for a trading pair.
func (c *BinanceClient) FetchKlines(ctx context.Context, symbol, interval string, limit int) (json.RawMessage, error) {
	pair, err := normalizePair(symbol)
	if err != nil {
		return nil, err
	}
	q := url.Values{"symbol": {pair}, "interval": {interval}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.get(ctx, "/klines", q)
}

// FetchOrderBook returns the order book depth for a trading pair.
func (c *BinanceClient) FetchOrderBook(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	pair, err := normalizePair(symbol)
	if err != nil {
		return nil, err
	}
	q := url.Values{"symbol": {pair}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.get(ctx, "/depth", q)
}

func (c *BinanceClient) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.log.Warn().Str("path", path).Msg("market upstream rate limited")
		return nil, apperror.ErrRateLimitExceeded()
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error().Int("status", resp.StatusCode).Str("path", path).Bytes("body", body).Msg("market upstream returned non-200")
		return nil, apperror.ErrUpstreamUnavailable(fmt.Errorf("binance status %d", resp.StatusCode))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable(err)
	}
	return json.RawMessage(payload), nil
}

func normalizePair(symbol string) (string, error) {
	pair := strings.ToUpper(strings.TrimSpace(symbol))
	if !pairPattern.MatchString(pair) {
		return "", apperror.ErrInvalidRequest("invalid trading pair symbol")
	}
	return pair, nil
}
