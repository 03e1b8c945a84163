package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

// MarketService proxies public market data with a short-lived cache in front
// of the upstream. When the upstream rate-limits, the last cached payload is
// served even if its freshness window has passed; clients prefer slightly
// stale charts over errors.
type MarketService struct {
	source ports.MarketSource
	cache  ports.MarketCache
	ttl    time.Duration
	log    zerolog.Logger
}

// NewMarketService creates a MarketService with the given freshness TTL.
func NewMarketService(source ports.MarketSource, cache ports.MarketCache, ttl time.Duration, log zerolog.Logger) *MarketService {
	return &MarketService{
		source: source,
		cache:  cache,
		ttl:    ttl,
		log:    log.With().Str("component", "market_service").Logger(),
	}
}

// Coins returns 24h statistics for all trading pairs.
func (s *MarketService) Coins(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, "market:coins", s.source.FetchCoins)
}

// CoinStats returns 24h statistics for one trading pair.
func (s *MarketService) CoinStats(ctx context.Context, symbol string) (json.RawMessage, error) {
	key := "market:stats:" + strings.ToUpper(strings.TrimSpace(symbol))
	return s.cached(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.source.FetchCoinStats(ctx, symbol)
	})
}

// Klines returns candlestick data for a trading pair.
func (s *MarketService) Klines(ctx context.Context, symbol, interval string, limit int) (json.RawMessage, error) {
	key := fmt.Sprintf("market:klines:%s:%s:%d", strings.ToUpper(strings.TrimSpace(symbol)), interval, limit)
	return s.cached(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.source.FetchKlines(ctx, symbol, interval, limit)
	})
}

// OrderBook returns order book depth for a trading pair.
func (s *MarketService) OrderBook(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	key := fmt.Sprintf("market:depth:%s:%d", strings.ToUpper(strings.TrimSpace(symbol)), limit)
	return s.cached(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.source.FetchOrderBook(ctx, symbol, limit)
	})
}

func (s *MarketService) cached(ctx context.Context, key string, fetch func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	if payload, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return payload, nil
	} else if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("market cache read failed")
	}

	payload, err := fetch(ctx)
	if err != nil {
		if isRateLimited(err) {
			if stale, ok, cacheErr := s.cache.GetStale(ctx, key); cacheErr == nil && ok {
				s.log.Warn().Str("key", key).Msg("upstream rate limited, serving stale payload")
				return stale, nil
			}
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("market cache write failed")
	}
	return payload, nil
}

func isRateLimited(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == apperror.CodeRateLimit
}
