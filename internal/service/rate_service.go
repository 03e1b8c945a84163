package service

import (
	"context"
	"sync"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// RateService resolves USD rates for supported assets through an upstream
// source, with a per-instance TTL cache so pricing bursts inside a settlement
// window reuse one upstream call. USD always resolves to exactly 1 without
// touching the cache or the upstream.
type RateService struct {
	source ports.RateSource
	ttl    time.Duration
	log    zerolog.Logger

	mu    sync.Mutex
	cache map[string]cachedRate
	now   func() time.Time
}

// NewRateService creates a RateService with the given cache TTL.
func NewRateService(source ports.RateSource, ttl time.Duration, log zerolog.Logger) *RateService {
	return &RateService{
		source: source,
		ttl:    ttl,
		log:    log.With().Str("component", "rate_service").Logger(),
		cache:  make(map[string]cachedRate),
		now:    time.Now,
	}
}

// GetUSDRate resolves the USD rate for a single symbol.
func (s *RateService) GetUSDRate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	rates, err := s.GetUSDRates(ctx, []string{symbol})
	if err != nil {
		return decimal.Zero, err
	}
	if domain.IsUSD(symbol) {
		return rates[domain.SymbolUSD], nil
	}
	asset, _ := domain.ParseAsset(symbol)
	return rates[string(asset)], nil
}

// GetUSDRates resolves USD rates for a set of symbols, batching all cache
// misses into a single upstream request. Every requested symbol is present in
// the result or the call fails.
func (s *RateService) GetUSDRates(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal, len(symbols))
	var missing []string
	seen := make(map[string]bool, len(symbols))

	for _, symbol := range symbols {
		if domain.IsUSD(symbol) {
			result[domain.SymbolUSD] = decimal.NewFromInt(1)
			continue
		}
		asset, ok := domain.ParseAsset(symbol)
		if !ok {
			return nil, apperror.ErrUnsupportedAsset(symbol)
		}
		canonical := string(asset)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true

		if rate, ok := s.cachedFresh(canonical); ok {
			result[canonical] = rate
			continue
		}
		missing = append(missing, canonical)
	}

	if len(missing) > 0 {
		fetched, err := s.source.FetchUSDPrices(ctx, missing)
		if err != nil {
			return nil, err
		}
		now := s.now()
		s.mu.Lock()
		for symbol, rate := range fetched {
			s.cache[symbol] = cachedRate{rate: rate, fetchedAt: now}
		}
		s.mu.Unlock()

		for _, symbol := range missing {
			rate, ok := fetched[symbol]
			if !ok {
				s.log.Error().Str("symbol", symbol).Msg("upstream omitted requested rate")
				return nil, apperror.ErrRateMissing(symbol)
			}
			result[symbol] = rate
		}
	}

	return result, nil
}

func (s *RateService) cachedFresh(symbol string) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[symbol]
	if !ok || s.now().Sub(entry.fetchedAt) >= s.ttl {
		return decimal.Zero, false
	}
	return entry.rate, true
}
