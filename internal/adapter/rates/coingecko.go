package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public CoinGecko API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// coinIDs maps canonical asset symbols to CoinGecko coin ids. Both USDT
// network variants price off the same upstream id.
var coinIDs = map[domain.Asset]string{
	domain.AssetBTC:       "bitcoin",
	domain.AssetETH:       "ethereum",
	domain.AssetTRX:       "tron",
	domain.AssetBNB:       "binancecoin",
	domain.AssetMATIC:     "matic-network",
	domain.AssetUSDTTRC20: "tether",
	domain.AssetUSDTBEP20: "tether",
	domain.AssetBTG:       "bitcoin-gold",
}

// HTTPDoer is the subset of http.Client the adapter needs. Tests substitute
// a stub transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CoinGeckoClient fetches spot USD prices from the CoinGecko simple price
// endpoint. It implements ports.RateSource.
type CoinGeckoClient struct {
	baseURL string
	client  HTTPDoer
	log     zerolog.Logger
}

// NewCoinGeckoClient creates a client against baseURL. If doer is nil a
// default http.Client with the given timeout is used.
func NewCoinGeckoClient(baseURL string, timeout time.Duration, doer HTTPDoer, log zerolog.Logger) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  doer,
		log:     log.With().Str("component", "coingecko").Logger(),
	}
}

// FetchUSDPrices resolves USD prices for the given asset symbols in a single
// batched request. Unknown symbols are skipped; symbols the upstream omits
// are absent from the result.
func (c *CoinGeckoClient) FetchUSDPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	idBySymbol := make(map[string]string, len(symbols))
	ids := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		asset, ok := domain.ParseAsset(s)
		if !ok {
			continue
		}
		id := coinIDs[asset]
		idBySymbol[string(asset)] = id
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.ErrRateFetchFailure(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperror.ErrRateFetchFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.log.Warn().Msg("price upstream rate limited")
		return nil, apperror.ErrRateLimitExceeded()
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error().Int("status", resp.StatusCode).Bytes("body", body).Msg("price upstream returned non-200")
		return nil, apperror.ErrRateFetchFailure(fmt.Errorf("coingecko status %d", resp.StatusCode))
	}

	var payload map[string]struct {
		USD decimal.Decimal `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperror.ErrRateFetchFailure(err)
	}

	prices := make(map[string]decimal.Decimal, len(symbols))
	for symbol, id := range idBySymbol {
		entry, ok := payload[id]
		if !ok || entry.USD.IsZero() {
			continue
		}
		prices[symbol] = entry.USD
	}
	return prices, nil
}
