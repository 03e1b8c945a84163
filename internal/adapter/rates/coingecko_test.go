package rates

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"custodial-wallet-backend/pkg/apperror"
	"custodial-wallet-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDoer struct {
	lastURL string
	status  int
	body    string
	err     error
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.lastURL = req.URL.String()
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
		Header:     make(http.Header),
	}, nil
}

func newTestClient(doer *stubDoer) *CoinGeckoClient {
	return NewCoinGeckoClient("https://example.test/api/v3", time.Second, doer, logger.New("error", false))
}

func TestFetchUSDPrices_Success(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"bitcoin":{"usd":64000.5},"tether":{"usd":1.0004}}`,
	}
	client := newTestClient(doer)

	prices, err := client.FetchUSDPrices(context.Background(), []string{"BTC", "USDT_TRC20", "USDT_BEP20"})
	require.NoError(t, err)

	assert.Equal(t, "64000.5", prices["BTC"].String())
	assert.Equal(t, "1.0004", prices["USDT_TRC20"].String())
	assert.Equal(t, "1.0004", prices["USDT_BEP20"].String())
	// both tether variants collapse into one upstream id
	assert.Contains(t, doer.lastURL, "ids=bitcoin%2Ctether")
	assert.Contains(t, doer.lastURL, "vs_currencies=usd")
}

func TestFetchUSDPrices_SkipsUnknownSymbols(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{"ethereum":{"usd":3000}}`}
	client := newTestClient(doer)

	prices, err := client.FetchUSDPrices(context.Background(), []string{"ETH", "DOGE"})
	require.NoError(t, err)
	assert.Len(t, prices, 1)
	assert.Equal(t, "3000", prices["ETH"].String())
}

func TestFetchUSDPrices_NoKnownSymbols(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{}`}
	client := newTestClient(doer)

	prices, err := client.FetchUSDPrices(context.Background(), []string{"DOGE"})
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.Empty(t, doer.lastURL, "no request should be made")
}

func TestFetchUSDPrices_RateLimited(t *testing.T) {
	doer := &stubDoer{status: http.StatusTooManyRequests, body: `{}`}
	client := newTestClient(doer)

	_, err := client.FetchUSDPrices(context.Background(), []string{"BTC"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RATE_003", appErr.Code)
}

func TestFetchUSDPrices_UpstreamError(t *testing.T) {
	doer := &stubDoer{status: http.StatusInternalServerError, body: `boom`}
	client := newTestClient(doer)

	_, err := client.FetchUSDPrices(context.Background(), []string{"BTC"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RATE_001", appErr.Code)
}

func TestFetchUSDPrices_TransportError(t *testing.T) {
	doer := &stubDoer{err: errors.New("connection refused")}
	client := newTestClient(doer)

	_, err := client.FetchUSDPrices(context.Background(), []string{"BTC"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RATE_001", appErr.Code)
}

func TestFetchUSDPrices_OmittedAndZeroPrices(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{"bitcoin":{"usd":0}}`}
	client := newTestClient(doer)

	prices, err := client.FetchUSDPrices(context.Background(), []string{"BTC", "ETH"})
	require.NoError(t, err)
	assert.Empty(t, prices)
}
