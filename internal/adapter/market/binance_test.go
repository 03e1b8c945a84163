package market

import (
	"bytes"
	"context"
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
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.lastURL = req.URL.String()
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
		Header:     make(http.Header),
	}, nil
}

func newTestClient(doer *stubDoer) *BinanceClient {
	return NewBinanceClient("https://example.test/api/v3", time.Second, doer, logger.New("error", false))
}

func TestFetchCoins_PassesThroughPayload(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `[{"symbol":"BTCUSDT","lastPrice":"64000.50"}]`}
	client := newTestClient(doer)

	payload, err := client.FetchCoins(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, doer.body, string(payload))
	assert.Contains(t, doer.lastURL, "/ticker/24hr")
}

func TestFetchCoinStats_NormalizesSymbol(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{"symbol":"ETHUSDT"}`}
	client := newTestClient(doer)

	_, err := client.FetchCoinStats(context.Background(), " ethusdt ")
	require.NoError(t, err)
	assert.Contains(t, doer.lastURL, "symbol=ETHUSDT")
}

func TestFetchCoinStats_RejectsBadSymbol(t *testing.T) {
	client := newTestClient(&stubDoer{status: http.StatusOK, body: `{}`})

	_, err := client.FetchCoinStats(context.Background(), "BTC;DROP")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SWP_004", appErr.Code)
}

func TestFetchKlines_BuildsQuery(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `[]`}
	client := newTestClient(doer)

	_, err := client.FetchKlines(context.Background(), "BTCUSDT", "1h", 100)
	require.NoError(t, err)
	assert.Contains(t, doer.lastURL, "/klines")
	assert.Contains(t, doer.lastURL, "interval=1h")
	assert.Contains(t, doer.lastURL, "limit=100")
}

func TestFetchOrderBook_RateLimited(t *testing.T) {
	doer := &stubDoer{status: http.StatusTooManyRequests, body: `{}`}
	client := newTestClient(doer)

	_, err := client.FetchOrderBook(context.Background(), "BTCUSDT", 50)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RATE_003", appErr.Code)
}

func TestFetchOrderBook_UpstreamDown(t *testing.T) {
	doer := &stubDoer{status: http.StatusBadGateway, body: `nope`}
	client := newTestClient(doer)

	_, err := client.FetchOrderBook(context.Background(), "BTCUSDT", 0)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_002", appErr.Code)
}
