package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postJSON issues an authenticated POST without failing the test itself, so
// it is safe to call from spawned goroutines.
func (a *testApp) postJSON(path, token string, body any) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return http.DefaultClient.Do(req)
}

// Concurrent settlements for the same user must serialize on the row lock:
// the funded amount can be spent exactly once, never more.

func TestConcurrency_NoOverdraw(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token, _ := app.registerAndLogin(t, "ada@example.com")

	resp := app.do(t, http.MethodPost, "/api/v1/swaps/deposit", token, map[string]string{
		"amount": "1000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// 20 concurrent buys of 100 USD each against a 1000 USD balance.
	// Exactly 10 can settle.
	const attempts = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		rejected  atomic.Int64
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := app.postJSON("/api/v1/swaps/usd-to-crypto", token, map[string]string{
				"to_symbol":  "BTC",
				"usd_amount": "100",
			})
			if err != nil {
				t.Errorf("request failed: %v", err)
				return
			}
			defer r.Body.Close()
			switch r.StatusCode {
			case http.StatusCreated:
				succeeded.Add(1)
			case http.StatusPaymentRequired:
				rejected.Add(1)
			default:
				t.Errorf("unexpected status %d", r.StatusCode)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), succeeded.Load())
	assert.Equal(t, int64(10), rejected.Load())

	// The USD balance is fully consumed and the BTC credit matches the
	// successful settlements: 10 * (100 / 50000) = 0.02.
	resp = app.do(t, http.MethodGet, "/api/v1/wallets", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balances := decodeData(t, resp)
	assert.Equal(t, "0", balances["usd_balance"])
	for _, entry := range balances["wallets"].([]interface{}) {
		e := entry.(map[string]interface{})
		if e["currency"] == "BTC" {
			assert.Equal(t, "0.02", e["balance"])
		}
	}

	// The transaction log holds one record per settled swap plus the deposit.
	resp = app.do(t, http.MethodGet, "/api/v1/swaps?page_size=50", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeData(t, resp)
	assert.Equal(t, float64(11), list["total"])
}

func TestConcurrency_DepositsAccumulate(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token, _ := app.registerAndLogin(t, "ada@example.com")

	const deposits = 20
	var wg sync.WaitGroup
	for i := 0; i < deposits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := app.postJSON("/api/v1/swaps/deposit", token, map[string]string{
				"amount": "50",
			})
			if err != nil {
				t.Errorf("request failed: %v", err)
				return
			}
			defer r.Body.Close()
			if r.StatusCode != http.StatusCreated {
				t.Errorf("deposit failed with status %d", r.StatusCode)
			}
		}()
	}
	wg.Wait()

	resp := app.do(t, http.MethodGet, "/api/v1/wallets", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balances := decodeData(t, resp)
	assert.Equal(t, "1000", balances["usd_balance"])
}
