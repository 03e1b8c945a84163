package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodial-wallet-backend/pkg/apperror"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestUser() *UserAccount {
	return NewUserAccount("alice@example.com", "hash", "Alice", "Nguyen")
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok, "expected *apperror.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestParseAsset(t *testing.T) {
	tests := []struct {
		in   string
		want Asset
		ok   bool
	}{
		{"BTC", AssetBTC, true},
		{"btc", AssetBTC, true},
		{"  eth ", AssetETH, true},
		{"USDT_TRC20", AssetUSDTTRC20, true},
		{"usdt_bep20", AssetUSDTBEP20, true},
		{"USD", "", false},
		{"DOGE", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAsset(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsUSD(t *testing.T) {
	assert.True(t, IsUSD("USD"))
	assert.True(t, IsUSD("usd"))
	assert.True(t, IsUSD(" Usd "))
	assert.False(t, IsUSD("BTC"))
}

func TestEnsureBalanceMaps_Densifies(t *testing.T) {
	u := &UserAccount{}
	u.EnsureBalanceMaps()

	assert.Len(t, u.Balances, len(SupportedAssets()))
	assert.Len(t, u.LockedBalances, len(SupportedAssets()))
	for _, a := range SupportedAssets() {
		assert.True(t, u.Balances[a].IsZero())
		assert.True(t, u.LockedBalances[a].IsZero())
	}
}

func TestEnsureBalanceMaps_Idempotent(t *testing.T) {
	u := newTestUser()
	require.NoError(t, u.AdjustCryptoBalance("BTC", dec("1.5")))

	before := make(map[Asset]decimal.Decimal, len(u.Balances))
	for k, v := range u.Balances {
		before[k] = v
	}

	u.EnsureBalanceMaps()
	u.EnsureBalanceMaps()

	assert.Len(t, u.Balances, len(before))
	for k, v := range before {
		assert.True(t, u.Balances[k].Equal(v), "balance for %s changed", k)
	}
}

func TestCreditUSD(t *testing.T) {
	u := newTestUser()

	require.NoError(t, u.CreditUSD(dec("100.50")))
	assert.True(t, u.USDWallet.Balance.Equal(dec("100.50")))

	require.NoError(t, u.CreditUSD(dec("0.01")))
	assert.True(t, u.USDWallet.Balance.Equal(dec("100.51")))
}

func TestCreditUSD_RejectsNonPositive(t *testing.T) {
	u := newTestUser()

	assertAppError(t, u.CreditUSD(decimal.Zero), "SWP_002")
	assertAppError(t, u.CreditUSD(dec("-5")), "SWP_002")
	assert.True(t, u.USDWallet.Balance.IsZero())
}

func TestDebitUSD(t *testing.T) {
	u := newTestUser()
	require.NoError(t, u.CreditUSD(dec("50")))

	require.NoError(t, u.DebitUSD(dec("20")))
	assert.True(t, u.USDWallet.Balance.Equal(dec("30")))

	// Debit down to exactly zero is allowed.
	require.NoError(t, u.DebitUSD(dec("30")))
	assert.True(t, u.USDWallet.Balance.IsZero())
}

func TestDebitUSD_InsufficientFunds(t *testing.T) {
	u := newTestUser()
	require.NoError(t, u.CreditUSD(dec("10")))

	assertAppError(t, u.DebitUSD(dec("10.01")), "SWP_001")
	assert.True(t, u.USDWallet.Balance.Equal(dec("10")), "failed debit must not change the balance")
}

func TestDebitUSD_RejectsNonPositive(t *testing.T) {
	u := newTestUser()
	assertAppError(t, u.DebitUSD(decimal.Zero), "SWP_002")
	assertAppError(t, u.DebitUSD(dec("-1")), "SWP_002")
}

func TestAdjustCryptoBalance_CreditAndDebit(t *testing.T) {
	u := newTestUser()

	require.NoError(t, u.AdjustCryptoBalance("BTC", dec("2")))
	assert.True(t, u.Balances[AssetBTC].Equal(dec("2")))

	require.NoError(t, u.AdjustCryptoBalance("btc", dec("-0.5")))
	assert.True(t, u.Balances[AssetBTC].Equal(dec("1.5")))

	// Down to exactly zero is allowed.
	require.NoError(t, u.AdjustCryptoBalance("BTC", dec("-1.5")))
	assert.True(t, u.Balances[AssetBTC].IsZero())
}

func TestAdjustCryptoBalance_UnsupportedAsset(t *testing.T) {
	u := newTestUser()
	assertAppError(t, u.AdjustCryptoBalance("DOGE", dec("1")), "SWP_003")
	assertAppError(t, u.AdjustCryptoBalance("USD", dec("1")), "SWP_003")
}

func TestAdjustCryptoBalance_Overdraw(t *testing.T) {
	u := newTestUser()
	require.NoError(t, u.AdjustCryptoBalance("ETH", dec("1")))

	assertAppError(t, u.AdjustCryptoBalance("ETH", dec("-1.00000001")), "SWP_001")
	assert.True(t, u.Balances[AssetETH].Equal(dec("1")), "failed adjust must not change the balance")
}

func TestLockUnlockCryptoBalance(t *testing.T) {
	u := newTestUser()
	require.NoError(t, u.AdjustCryptoBalance("TRX", dec("100")))

	require.NoError(t, u.LockCryptoBalance("TRX", dec("40")))
	assert.True(t, u.Balances[AssetTRX].Equal(dec("60")))
	assert.True(t, u.LockedBalances[AssetTRX].Equal(dec("40")))

	require.NoError(t, u.UnlockCryptoBalance("TRX", dec("15")))
	assert.True(t, u.Balances[AssetTRX].Equal(dec("75")))
	assert.True(t, u.LockedBalances[AssetTRX].Equal(dec("25")))
}

func TestLockCryptoBalance_Failures(t *testing.T) {
	u := newTestUser()
	require.NoError(t, u.AdjustCryptoBalance("BNB", dec("5")))

	assertAppError(t, u.LockCryptoBalance("BNB", decimal.Zero), "SWP_002")
	assertAppError(t, u.LockCryptoBalance("BNB", dec("-1")), "SWP_002")
	assertAppError(t, u.LockCryptoBalance("BNB", dec("5.1")), "SWP_001")
	assertAppError(t, u.LockCryptoBalance("XRP", dec("1")), "SWP_003")

	assert.True(t, u.Balances[AssetBNB].Equal(dec("5")))
	assert.True(t, u.LockedBalances[AssetBNB].IsZero())
}

func TestUnlockCryptoBalance_Failures(t *testing.T) {
	u := newTestUser()
	require.NoError(t, u.AdjustCryptoBalance("BNB", dec("5")))
	require.NoError(t, u.LockCryptoBalance("BNB", dec("2")))

	assertAppError(t, u.UnlockCryptoBalance("BNB", dec("2.5")), "SWP_001")
	assertAppError(t, u.UnlockCryptoBalance("BNB", decimal.Zero), "SWP_002")
	assertAppError(t, u.UnlockCryptoBalance("XRP", dec("1")), "SWP_003")
}

func TestWallets_MirrorsBalanceMaps(t *testing.T) {
	u := newTestUser()
	require.NoError(t, u.AdjustCryptoBalance("BTC", dec("0.75")))
	require.NoError(t, u.AdjustCryptoBalance("ETH", dec("10")))
	require.NoError(t, u.LockCryptoBalance("ETH", dec("4")))

	entries := u.Wallets()
	require.Len(t, entries, len(SupportedAssets()))

	byCurrency := make(map[string]WalletEntry, len(entries))
	for _, e := range entries {
		byCurrency[e.Currency] = e
	}

	assert.True(t, byCurrency["BTC"].Balance.Equal(dec("0.75")))
	assert.True(t, byCurrency["BTC"].LockedBalance.IsZero())
	assert.True(t, byCurrency["ETH"].Balance.Equal(dec("6")))
	assert.True(t, byCurrency["ETH"].LockedBalance.Equal(dec("4")))
	assert.True(t, byCurrency["TRX"].Balance.IsZero())
}

func TestWallets_CanonicalOrder(t *testing.T) {
	u := newTestUser()
	entries := u.Wallets()
	for i, a := range SupportedAssets() {
		assert.Equal(t, string(a), entries[i].Currency)
	}
}

func TestNonNegativityInvariant_AfterOperationSequence(t *testing.T) {
	u := newTestUser()
	ops := []func() error{
		func() error { return u.CreditUSD(dec("1000")) },
		func() error { return u.DebitUSD(dec("400")) },
		func() error { return u.AdjustCryptoBalance("BTC", dec("0.3")) },
		func() error { return u.AdjustCryptoBalance("BTC", dec("-0.4")) }, // fails
		func() error { return u.LockCryptoBalance("BTC", dec("0.2")) },
		func() error { return u.UnlockCryptoBalance("BTC", dec("0.3")) }, // fails
		func() error { return u.DebitUSD(dec("10000")) },                 // fails
	}

	for _, op := range ops {
		_ = op()
		assert.False(t, u.USDWallet.Balance.IsNegative())
		for _, a := range SupportedAssets() {
			assert.False(t, u.Balances[a].IsNegative(), "available balance for %s went negative", a)
			assert.False(t, u.LockedBalances[a].IsNegative(), "locked balance for %s went negative", a)
		}
	}
}

func TestRoundUSD(t *testing.T) {
	assert.True(t, RoundUSD(dec("19999.999")).Equal(dec("20000")))
	assert.True(t, RoundUSD(dec("0.005")).Equal(dec("0.01")))
	assert.True(t, RoundUSD(dec("0.004")).Equal(dec("0")))
}

func TestRoundCrypto(t *testing.T) {
	assert.True(t, RoundCrypto(dec("0.123456789")).Equal(dec("0.12345679")))
	assert.True(t, RoundCrypto(dec("0.000000001")).Equal(dec("0")))
	assert.True(t, RoundCrypto(dec("0.002")).Equal(dec("0.002")))
}

func TestSwapTransaction_QuoteOf(t *testing.T) {
	rate := dec("50000")
	tx := &SwapTransaction{
		Type:       SwapTypeUSDToCrypto,
		FromSymbol: SymbolUSD,
		ToSymbol:   "BTC",
		FromAmount: dec("100"),
		ToAmount:   dec("0.002"),
		Rate:       dec("0.00002"),
		USDRateTo:  &rate,
		Status:     SwapStatusCompleted,
	}

	q := tx.QuoteOf()
	assert.Equal(t, SymbolUSD, q.FromSymbol)
	assert.Equal(t, "BTC", q.ToSymbol)
	assert.True(t, q.FromAmount.Equal(dec("100")))
	assert.True(t, q.ToAmount.Equal(dec("0.002")))
	require.NotNil(t, q.USDRateTo)
	assert.True(t, q.USDRateTo.Equal(dec("50000")))
	assert.Nil(t, q.USDRateFrom)
}

func TestSwapType_Constants(t *testing.T) {
	assert.Equal(t, SwapType("USD_DEPOSIT"), SwapTypeUSDDeposit)
	assert.Equal(t, SwapType("USD_TO_CRYPTO"), SwapTypeUSDToCrypto)
	assert.Equal(t, SwapType("CRYPTO_TO_USD"), SwapTypeCryptoToUSD)
	assert.Equal(t, SwapType("CRYPTO_TO_CRYPTO"), SwapTypeCryptoToCrypto)
}

func TestSwapStatus_Constants(t *testing.T) {
	assert.Equal(t, SwapStatus("completed"), SwapStatusCompleted)
	assert.Equal(t, SwapStatus("pending"), SwapStatusPending)
	assert.Equal(t, SwapStatus("failed"), SwapStatusFailed)
}
