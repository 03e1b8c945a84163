package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SwapType represents the kind of settlement recorded in the ledger log.
type SwapType string

const (
	SwapTypeUSDDeposit     SwapType = "USD_DEPOSIT"
	SwapTypeUSDToCrypto    SwapType = "USD_TO_CRYPTO"
	SwapTypeCryptoToUSD    SwapType = "CRYPTO_TO_USD"
	SwapTypeCryptoToCrypto SwapType = "CRYPTO_TO_CRYPTO"
)

// SwapStatus represents the lifecycle state of a settlement record.
// The settlement engine only ever writes completed records; pending and
// failed exist for compatibility with externally ingested rows.
type SwapStatus string

const (
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusFailed    SwapStatus = "failed"
)

// SwapTransaction is an immutable fact recording one settlement. Created
// once at the end of a successful settlement, never updated or deleted.
type SwapTransaction struct {
	ID          uuid.UUID              `json:"id"`
	UserID      uuid.UUID              `json:"user_id"`
	Type        SwapType               `json:"type"`
	FromSymbol  string                 `json:"from_symbol"` // "USD" or a supported asset symbol
	ToSymbol    string                 `json:"to_symbol"`
	FromAmount  decimal.Decimal        `json:"from_amount"`
	ToAmount    decimal.Decimal        `json:"to_amount"`
	Rate        decimal.Decimal        `json:"rate"` // toAmount / fromAmount
	USDRateFrom *decimal.Decimal       `json:"usd_rate_from,omitempty"`
	USDRateTo   *decimal.Decimal       `json:"usd_rate_to,omitempty"`
	Status      SwapStatus             `json:"status"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// SwapQuote is the computed pricing returned alongside a settlement.
type SwapQuote struct {
	FromSymbol  string           `json:"from_symbol"`
	ToSymbol    string           `json:"to_symbol"`
	FromAmount  decimal.Decimal  `json:"from_amount"`
	ToAmount    decimal.Decimal  `json:"to_amount"`
	USDRateFrom *decimal.Decimal `json:"usd_rate_from,omitempty"`
	USDRateTo   *decimal.Decimal `json:"usd_rate_to,omitempty"`
}

// QuoteOf derives the quote view of a settlement record.
func (t *SwapTransaction) QuoteOf() SwapQuote {
	return SwapQuote{
		FromSymbol:  t.FromSymbol,
		ToSymbol:    t.ToSymbol,
		FromAmount:  t.FromAmount,
		ToAmount:    t.ToAmount,
		USDRateFrom: t.USDRateFrom,
		USDRateTo:   t.USDRateTo,
	}
}

// Fixed precision contract: USD-denominated amounts carry 2 decimal places,
// asset-denominated amounts carry 8. Conversions must round through these
// helpers so results are deterministic.
const (
	USDPrecision    = 2
	CryptoPrecision = 8
)

// RoundUSD rounds a USD amount to the fiat precision (half up).
func RoundUSD(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(USDPrecision)
}

// RoundCrypto rounds an asset quantity to the crypto precision (half up).
func RoundCrypto(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CryptoPrecision)
}
