package domain

import "strings"

// Asset identifies one of the crypto assets the ledger tracks balances for.
// The set is closed: balances exist for every listed asset and nothing else.
type Asset string

const (
	AssetBTC       Asset = "BTC"
	AssetETH       Asset = "ETH"
	AssetTRX       Asset = "TRX"
	AssetBNB       Asset = "BNB"
	AssetMATIC     Asset = "MATIC"
	AssetUSDTTRC20 Asset = "USDT_TRC20"
	AssetUSDTBEP20 Asset = "USDT_BEP20"
	AssetBTG       Asset = "BTG"
)

// SymbolUSD is the fiat pseudo-asset. It is never stored in the balance maps
// and always prices at exactly 1.
const SymbolUSD = "USD"

// supportedAssets is the canonical ordering used for dense iteration.
var supportedAssets = []Asset{
	AssetBTC,
	AssetETH,
	AssetTRX,
	AssetBNB,
	AssetMATIC,
	AssetUSDTTRC20,
	AssetUSDTBEP20,
	AssetBTG,
}

// SupportedAssets returns the closed asset enumeration in canonical order.
// Callers must not mutate the returned slice.
func SupportedAssets() []Asset {
	return supportedAssets
}

// ParseAsset normalizes symbol and resolves it against the supported set.
func ParseAsset(symbol string) (Asset, bool) {
	upper := Asset(strings.ToUpper(strings.TrimSpace(symbol)))
	for _, a := range supportedAssets {
		if a == upper {
			return a, true
		}
	}
	return "", false
}

// IsUSD reports whether symbol refers to the fiat pseudo-asset.
func IsUSD(symbol string) bool {
	return strings.EqualFold(strings.TrimSpace(symbol), SymbolUSD)
}
