package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"custodial-wallet-backend/pkg/apperror"
)

// USDWallet is the fiat side of a user's account.
type USDWallet struct {
	Balance       decimal.Decimal `json:"balance"`
	LockedBalance decimal.Decimal `json:"locked_balance"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// WalletEntry is the display-oriented projection of one asset's balances.
// It is derived from the balance maps on read and never stored, so it
// cannot diverge from them.
type WalletEntry struct {
	Currency      string          `json:"currency"`
	Address       string          `json:"address"`
	Balance       decimal.Decimal `json:"balance"`
	LockedBalance decimal.Decimal `json:"locked_balance"`
}

// UserAccount is the aggregate root for a user's identity and balances.
// It is loaded and saved as a unit by the persistence layer; all ledger
// mutations are synchronous in-memory operations on the loaded instance.
type UserAccount struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`

	USDWallet      USDWallet                 `json:"usd_wallet"`
	Balances       map[Asset]decimal.Decimal `json:"balances"`
	LockedBalances map[Asset]decimal.Decimal `json:"locked_balances"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserAccount builds a user with zeroed dense balance maps.
func NewUserAccount(email, passwordHash, firstName, lastName string) *UserAccount {
	now := time.Now().UTC()
	u := &UserAccount{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		USDWallet:    USDWallet{LastUpdated: now},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.EnsureBalanceMaps()
	return u
}

// EnsureBalanceMaps densifies the balance maps so every supported asset has
// an explicit entry. Idempotent; existing entries are left untouched. Must
// run before any ledger operation that reads the maps; the repository calls
// it on every load.
func (u *UserAccount) EnsureBalanceMaps() {
	if u.Balances == nil {
		u.Balances = make(map[Asset]decimal.Decimal, len(supportedAssets))
	}
	if u.LockedBalances == nil {
		u.LockedBalances = make(map[Asset]decimal.Decimal, len(supportedAssets))
	}
	for _, a := range supportedAssets {
		if _, ok := u.Balances[a]; !ok {
			u.Balances[a] = decimal.Zero
		}
		if _, ok := u.LockedBalances[a]; !ok {
			u.LockedBalances[a] = decimal.Zero
		}
	}
}

// CreditUSD increases the USD wallet balance.
func (u *UserAccount) CreditUSD(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperror.ErrInvalidAmount()
	}
	u.USDWallet.Balance = u.USDWallet.Balance.Add(amount)
	u.USDWallet.LastUpdated = time.Now().UTC()
	return nil
}

// DebitUSD decreases the USD wallet balance, refusing to go negative.
func (u *UserAccount) DebitUSD(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperror.ErrInvalidAmount()
	}
	if u.USDWallet.Balance.LessThan(amount) {
		return apperror.ErrInsufficientFunds(SymbolUSD)
	}
	u.USDWallet.Balance = u.USDWallet.Balance.Sub(amount)
	u.USDWallet.LastUpdated = time.Now().UTC()
	return nil
}

// AdjustCryptoBalance applies a signed delta to an asset's available
// balance. A negative delta that would overdraw the balance fails with
// insufficient funds and leaves state untouched.
func (u *UserAccount) AdjustCryptoBalance(symbol string, delta decimal.Decimal) error {
	asset, ok := ParseAsset(symbol)
	if !ok {
		return apperror.ErrUnsupportedAsset(symbol)
	}
	u.EnsureBalanceMaps()

	next := u.Balances[asset].Add(delta)
	if next.IsNegative() {
		return apperror.ErrInsufficientFunds(string(asset))
	}
	u.Balances[asset] = next
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// LockCryptoBalance moves amount from available to locked for an asset.
func (u *UserAccount) LockCryptoBalance(symbol string, amount decimal.Decimal) error {
	asset, ok := ParseAsset(symbol)
	if !ok {
		return apperror.ErrUnsupportedAsset(symbol)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperror.ErrInvalidAmount()
	}
	u.EnsureBalanceMaps()

	if u.Balances[asset].LessThan(amount) {
		return apperror.ErrInsufficientFunds(string(asset))
	}
	u.Balances[asset] = u.Balances[asset].Sub(amount)
	u.LockedBalances[asset] = u.LockedBalances[asset].Add(amount)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// UnlockCryptoBalance moves amount from locked back to available.
func (u *UserAccount) UnlockCryptoBalance(symbol string, amount decimal.Decimal) error {
	asset, ok := ParseAsset(symbol)
	if !ok {
		return apperror.ErrUnsupportedAsset(symbol)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperror.ErrInvalidAmount()
	}
	u.EnsureBalanceMaps()

	if u.LockedBalances[asset].LessThan(amount) {
		return apperror.ErrInsufficientFunds(string(asset))
	}
	u.LockedBalances[asset] = u.LockedBalances[asset].Sub(amount)
	u.Balances[asset] = u.Balances[asset].Add(amount)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Wallets returns the per-asset display projection in canonical asset order.
// The address field is a custody placeholder: users have no external chain
// addresses in this system.
func (u *UserAccount) Wallets() []WalletEntry {
	u.EnsureBalanceMaps()
	entries := make([]WalletEntry, 0, len(supportedAssets))
	for _, a := range supportedAssets {
		entries = append(entries, WalletEntry{
			Currency:      string(a),
			Address:       "custody:" + u.ID.String(),
			Balance:       u.Balances[a],
			LockedBalance: u.LockedBalances[a],
		})
	}
	return entries
}
