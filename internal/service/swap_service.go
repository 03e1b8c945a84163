package service

import (
	"context"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SwapService executes balance settlements. Every operation follows the same
// shape: price the conversion, then inside one database transaction load the
// user row with a lock, mutate the in-memory aggregate, persist it and append
// the settlement record. The row lock serializes concurrent settlements for
// the same user, so no interleaving can overdraw a balance.
//
// Rates are resolved before the transaction begins to keep the lock window
// short.
type SwapService struct {
	userRepo   ports.UserRepository
	txRepo     ports.SwapTransactionRepository
	rates      ports.RateProvider
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewSwapService creates a SwapService.
func NewSwapService(
	userRepo ports.UserRepository,
	txRepo ports.SwapTransactionRepository,
	rates ports.RateProvider,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *SwapService {
	return &SwapService{
		userRepo:   userRepo,
		txRepo:     txRepo,
		rates:      rates,
		transactor: transactor,
		log:        log.With().Str("component", "swap_service").Logger(),
	}
}

// DepositUSD credits the user's USD wallet. The deposit is recorded in the
// settlement log like any other operation.
func (s *SwapService) DepositUSD(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*ports.SwapResult, error) {
	usd := domain.RoundUSD(amount)
	if !usd.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	record := &domain.SwapTransaction{
		Type:       domain.SwapTypeUSDDeposit,
		FromSymbol: domain.SymbolUSD,
		ToSymbol:   domain.SymbolUSD,
		FromAmount: usd,
		ToAmount:   usd,
		Rate:       decimal.NewFromInt(1),
	}
	return s.settle(ctx, userID, record, func(u *domain.UserAccount) error {
		return u.CreditUSD(usd)
	})
}

// USDToCrypto converts USD into an asset at the current rate.
func (s *SwapService) USDToCrypto(ctx context.Context, userID uuid.UUID, toSymbol string, usdAmount decimal.Decimal) (*ports.SwapResult, error) {
	asset, ok := domain.ParseAsset(toSymbol)
	if !ok {
		return nil, apperror.ErrUnsupportedAsset(toSymbol)
	}
	usd := domain.RoundUSD(usdAmount)
	if !usd.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	rate, err := s.rates.GetUSDRate(ctx, string(asset))
	if err != nil {
		return nil, err
	}
	cryptoAmount := domain.RoundCrypto(usd.Div(rate))
	if !cryptoAmount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	one := decimal.NewFromInt(1)
	record := &domain.SwapTransaction{
		Type:        domain.SwapTypeUSDToCrypto,
		FromSymbol:  domain.SymbolUSD,
		ToSymbol:    string(asset),
		FromAmount:  usd,
		ToAmount:    cryptoAmount,
		Rate:        cryptoAmount.Div(usd),
		USDRateFrom: &one,
		USDRateTo:   &rate,
	}
	return s.settle(ctx, userID, record, func(u *domain.UserAccount) error {
		// debit before credit so a failure leaves nothing half-applied
		if err := u.DebitUSD(usd); err != nil {
			return err
		}
		return u.AdjustCryptoBalance(string(asset), cryptoAmount)
	})
}

// CryptoToUSD converts an asset back into USD at the current rate.
func (s *SwapService) CryptoToUSD(ctx context.Context, userID uuid.UUID, fromSymbol string, cryptoAmount decimal.Decimal) (*ports.SwapResult, error) {
	asset, ok := domain.ParseAsset(fromSymbol)
	if !ok {
		return nil, apperror.ErrUnsupportedAsset(fromSymbol)
	}
	qty := domain.RoundCrypto(cryptoAmount)
	if !qty.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	rate, err := s.rates.GetUSDRate(ctx, string(asset))
	if err != nil {
		return nil, err
	}
	usd := domain.RoundUSD(qty.Mul(rate))
	if !usd.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	one := decimal.NewFromInt(1)
	record := &domain.SwapTransaction{
		Type:        domain.SwapTypeCryptoToUSD,
		FromSymbol:  string(asset),
		ToSymbol:    domain.SymbolUSD,
		FromAmount:  qty,
		ToAmount:    usd,
		Rate:        usd.Div(qty),
		USDRateFrom: &rate,
		USDRateTo:   &one,
	}
	return s.settle(ctx, userID, record, func(u *domain.UserAccount) error {
		if err := u.AdjustCryptoBalance(string(asset), qty.Neg()); err != nil {
			return err
		}
		return u.CreditUSD(usd)
	})
}

// CryptoToCrypto converts one asset into another, pricing both legs in USD.
func (s *SwapService) CryptoToCrypto(ctx context.Context, userID uuid.UUID, fromSymbol, toSymbol string, fromAmount decimal.Decimal) (*ports.SwapResult, error) {
	from, ok := domain.ParseAsset(fromSymbol)
	if !ok {
		return nil, apperror.ErrUnsupportedAsset(fromSymbol)
	}
	to, ok := domain.ParseAsset(toSymbol)
	if !ok {
		return nil, apperror.ErrUnsupportedAsset(toSymbol)
	}
	if from == to {
		return nil, apperror.ErrInvalidRequest("cannot swap an asset into itself")
	}
	qty := domain.RoundCrypto(fromAmount)
	if !qty.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	rates, err := s.rates.GetUSDRates(ctx, []string{string(from), string(to)})
	if err != nil {
		return nil, err
	}
	rateFrom, rateTo := rates[string(from)], rates[string(to)]

	usdValue := qty.Mul(rateFrom)
	toAmount := domain.RoundCrypto(usdValue.Div(rateTo))
	if !toAmount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	record := &domain.SwapTransaction{
		Type:        domain.SwapTypeCryptoToCrypto,
		FromSymbol:  string(from),
		ToSymbol:    string(to),
		FromAmount:  qty,
		ToAmount:    toAmount,
		Rate:        toAmount.Div(qty),
		USDRateFrom: &rateFrom,
		USDRateTo:   &rateTo,
		Metadata: map[string]interface{}{
			"usd_value": domain.RoundUSD(usdValue).String(),
		},
	}
	return s.settle(ctx, userID, record, func(u *domain.UserAccount) error {
		if err := u.AdjustCryptoBalance(string(from), qty.Neg()); err != nil {
			return err
		}
		return u.AdjustCryptoBalance(string(to), toAmount)
	})
}

// settle runs one atomic settlement: lock the user row, apply mutate to the
// aggregate, persist it and append the record. On any error the transaction
// rolls back and no state changes.
func (s *SwapService) settle(
	ctx context.Context,
	userID uuid.UUID,
	record *domain.SwapTransaction,
	mutate func(u *domain.UserAccount) error,
) (*ports.SwapResult, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	user, err := s.userRepo.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.ErrAccountDisabled()
	}

	if err := mutate(user); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.UpdatedAt = now
	user.USDWallet.LastUpdated = now
	if err := s.userRepo.Save(ctx, tx, user); err != nil {
		return nil, err
	}

	record.ID = uuid.New()
	record.UserID = userID
	record.Status = domain.SwapStatusCompleted
	record.CreatedAt = now
	record.UpdatedAt = now
	if err := s.txRepo.Create(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.ErrPersistence(err)
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("type", string(record.Type)).
		Str("from", record.FromSymbol).
		Str("to", record.ToSymbol).
		Str("from_amount", record.FromAmount.String()).
		Str("to_amount", record.ToAmount.String()).
		Msg("settlement completed")

	return &ports.SwapResult{
		User:        user,
		Transaction: record,
		Quote:       record.QuoteOf(),
	}, nil
}

// GetTransaction returns one of the user's settlement records. Records owned
// by other users are reported as not found.
func (s *SwapService) GetTransaction(ctx context.Context, userID, txID uuid.UUID) (*domain.SwapTransaction, error) {
	record, err := s.txRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, apperror.ErrNotFound("transaction")
	}
	return record, nil
}

// ListTransactions returns a page of the user's settlement history, newest
// first.
func (s *SwapService) ListTransactions(ctx context.Context, params ports.SwapListParams) ([]domain.SwapTransaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.txRepo.ListByUser(ctx, params)
}
