package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SwapTransactionRepo implements ports.SwapTransactionRepository. The table
// is append-only; there is no update or delete path.
type SwapTransactionRepo struct {
	pool Pool
}

// NewSwapTransactionRepo creates a new SwapTransactionRepo.
func NewSwapTransactionRepo(pool Pool) *SwapTransactionRepo {
	return &SwapTransactionRepo{pool: pool}
}

const swapColumns = `id, user_id, type, from_symbol, to_symbol, from_amount, to_amount,
		rate, usd_rate_from, usd_rate_to, status, metadata, created_at, updated_at`

// Create appends a settlement record inside tx.
func (r *SwapTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.SwapTransaction) error {
	query := `INSERT INTO swap_transactions (` + swapColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var metadata []byte
	if t.Metadata != nil {
		var err error
		metadata, err = json.Marshal(t.Metadata)
		if err != nil {
			return apperror.ErrPersistence(fmt.Errorf("marshal metadata: %w", err))
		}
	}

	_, err := tx.Exec(ctx, query,
		t.ID, t.UserID, t.Type, t.FromSymbol, t.ToSymbol, t.FromAmount, t.ToAmount,
		t.Rate, t.USDRateFrom, t.USDRateTo, t.Status, metadata, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("insert swap transaction: %w", err))
	}
	return nil
}

// GetByID fetches a single settlement record.
func (r *SwapTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapTransaction, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_transactions WHERE id = $1`

	t, err := scanSwap(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("transaction")
		}
		return nil, apperror.ErrPersistence(fmt.Errorf("get swap transaction: %w", err))
	}
	return t, nil
}

// ListByUser returns a page of a user's settlement records, newest first.
func (r *SwapTransactionRepo) ListByUser(ctx context.Context, params ports.SwapListParams) ([]domain.SwapTransaction, int64, error) {
	where := `WHERE user_id = $1`
	args := []any{params.UserID}
	if params.Type != nil {
		where += ` AND type = $2`
		args = append(args, *params.Type)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM swap_transactions `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.ErrPersistence(fmt.Errorf("count swap transactions: %w", err))
	}

	limitPos := len(args) + 1
	query := `SELECT ` + swapColumns + ` FROM swap_transactions ` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.ErrPersistence(fmt.Errorf("list swap transactions: %w", err))
	}
	defer rows.Close()

	var result []domain.SwapTransaction
	for rows.Next() {
		t, err := scanSwap(rows)
		if err != nil {
			return nil, 0, apperror.ErrPersistence(fmt.Errorf("scan swap transaction: %w", err))
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.ErrPersistence(fmt.Errorf("iterate swap transactions: %w", err))
	}
	return result, total, nil
}

func scanSwap(row pgx.Row) (*domain.SwapTransaction, error) {
	t := &domain.SwapTransaction{}
	var rateFrom, rateTo decimal.NullDecimal
	var metadata []byte

	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.FromSymbol, &t.ToSymbol, &t.FromAmount, &t.ToAmount,
		&t.Rate, &rateFrom, &rateTo, &t.Status, &metadata, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rateFrom.Valid {
		t.USDRateFrom = &rateFrom.Decimal
	}
	if rateTo.Valid {
		t.USDRateTo = &rateTo.Decimal
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return t, nil
}
