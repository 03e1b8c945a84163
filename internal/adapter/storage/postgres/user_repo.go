package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

// UserRepo implements ports.UserRepository. The aggregate spans two tables:
// the users row carries the profile and USD wallet, user_balances carries one
// row per (user, asset). Balance maps are densified on load so callers always
// see every supported asset.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, is_active,
		usd_balance, usd_locked, usd_updated_at, created_at, updated_at`

// Create inserts a new user row. Balance rows are created lazily by Save.
func (r *UserRepo) Create(ctx context.Context, user *domain.UserAccount) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Phone, user.IsActive,
		user.USDWallet.Balance, user.USDWallet.LockedBalance, user.USDWallet.LastUpdated,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.ErrEmailExists()
		}
		return apperror.ErrPersistence(fmt.Errorf("insert user: %w", err))
	}
	return nil
}

// GetByID fetches a user aggregate without locking.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserAccount, error) {
	return r.load(ctx, r.pool, `WHERE id = $1`, false, id)
}

// GetByEmail fetches a user aggregate by email without locking.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	return r.load(ctx, r.pool, `WHERE email = $1`, false, email)
}

// GetByIDForUpdate fetches a user aggregate inside tx, locking the users row
// and all of the user's balance rows until the transaction ends.
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.UserAccount, error) {
	return r.load(ctx, tx, `WHERE id = $1`, true, id)
}

func (r *UserRepo) load(ctx context.Context, q Querier, where string, forUpdate bool, arg any) (*domain.UserAccount, error) {
	query := `SELECT ` + userColumns + ` FROM users ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}

	user := &domain.UserAccount{}
	err := q.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Phone, &user.IsActive,
		&user.USDWallet.Balance, &user.USDWallet.LockedBalance, &user.USDWallet.LastUpdated,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("user")
		}
		return nil, apperror.ErrPersistence(fmt.Errorf("get user: %w", err))
	}

	if err := r.loadBalances(ctx, q, user, forUpdate); err != nil {
		return nil, err
	}
	user.EnsureBalanceMaps()
	return user, nil
}

func (r *UserRepo) loadBalances(ctx context.Context, q Querier, user *domain.UserAccount, forUpdate bool) error {
	query := `SELECT symbol, balance, locked_balance FROM user_balances WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, user.ID)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("load balances: %w", err))
	}
	defer rows.Close()

	user.Balances = make(map[domain.Asset]decimal.Decimal, len(domain.SupportedAssets()))
	user.LockedBalances = make(map[domain.Asset]decimal.Decimal, len(domain.SupportedAssets()))
	for rows.Next() {
		var symbol string
		var balance, locked decimal.Decimal
		if err := rows.Scan(&symbol, &balance, &locked); err != nil {
			return apperror.ErrPersistence(fmt.Errorf("scan balance: %w", err))
		}
		asset, ok := domain.ParseAsset(symbol)
		if !ok {
			// delisted asset rows are ignored rather than surfaced
			continue
		}
		user.Balances[asset] = balance
		user.LockedBalances[asset] = locked
	}
	if err := rows.Err(); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("iterate balances: %w", err))
	}
	return nil
}

// Save persists the USD wallet and every per-asset balance row inside tx.
// Balance rows are upserted so accounts created before an asset was listed
// gain rows on first settlement.
func (r *UserRepo) Save(ctx context.Context, tx pgx.Tx, user *domain.UserAccount) error {
	query := `UPDATE users SET
		usd_balance = $2, usd_locked = $3, usd_updated_at = $4, updated_at = $5
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		user.ID,
		user.USDWallet.Balance, user.USDWallet.LockedBalance, user.USDWallet.LastUpdated,
		user.UpdatedAt,
	)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("update user wallet: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("user")
	}

	upsert := `INSERT INTO user_balances (user_id, symbol, balance, locked_balance, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, symbol) DO UPDATE
		SET balance = EXCLUDED.balance, locked_balance = EXCLUDED.locked_balance, updated_at = EXCLUDED.updated_at`

	for _, asset := range domain.SupportedAssets() {
		_, err := tx.Exec(ctx, upsert,
			user.ID, string(asset), user.Balances[asset], user.LockedBalances[asset], user.UpdatedAt,
		)
		if err != nil {
			return apperror.ErrPersistence(fmt.Errorf("upsert balance %s: %w", asset, err))
		}
	}
	return nil
}

// UpdateProfile updates mutable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, user *domain.UserAccount) error {
	query := `UPDATE users SET first_name = $2, last_name = $3, phone = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Phone, user.UpdatedAt,
	)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("update profile: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("user")
	}
	return nil
}

// SetActive enables or disables an account.
func (r *UserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("set active: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("user")
	}
	return nil
}

// List returns a page of user profiles ordered by creation time. Balance
// maps are not loaded for listings.
func (r *UserRepo) List(ctx context.Context, page, pageSize int) ([]domain.UserAccount, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, apperror.ErrPersistence(fmt.Errorf("count users: %w", err))
	}

	query := `SELECT ` + userColumns + ` FROM users
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperror.ErrPersistence(fmt.Errorf("list users: %w", err))
	}
	defer rows.Close()

	var users []domain.UserAccount
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Phone, &u.IsActive,
			&u.USDWallet.Balance, &u.USDWallet.LockedBalance, &u.USDWallet.LastUpdated,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, apperror.ErrPersistence(fmt.Errorf("scan user: %w", err))
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.ErrPersistence(fmt.Errorf("iterate users: %w", err))
	}
	return users, total, nil
}
