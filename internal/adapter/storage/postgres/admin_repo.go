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
)

// AdminRepo implements ports.AdminRepository.
type AdminRepo struct {
	pool Pool
}

// NewAdminRepo creates a new AdminRepo.
func NewAdminRepo(pool Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

// Create inserts a new admin account.
func (r *AdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	query := `INSERT INTO admins (id, email, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.Name, admin.Role, admin.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.ErrEmailExists()
		}
		return apperror.ErrPersistence(fmt.Errorf("insert admin: %w", err))
	}
	return nil
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByEmail fetches an admin by email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *AdminRepo) get(ctx context.Context, where string, arg any) (*domain.Admin, error) {
	query := `SELECT id, email, password_hash, name, role, created_at FROM admins ` + where

	admin := &domain.Admin{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Name, &admin.Role, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("admin")
		}
		return nil, apperror.ErrPersistence(fmt.Errorf("get admin: %w", err))
	}
	return admin, nil
}

// List returns all admin accounts.
func (r *AdminRepo) List(ctx context.Context) ([]domain.Admin, error) {
	query := `SELECT id, email, password_hash, name, role, created_at FROM admins ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list admins: %w", err))
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt); err != nil {
			return nil, apperror.ErrPersistence(fmt.Errorf("scan admin: %w", err))
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("iterate admins: %w", err))
	}
	return admins, nil
}
