package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EbookRepo implements ports.EbookRepository.
type EbookRepo struct {
	pool Pool
}

// NewEbookRepo creates a new EbookRepo.
func NewEbookRepo(pool Pool) *EbookRepo {
	return &EbookRepo{pool: pool}
}

func (r *EbookRepo) Create(ctx context.Context, e *domain.Ebook) error {
	query := `INSERT INTO ebooks (id, user_id, title, author, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query, e.ID, e.UserID, e.Title, e.Author, e.Content, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("insert ebook: %w", err))
	}
	return nil
}

func (r *EbookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ebook, error) {
	query := `SELECT id, user_id, title, author, content, created_at, updated_at FROM ebooks WHERE id = $1`

	e := &domain.Ebook{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Title, &e.Author, &e.Content, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("ebook")
		}
		return nil, apperror.ErrPersistence(fmt.Errorf("get ebook: %w", err))
	}
	return e, nil
}

func (r *EbookRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Ebook, error) {
	query := `SELECT id, user_id, title, author, content, created_at, updated_at
		FROM ebooks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list ebooks: %w", err))
	}
	defer rows.Close()

	var ebooks []domain.Ebook
	for rows.Next() {
		var e domain.Ebook
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Author, &e.Content, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, apperror.ErrPersistence(fmt.Errorf("scan ebook: %w", err))
		}
		ebooks = append(ebooks, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("iterate ebooks: %w", err))
	}
	return ebooks, nil
}

func (r *EbookRepo) Update(ctx context.Context, e *domain.Ebook) error {
	query := `UPDATE ebooks SET title = $2, author = $3, content = $4, updated_at = $5 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, e.ID, e.Title, e.Author, e.Content, e.UpdatedAt)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("update ebook: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("ebook")
	}
	return nil
}

func (r *EbookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ebooks WHERE id = $1`, id)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("delete ebook: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("ebook")
	}
	return nil
}
