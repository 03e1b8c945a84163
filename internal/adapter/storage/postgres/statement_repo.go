package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StatementRepo implements ports.StatementRepository. A partial unique index
// on (user_id, period) backs the replace-on-conflict behavior.
type StatementRepo struct {
	pool Pool
}

// NewStatementRepo creates a new StatementRepo.
func NewStatementRepo(pool Pool) *StatementRepo {
	return &StatementRepo{pool: pool}
}

// Upsert inserts a statement, replacing any existing one for the same user
// and period.
func (r *StatementRepo) Upsert(ctx context.Context, s *domain.Statement) error {
	details, err := marshalDetails(s.Details)
	if err != nil {
		return err
	}

	query := `INSERT INTO statements (id, user_id, period, summary, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, period) DO UPDATE
		SET summary = EXCLUDED.summary, details = EXCLUDED.details, updated_at = EXCLUDED.updated_at`

	if _, err := r.pool.Exec(ctx, query, s.ID, s.UserID, s.Period, s.Summary, details, s.CreatedAt, s.UpdatedAt); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("upsert statement: %w", err))
	}
	return nil
}

func (r *StatementRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Statement, error) {
	query := `SELECT id, user_id, period, summary, details, created_at, updated_at FROM statements WHERE id = $1`

	s, err := scanStatement(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("statement")
		}
		return nil, apperror.ErrPersistence(fmt.Errorf("get statement: %w", err))
	}
	return s, nil
}

func (r *StatementRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error) {
	query := `SELECT id, user_id, period, summary, details, created_at, updated_at
		FROM statements WHERE user_id = $1 ORDER BY period DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("list statements: %w", err))
	}
	defer rows.Close()

	var statements []domain.Statement
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			return nil, apperror.ErrPersistence(fmt.Errorf("scan statement: %w", err))
		}
		statements = append(statements, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("iterate statements: %w", err))
	}
	return statements, nil
}

func (r *StatementRepo) Update(ctx context.Context, s *domain.Statement) error {
	details, err := marshalDetails(s.Details)
	if err != nil {
		return err
	}

	query := `UPDATE statements SET summary = $2, details = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, s.ID, s.Summary, details, s.UpdatedAt)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("update statement: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("statement")
	}
	return nil
}

func (r *StatementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM statements WHERE id = $1`, id)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("delete statement: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("statement")
	}
	return nil
}

func marshalDetails(details map[string]interface{}) ([]byte, error) {
	if details == nil {
		return nil, nil
	}
	b, err := json.Marshal(details)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("marshal details: %w", err))
	}
	return b, nil
}

func scanStatement(row pgx.Row) (*domain.Statement, error) {
	s := &domain.Statement{}
	var details []byte
	if err := row.Scan(&s.ID, &s.UserID, &s.Period, &s.Summary, &details, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &s.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}
	return s, nil
}
