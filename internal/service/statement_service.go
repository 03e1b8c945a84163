package service

import (
	"context"
	"regexp"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
)

// periodPattern matches statement periods like "2026-08".
var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// StatementServiceImpl manages user statements. A user holds at most one
// statement per period; saving again for the same period replaces it.
type StatementServiceImpl struct {
	repo ports.StatementRepository
}

// NewStatementService creates a StatementServiceImpl.
func NewStatementService(repo ports.StatementRepository) *StatementServiceImpl {
	return &StatementServiceImpl{repo: repo}
}

func (s *StatementServiceImpl) Save(ctx context.Context, st *domain.Statement) (*domain.Statement, error) {
	if !periodPattern.MatchString(st.Period) {
		return nil, apperror.Validation("period must be formatted YYYY-MM")
	}
	now := time.Now().UTC()
	st.ID = uuid.New()
	st.CreatedAt = now
	st.UpdatedAt = now
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StatementServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Statement, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.UserID != userID {
		return nil, apperror.ErrNotFound("statement")
	}
	return st, nil
}

func (s *StatementServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *StatementServiceImpl) Update(ctx context.Context, st *domain.Statement) (*domain.Statement, error) {
	existing, err := s.Get(ctx, st.UserID, st.ID)
	if err != nil {
		return nil, err
	}
	if st.Period != "" {
		if !periodPattern.MatchString(st.Period) {
			return nil, apperror.Validation("period must be formatted YYYY-MM")
		}
		existing.Period = st.Period
	}
	existing.Summary = st.Summary
	existing.Details = st.Details
	existing.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *StatementServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
