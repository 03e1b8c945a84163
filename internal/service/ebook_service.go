package service

import (
	"context"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
)

// EbookServiceImpl manages user reading notes. All accesses are scoped to the
// owning user; foreign records surface as not found.
type EbookServiceImpl struct {
	repo ports.EbookRepository
}

// NewEbookService creates an EbookServiceImpl.
func NewEbookService(repo ports.EbookRepository) *EbookServiceImpl {
	return &EbookServiceImpl{repo: repo}
}

func (s *EbookServiceImpl) Create(ctx context.Context, e *domain.Ebook) (*domain.Ebook, error) {
	if e.Title == "" {
		return nil, apperror.Validation("title is required")
	}
	now := time.Now().UTC()
	e.ID = uuid.New()
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EbookServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Ebook, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, apperror.ErrNotFound("ebook")
	}
	return e, nil
}

func (s *EbookServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.Ebook, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *EbookServiceImpl) Update(ctx context.Context, e *domain.Ebook) (*domain.Ebook, error) {
	existing, err := s.Get(ctx, e.UserID, e.ID)
	if err != nil {
		return nil, err
	}
	if e.Title != "" {
		existing.Title = e.Title
	}
	existing.Author = e.Author
	existing.Content = e.Content
	existing.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *EbookServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
