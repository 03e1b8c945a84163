package service

import (
	"context"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserServiceImpl implements ports.UserService.
type UserServiceImpl struct {
	userRepo ports.UserRepository
	log      zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo ports.UserRepository, log zerolog.Logger) *UserServiceImpl {
	return &UserServiceImpl{userRepo: userRepo, log: log}
}

// UpdateProfile applies the non-empty fields to the user's profile.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, phone string) (*domain.UserAccount, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	if phone != "" {
		user.Phone = phone
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id.String()).Msg("profile updated")
	return user, nil
}

// ListUsers returns a page of user accounts for the admin surface.
func (s *UserServiceImpl) ListUsers(ctx context.Context, page, pageSize int) ([]domain.UserAccount, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.userRepo.List(ctx, page, pageSize)
}

// SetUserStatus enables or disables a user account. A disabled account can
// still be read but all settlement operations against it are refused.
func (s *UserServiceImpl) SetUserStatus(ctx context.Context, id uuid.UUID, active bool) (*domain.UserAccount, error) {
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id.String()).Bool("active", active).Msg("user status changed")
	return s.userRepo.GetByID(ctx, id)
}
