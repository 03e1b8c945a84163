package service

import (
	"context"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
)

// WalletServiceImpl exposes read-side wallet views. The per-asset wallet list
// is computed from the aggregate on every read, never stored.
type WalletServiceImpl struct {
	userRepo ports.UserRepository
}

// NewWalletService creates a WalletServiceImpl.
func NewWalletService(userRepo ports.UserRepository) *WalletServiceImpl {
	return &WalletServiceImpl{userRepo: userRepo}
}

// GetBalances returns the user aggregate with densified balance maps.
func (s *WalletServiceImpl) GetBalances(ctx context.Context, userID uuid.UUID) (*domain.UserAccount, error) {
	return s.userRepo.GetByID(ctx, userID)
}
