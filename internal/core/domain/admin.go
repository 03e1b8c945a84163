package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminRole scopes what an administrator may do.
type AdminRole string

const (
	AdminRoleSuper   AdminRole = "super"
	AdminRoleSupport AdminRole = "support"
)

// Admin is a back-office operator account.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
