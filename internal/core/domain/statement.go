package domain

import (
	"time"

	"github.com/google/uuid"
)

// Statement is a user-authored periodic summary note. One statement per
// period per user; repeated submission for the same period replaces it.
type Statement struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Period    string                 `json:"period"` // e.g. "2026-08"
	Summary   string                 `json:"summary"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}
