package ports

import (
	"context"

	"custodial-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for user accounts.
// Methods accepting pgx.Tx run inside transaction blocks; GetByIDForUpdate
// takes a row lock so concurrent settlements for the same user serialize at
// the storage layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.UserAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.UserAccount, error)
	// Save persists the aggregate's USD wallet and all per-asset balance
	// rows within the given transaction.
	Save(ctx context.Context, tx pgx.Tx, user *domain.UserAccount) error
	UpdateProfile(ctx context.Context, user *domain.UserAccount) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, page, pageSize int) ([]domain.UserAccount, int64, error)
}

// SwapTransactionRepository defines the append-only settlement log.
// Records are inserted inside the settlement's database transaction and are
// never updated or deleted.
type SwapTransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.SwapTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapTransaction, error)
	ListByUser(ctx context.Context, params SwapListParams) ([]domain.SwapTransaction, int64, error)
}

// SwapListParams holds filter + pagination for listing a user's settlements.
// Results are ordered by creation time descending.
type SwapListParams struct {
	UserID   uuid.UUID
	Type     *domain.SwapType
	Page     int
	PageSize int
}

// AdminRepository defines persistence operations for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	List(ctx context.Context) ([]domain.Admin, error)
}

// EbookRepository defines CRUD for user reading notes.
type EbookRepository interface {
	Create(ctx context.Context, e *domain.Ebook) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ebook, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Ebook, error)
	Update(ctx context.Context, e *domain.Ebook) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatementRepository defines CRUD for user statements. Upsert replaces an
// existing statement for the same (user, period).
type StatementRepository interface {
	Upsert(ctx context.Context, s *domain.Statement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Statement, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error)
	Update(ctx context.Context, s *domain.Statement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
