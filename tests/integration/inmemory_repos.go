package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Transactor ---
//
// memTx stands in for a database transaction. Row locks taken through
// GetByIDForUpdate register their release here and are dropped exactly once,
// on Commit or Rollback, mirroring how the real transactor scopes locks.

type memTx struct {
	noopTx
	mu       sync.Mutex
	done     bool
	releases []func()
}

func (t *memTx) onRelease(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.releases = append(t.releases, f)
}

func (t *memTx) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	for _, f := range t.releases {
		f()
	}
	t.releases = nil
}

func (t *memTx) Commit(ctx context.Context) error   { t.release(); return nil }
func (t *memTx) Rollback(ctx context.Context) error { t.release(); return nil }

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor { return &inMemoryTransactor{} }

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.UserAccount
	locks map[uuid.UUID]*sync.Mutex
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{
		users: make(map[uuid.UUID]*domain.UserAccount),
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func cloneUser(u *domain.UserAccount) *domain.UserAccount {
	cp := *u
	cp.Balances = make(map[domain.Asset]decimal.Decimal, len(u.Balances))
	for k, v := range u.Balances {
		cp.Balances[k] = v
	}
	cp.LockedBalances = make(map[domain.Asset]decimal.Decimal, len(u.LockedBalances))
	for k, v := range u.LockedBalances {
		cp.LockedBalances[k] = v
	}
	return &cp
}

func (r *inMemoryUserRepo) rowLock(id uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

func (r *inMemoryUserRepo) Create(ctx context.Context, user *domain.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperror.ErrEmailExists()
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.ErrNotFound("user")
	}
	return cloneUser(u), nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, apperror.ErrNotFound("user")
}

// GetByIDForUpdate takes the user's row lock and holds it until the
// transaction commits or rolls back, matching SELECT ... FOR UPDATE.
func (r *inMemoryUserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.UserAccount, error) {
	lock := r.rowLock(id)
	lock.Lock()
	if mtx, ok := tx.(*memTx); ok {
		mtx.onRelease(lock.Unlock)
	} else {
		lock.Unlock()
	}
	return r.GetByID(ctx, id)
}

func (r *inMemoryUserRepo) Save(ctx context.Context, tx pgx.Tx, user *domain.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperror.ErrNotFound("user")
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *inMemoryUserRepo) UpdateProfile(ctx context.Context, user *domain.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return apperror.ErrNotFound("user")
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Phone = user.Phone
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *inMemoryUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperror.ErrNotFound("user")
	}
	u.IsActive = active
	return nil
}

func (r *inMemoryUserRepo) List(ctx context.Context, page, pageSize int) ([]domain.UserAccount, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.UserAccount, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	total := int64(len(all))

	start := (page - 1) * pageSize
	if start >= len(all) {
		return []domain.UserAccount{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// --- In-Memory Swap Transaction Repo ---

type inMemorySwapTxRepo struct {
	mu  sync.RWMutex
	txs map[uuid.UUID]*domain.SwapTransaction
}

func newInMemorySwapTxRepo() *inMemorySwapTxRepo {
	return &inMemorySwapTxRepo{txs: make(map[uuid.UUID]*domain.SwapTransaction)}
}

func (r *inMemorySwapTxRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.SwapTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.txs[t.ID] = &cp
	return nil
}

func (r *inMemorySwapTxRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.txs[id]
	if !ok {
		return nil, apperror.ErrNotFound("transaction")
	}
	cp := *t
	return &cp, nil
}

func (r *inMemorySwapTxRepo) ListByUser(ctx context.Context, params ports.SwapListParams) ([]domain.SwapTransaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.SwapTransaction
	for _, t := range r.txs {
		if t.UserID != params.UserID {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.SwapTransaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Admin Repo ---

type inMemoryAdminRepo struct {
	mu     sync.RWMutex
	admins map[uuid.UUID]*domain.Admin
}

func newInMemoryAdminRepo() *inMemoryAdminRepo {
	return &inMemoryAdminRepo{admins: make(map[uuid.UUID]*domain.Admin)}
}

func (r *inMemoryAdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.Email == admin.Email {
			return apperror.ErrEmailExists()
		}
	}
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *inMemoryAdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, apperror.ErrNotFound("admin")
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperror.ErrNotFound("admin")
}

func (r *inMemoryAdminRepo) List(ctx context.Context) ([]domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		out = append(out, *a)
	}
	return out, nil
}

// --- In-Memory Ebook Repo ---

type inMemoryEbookRepo struct {
	mu     sync.RWMutex
	ebooks map[uuid.UUID]*domain.Ebook
}

func newInMemoryEbookRepo() *inMemoryEbookRepo {
	return &inMemoryEbookRepo{ebooks: make(map[uuid.UUID]*domain.Ebook)}
}

func (r *inMemoryEbookRepo) Create(ctx context.Context, e *domain.Ebook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.ebooks[e.ID] = &cp
	return nil
}

func (r *inMemoryEbookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ebook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.ebooks[id]
	if !ok {
		return nil, apperror.ErrNotFound("ebook")
	}
	cp := *e
	return &cp, nil
}

func (r *inMemoryEbookRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Ebook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Ebook
	for _, e := range r.ebooks {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryEbookRepo) Update(ctx context.Context, e *domain.Ebook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ebooks[e.ID]; !ok {
		return apperror.ErrNotFound("ebook")
	}
	cp := *e
	r.ebooks[e.ID] = &cp
	return nil
}

func (r *inMemoryEbookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ebooks[id]; !ok {
		return apperror.ErrNotFound("ebook")
	}
	delete(r.ebooks, id)
	return nil
}

// --- In-Memory Statement Repo ---

type inMemoryStatementRepo struct {
	mu    sync.RWMutex
	stmts map[uuid.UUID]*domain.Statement
}

func newInMemoryStatementRepo() *inMemoryStatementRepo {
	return &inMemoryStatementRepo{stmts: make(map[uuid.UUID]*domain.Statement)}
}

func (r *inMemoryStatementRepo) Upsert(ctx context.Context, s *domain.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.stmts {
		if existing.UserID == s.UserID && existing.Period == s.Period {
			s.ID = existing.ID
			s.CreatedAt = existing.CreatedAt
			s.UpdatedAt = time.Now().UTC()
			cp := *s
			r.stmts[existing.ID] = &cp
			return nil
		}
	}
	cp := *s
	r.stmts[s.ID] = &cp
	return nil
}

func (r *inMemoryStatementRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stmts[id]
	if !ok {
		return nil, apperror.ErrNotFound("statement")
	}
	cp := *s
	return &cp, nil
}

func (r *inMemoryStatementRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Statement
	for _, s := range r.stmts {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

func (r *inMemoryStatementRepo) Update(ctx context.Context, s *domain.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stmts[s.ID]; !ok {
		return apperror.ErrNotFound("statement")
	}
	cp := *s
	r.stmts[s.ID] = &cp
	return nil
}

func (r *inMemoryStatementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stmts[id]; !ok {
		return apperror.ErrNotFound("statement")
	}
	delete(r.stmts, id)
	return nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo { return &inMemoryAuditRepo{} }

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// --- Fixed Rate Source ---

type fixedRateSource struct {
	prices map[string]decimal.Decimal
}

func (s *fixedRateSource) FetchUSDPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(symbols))
	for _, sym := range symbols {
		if p, ok := s.prices[sym]; ok {
			out[sym] = p
		}
	}
	return out, nil
}
