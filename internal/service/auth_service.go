package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Token role claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AuthServiceImpl implements ports.AuthService for both user and admin
// accounts.
type AuthServiceImpl struct {
	userRepo  ports.UserRepository
	adminRepo ports.AdminRepository
	hashSvc   ports.HashService
	tokenSvc  ports.TokenService
	log       zerolog.Logger
}

// NewAuthService creates an AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	adminRepo ports.AdminRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		hashSvc:   hashSvc,
		tokenSvc:  tokenSvc,
		log:       log.With().Str("component", "auth_service").Logger(),
	}
}

// RegisterUser creates a user account with a zero USD wallet and zero
// balances for every supported asset.
func (s *AuthServiceImpl) RegisterUser(ctx context.Context, user *domain.UserAccount, password string) (*domain.UserAccount, error) {
	email := normalizeEmail(user.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	hash, err := s.hashSvc.Hash(password)
	if err != nil {
		return nil, apperror.ErrPersistence(err)
	}

	account := domain.NewUserAccount(email, hash, user.FirstName, user.LastName)
	account.Phone = user.Phone
	if err := s.userRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", account.ID.String()).Msg("user registered")
	return account, nil
}

// LoginUser verifies credentials and issues an access token.
func (s *AuthServiceImpl) LoginUser(ctx context.Context, email, password string) (*domain.UserAccount, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, "", apperror.ErrInvalidCredentials()
		}
		return nil, "", err
	}

	ok, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", apperror.ErrInvalidCredentials()
	}
	if !user.IsActive {
		return nil, "", apperror.ErrAccountDisabled()
	}

	token, err := s.tokenSvc.Generate(user.ID, RoleUser)
	if err != nil {
		return nil, "", apperror.ErrPersistence(err)
	}
	return user, token, nil
}

// GetUserProfile returns a user account by id.
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, id uuid.UUID) (*domain.UserAccount, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetAdminProfile returns an admin account by id.
func (s *AuthServiceImpl) GetAdminProfile(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// ListAdmins returns every admin account.
func (s *AuthServiceImpl) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.adminRepo.List(ctx)
}

// RegisterAdmin creates an admin account.
func (s *AuthServiceImpl) RegisterAdmin(ctx context.Context, admin *domain.Admin, password string) (*domain.Admin, error) {
	email := normalizeEmail(admin.Email)

	existing, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	hash, err := s.hashSvc.Hash(password)
	if err != nil {
		return nil, apperror.ErrPersistence(err)
	}

	admin.ID = uuid.New()
	admin.Email = email
	admin.PasswordHash = hash
	admin.CreatedAt = time.Now().UTC()
	if admin.Role == "" {
		admin.Role = domain.AdminRoleSupport
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.log.Info().Str("admin_id", admin.ID.String()).Str("role", string(admin.Role)).Msg("admin registered")
	return admin, nil
}

// LoginAdmin verifies admin credentials and issues an access token carrying
// the admin role.
func (s *AuthServiceImpl) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, "", apperror.ErrInvalidCredentials()
		}
		return nil, "", err
	}

	ok, err := s.hashSvc.Verify(password, admin.PasswordHash)
	if err != nil || !ok {
		return nil, "", apperror.ErrInvalidCredentials()
	}

	token, err := s.tokenSvc.Generate(admin.ID, RoleAdmin)
	if err != nil {
		return nil, "", apperror.ErrPersistence(err)
	}
	return admin, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == apperror.CodeNotFound
}
