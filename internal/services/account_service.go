package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// AccountService manages admin accounts and company users
type AccountService struct {
	accountRepo     repository.AccountRepository
	accountUserRepo repository.AccountUserRepository
	audit           *AuditService
	cfg             *config.Config
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo repository.AccountRepository, accountUserRepo repository.AccountUserRepository,
	audit *AuditService, cfg *config.Config) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		accountUserRepo: accountUserRepo,
		audit:           audit,
		cfg:             cfg,
	}
}

// AccountInput is the payload to create an admin account
type AccountInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// AccountUserInput is the payload to create or update a company user.
// Password is optional on update.
type AccountUserInput struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	FullName    string   `json:"full_name"`
	Tenant      string   `json:"tenant"`
	AccessPages []string `json:"access_pages"`
	Status      string   `json:"status"`
}

// CreateAccount creates an admin account
func (s *AccountService) CreateAccount(ctx context.Context, input AccountInput, actor Actor) (*models.Account, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, invalid("username", "wajib diisi")
	}
	if len(input.Password) < minPasswordLength {
		return nil, invalid("password", "minimal 8 karakter")
	}
	role := input.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return nil, invalid("role", "role tidak dikenal")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:          username,
		Email:             strings.TrimSpace(input.Email),
		FullName:          strings.TrimSpace(input.FullName),
		Role:              role,
		EncryptedPassword: hash,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	s.audit.Log(ctx, actor, AuditCreate, "Account", account.ID, map[string]string{"username": account.Username})
	return account, nil
}

// ListAccounts lists admin accounts
func (s *AccountService) ListAccounts(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error) {
	return s.accountRepo.List(ctx, query)
}

// CreateAccountUser creates a company user bound to one tenant
func (s *AccountService) CreateAccountUser(ctx context.Context, input AccountUserInput, actor Actor) (*models.AccountUser, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, invalid("username", "wajib diisi")
	}
	if len(input.Password) < minPasswordLength {
		return nil, invalid("password", "minimal 8 karakter")
	}
	if !s.cfg.HasTenant(input.Tenant) {
		return nil, ErrInvalidTenant
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.AccountUser{
		Username:          username,
		FullName:          strings.TrimSpace(input.FullName),
		Tenant:            input.Tenant,
		AccessPages:       cleanPages(input.AccessPages),
		EncryptedPassword: hash,
	}
	if err := s.accountUserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	s.audit.Log(ctx, actor, AuditCreate, "AccountUser", user.ID, map[string]any{
		"username": user.Username, "tenant": user.Tenant, "access_pages": user.AccessPages,
	})
	return user, nil
}

// GetAccountUser returns one company user
func (s *AccountService) GetAccountUser(ctx context.Context, id uint) (*models.AccountUser, error) {
	user, err := s.accountUserRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateAccountUser updates name, tenant, access pages, status or password
func (s *AccountService) UpdateAccountUser(ctx context.Context, id uint, input AccountUserInput, actor Actor) (*models.AccountUser, error) {
	user, err := s.GetAccountUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = strings.TrimSpace(input.FullName)
	}
	if input.Tenant != "" {
		if !s.cfg.HasTenant(input.Tenant) {
			return nil, ErrInvalidTenant
		}
		user.Tenant = input.Tenant
	}
	if input.AccessPages != nil {
		user.AccessPages = cleanPages(input.AccessPages)
	}
	switch input.Status {
	case "":
	case models.StatusActive, models.StatusInactive:
		user.Status = input.Status
	default:
		return nil, invalid("status", "status tidak dikenal")
	}
	if input.Password != "" {
		if len(input.Password) < minPasswordLength {
			return nil, invalid("password", "minimal 8 karakter")
		}
		hash, err := HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.EncryptedPassword = hash
	}

	if err := s.accountUserRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, actor, AuditUpdate, "AccountUser", user.ID, map[string]any{
		"tenant": user.Tenant, "access_pages": user.AccessPages, "status": user.Status,
	})
	return user, nil
}

// DeleteAccountUser removes a company user
func (s *AccountService) DeleteAccountUser(ctx context.Context, id uint, actor Actor) error {
	if _, err := s.GetAccountUser(ctx, id); err != nil {
		return err
	}
	if err := s.accountUserRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Log(ctx, actor, AuditDelete, "AccountUser", id, nil)
	return nil
}

// ListAccountUsers lists company users
func (s *AccountService) ListAccountUsers(ctx context.Context, query *repository.ListQuery) ([]models.AccountUser, int64, error) {
	return s.accountUserRepo.List(ctx, query)
}

// cleanPages trims, drops blanks and duplicates, and ensures a leading slash
func cleanPages(pages []string) []string {
	out := make([]string, 0, len(pages))
	seen := make(map[string]bool, len(pages))
	for _, p := range pages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
