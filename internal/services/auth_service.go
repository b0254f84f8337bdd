package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/guard"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// AuthService issues and checks tokens for the admin and company-user realms
type AuthService struct {
	accountRepo      repository.AccountRepository
	accountUserRepo  repository.AccountUserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	audit            *AuditService
	cfg              *config.Config
	now              func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(accountRepo repository.AccountRepository, accountUserRepo repository.AccountUserRepository,
	rtRepo repository.RefreshTokenRepository, audit *AuditService, cfg *config.Config) *AuthService {
	return &AuthService{
		accountRepo:      accountRepo,
		accountUserRepo:  accountUserRepo,
		refreshTokenRepo: rtRepo,
		audit:            audit,
		cfg:              cfg,
		now:              time.Now,
	}
}

// LoginResult represents the result of an admin login
type LoginResult struct {
	Token        string                 `json:"token"`
	RefreshToken string                 `json:"refresh_token"`
	ExpiresAt    time.Time              `json:"expires_at"`
	Account      models.AccountResponse `json:"account"`
}

// UserLoginResult represents the result of a company-user login
type UserLoginResult struct {
	Token       string                     `json:"token"`
	ExpiresAt   time.Time                  `json:"expires_at"`
	AccessPages []string                   `json:"access_pages"`
	User        models.AccountUserResponse `json:"user"`
}

// Login authenticates an admin account and returns tokens
func (s *AuthService) Login(ctx context.Context, username, password string, actor Actor) (*LoginResult, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive() {
		return nil, ErrInactiveAccount
	}

	if !VerifyPassword(password, account.EncryptedPassword) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueAdmin(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.TouchLogin(ctx, account.ID, s.now()); err != nil {
		logger.FromContext(ctx).Warn("Failed to record login time", "account_id", account.ID, "error", err)
	}
	actor.Realm, actor.ID, actor.Name = models.RealmAdmin, account.ID, account.Username
	s.audit.Log(ctx, actor, AuditLogin, "Account", account.ID, nil)

	return result, nil
}

// RefreshToken validates a refresh token and rotates it
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if rt.IsExpired() {
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, ErrTokenExpired
	}

	account, err := s.accountRepo.FindByID(ctx, rt.AccountID)
	if err != nil {
		return nil, ErrNotFound
	}

	if !account.IsActive() {
		return nil, ErrInactiveAccount
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueAdmin(ctx, account)
}

// Logout invalidates a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokenRepo.Delete(ctx, refreshToken)
}

// VerifyAccount confirms the admin behind a token still exists and is active
func (s *AuthService) VerifyAccount(ctx context.Context, accountID uint) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !account.IsActive() {
		return nil, ErrInactiveAccount
	}
	return account, nil
}

// LoginUser authenticates a company user and returns a token carrying the
// user's tenant and access pages
func (s *AuthService) LoginUser(ctx context.Context, username, password string, actor Actor) (*UserLoginResult, error) {
	user, err := s.accountUserRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrInactiveAccount
	}

	if !VerifyPassword(password, user.EncryptedPassword) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateUserJWT(user)
	if err != nil {
		return nil, errors.New("gagal membuat token")
	}

	if err := s.accountUserRepo.TouchLogin(ctx, user.ID, s.now()); err != nil {
		logger.FromContext(ctx).Warn("Failed to record login time", "account_user_id", user.ID, "error", err)
	}
	actor.Realm, actor.ID, actor.Name, actor.Tenant = models.RealmUser, user.ID, user.Username, user.Tenant
	s.audit.Log(ctx, actor, AuditLogin, "AccountUser", user.ID, nil)

	resp := user.ToResponse()
	return &UserLoginResult{
		Token:       token,
		ExpiresAt:   expiresAt,
		AccessPages: resp.AccessPages,
		User:        resp,
	}, nil
}

// VerifyUser re-checks a company user against the database. When path is
// set it must be admitted by the user's current access pages.
func (s *AuthService) VerifyUser(ctx context.Context, userID uint, path string) (*models.AccountUser, error) {
	user, err := s.accountUserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrInactiveAccount
	}
	if path != "" && !guard.MatchAny(user.AccessPages, path) {
		return nil, ErrForbidden
	}
	return user, nil
}

// Verifier returns a guard.Verifier that checks the company user behind
// userID against the database
func (s *AuthService) Verifier(userID uint) guard.Verifier {
	return guard.VerifierFunc(func(ctx context.Context, _ string, path string) error {
		_, err := s.VerifyUser(ctx, userID, path)
		return err
	})
}

// CleanupExpiredTokens removes expired refresh tokens
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) error {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("Removed expired refresh tokens", "count", n)
	}
	return nil
}

func (s *AuthService) issueAdmin(ctx context.Context, account *models.Account) (*LoginResult, error) {
	token, expiresAt, err := s.generateAdminJWT(account)
	if err != nil {
		return nil, errors.New("gagal membuat token")
	}

	refreshToken, err := s.generateRefreshToken(ctx, account.ID)
	if err != nil {
		return nil, errors.New("gagal membuat refresh token")
	}

	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Account:      account.ToResponse(),
	}, nil
}

func (s *AuthService) expiry() time.Time {
	hours := s.cfg.JWTExpirationHours
	if hours <= 0 {
		hours = 24
	}
	return s.now().Add(time.Duration(hours) * time.Hour)
}

// generateAdminJWT creates a token signed with the admin-realm secret
func (s *AuthService) generateAdminJWT(account *models.Account) (string, time.Time, error) {
	exp := s.expiry()
	claims := jwt.MapClaims{
		"account_id": account.ID,
		"username":   account.Username,
		"role":       account.Role,
		"realm":      models.RealmAdmin,
		"exp":        exp.Unix(),
		"iat":        s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	return signed, exp, err
}

// generateUserJWT creates a token signed with the user-realm secret
func (s *AuthService) generateUserJWT(user *models.AccountUser) (string, time.Time, error) {
	exp := s.expiry()
	pages := user.AccessPages
	if pages == nil {
		pages = []string{}
	}
	claims := jwt.MapClaims{
		"account_id":   user.ID,
		"username":     user.Username,
		"realm":        models.RealmUser,
		"tenant":       user.Tenant,
		"access_pages": pages,
		"exp":          exp.Unix(),
		"iat":          s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.UserJWTSecret))
	return signed, exp, err
}

// generateRefreshToken creates and persists a new refresh token
func (s *AuthService) generateRefreshToken(ctx context.Context, accountID uint) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(bytes)

	expiresAt := s.now().Add(refreshTokenTTL)
	rt := &models.RefreshToken{
		AccountID: accountID,
		Token:     token,
		ExpiresAt: &expiresAt,
	}

	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return "", err
	}

	return token, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
