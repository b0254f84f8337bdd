package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"gorm.io/gorm"
)

// ErrUsernameTaken is returned when a login name already exists in the realm
var ErrUsernameTaken = errors.New("username sudah digunakan")

// AccountRepository defines the interface for admin account data access
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	TouchLogin(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, query *ListQuery) ([]models.Account, int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", strings.TrimSpace(username)).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicateKeyError(err, "") {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *accountRepository) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_login_at", at.UTC()).Error
}

func (r *accountRepository) List(ctx context.Context, query *ListQuery) ([]models.Account, int64, error) {
	var accounts []models.Account
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Account{})

	if query.Search != "" {
		like := likePattern(strings.ToLower(query.Search))
		db = db.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Order("username ASC").Find(&accounts).Error
	return accounts, total, err
}

// AccountUserRepository defines the interface for company user data access
type AccountUserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.AccountUser, error)
	FindByUsername(ctx context.Context, username string) (*models.AccountUser, error)
	Create(ctx context.Context, user *models.AccountUser) error
	Update(ctx context.Context, user *models.AccountUser) error
	Delete(ctx context.Context, id uint) error
	TouchLogin(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, query *ListQuery) ([]models.AccountUser, int64, error)
}

type accountUserRepository struct {
	db *gorm.DB
}

// NewAccountUserRepository creates a new company user repository
func NewAccountUserRepository(db *gorm.DB) AccountUserRepository {
	return &accountUserRepository{db: db}
}

func (r *accountUserRepository) FindByID(ctx context.Context, id uint) (*models.AccountUser, error) {
	var user models.AccountUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *accountUserRepository) FindByUsername(ctx context.Context, username string) (*models.AccountUser, error) {
	var user models.AccountUser
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", strings.TrimSpace(username)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *accountUserRepository) Create(ctx context.Context, user *models.AccountUser) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKeyError(err, "") {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *accountUserRepository) Update(ctx context.Context, user *models.AccountUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *accountUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.AccountUser{}, id).Error
}

func (r *accountUserRepository) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.AccountUser{}).
		Where("id = ?", id).
		Update("last_login_at", at.UTC()).Error
}

func (r *accountUserRepository) List(ctx context.Context, query *ListQuery) ([]models.AccountUser, int64, error) {
	var users []models.AccountUser
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AccountUser{})

	if query.Search != "" {
		like := likePattern(strings.ToLower(query.Search))
		db = db.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}
	if query.Filters["tenant"] != "" {
		db = db.Where("tenant = ?", query.Filters["tenant"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Order("tenant ASC, username ASC").Find(&users).Error
	return users, total, err
}

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Create(ctx context.Context, rt *models.RefreshToken) error
	Delete(ctx context.Context, token string) error
	DeleteByAccount(ctx context.Context, accountID uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *refreshTokenRepository) Create(ctx context.Context, rt *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteByAccount(ctx context.Context, accountID uint) error {
	return r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now.UTC()).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
