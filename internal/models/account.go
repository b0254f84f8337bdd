package models

import (
	"time"

	"gorm.io/gorm"
)

// Authentication realms
const (
	RealmAdmin  = "admin"
	RealmUser   = "user"
	RealmSystem = "system"
)

// Role constants (admin realm)
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Account is an internal administrator
type Account struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"uniqueIndex;not null" json:"username"`
	Email             string     `gorm:"index" json:"email"`
	EncryptedPassword string     `gorm:"column:encrypted_password;not null" json:"-"`
	FullName          string     `json:"full_name"`
	Role              string     `gorm:"default:admin" json:"role"`
	Status            string     `gorm:"default:active" json:"status"`
	LastLoginAt       *time.Time `json:"last_login_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate hook for setting defaults
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	return nil
}

// IsActive returns true if the account may log in
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// AccountResponse is the JSON response format for accounts
type AccountResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToResponse converts Account to AccountResponse
func (a *Account) ToResponse() AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FullName:    a.FullName,
		Role:        a.Role,
		Status:      a.Status,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

// AccountUser is an external login bound to one vendor company
type AccountUser struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"uniqueIndex;not null" json:"username"`
	EncryptedPassword string     `gorm:"column:encrypted_password;not null" json:"-"`
	FullName          string     `json:"full_name"`
	Tenant            string     `gorm:"size:64;not null;index" json:"tenant"`
	AccessPages       []string   `gorm:"serializer:json;type:text" json:"access_pages"`
	Status            string     `gorm:"default:active" json:"status"`
	LastLoginAt       *time.Time `json:"last_login_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name for AccountUser
func (AccountUser) TableName() string {
	return "account_users"
}

// BeforeCreate hook for setting defaults
func (u *AccountUser) BeforeCreate(tx *gorm.DB) error {
	if u.Status == "" {
		u.Status = StatusActive
	}
	if u.AccessPages == nil {
		u.AccessPages = []string{}
	}
	return nil
}

// IsActive returns true if the company user may log in
func (u *AccountUser) IsActive() bool {
	return u.Status == StatusActive
}

// AccountUserResponse is the JSON response format for company users
type AccountUserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Tenant      string     `json:"tenant"`
	AccessPages []string   `json:"access_pages"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToResponse converts AccountUser to AccountUserResponse
func (u *AccountUser) ToResponse() AccountUserResponse {
	pages := u.AccessPages
	if pages == nil {
		pages = []string{}
	}
	return AccountUserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Tenant:      u.Tenant,
		AccessPages: pages,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshToken is a rotating admin-realm refresh token
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AccountID uint       `gorm:"not null;index" json:"account_id"`
	Token     string     `gorm:"uniqueIndex" json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for RefreshToken
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired returns true if the refresh token has expired
func (r *RefreshToken) IsExpired() bool {
	if r.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*r.ExpiresAt)
}
