package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Employee     EmployeeRepository
	History      HistoryRepository
	Attachment   AttachmentRepository
	Dashboard    DashboardRepository
	Account      AccountRepository
	AccountUser  AccountUserRepository
	RefreshToken RefreshTokenRepository
	Audit        AuditRepository
	Tx           Transactor
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Employee:     NewEmployeeRepository(db),
		History:      NewHistoryRepository(db),
		Attachment:   NewAttachmentRepository(db),
		Dashboard:    NewDashboardRepository(db),
		Account:      NewAccountRepository(db),
		AccountUser:  NewAccountUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Audit:        NewAuditRepository(db),
		Tx:           NewTransactor(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset of the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (constraintName == "" || pgErr.ConstraintName == constraintName)
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// likePattern builds a case-insensitive LIKE argument
func likePattern(search string) string {
	return "%" + search + "%"
}
