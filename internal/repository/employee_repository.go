package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"gorm.io/gorm"
)

// ErrEmployeeNumberTaken is returned when nomor_induk already belongs to a
// live employee of the same tenant
var ErrEmployeeNumberTaken = errors.New("nomor induk sudah digunakan")

// EmployeeQuery filters employee listings. Results are unpaginated since
// the caller orders them by contract urgency.
type EmployeeQuery struct {
	Tenant string
	Status string
	Search string
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	FindByID(ctx context.Context, tenant string, id uint) (*models.Employee, error)
	FindByNumber(ctx context.Context, tenant, number string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	CreateBatch(ctx context.Context, employees []*models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	SoftDelete(ctx context.Context, tenant string, id uint) error
	List(ctx context.Context, query *EmployeeQuery) ([]models.Employee, error)
	FindHSEExpiringBefore(ctx context.Context, tenant string, before time.Time) ([]models.Employee, error)
	FindContractsEndingBefore(ctx context.Context, tenant string, before time.Time) ([]models.Employee, error)
	CountByTenant(ctx context.Context) (map[string]int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) scope(ctx context.Context, tenant string) *gorm.DB {
	db := conn(ctx, r.db).Model(&models.Employee{}).Where("discarded_at IS NULL")
	if tenant != "" {
		db = db.Where("tenant = ?", tenant)
	}
	return db
}

func (r *employeeRepository) FindByID(ctx context.Context, tenant string, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.scope(ctx, tenant).First(&employee, id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByNumber(ctx context.Context, tenant, number string) (*models.Employee, error) {
	var employee models.Employee
	err := r.scope(ctx, tenant).Where("nomor_induk = ?", number).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return translateEmployeeError(conn(ctx, r.db).Create(employee).Error)
}

func (r *employeeRepository) CreateBatch(ctx context.Context, employees []*models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(employees, 100).Error
	})
	return translateEmployeeError(err)
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return translateEmployeeError(conn(ctx, r.db).Save(employee).Error)
}

func translateEmployeeError(err error) error {
	if err != nil && isDuplicateKeyError(err, "") {
		return ErrEmployeeNumberTaken
	}
	return err
}

func (r *employeeRepository) SoftDelete(ctx context.Context, tenant string, id uint) error {
	result := conn(ctx, r.db).
		Model(&models.Employee{}).
		Where("id = ? AND tenant = ? AND discarded_at IS NULL", id, tenant).
		Update("discarded_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, query *EmployeeQuery) ([]models.Employee, error) {
	var employees []models.Employee

	db := r.scope(ctx, query.Tenant)

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if search := strings.TrimSpace(query.Search); search != "" {
		like := likePattern(strings.ToLower(search))
		db = db.Where("LOWER(nama_karyawan) LIKE ? OR LOWER(nomor_induk) LIKE ? OR LOWER(jabatan) LIKE ? OR LOWER(lokasi_kerja) LIKE ?",
			like, like, like, like)
	}

	err := db.Order("nama_karyawan ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) FindHSEExpiringBefore(ctx context.Context, tenant string, before time.Time) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.scope(ctx, tenant).
		Where("status = ?", models.EmployeeStatusActive).
		Where("mcu_berlaku <= ? OR passport_berlaku <= ? OR sim_berlaku <= ?", before, before, before).
		Order("nama_karyawan ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) FindContractsEndingBefore(ctx context.Context, tenant string, before time.Time) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.scope(ctx, tenant).
		Where("status = ?", models.EmployeeStatusActive).
		Where("kontrak_akhir IS NOT NULL AND kontrak_akhir <= ?", before).
		Order("kontrak_akhir ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) CountByTenant(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Tenant string
		Total  int64
	}
	var rows []row
	err := r.scope(ctx, "").
		Select("tenant, COUNT(*) AS total").
		Group("tenant").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Tenant] = rw.Total
	}
	return counts, nil
}
