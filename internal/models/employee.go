package models

import (
	"time"

	"github.com/mitrahse/vendorhr-api/internal/contractstatus"
	"github.com/mitrahse/vendorhr-api/internal/historydiff"
	"gorm.io/gorm"
)

// Employee is a vendor-company worker with contract dates and HSE certifications
type Employee struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Tenant         string     `gorm:"size:64;not null;index" json:"tenant"`
	Name           string     `gorm:"column:nama_karyawan;not null" json:"nama_karyawan"`
	EmployeeNumber *string    `gorm:"column:nomor_induk;index" json:"nomor_induk"`
	Position       *string    `gorm:"column:jabatan" json:"jabatan"`
	WorkLocation   *string    `gorm:"column:lokasi_kerja" json:"lokasi_kerja"`
	ContractStart  *time.Time `gorm:"column:kontrak_awal;type:date" json:"kontrak_awal"`
	ContractEnd    *time.Time `gorm:"column:kontrak_akhir;type:date;index" json:"kontrak_akhir"`
	Status         string     `gorm:"size:16;default:active;index" json:"status"`
	Note           *string    `gorm:"type:text" json:"catatan"`

	// HSE certifications
	MCUDate            *time.Time `gorm:"column:mcu_tanggal;type:date" json:"mcu_tanggal"`
	MCUResult          *string    `gorm:"column:mcu_hasil" json:"mcu_hasil"`
	MCUValidUntil      *time.Time `gorm:"column:mcu_berlaku;type:date" json:"mcu_berlaku"`
	PassportNumber     *string    `gorm:"column:passport_nomor" json:"passport_nomor"`
	PassportValidUntil *time.Time `gorm:"column:passport_berlaku;type:date" json:"passport_berlaku"`
	LicenseNumber      *string    `gorm:"column:sim_nomor" json:"sim_nomor"`
	LicenseType        *string    `gorm:"column:sim_jenis" json:"sim_jenis"`
	LicenseValidUntil  *time.Time `gorm:"column:sim_berlaku;type:date" json:"sim_berlaku"`

	DeactivatedAt *time.Time `json:"deactivated_at"`
	DiscardedAt   *time.Time `gorm:"index" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Attachments []Attachment `gorm:"foreignKey:EmployeeID" json:"attachments,omitempty"`
}

// TableName specifies the table name for Employee
func (Employee) TableName() string {
	return "employees"
}

// Employee status constants
const (
	EmployeeStatusActive = "active"
	EmployeeStatusNA     = "na"
)

// BeforeCreate hook for setting defaults
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.Status == "" {
		e.Status = EmployeeStatusActive
	}
	return nil
}

// IsActive returns true unless the employee was marked non-active
func (e *Employee) IsActive() bool {
	return e.Status != EmployeeStatusNA && e.DiscardedAt == nil
}

// ContractStatus classifies the contract end date relative to now
func (e *Employee) ContractStatus(now time.Time) contractstatus.Status {
	return contractstatus.Classify(e.ContractEnd, now)
}

// ContractSnapshot returns the contract fields tracked in history
func (e *Employee) ContractSnapshot() historydiff.Snapshot {
	return historydiff.Normalize(historydiff.ContractFields, historydiff.Snapshot{
		"kontrak_awal":  e.ContractStart,
		"kontrak_akhir": e.ContractEnd,
		"jabatan":       e.Position,
		"lokasi_kerja":  e.WorkLocation,
		"status":        e.Status,
	})
}

// HSESnapshot returns the HSE certification fields tracked in history
func (e *Employee) HSESnapshot() historydiff.Snapshot {
	return historydiff.Normalize(historydiff.HSEFields, historydiff.Snapshot{
		"mcu_tanggal":      e.MCUDate,
		"mcu_hasil":        e.MCUResult,
		"mcu_berlaku":      e.MCUValidUntil,
		"passport_nomor":   e.PassportNumber,
		"passport_berlaku": e.PassportValidUntil,
		"sim_nomor":        e.LicenseNumber,
		"sim_jenis":        e.LicenseType,
		"sim_berlaku":      e.LicenseValidUntil,
	})
}

// HSE certificate kinds
const (
	CertificateMCU      = "mcu"
	CertificatePassport = "safety_passport"
	CertificateLicense  = "sim"
)

// CertificateStatus is the expiry classification of one HSE certificate
type CertificateStatus struct {
	Kind   string                `json:"kind"`
	Number *string               `json:"number,omitempty"`
	Status contractstatus.Status `json:"status"`
}

// CertificateStatuses classifies each HSE certificate expiry date, in
// medical-checkup, passport, license order
func (e *Employee) CertificateStatuses(now time.Time) []CertificateStatus {
	return []CertificateStatus{
		{Kind: CertificateMCU, Status: contractstatus.Classify(e.MCUValidUntil, now)},
		{Kind: CertificatePassport, Number: e.PassportNumber, Status: contractstatus.Classify(e.PassportValidUntil, now)},
		{Kind: CertificateLicense, Number: e.LicenseNumber, Status: contractstatus.Classify(e.LicenseValidUntil, now)},
	}
}

// EmployeeResponse is the JSON response format for employees
type EmployeeResponse struct {
	ID             uint                  `json:"id"`
	Tenant         string                `json:"tenant"`
	Name           string                `json:"nama_karyawan"`
	EmployeeNumber *string               `json:"nomor_induk"`
	Position       *string               `json:"jabatan"`
	WorkLocation   *string               `json:"lokasi_kerja"`
	ContractStart  *string               `json:"kontrak_awal"`
	ContractEnd    *string               `json:"kontrak_akhir"`
	Status         string                `json:"status"`
	Note           *string               `json:"catatan"`
	ContractStatus contractstatus.Status `json:"contract_status"`
	HSE            HSEResponse           `json:"hse"`
	DeactivatedAt  *time.Time            `json:"deactivated_at"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// HSEResponse is the HSE section of an employee
type HSEResponse struct {
	MCUDate            *string             `json:"mcu_tanggal"`
	MCUResult          *string             `json:"mcu_hasil"`
	MCUValidUntil      *string             `json:"mcu_berlaku"`
	PassportNumber     *string             `json:"passport_nomor"`
	PassportValidUntil *string             `json:"passport_berlaku"`
	LicenseNumber      *string             `json:"sim_nomor"`
	LicenseType        *string             `json:"sim_jenis"`
	LicenseValidUntil  *string             `json:"sim_berlaku"`
	Certificates       []CertificateStatus `json:"certificates"`
}

// ToHSEResponse converts the HSE fields of an employee
func (e *Employee) ToHSEResponse(now time.Time) HSEResponse {
	return HSEResponse{
		MCUDate:            FormatDate(e.MCUDate),
		MCUResult:          e.MCUResult,
		MCUValidUntil:      FormatDate(e.MCUValidUntil),
		PassportNumber:     e.PassportNumber,
		PassportValidUntil: FormatDate(e.PassportValidUntil),
		LicenseNumber:      e.LicenseNumber,
		LicenseType:        e.LicenseType,
		LicenseValidUntil:  FormatDate(e.LicenseValidUntil),
		Certificates:       e.CertificateStatuses(now),
	}
}

// ToResponse converts Employee to EmployeeResponse
func (e *Employee) ToResponse(now time.Time) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		Tenant:         e.Tenant,
		Name:           e.Name,
		EmployeeNumber: e.EmployeeNumber,
		Position:       e.Position,
		WorkLocation:   e.WorkLocation,
		ContractStart:  FormatDate(e.ContractStart),
		ContractEnd:    FormatDate(e.ContractEnd),
		Status:         e.Status,
		Note:           e.Note,
		ContractStatus: e.ContractStatus(now),
		HSE:            e.ToHSEResponse(now),
		DeactivatedAt:  e.DeactivatedAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// FormatDate renders a nullable date as YYYY-MM-DD
func FormatDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
