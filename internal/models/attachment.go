package models

import (
	"time"
)

// File categories. Each maps to one fixed storage folder.
const (
	CategoryDocuments    = "documents"
	CategoryCertificates = "certificates"
	CategoryDashboard    = "dashboard"
)

// Categories lists the fixed storage folder categories
var Categories = []string{CategoryDocuments, CategoryCertificates, CategoryDashboard}

// IsValidCategory checks a category name
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Attachment is the metadata of a file stored for an employee
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Tenant      string    `gorm:"size:64;not null;index" json:"tenant"`
	EmployeeID  uint      `gorm:"not null;index" json:"employee_id"`
	Category    string    `gorm:"size:32;not null" json:"category"`
	FileName    string    `gorm:"not null" json:"file_name"`
	StorageKey  string    `gorm:"not null" json:"-"`
	Driver      string    `gorm:"size:16;not null" json:"driver"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `gorm:"size:120" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
