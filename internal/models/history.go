package models

import (
	"time"

	"github.com/mitrahse/vendorhr-api/internal/historydiff"
)

// History domains
const (
	HistoryDomainContract = "contract"
	HistoryDomainHSE      = "hse"
)

// EmployeeHistory is one audited change to an employee's contract or HSE fields
type EmployeeHistory struct {
	ID         uint                 `gorm:"primaryKey" json:"id"`
	Tenant     string               `gorm:"size:64;not null;index" json:"tenant"`
	EmployeeID uint                 `gorm:"not null;index" json:"employee_id"`
	Domain     string               `gorm:"size:16;not null;index" json:"domain"`
	OldValues  historydiff.Snapshot `gorm:"serializer:json;type:text" json:"old_values"`
	NewValues  historydiff.Snapshot `gorm:"serializer:json;type:text" json:"new_values"`
	Reason     string               `gorm:"size:255" json:"reason"`
	ChangedBy  string               `gorm:"size:120" json:"changed_by"`
	CreatedAt  time.Time            `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for EmployeeHistory
func (EmployeeHistory) TableName() string {
	return "employee_histories"
}

// Fields returns the tracked field list of the entry's domain
func (h *EmployeeHistory) Fields() []historydiff.Field {
	if h.Domain == HistoryDomainHSE {
		return historydiff.HSEFields
	}
	return historydiff.ContractFields
}

// Changes diffs the stored snapshots
func (h *EmployeeHistory) Changes() []historydiff.Change {
	return historydiff.Diff(h.Fields(), h.OldValues, h.NewValues)
}

// HistoryResponse is the JSON response format for history entries
type HistoryResponse struct {
	ID         uint                 `json:"id"`
	EmployeeID uint                 `json:"employee_id"`
	Domain     string               `json:"domain"`
	Changes    []historydiff.Change `json:"changes"`
	Reason     string               `json:"reason"`
	ChangedBy  string               `json:"changed_by"`
	CreatedAt  time.Time            `json:"created_at"`
}

// ToResponse converts EmployeeHistory to HistoryResponse
func (h *EmployeeHistory) ToResponse() HistoryResponse {
	return HistoryResponse{
		ID:         h.ID,
		EmployeeID: h.EmployeeID,
		Domain:     h.Domain,
		Changes:    h.Changes(),
		Reason:     h.Reason,
		ChangedBy:  h.ChangedBy,
		CreatedAt:  h.CreatedAt,
	}
}
