package models

import (
	"time"
)

// AuditLog represents a system audit entry
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Realm     string    `gorm:"size:16;not null" json:"realm"` // admin, user, system
	ActorID   uint      `gorm:"index" json:"actor_id"`
	Actor     string    `gorm:"size:120" json:"actor"`
	Tenant    string    `gorm:"size:64;index" json:"tenant"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE, UPDATE, DELETE, LOGIN, IMPORT
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Employee, Attachment, DashboardContent, ...
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
