package services

import (
	"context"
	"encoding/json"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
)

// Audit actions
const (
	AuditCreate     = "CREATE"
	AuditUpdate     = "UPDATE"
	AuditDelete     = "DELETE"
	AuditLogin      = "LOGIN"
	AuditImport     = "IMPORT"
	AuditDeactivate = "DEACTIVATE"
	AuditReactivate = "REACTIVATE"
	AuditUpload     = "UPLOAD"
)

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry. Failures are logged and never block the
// audited operation.
func (s *AuditService) Log(ctx context.Context, actor Actor, action, entity string, entityID uint, details any) {
	if s == nil || s.repo == nil {
		return
	}

	var text string
	switch d := details.(type) {
	case nil:
	case string:
		text = d
	default:
		if b, err := json.Marshal(d); err == nil {
			text = string(b)
		}
	}

	entry := &models.AuditLog{
		Realm:     actor.Realm,
		ActorID:   actor.ID,
		Actor:     actor.Name,
		Tenant:    actor.Tenant,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   text,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.FromContext(ctx).Error("Failed to write audit log", "action", action, "entity", entity, "error", err)
	}
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, query)
}
