package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/utils"
)

// AuditService appends audit entries. Writes are best-effort: a failed write
// is logged, never surfaced, and never fails the enclosing workflow.
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// AuditEvent describes one recordable action.
type AuditEvent struct {
	SubjectID      string
	OrganizationID *uint64
	Action         string
	EntityType     string
	EntityID       string
	Details        interface{}
	IPAddress      string
	UserAgent      string
}

// Record appends an audit entry. Safe to call on a nil service.
func (s *AuditService) Record(event AuditEvent) {
	if s == nil {
		return
	}

	var details string
	if event.Details != nil {
		if raw, err := json.Marshal(event.Details); err == nil {
			details = string(raw)
		}
	}

	entry := &models.AuditLog{
		UserID:         event.SubjectID,
		OrganizationID: event.OrganizationID,
		Action:         event.Action,
		EntityType:     event.EntityType,
		EntityID:       event.EntityID,
		Details:        details,
		IPAddress:      event.IPAddress,
		UserAgent:      event.UserAgent,
		Timestamp:      time.Now(),
	}

	if err := s.repo.Create(entry); err != nil {
		log.Printf("audit: failed to record %s: %v", event.Action, err)
	}
}

// ListForOrganization returns audit entries for an organization, newest
// first.
func (s *AuditService) ListForOrganization(organizationID uint64, params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	return s.repo.ListByOrganization(organizationID, params)
}
