package repository

import (
	"github.com/yamakawa-dev/multitenant-todo-api/internal/database"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/utils"
	"gorm.io/gorm"
)

// GormAuditLogRepository is a GORM implementation of AuditLogRepository
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create appends an audit entry
func (r *GormAuditLogRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// ListByOrganization lists audit entries for an organization, newest first
func (r *GormAuditLogRepository) ListByOrganization(organizationID uint64, params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{}).Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLog
	if err := query.
		Order("timestamp DESC").
		Scopes(database.Paginate(params)).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
