package repository

import (
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"gorm.io/gorm"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Create creates a new membership
func (r *GormMembershipRepository) Create(member *models.OrganizationMembership) error {
	return r.db.Create(member).Error
}

// ListBySubject lists all memberships for an external subject id
func (r *GormMembershipRepository) ListBySubject(subjectID string) ([]models.OrganizationMembership, error) {
	var memberships []models.OrganizationMembership
	if err := r.db.Preload("Organization").
		Where("user_id = ?", subjectID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// FindActive finds an active membership for a subject in an organization
func (r *GormMembershipRepository) FindActive(organizationID uint64, subjectID string) (*models.OrganizationMembership, error) {
	var member models.OrganizationMembership
	if err := r.db.Where("organization_id = ? AND user_id = ? AND is_active = ?", organizationID, subjectID, true).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByOrganization lists all members of an organization
func (r *GormMembershipRepository) ListByOrganization(organizationID uint64) ([]models.OrganizationMembership, error) {
	var members []models.OrganizationMembership
	if err := r.db.Preload("User").
		Where("organization_id = ?", organizationID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
