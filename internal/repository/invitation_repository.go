package repository

import (
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"gorm.io/gorm"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindPendingByToken finds an unaccepted invitation by token and invitee
// email. Accepted invitations are invisible here, which is what makes tokens
// single-use.
func (r *GormInvitationRepository) FindPendingByToken(token, email string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Where("token = ? AND email = ? AND is_accepted = ?", token, email, false).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// MarkAccepted flips the single-use acceptance flag
func (r *GormInvitationRepository) MarkAccepted(id uint64, acceptedAt time.Time) error {
	return r.db.Model(&models.Invitation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_accepted": true,
			"accepted_at": acceptedAt,
		}).Error
}

// ListByOrganization lists invitations sent for an organization
func (r *GormInvitationRepository) ListByOrganization(organizationID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := r.db.Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}
