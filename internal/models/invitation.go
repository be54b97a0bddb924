package models

import "time"

// Invitation invites an email address into an organization. The token is the
// sole capability proving ownership and is single-use: acceptance requires
// IsAccepted to still be false and the expiry to be in the future.
type Invitation struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	Email          string           `gorm:"type:varchar(255);not null" json:"email"`
	OrganizationID uint64           `gorm:"index;not null" json:"organization_id"`
	InvitedRole    OrganizationRole `gorm:"type:varchar(20);not null" json:"invited_role"`
	InvitedBy      string           `gorm:"type:varchar(255);not null" json:"invited_by"`
	Token          string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	ExpiresAt      time.Time        `gorm:"not null" json:"expires_at"`
	IsAccepted     bool             `gorm:"default:false" json:"is_accepted"`
	AcceptedAt     *time.Time       `json:"accepted_at"`
	CreatedAt      time.Time        `json:"created_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
