package models

import "time"

type OrganizationRole string

const (
	RoleOrgOwner  OrganizationRole = "org_owner"
	RoleOrgAdmin  OrganizationRole = "org_admin"
	RoleOrgMember OrganizationRole = "org_member"
)

// OrganizationMembership links a principal (by external subject id) to an
// organization. A principal counts as onboarded as soon as at least one of
// these rows exists for their subject id.
type OrganizationMembership struct {
	ID               uint64           `gorm:"primarykey" json:"id"`
	UserID           string           `gorm:"type:varchar(255);index;not null" json:"user_id"`
	OrganizationID   uint64           `gorm:"index;not null" json:"organization_id"`
	OrganizationRole OrganizationRole `gorm:"type:varchar(20);not null" json:"organization_role"`
	Permissions      string           `gorm:"type:text" json:"permissions,omitempty"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	JoinedAt         time.Time        `json:"joined_at"`
	InvitedBy        string           `gorm:"type:varchar(255)" json:"invited_by,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID;references:CognitoUserID" json:"user,omitempty"`
}
