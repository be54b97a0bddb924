package models

import (
	"time"

	"gorm.io/gorm"
)

type SystemRole string

const (
	SystemRoleOwner SystemRole = "system_owner"
	SystemRoleAdmin SystemRole = "system_admin"
	SystemRoleUser  SystemRole = "system_user"
)

// User is the directory record for an authenticated principal. The identity
// provider owns credentials; this row only maps its subject id to application
// data. SystemRole is assigned out-of-band and stays nil for rows created by
// the onboarding and invitation workflows.
type User struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	CognitoUserID string         `gorm:"type:varchar(255);index;not null" json:"cognito_user_id"`
	Email         string         `gorm:"type:varchar(255);not null" json:"email"`
	FirstName     string         `gorm:"type:varchar(255)" json:"first_name"`
	LastName      string         `gorm:"type:varchar(255)" json:"last_name"`
	SystemRole    *SystemRole    `gorm:"type:varchar(20)" json:"system_role"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt   *time.Time     `json:"last_login_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships []OrganizationMembership `gorm:"foreignKey:UserID;references:CognitoUserID" json:"-"`
	Profile     *UserProfile             `gorm:"foreignKey:UserID;references:CognitoUserID" json:"profile,omitempty"`
}
