package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Domain      string         `gorm:"type:varchar(255)" json:"domain,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	Settings    string         `gorm:"type:text" json:"settings,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships []OrganizationMembership `gorm:"foreignKey:OrganizationID" json:"memberships,omitempty"`
	Todos       []Todo                   `gorm:"foreignKey:OrganizationID" json:"todos,omitempty"`
	Invitations []Invitation             `gorm:"foreignKey:OrganizationID" json:"invitations,omitempty"`
}
