package models

import (
	"time"

	"gorm.io/gorm"
)

type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

type Todo struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Done           bool           `gorm:"default:false" json:"done"`
	Priority       TodoPriority   `gorm:"type:varchar(10)" json:"priority"`
	OrganizationID uint64         `gorm:"index;not null" json:"organization_id"`
	UserID         string         `gorm:"type:varchar(255);index;not null" json:"user_id"`
	AssignedTo     string         `gorm:"type:varchar(255)" json:"assigned_to,omitempty"`
	DueDate        *time.Time     `json:"due_date"`
	Tags           string         `gorm:"type:text" json:"-"` // JSON-encoded string array
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
