package models

import "time"

// AuditLog records important actions. Writes are fire-and-forget; nothing in
// the workflows reads these rows back.
type AuditLog struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	UserID         string    `gorm:"type:varchar(255);not null" json:"user_id"`
	OrganizationID *uint64   `gorm:"index" json:"organization_id"`
	Action         string    `gorm:"type:varchar(100);not null" json:"action"`
	EntityType     string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID       string    `gorm:"type:varchar(64);not null" json:"entity_id"`
	Details        string    `gorm:"type:text" json:"details,omitempty"`
	IPAddress      string    `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent      string    `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"`
}
