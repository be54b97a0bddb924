package models

import "time"

// UserProfile is the one-to-one extension of a User. Its creation is
// best-effort during onboarding.
type UserProfile struct {
	ID                      uint64    `gorm:"primarykey" json:"id"`
	UserID                  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"user_id"`
	Avatar                  string    `gorm:"type:varchar(512)" json:"avatar,omitempty"`
	Bio                     string    `gorm:"type:text" json:"bio,omitempty"`
	PhoneNumber             string    `gorm:"type:varchar(50)" json:"phone_number,omitempty"`
	Timezone                string    `gorm:"type:varchar(64);default:'UTC'" json:"timezone"`
	Language                string    `gorm:"type:varchar(16);default:'en'" json:"language"`
	NotificationPreferences string    `gorm:"type:text" json:"notification_preferences,omitempty"`
	SocialLinks             string    `gorm:"type:text" json:"social_links,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
