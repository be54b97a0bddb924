package dto

import (
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
)

// UserDTO represents a user record in API responses
type UserDTO struct {
	ID            uint64             `json:"id"`
	CognitoUserID string             `json:"cognito_user_id"`
	Email         string             `json:"email"`
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	SystemRole    *models.SystemRole `json:"system_role"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ProfileDTO represents a user profile in API responses
type ProfileDTO struct {
	Avatar                  string `json:"avatar,omitempty"`
	Bio                     string `json:"bio,omitempty"`
	PhoneNumber             string `json:"phone_number,omitempty"`
	Timezone                string `json:"timezone"`
	Language                string `json:"language"`
	NotificationPreferences string `json:"notification_preferences,omitempty"`
	SocialLinks             string `json:"social_links,omitempty"`
}

// AccountInfoDTO bundles the current principal's user record, profile and
// memberships. User and Profile are null before onboarding.
type AccountInfoDTO struct {
	User        *UserDTO                  `json:"user"`
	Profile     *ProfileDTO               `json:"profile"`
	Memberships []OrganizationWithRoleDTO `json:"memberships"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:            user.ID,
		CognitoUserID: user.CognitoUserID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		SystemRole:    user.SystemRole,
		CreatedAt:     user.CreatedAt,
	}
}

// ToProfileDTO converts a UserProfile model to ProfileDTO
func ToProfileDTO(profile models.UserProfile) ProfileDTO {
	return ProfileDTO{
		Avatar:                  profile.Avatar,
		Bio:                     profile.Bio,
		PhoneNumber:             profile.PhoneNumber,
		Timezone:                profile.Timezone,
		Language:                profile.Language,
		NotificationPreferences: profile.NotificationPreferences,
		SocialLinks:             profile.SocialLinks,
	}
}

// ToAccountInfoDTO converts account data to AccountInfoDTO
func ToAccountInfoDTO(user *models.User, profile *models.UserProfile, memberships []models.OrganizationMembership) AccountInfoDTO {
	info := AccountInfoDTO{
		Memberships: make([]OrganizationWithRoleDTO, len(memberships)),
	}
	if user != nil {
		u := ToUserDTO(*user)
		info.User = &u
	}
	if profile != nil {
		p := ToProfileDTO(*profile)
		info.Profile = &p
	}
	for i, membership := range memberships {
		info.Memberships[i] = ToOrganizationWithRoleDTO(membership)
	}
	return info
}
