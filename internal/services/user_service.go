package services

import (
	"errors"
	"fmt"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"gorm.io/gorm"
)

// UserService answers account-info queries and profile updates for the
// authenticated principal.
type UserService struct {
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, membershipRepo repository.MembershipRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
	}
}

// AccountInfo bundles everything the UI needs about the current principal.
// User and Profile are nil for principals that have not onboarded yet.
type AccountInfo struct {
	User        *models.User
	Profile     *models.UserProfile
	Memberships []models.OrganizationMembership
}

// Info returns the principal's user record, profile and memberships.
func (s *UserService) Info(principal identity.Principal) (*AccountInfo, error) {
	info := &AccountInfo{}

	user, err := s.userRepo.FindBySubject(principal.SubjectID)
	if err == nil {
		info.User = user

		profile, err := s.userRepo.FindProfileBySubject(principal.SubjectID)
		if err == nil {
			info.Profile = profile
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find profile: %w", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user record: %w", err)
	}

	memberships, err := s.membershipRepo.ListBySubject(principal.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	info.Memberships = memberships

	return info, nil
}

// UpdateProfileInput carries the owner-editable profile fields. Nil pointers
// leave the current value untouched.
type UpdateProfileInput struct {
	Avatar                  *string
	Bio                     *string
	PhoneNumber             *string
	Timezone                *string
	Language                *string
	NotificationPreferences *string
	SocialLinks             *string
}

// UpdateProfile updates the principal's profile, creating it with defaults
// first when the onboarding-time best-effort creation never happened.
func (s *UserService) UpdateProfile(principal identity.Principal, input UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.userRepo.FindProfileBySubject(principal.SubjectID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find profile: %w", err)
		}
		profile = &models.UserProfile{
			UserID:   principal.SubjectID,
			Timezone: "UTC",
			Language: "en",
		}
		if err := s.userRepo.CreateProfile(profile); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	}

	if input.Avatar != nil {
		profile.Avatar = *input.Avatar
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.PhoneNumber != nil {
		profile.PhoneNumber = *input.PhoneNumber
	}
	if input.Timezone != nil {
		profile.Timezone = *input.Timezone
	}
	if input.Language != nil {
		profile.Language = *input.Language
	}
	if input.NotificationPreferences != nil {
		profile.NotificationPreferences = *input.NotificationPreferences
	}
	if input.SocialLinks != nil {
		profile.SocialLinks = *input.SocialLinks
	}

	if err := s.userRepo.UpdateProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}
