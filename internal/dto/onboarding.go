package dto

import (
	"github.com/yamakawa-dev/multitenant-todo-api/internal/onboarding"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
)

// OnboardingResultDTO represents the records the onboarding transaction
// created
type OnboardingResultDTO struct {
	Organization OrganizationDTO `json:"organization"`
	User         UserDTO         `json:"user"`
	Role         string          `json:"role"`
	ProfileReady bool            `json:"profile_ready"`
}

// OnboardingStatusDTO represents the resolved onboarding status of the
// current principal
type OnboardingStatusDTO struct {
	State           onboarding.State          `json:"state"`
	NeedsOnboarding bool                      `json:"needs_onboarding"`
	HasOrganization bool                      `json:"has_organization"`
	HasUserRecord   bool                      `json:"has_user_record"`
	Degraded        bool                      `json:"degraded,omitempty"`
	Attempts        int                       `json:"attempts"`
	User            *UserDTO                  `json:"user"`
	Memberships     []OrganizationWithRoleDTO `json:"memberships"`
}

// ToOnboardingResultDTO converts an onboarding snapshot to DTO
func ToOnboardingResultDTO(snapshot services.OnboardingSnapshot) OnboardingResultDTO {
	return OnboardingResultDTO{
		Organization: ToOrganizationDTO(*snapshot.Organization),
		User:         ToUserDTO(*snapshot.User),
		Role:         string(snapshot.Membership.OrganizationRole),
		ProfileReady: snapshot.Profile != nil,
	}
}

// ToOnboardingStatusDTO converts a poller resolution to DTO
func ToOnboardingStatusDTO(resolution onboarding.Resolution) OnboardingStatusDTO {
	dto := OnboardingStatusDTO{
		State:           resolution.State,
		NeedsOnboarding: resolution.NeedsOnboarding,
		Degraded:        resolution.Degraded,
		Attempts:        resolution.Attempts,
		Memberships:     []OrganizationWithRoleDTO{},
	}
	if resolution.Status != nil {
		dto.HasOrganization = resolution.Status.HasOrganization
		dto.HasUserRecord = resolution.Status.HasUserRecord
		if resolution.Status.UserRecord != nil {
			u := ToUserDTO(*resolution.Status.UserRecord)
			dto.User = &u
		}
		for _, membership := range resolution.Status.Memberships {
			dto.Memberships = append(dto.Memberships, ToOrganizationWithRoleDTO(membership))
		}
	}
	return dto
}
