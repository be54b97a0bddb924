package dto

import (
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Domain      string    `json:"domain,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrganizationWithRoleDTO represents an organization with the member's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.OrganizationRole `json:"role"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	User     UserDTO                 `json:"user"`
	Role     models.OrganizationRole `json:"role"`
	JoinedAt time.Time               `json:"joined_at"`
}

// OrganizationDetailDTO represents detailed organization information
type OrganizationDetailDTO struct {
	OrganizationDTO
	Members  []OrganizationMemberDTO `json:"members"`
	YourRole models.OrganizationRole `json:"your_role"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		Domain:      org.Domain,
		IsActive:    org.IsActive,
		CreatedAt:   org.CreatedAt,
	}
}

// ToOrganizationWithRoleDTO converts a membership to DTO with role
func ToOrganizationWithRoleDTO(membership models.OrganizationMembership) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(membership.Organization),
		Role:            membership.OrganizationRole,
	}
}

// ToOrganizationMemberDTO converts a membership to DTO
func ToOrganizationMemberDTO(membership models.OrganizationMembership) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		User:     ToUserDTO(membership.User),
		Role:     membership.OrganizationRole,
		JoinedAt: membership.JoinedAt,
	}
}

// ToOrganizationDetailDTO converts an organization with members to detailed DTO
func ToOrganizationDetailDTO(org models.Organization, members []models.OrganizationMembership, yourRole models.OrganizationRole) OrganizationDetailDTO {
	memberDTOs := make([]OrganizationMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToOrganizationMemberDTO(member)
	}

	return OrganizationDetailDTO{
		OrganizationDTO: ToOrganizationDTO(org),
		Members:         memberDTOs,
		YourRole:        yourRole,
	}
}
