package dto

import (
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
)

// InvitationDTO represents an invitation in API responses. The token is only
// included in the creation response; listings omit it.
type InvitationDTO struct {
	ID             uint64                  `json:"id"`
	Email          string                  `json:"email"`
	OrganizationID uint64                  `json:"organization_id"`
	InvitedRole    models.OrganizationRole `json:"invited_role"`
	InvitedBy      string                  `json:"invited_by"`
	Token          string                  `json:"token,omitempty"`
	ExpiresAt      time.Time               `json:"expires_at"`
	IsAccepted     bool                    `json:"is_accepted"`
	AcceptedAt     *time.Time              `json:"accepted_at"`
	CreatedAt      time.Time               `json:"created_at"`
}

// AcceptResultDTO represents the membership created by accepting an
// invitation
type AcceptResultDTO struct {
	OrganizationID uint64                  `json:"organization_id"`
	Role           models.OrganizationRole `json:"role"`
	JoinedAt       time.Time               `json:"joined_at"`
}

// ToInvitationDTO converts an Invitation model to DTO
func ToInvitationDTO(invitation models.Invitation, includeToken bool) InvitationDTO {
	dto := InvitationDTO{
		ID:             invitation.ID,
		Email:          invitation.Email,
		OrganizationID: invitation.OrganizationID,
		InvitedRole:    invitation.InvitedRole,
		InvitedBy:      invitation.InvitedBy,
		ExpiresAt:      invitation.ExpiresAt,
		IsAccepted:     invitation.IsAccepted,
		AcceptedAt:     invitation.AcceptedAt,
		CreatedAt:      invitation.CreatedAt,
	}
	if includeToken {
		dto.Token = invitation.Token
	}
	return dto
}

// ToAcceptResultDTO converts a membership to AcceptResultDTO
func ToAcceptResultDTO(membership models.OrganizationMembership) AcceptResultDTO {
	return AcceptResultDTO{
		OrganizationID: membership.OrganizationID,
		Role:           membership.OrganizationRole,
		JoinedAt:       membership.JoinedAt,
	}
}
