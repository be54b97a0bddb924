package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/dto"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/middleware"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/response"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
)

// InvitationHandler coordinates invitation HTTP handlers.
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// Invite creates an invitation for an email address. The response includes
// the raw token; this is the only place it is ever returned.
func (h *InvitationHandler) Invite(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	type InviteRequest struct {
		Email          string `json:"email" binding:"required,email"`
		OrganizationID uint64 `json:"organization_id" binding:"required"`
		Role           string `json:"role" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.Invite(principal, services.InviteInput{
		Email:          req.Email,
		OrganizationID: req.OrganizationID,
		Role:           models.OrganizationRole(req.Role),
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	response.Created(c, dto.ToInvitationDTO(*invitation, true))
}

// Accept redeems an invitation token for the authenticated principal.
func (h *InvitationHandler) Accept(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	type AcceptRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.invitationService.Accept(principal, req.Token)
	if err != nil {
		respondAcceptError(c, err)
		return
	}

	response.OK(c, dto.ToAcceptResultDTO(*membership))
}

// ListForOrganization lists invitations sent for an organization. Tokens are
// never included.
func (h *InvitationHandler) ListForOrganization(c *gin.Context) {
	org, exists := middleware.GetOrganization(c)
	if !exists {
		response.InternalError(c, "Organization not found in context")
		return
	}

	invitations, err := h.invitationService.ListForOrganization(org.ID)
	if err != nil {
		response.InternalError(c, "Failed to list invitations")
		return
	}

	dtos := make([]dto.InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		dtos[i] = dto.ToInvitationDTO(invitation, false)
	}
	response.OK(c, dtos)
}

func respondInviteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInvitedRole):
		response.BadRequest(c, "Role must be org_admin or org_member")
	case errors.Is(err, services.ErrNotOrganizationMember):
		response.Forbidden(c, "Not a member of this organization")
	case errors.Is(err, services.ErrInvitePermissionDenied):
		response.Forbidden(c, "Only owners and admins can invite")
	case errors.Is(err, services.ErrOnlyOwnersInviteAdmins):
		response.Forbidden(c, "Only owners can invite admins")
	default:
		response.InternalError(c, "Failed to create invitation")
	}
}

func respondAcceptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound):
		response.NotFound(c, "Invitation not found")
	case errors.Is(err, services.ErrInvitationExpired):
		response.Gone(c, "Invitation has expired")
	default:
		response.InternalError(c, "Failed to accept invitation")
	}
}
