package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/dto"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/middleware"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/response"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/utils"
)

// OrganizationHandler coordinates organization HTTP handlers. Organizations
// are only ever created through onboarding, so there is no create endpoint
// here.
type OrganizationHandler struct {
	orgRepo        repository.OrganizationRepository
	membershipRepo repository.MembershipRepository
	audit          *services.AuditService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgRepo repository.OrganizationRepository, membershipRepo repository.MembershipRepository, audit *services.AuditService) *OrganizationHandler {
	return &OrganizationHandler{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		audit:          audit,
	}
}

// List returns the organizations the principal is an active member of.
func (h *OrganizationHandler) List(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	memberships, err := h.membershipRepo.ListBySubject(principal.SubjectID)
	if err != nil {
		response.InternalError(c, "Failed to list organizations")
		return
	}

	orgs := make([]dto.OrganizationWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		orgs[i] = dto.ToOrganizationWithRoleDTO(membership)
	}
	response.OK(c, orgs)
}

// Get returns organization details with its member roster.
func (h *OrganizationHandler) Get(c *gin.Context) {
	org, exists := middleware.GetOrganization(c)
	if !exists {
		response.InternalError(c, "Organization not found in context")
		return
	}
	membership, exists := middleware.GetMembership(c)
	if !exists {
		response.InternalError(c, "Membership not found in context")
		return
	}

	members, err := h.membershipRepo.ListByOrganization(org.ID)
	if err != nil {
		response.InternalError(c, "Failed to list members")
		return
	}

	response.OK(c, dto.ToOrganizationDetailDTO(org, members, membership.OrganizationRole))
}

// Update updates organization metadata. Restricted to owners by route
// middleware.
func (h *OrganizationHandler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	org, exists := middleware.GetOrganization(c)
	if !exists {
		response.InternalError(c, "Organization not found in context")
		return
	}

	type UpdateRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Domain      *string `json:"domain"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			response.BadRequest(c, "Name cannot be empty")
			return
		}
		org.Name = *req.Name
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.Domain != nil {
		org.Domain = *req.Domain
	}

	if err := h.orgRepo.Update(&org); err != nil {
		response.InternalError(c, "Failed to update organization")
		return
	}

	h.audit.Record(services.AuditEvent{
		SubjectID:      principal.SubjectID,
		OrganizationID: &org.ID,
		Action:         "organization_updated",
		EntityType:     "Organization",
		EntityID:       fmt.Sprintf("%d", org.ID),
		IPAddress:      c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
	})

	response.OK(c, dto.ToOrganizationDTO(org))
}

// AuditLog returns the organization's audit trail, newest first. Restricted
// to owners and admins by route middleware.
func (h *OrganizationHandler) AuditLog(c *gin.Context) {
	org, exists := middleware.GetOrganization(c)
	if !exists {
		response.InternalError(c, "Organization not found in context")
		return
	}

	params := utils.GetPaginationParams(c)
	entries, total, err := h.audit.ListForOrganization(org.ID, params)
	if err != nil {
		response.InternalError(c, "Failed to list audit log")
		return
	}

	response.OK(c, gin.H{
		"entries": entries,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
