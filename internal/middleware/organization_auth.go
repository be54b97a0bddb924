package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/constants"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/database"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/response"
)

// RequireOrganizationAccess checks that the principal has an active membership
// in the organization named by the :id URL parameter.
func RequireOrganizationAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgIDStr := c.Param("id")
		orgID, err := strconv.ParseUint(orgIDStr, 10, 64)
		if err != nil {
			response.BadRequest(c, "Invalid organization ID")
			c.Abort()
			return
		}

		principal, exists := GetPrincipal(c)
		if !exists {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		var org models.Organization
		if err := database.GetDB().First(&org, orgID).Error; err != nil {
			response.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		var membership models.OrganizationMembership
		err = database.GetDB().
			Where("organization_id = ? AND user_id = ? AND is_active = ?", orgID, principal.SubjectID, true).
			First(&membership).Error
		if err != nil {
			// Return 404 instead of 403 to avoid leaking organization existence
			response.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOrganization, org)
		c.Set(constants.ContextKeyMembership, membership)
		c.Next()
	}
}

// RequireOrganizationRole restricts the handler to members holding one of the
// given roles. Must run after RequireOrganizationAccess.
func RequireOrganizationRole(roles ...models.OrganizationRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		membership, exists := GetMembership(c)
		if !exists {
			response.Forbidden(c, "Organization access required")
			c.Abort()
			return
		}

		for _, role := range roles {
			if membership.OrganizationRole == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient organization role")
		c.Abort()
	}
}

// GetOrganization returns the organization stored by RequireOrganizationAccess.
func GetOrganization(c *gin.Context) (models.Organization, bool) {
	value, exists := c.Get(constants.ContextKeyOrganization)
	if !exists {
		return models.Organization{}, false
	}
	org, ok := value.(models.Organization)
	return org, ok
}

// GetMembership returns the membership stored by RequireOrganizationAccess.
func GetMembership(c *gin.Context) (models.OrganizationMembership, bool) {
	value, exists := c.Get(constants.ContextKeyMembership)
	if !exists {
		return models.OrganizationMembership{}, false
	}
	membership, ok := value.(models.OrganizationMembership)
	return membership, ok
}
