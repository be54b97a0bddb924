package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/dto"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/middleware"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/response"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
)

// UserHandler coordinates current-user HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the principal's user record, profile and memberships.
func (h *UserHandler) Me(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.userService.Info(principal)
	if err != nil {
		response.InternalError(c, "Failed to load account info")
		return
	}

	response.OK(c, dto.ToAccountInfoDTO(info.User, info.Profile, info.Memberships))
}

// UpdateProfile applies a partial update to the principal's profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	type UpdateProfileRequest struct {
		Avatar                  *string `json:"avatar"`
		Bio                     *string `json:"bio"`
		PhoneNumber             *string `json:"phone_number"`
		Timezone                *string `json:"timezone"`
		Language                *string `json:"language"`
		NotificationPreferences *string `json:"notification_preferences"`
		SocialLinks             *string `json:"social_links"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(principal, services.UpdateProfileInput{
		Avatar:                  req.Avatar,
		Bio:                     req.Bio,
		PhoneNumber:             req.PhoneNumber,
		Timezone:                req.Timezone,
		Language:                req.Language,
		NotificationPreferences: req.NotificationPreferences,
		SocialLinks:             req.SocialLinks,
	})
	if err != nil {
		response.InternalError(c, "Failed to update profile")
		return
	}

	response.OK(c, dto.ToProfileDTO(*profile))
}
