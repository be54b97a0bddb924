package handlers

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/constants"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/dto"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/middleware"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/onboarding"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/response"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
)

// OnboardingHandler coordinates the onboarding transaction and the status
// poller over HTTP.
type OnboardingHandler struct {
	onboardingService *services.OnboardingService
	provider          identity.Provider
	poller            *onboarding.Poller
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingService *services.OnboardingService, provider identity.Provider, poller *onboarding.Poller) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingService: onboardingService,
		provider:          provider,
		poller:            poller,
	}
}

// Complete runs the onboarding transaction for the authenticated principal
// and marks the session so the next status check polls in post-completion
// mode.
func (h *OnboardingHandler) Complete(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	type CompleteRequest struct {
		OrganizationName string `json:"organization_name" binding:"required"`
		FirstName        string `json:"first_name"`
		LastName         string `json:"last_name"`
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snapshot, err := h.onboardingService.CreateUserOrganization(principal, services.OnboardingInput{
		OrganizationName: req.OrganizationName,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
	})
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNameRequired) {
			response.BadRequest(c, "Organization name is required")
			return
		}
		response.InternalError(c, "Onboarding failed")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyJustCompleted, true)
	session.Set(constants.SessionKeyCompletionAttempts, 0)
	if err := session.Save(); err != nil {
		response.InternalError(c, "Failed to save session")
		return
	}

	response.Created(c, dto.ToOnboardingResultDTO(*snapshot))
}

// Status resolves the principal's onboarding state. It intentionally sits
// outside RequireAuth: an unauthenticated request resolves to ready with
// needs_onboarding false, so the UI never traps a logged-out visitor on the
// onboarding screen.
func (h *OnboardingHandler) Status(c *gin.Context) {
	subjectID := ""
	if principal, err := h.provider.CurrentUser(c.Request); err == nil {
		subjectID = principal.SubjectID
	}

	session := sessions.Default(c)
	justCompleted, _ := session.Get(constants.SessionKeyJustCompleted).(bool)
	attempts, _ := session.Get(constants.SessionKeyCompletionAttempts).(int)

	postCompletion := justCompleted || c.Query("post_completion") == "true"

	resolution, err := h.poller.Resolve(c.Request.Context(), subjectID, postCompletion)
	if err != nil {
		if errors.Is(err, onboarding.ErrCheckInFlight) {
			response.Conflict(c, "Status check already in progress")
			return
		}
		response.InternalError(c, "Status check aborted")
		return
	}

	if resolution.State == onboarding.StateError {
		response.ServiceUnavailable(c, "Unable to determine onboarding status")
		return
	}

	sessionDirty := false
	switch {
	case resolution.State == onboarding.StateReady && !resolution.Degraded:
		if justCompleted || attempts != 0 {
			session.Delete(constants.SessionKeyJustCompleted)
			session.Set(constants.SessionKeyCompletionAttempts, 0)
			sessionDirty = true
		}
	case resolution.Degraded:
		if attempts < constants.MaxOnboardingCompletionAttempts {
			attempts++
		}
		session.Delete(constants.SessionKeyJustCompleted)
		session.Set(constants.SessionKeyCompletionAttempts, attempts)
		sessionDirty = true
	}
	if sessionDirty {
		if err := session.Save(); err != nil {
			response.InternalError(c, "Failed to save session")
			return
		}
	}

	statusDTO := dto.ToOnboardingStatusDTO(*resolution)

	// A session that already burned its completion attempts is not sent back
	// to the onboarding form again; it would only mint more duplicate
	// organizations.
	if statusDTO.NeedsOnboarding && attempts >= constants.MaxOnboardingCompletionAttempts {
		statusDTO.NeedsOnboarding = false
		statusDTO.Degraded = true
	}

	response.OK(c, statusDTO)
}
