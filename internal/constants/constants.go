package constants

import "time"

// Gin context keys
const (
	ContextKeyPrincipal    = "principal"
	ContextKeyOrganization = "organization"
	ContextKeyMembership   = "organization_membership"
)

// Session
const (
	SessionCookieName            = "todo_session"
	SessionKeyJustCompleted      = "onboarding_just_completed"
	SessionKeyCompletionAttempts = "onboarding_completion_attempts"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Onboarding status polling
const (
	DefaultStatusRetries        = 3
	PostCompletionStatusRetries = 5
	MaxStatusRetries            = 5
	StatusRetryInterval         = time.Second

	// After this many forced-ready (degraded) outcomes in one session the
	// client is no longer redirected back into onboarding.
	MaxOnboardingCompletionAttempts = 2
)

// Invitations
const InvitationTTL = 7 * 24 * time.Hour
