package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/constants"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrNotOrganizationMember     = errors.New("you are not a member of this organization")
	ErrInvitePermissionDenied    = errors.New("you don't have permission to invite users to this organization")
	ErrOnlyOwnersInviteAdmins    = errors.New("only organization owners can invite admins")
	ErrInvalidInvitedRole        = errors.New("invited role must be org_admin or org_member")
	ErrInvitationTokenGeneration = errors.New("failed to generate invitation token")
	ErrInvitationCreationFailed  = errors.New("failed to create invitation")
	ErrInvitationNotFound        = errors.New("invalid or expired invitation")
	ErrInvitationExpired         = errors.New("invitation has expired")
)

// InvitationService issues bounded-lifetime invitations into an organization
// and turns accepted ones into memberships.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	audit          *AuditService
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	audit *AuditService,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		audit:          audit,
	}
}

// InviteInput represents parameters for inviting a user.
type InviteInput struct {
	Email          string
	OrganizationID uint64
	Role           models.OrganizationRole
}

// Invite creates an invitation for an email address. The caller must hold an
// active owner or admin membership in the organization, and only owners may
// invite admins.
func (s *InvitationService) Invite(principal identity.Principal, input InviteInput) (*models.Invitation, error) {
	if input.Role != models.RoleOrgAdmin && input.Role != models.RoleOrgMember {
		return nil, ErrInvalidInvitedRole
	}

	member, err := s.membershipRepo.FindActive(input.OrganizationID, principal.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotOrganizationMember
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	if member.OrganizationRole != models.RoleOrgOwner && member.OrganizationRole != models.RoleOrgAdmin {
		return nil, ErrInvitePermissionDenied
	}
	if input.Role == models.RoleOrgAdmin && member.OrganizationRole != models.RoleOrgOwner {
		return nil, ErrOnlyOwnersInviteAdmins
	}

	token, err := utils.GenerateInvitationToken()
	if err != nil {
		return nil, ErrInvitationTokenGeneration
	}

	invitation := &models.Invitation{
		Email:          input.Email,
		OrganizationID: input.OrganizationID,
		InvitedRole:    input.Role,
		InvitedBy:      principal.SubjectID,
		Token:          token,
		ExpiresAt:      time.Now().Add(constants.InvitationTTL),
		IsAccepted:     false,
	}

	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvitationCreationFailed, err)
	}

	s.audit.Record(AuditEvent{
		SubjectID:      principal.SubjectID,
		OrganizationID: &input.OrganizationID,
		Action:         "user_invited",
		EntityType:     "Invitation",
		EntityID:       fmt.Sprintf("%d", invitation.ID),
		Details:        map[string]interface{}{"email": input.Email, "role": input.Role},
	})

	return invitation, nil
}

// Accept consumes an invitation token for the authenticated principal. The
// principal's verified email must match the invitation exactly, the token
// must be unconsumed and unexpired.
//
// An existing user record for the subject is reused; otherwise a minimal one
// is created (a prior partial onboarding attempt must not block acceptance).
// The membership is created strictly before the invitation is marked
// accepted, so a crash between the two leaves the invitation re-usable
// rather than the membership silently lost. The accept-flag update itself is
// best-effort.
func (s *InvitationService) Accept(principal identity.Principal, token string) (*models.OrganizationMembership, error) {
	invitation, err := s.invitationRepo.FindPendingByToken(token, principal.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if time.Now().After(invitation.ExpiresAt) {
		return nil, ErrInvitationExpired
	}

	if _, err := s.userRepo.FindBySubject(principal.SubjectID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up user record: %w", err)
		}
		user := &models.User{
			CognitoUserID: principal.SubjectID,
			Email:         principal.Email,
			IsActive:      true,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUserCreationFailed, err)
		}
	}

	member := &models.OrganizationMembership{
		UserID:           principal.SubjectID,
		OrganizationID:   invitation.OrganizationID,
		OrganizationRole: invitation.InvitedRole,
		IsActive:         true,
		JoinedAt:         time.Now(),
		InvitedBy:        invitation.InvitedBy,
	}
	if err := s.membershipRepo.Create(member); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMembershipCreationFailed, err)
	}

	if err := s.invitationRepo.MarkAccepted(invitation.ID, time.Now()); err != nil {
		// The membership already exists; losing the flag only means the
		// invitation stays visible as pending.
		log.Printf("invitation: failed to mark invitation %d accepted: %v", invitation.ID, err)
	}

	s.audit.Record(AuditEvent{
		SubjectID:      principal.SubjectID,
		OrganizationID: &invitation.OrganizationID,
		Action:         "invitation_accepted",
		EntityType:     "OrganizationMembership",
		EntityID:       fmt.Sprintf("%d", member.ID),
	})

	return member, nil
}

// ListForOrganization returns invitations sent for an organization.
func (s *InvitationService) ListForOrganization(organizationID uint64) ([]models.Invitation, error) {
	invitations, err := s.invitationRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}
