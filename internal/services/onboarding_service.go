package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/onboarding"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNameRequired   = errors.New("organization name cannot be empty")
	ErrOrganizationCreationFailed = errors.New("failed to create organization")
	ErrUserCreationFailed         = errors.New("failed to create user record")
	ErrMembershipCreationFailed   = errors.New("failed to create organization membership")
)

// OnboardingService runs the multi-step creation transaction for a newly
// authenticated principal and answers onboarding status queries.
type OnboardingService struct {
	orgRepo        repository.OrganizationRepository
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	audit          *AuditService
}

// NewOnboardingService creates a new OnboardingService.
func NewOnboardingService(
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	audit *AuditService,
) *OnboardingService {
	return &OnboardingService{
		orgRepo:        orgRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		audit:          audit,
	}
}

// OnboardingInput is the user-supplied part of the onboarding transaction.
type OnboardingInput struct {
	OrganizationName string
	FirstName        string
	LastName         string
}

// OnboardingSnapshot captures the records the transaction created. Profile is
// nil when its best-effort creation failed.
type OnboardingSnapshot struct {
	Organization *models.Organization
	User         *models.User
	Membership   *models.OrganizationMembership
	Profile      *models.UserProfile
}

// CreateUserOrganization runs the onboarding transaction: organization, user
// record, owner membership, profile, in that fixed order. Each step is a
// separate store write with no cross-entity atomicity and no compensation; a
// failure in steps 1-3 aborts and may leave earlier records orphaned. Profile
// creation failure is logged and swallowed.
//
// The transaction is NOT idempotent: running it twice for the same principal
// creates a second organization and membership. Callers gate it on the
// poller's needs-onboarding verdict.
func (s *OnboardingService) CreateUserOrganization(principal identity.Principal, input OnboardingInput) (*OnboardingSnapshot, error) {
	if strings.TrimSpace(input.OrganizationName) == "" {
		return nil, ErrOrganizationNameRequired
	}

	// Step 1: organization
	org := &models.Organization{
		Name:        input.OrganizationName,
		Description: fmt.Sprintf("Organization for %s", input.OrganizationName),
		IsActive:    true,
	}
	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrganizationCreationFailed, err)
	}

	// Step 2: user record. SystemRole stays nil; it is assigned out-of-band.
	user := &models.User{
		CognitoUserID: principal.SubjectID,
		Email:         principal.Email,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		IsActive:      true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserCreationFailed, err)
	}

	// Step 3: owner membership. This row is what flips the principal to
	// "onboarded"; failing here leaves a user record but no membership, and a
	// re-run must succeed despite it.
	member := &models.OrganizationMembership{
		UserID:           principal.SubjectID,
		OrganizationID:   org.ID,
		OrganizationRole: models.RoleOrgOwner,
		IsActive:         true,
		JoinedAt:         time.Now(),
	}
	if err := s.membershipRepo.Create(member); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMembershipCreationFailed, err)
	}

	// Step 4: profile, best-effort
	profile := &models.UserProfile{
		UserID:   principal.SubjectID,
		Timezone: "UTC",
		Language: "en",
	}
	if err := s.userRepo.CreateProfile(profile); err != nil {
		log.Printf("onboarding: profile creation failed for %s: %v", principal.SubjectID, err)
		profile = nil
	}

	s.audit.Record(AuditEvent{
		SubjectID:      principal.SubjectID,
		OrganizationID: &org.ID,
		Action:         "onboarding_completed",
		EntityType:     "Organization",
		EntityID:       fmt.Sprintf("%d", org.ID),
	})

	return &OnboardingSnapshot{
		Organization: org,
		User:         user,
		Membership:   member,
		Profile:      profile,
	}, nil
}

// Status reports whether the principal has a membership (the onboarding
// criterion) and whether a user record exists. It implements
// onboarding.Checker so the poller can drive it.
func (s *OnboardingService) Status(ctx context.Context, subjectID string) (*onboarding.Status, error) {
	memberships, err := s.membershipRepo.ListBySubject(subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	status := &onboarding.Status{
		HasOrganization: len(memberships) > 0,
		Memberships:     memberships,
	}

	user, err := s.userRepo.FindBySubject(subjectID)
	if err == nil {
		status.HasUserRecord = true
		status.UserRecord = user
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user record: %w", err)
	}

	return status, nil
}
