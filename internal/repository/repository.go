package repository

import (
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/utils"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error
}

// UserRepository defines the interface for user and profile data access.
// Users are keyed by the identity provider's subject id.
type UserRepository interface {
	// Create creates a new user record
	Create(user *models.User) error

	// FindBySubject finds the user record for an external subject id
	FindBySubject(subjectID string) (*models.User, error)

	// CreateProfile creates a user profile
	CreateProfile(profile *models.UserProfile) error

	// FindProfileBySubject finds the profile for an external subject id
	FindProfileBySubject(subjectID string) (*models.UserProfile, error)

	// UpdateProfile updates a user profile
	UpdateProfile(profile *models.UserProfile) error
}

// MembershipRepository defines the interface for organization membership data
// access. Existence of a membership row is what makes a principal "onboarded".
type MembershipRepository interface {
	// Create creates a new membership
	Create(member *models.OrganizationMembership) error

	// ListBySubject lists all memberships for an external subject id
	ListBySubject(subjectID string) ([]models.OrganizationMembership, error)

	// FindActive finds an active membership for a subject in an organization
	FindActive(organizationID uint64, subjectID string) (*models.OrganizationMembership, error)

	// ListByOrganization lists all members of an organization
	ListByOrganization(organizationID uint64) ([]models.OrganizationMembership, error)
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(invitation *models.Invitation) error

	// FindPendingByToken finds an unaccepted invitation by token and invitee
	// email
	FindPendingByToken(token, email string) (*models.Invitation, error)

	// MarkAccepted flips the single-use acceptance flag
	MarkAccepted(id uint64, acceptedAt time.Time) error

	// ListByOrganization lists invitations sent for an organization
	ListByOrganization(organizationID uint64) ([]models.Invitation, error)
}

// TodoFilter holds filtering options for listing todos
type TodoFilter struct {
	SubjectID      string
	OrganizationID *uint64
	Done           *bool
	Priority       *models.TodoPriority
	AssignedTo     *string
	Page           int
	PageSize       int
}

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create creates a new todo
	Create(todo *models.Todo) error

	// FindByID finds a todo by ID
	FindByID(id uint64) (*models.Todo, error)

	// List retrieves todos with filtering and pagination
	List(filter TodoFilter) ([]models.Todo, int64, error)

	// Update updates a todo
	Update(todo *models.Todo) error

	// Delete soft deletes a todo
	Delete(id uint64) error
}

// AuditLogRepository defines the interface for audit log data access
type AuditLogRepository interface {
	// Create appends an audit entry
	Create(entry *models.AuditLog) error

	// ListByOrganization lists audit entries for an organization, newest first
	ListByOrganization(organizationID uint64, params utils.PaginationParams) ([]models.AuditLog, int64, error)
}
