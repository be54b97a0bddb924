package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOnboardingService(t *testing.T, migrate ...interface{}) (*gorm.DB, *OnboardingService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	if len(migrate) == 0 {
		migrate = []interface{}{
			&models.Organization{},
			&models.User{},
			&models.OrganizationMembership{},
			&models.UserProfile{},
			&models.AuditLog{},
		}
	}
	require.NoError(t, db.AutoMigrate(migrate...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	svc := NewOnboardingService(
		repository.NewOrganizationRepository(db),
		repository.NewUserRepository(db),
		repository.NewMembershipRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db)),
	)
	return db, svc
}

func TestCreateUserOrganization(t *testing.T) {
	db, svc := setupOnboardingService(t)

	principal := identity.Principal{SubjectID: "u1", Email: "u1@x.com"}
	snapshot, err := svc.CreateUserOrganization(principal, OnboardingInput{
		OrganizationName: "Acme",
		FirstName:        "Ada",
		LastName:         "Lovelace",
	})
	require.NoError(t, err)

	require.Equal(t, "Acme", snapshot.Organization.Name)
	require.Equal(t, "Organization for Acme", snapshot.Organization.Description)
	require.True(t, snapshot.Organization.IsActive)

	require.Equal(t, "u1", snapshot.User.CognitoUserID)
	require.Equal(t, "u1@x.com", snapshot.User.Email)
	require.Nil(t, snapshot.User.SystemRole, "system role is assigned out-of-band")

	require.Equal(t, models.RoleOrgOwner, snapshot.Membership.OrganizationRole)
	require.Equal(t, snapshot.Organization.ID, snapshot.Membership.OrganizationID)
	require.Equal(t, "u1", snapshot.Membership.UserID)

	require.NotNil(t, snapshot.Profile)
	require.Equal(t, "UTC", snapshot.Profile.Timezone)
	require.Equal(t, "en", snapshot.Profile.Language)

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", "onboarding_completed").Count(&auditCount).Error)
	require.EqualValues(t, 1, auditCount)
}

func TestCreateUserOrganization_EmptyNameRejected(t *testing.T) {
	_, svc := setupOnboardingService(t)

	principal := identity.Principal{SubjectID: "u1", Email: "u1@x.com"}
	_, err := svc.CreateUserOrganization(principal, OnboardingInput{OrganizationName: "   "})
	require.ErrorIs(t, err, ErrOrganizationNameRequired)
}

// Running the flow twice is deliberately not idempotent: each run mints a
// fresh organization and membership.
func TestCreateUserOrganization_NotIdempotent(t *testing.T) {
	db, svc := setupOnboardingService(t)

	principal := identity.Principal{SubjectID: "u1", Email: "u1@x.com"}
	first, err := svc.CreateUserOrganization(principal, OnboardingInput{OrganizationName: "Acme"})
	require.NoError(t, err)
	second, err := svc.CreateUserOrganization(principal, OnboardingInput{OrganizationName: "Acme"})
	require.NoError(t, err)

	require.NotEqual(t, first.Organization.ID, second.Organization.ID)

	var orgCount, memberCount int64
	require.NoError(t, db.Model(&models.Organization{}).Count(&orgCount).Error)
	require.NoError(t, db.Model(&models.OrganizationMembership{}).Where("user_id = ?", "u1").Count(&memberCount).Error)
	require.EqualValues(t, 2, orgCount)
	require.EqualValues(t, 2, memberCount)
}

// Profile creation is best-effort: with no user_profiles table the write
// fails, but the flow still succeeds with a nil profile.
func TestCreateUserOrganization_ProfileFailureTolerated(t *testing.T) {
	_, svc := setupOnboardingService(t,
		&models.Organization{},
		&models.User{},
		&models.OrganizationMembership{},
		&models.AuditLog{},
	)

	principal := identity.Principal{SubjectID: "u1", Email: "u1@x.com"}
	snapshot, err := svc.CreateUserOrganization(principal, OnboardingInput{OrganizationName: "Acme"})
	require.NoError(t, err)
	require.Nil(t, snapshot.Profile)
	require.NotNil(t, snapshot.Membership)
}

// A rejected organization write aborts the flow before any later step runs.
func TestCreateUserOrganization_OrgWriteFailureAborts(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO `organizations`").WillReturnError(gorm.ErrInvalidDB)

	svc := NewOnboardingService(
		repository.NewOrganizationRepository(db),
		repository.NewUserRepository(db),
		repository.NewMembershipRepository(db),
		nil,
	)

	principal := identity.Principal{SubjectID: "u1", Email: "u1@x.com"}
	_, err = svc.CreateUserOrganization(principal, OnboardingInput{OrganizationName: "Acme"})
	require.ErrorIs(t, err, ErrOrganizationCreationFailed)
	require.NoError(t, mock.ExpectationsWereMet(), "no user, membership or profile write may follow")
}

func TestStatus(t *testing.T) {
	db, svc := setupOnboardingService(t)
	ctx := context.Background()

	// Nothing exists yet.
	status, err := svc.Status(ctx, "u1")
	require.NoError(t, err)
	require.False(t, status.HasOrganization)
	require.False(t, status.HasUserRecord)
	require.Empty(t, status.Memberships)

	// A user record alone does not count as onboarded.
	require.NoError(t, db.Create(&models.User{CognitoUserID: "u1", Email: "u1@x.com"}).Error)
	status, err = svc.Status(ctx, "u1")
	require.NoError(t, err)
	require.False(t, status.HasOrganization)
	require.True(t, status.HasUserRecord)

	// The membership row is the onboarding criterion.
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	require.NoError(t, db.Create(&models.OrganizationMembership{
		UserID:           "u1",
		OrganizationID:   1,
		OrganizationRole: models.RoleOrgOwner,
		IsActive:         true,
	}).Error)
	status, err = svc.Status(ctx, "u1")
	require.NoError(t, err)
	require.True(t, status.HasOrganization)
	require.Len(t, status.Memberships, 1)
}
