package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvitationService(t *testing.T) (*gorm.DB, *InvitationService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.OrganizationMembership{},
		&models.Invitation{},
		&models.AuditLog{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	svc := NewInvitationService(
		repository.NewInvitationRepository(db),
		repository.NewMembershipRepository(db),
		repository.NewUserRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db)),
	)
	return db, svc
}

func seedMembership(t *testing.T, db *gorm.DB, subjectID string, orgID uint64, role models.OrganizationRole) {
	t.Helper()
	require.NoError(t, db.Create(&models.OrganizationMembership{
		UserID:           subjectID,
		OrganizationID:   orgID,
		OrganizationRole: role,
		IsActive:         true,
		JoinedAt:         time.Now(),
	}).Error)
}

func TestInvite_OwnerInvitesAdmin(t *testing.T) {
	db, svc := setupInvitationService(t)
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	seedMembership(t, db, "owner-1", 1, models.RoleOrgOwner)

	invitation, err := svc.Invite(identity.Principal{SubjectID: "owner-1", Email: "owner@acme.com"}, InviteInput{
		Email:          "new@acme.com",
		OrganizationID: 1,
		Role:           models.RoleOrgAdmin,
	})
	require.NoError(t, err)

	require.Equal(t, "new@acme.com", invitation.Email)
	require.Equal(t, models.RoleOrgAdmin, invitation.InvitedRole)
	require.Equal(t, "owner-1", invitation.InvitedBy)
	require.Len(t, invitation.Token, 32)
	require.False(t, invitation.IsAccepted)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), invitation.ExpiresAt, time.Minute)
}

func TestInvite_TokensAreUnique(t *testing.T) {
	db, svc := setupInvitationService(t)
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	seedMembership(t, db, "owner-1", 1, models.RoleOrgOwner)

	principal := identity.Principal{SubjectID: "owner-1"}
	first, err := svc.Invite(principal, InviteInput{Email: "a@acme.com", OrganizationID: 1, Role: models.RoleOrgMember})
	require.NoError(t, err)
	second, err := svc.Invite(principal, InviteInput{Email: "b@acme.com", OrganizationID: 1, Role: models.RoleOrgMember})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)
}

func TestInvite_RoleGates(t *testing.T) {
	db, svc := setupInvitationService(t)
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	seedMembership(t, db, "owner-1", 1, models.RoleOrgOwner)
	seedMembership(t, db, "admin-1", 1, models.RoleOrgAdmin)
	seedMembership(t, db, "member-1", 1, models.RoleOrgMember)

	// members cannot invite at all
	_, err := svc.Invite(identity.Principal{SubjectID: "member-1"}, InviteInput{
		Email: "x@acme.com", OrganizationID: 1, Role: models.RoleOrgMember,
	})
	require.ErrorIs(t, err, ErrInvitePermissionDenied)

	// admins cannot invite admins
	_, err = svc.Invite(identity.Principal{SubjectID: "admin-1"}, InviteInput{
		Email: "x@acme.com", OrganizationID: 1, Role: models.RoleOrgAdmin,
	})
	require.ErrorIs(t, err, ErrOnlyOwnersInviteAdmins)

	// admins can invite members
	_, err = svc.Invite(identity.Principal{SubjectID: "admin-1"}, InviteInput{
		Email: "x@acme.com", OrganizationID: 1, Role: models.RoleOrgMember,
	})
	require.NoError(t, err)

	// outsiders are not members
	_, err = svc.Invite(identity.Principal{SubjectID: "stranger"}, InviteInput{
		Email: "x@acme.com", OrganizationID: 1, Role: models.RoleOrgMember,
	})
	require.ErrorIs(t, err, ErrNotOrganizationMember)

	// owner role cannot be granted by invitation
	_, err = svc.Invite(identity.Principal{SubjectID: "owner-1"}, InviteInput{
		Email: "x@acme.com", OrganizationID: 1, Role: models.RoleOrgOwner,
	})
	require.ErrorIs(t, err, ErrInvalidInvitedRole)
}

func TestAccept(t *testing.T) {
	db, svc := setupInvitationService(t)
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	seedMembership(t, db, "owner-1", 1, models.RoleOrgOwner)

	invitation, err := svc.Invite(identity.Principal{SubjectID: "owner-1"}, InviteInput{
		Email: "new@acme.com", OrganizationID: 1, Role: models.RoleOrgMember,
	})
	require.NoError(t, err)

	member, err := svc.Accept(identity.Principal{SubjectID: "u-new", Email: "new@acme.com"}, invitation.Token)
	require.NoError(t, err)
	require.Equal(t, uint64(1), member.OrganizationID)
	require.Equal(t, models.RoleOrgMember, member.OrganizationRole)
	require.Equal(t, "owner-1", member.InvitedBy)

	// a minimal user record was minted for the new subject
	var user models.User
	require.NoError(t, db.Where("cognito_user_id = ?", "u-new").First(&user).Error)
	require.Equal(t, "new@acme.com", user.Email)

	// the token is consumed
	var stored models.Invitation
	require.NoError(t, db.First(&stored, invitation.ID).Error)
	require.True(t, stored.IsAccepted)
	require.NotNil(t, stored.AcceptedAt)
}

func TestAccept_EmailMustMatch(t *testing.T) {
	db, svc := setupInvitationService(t)
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	seedMembership(t, db, "owner-1", 1, models.RoleOrgOwner)

	invitation, err := svc.Invite(identity.Principal{SubjectID: "owner-1"}, InviteInput{
		Email: "new@acme.com", OrganizationID: 1, Role: models.RoleOrgMember,
	})
	require.NoError(t, err)

	_, err = svc.Accept(identity.Principal{SubjectID: "u-other", Email: "other@acme.com"}, invitation.Token)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestAccept_ExpiredToken(t *testing.T) {
	db, svc := setupInvitationService(t)
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	seedMembership(t, db, "owner-1", 1, models.RoleOrgOwner)

	invitation, err := svc.Invite(identity.Principal{SubjectID: "owner-1"}, InviteInput{
		Email: "new@acme.com", OrganizationID: 1, Role: models.RoleOrgMember,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Invitation{}).
		Where("id = ?", invitation.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Accept(identity.Principal{SubjectID: "u-new", Email: "new@acme.com"}, invitation.Token)
	require.ErrorIs(t, err, ErrInvitationExpired)
}

func TestAccept_TokenIsSingleUse(t *testing.T) {
	db, svc := setupInvitationService(t)
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	seedMembership(t, db, "owner-1", 1, models.RoleOrgOwner)

	invitation, err := svc.Invite(identity.Principal{SubjectID: "owner-1"}, InviteInput{
		Email: "new@acme.com", OrganizationID: 1, Role: models.RoleOrgMember,
	})
	require.NoError(t, err)

	principal := identity.Principal{SubjectID: "u-new", Email: "new@acme.com"}
	_, err = svc.Accept(principal, invitation.Token)
	require.NoError(t, err)

	_, err = svc.Accept(principal, invitation.Token)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestAccept_ReusesExistingUserRecord(t *testing.T) {
	db, svc := setupInvitationService(t)
	require.NoError(t, db.Create(&models.Organization{Name: "Acme"}).Error)
	seedMembership(t, db, "owner-1", 1, models.RoleOrgOwner)
	require.NoError(t, db.Create(&models.User{
		CognitoUserID: "u-new",
		Email:         "new@acme.com",
		FirstName:     "Grace",
	}).Error)

	invitation, err := svc.Invite(identity.Principal{SubjectID: "owner-1"}, InviteInput{
		Email: "new@acme.com", OrganizationID: 1, Role: models.RoleOrgMember,
	})
	require.NoError(t, err)

	_, err = svc.Accept(identity.Principal{SubjectID: "u-new", Email: "new@acme.com"}, invitation.Token)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("cognito_user_id = ?", "u-new").Count(&count).Error)
	require.EqualValues(t, 1, count, "no duplicate user record")
}
