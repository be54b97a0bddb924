package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/constants"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/database"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/middleware"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type invitationTestEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	provider *identity.JWTProvider
}

func setupInvitationTestEnv(t *testing.T) invitationTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.OrganizationMembership{},
		&models.Invitation{},
		&models.AuditLog{},
	))
	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	provider := identity.NewJWTProvider("test-secret")

	auditService := services.NewAuditService(repository.NewAuditLogRepository(db))
	invitationService := services.NewInvitationService(
		repository.NewInvitationRepository(db),
		repository.NewMembershipRepository(db),
		repository.NewUserRepository(db),
		auditService,
	)
	handler := NewInvitationHandler(invitationService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	auth := middleware.RequireAuth(provider)
	r.POST("/api/invitations", auth, handler.Invite)
	r.POST("/api/invitations/accept", auth, handler.Accept)
	r.GET("/api/organizations/:id/invitations", auth,
		middleware.RequireOrganizationAccess(),
		middleware.RequireOrganizationRole(models.RoleOrgOwner, models.RoleOrgAdmin),
		handler.ListForOrganization)

	return invitationTestEnv{db: db, router: r, provider: provider}
}

func (env invitationTestEnv) token(t *testing.T, subject, email string) string {
	t.Helper()
	token, err := env.provider.Issue(subject, email, time.Hour)
	require.NoError(t, err)
	return token
}

func (env invitationTestEnv) invite(t *testing.T, token, email, role string) *httptest.ResponseRecorder {
	t.Helper()
	return env.do(t, http.MethodPost, "/api/invitations", token, map[string]interface{}{
		"email":           email,
		"organization_id": 1,
		"role":            role,
	})
}

func (env invitationTestEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env invitationTestEnv) seedOrgWithOwner(t *testing.T, ownerSubject string) {
	t.Helper()
	require.NoError(t, env.db.Create(&models.Organization{Name: "Acme"}).Error)
	require.NoError(t, env.db.Create(&models.OrganizationMembership{
		UserID:           ownerSubject,
		OrganizationID:   1,
		OrganizationRole: models.RoleOrgOwner,
		IsActive:         true,
		JoinedAt:         time.Now(),
	}).Error)
}

func TestInvite_CreatesInvitationWithToken(t *testing.T) {
	env := setupInvitationTestEnv(t)
	env.seedOrgWithOwner(t, "owner-1")
	token := env.token(t, "owner-1", "owner@acme.com")

	w := env.invite(t, token, "new@acme.com", "org_member")
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeEnvelope(t, w)
	require.Equal(t, "new@acme.com", data["email"])
	require.Equal(t, "org_member", data["invited_role"])
	require.Len(t, data["token"], 32, "creation response carries the raw token")
}

func TestInvite_MemberForbidden(t *testing.T) {
	env := setupInvitationTestEnv(t)
	env.seedOrgWithOwner(t, "owner-1")
	require.NoError(t, env.db.Create(&models.OrganizationMembership{
		UserID:           "member-1",
		OrganizationID:   1,
		OrganizationRole: models.RoleOrgMember,
		IsActive:         true,
		JoinedAt:         time.Now(),
	}).Error)

	token := env.token(t, "member-1", "member@acme.com")
	w := env.invite(t, token, "new@acme.com", "org_member")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvite_InvalidRole(t *testing.T) {
	env := setupInvitationTestEnv(t)
	env.seedOrgWithOwner(t, "owner-1")

	token := env.token(t, "owner-1", "owner@acme.com")
	w := env.invite(t, token, "new@acme.com", "org_owner")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAcceptInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)
	env.seedOrgWithOwner(t, "owner-1")
	ownerToken := env.token(t, "owner-1", "owner@acme.com")

	created := env.invite(t, ownerToken, "new@acme.com", "org_member")
	require.Equal(t, http.StatusCreated, created.Code)
	inviteToken := decodeEnvelope(t, created)["token"].(string)

	newToken := env.token(t, "u-new", "new@acme.com")
	w := env.do(t, http.MethodPost, "/api/invitations/accept", newToken, map[string]string{
		"token": inviteToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeEnvelope(t, w)
	require.EqualValues(t, 1, data["organization_id"])
	require.Equal(t, "org_member", data["role"])

	// second redemption fails: the token is single-use
	again := env.do(t, http.MethodPost, "/api/invitations/accept", newToken, map[string]string{
		"token": inviteToken,
	})
	require.Equal(t, http.StatusNotFound, again.Code)
}

func TestAcceptInvitation_EmailMismatch(t *testing.T) {
	env := setupInvitationTestEnv(t)
	env.seedOrgWithOwner(t, "owner-1")
	ownerToken := env.token(t, "owner-1", "owner@acme.com")

	created := env.invite(t, ownerToken, "new@acme.com", "org_member")
	inviteToken := decodeEnvelope(t, created)["token"].(string)

	otherToken := env.token(t, "u-other", "other@acme.com")
	w := env.do(t, http.MethodPost, "/api/invitations/accept", otherToken, map[string]string{
		"token": inviteToken,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAcceptInvitation_Expired(t *testing.T) {
	env := setupInvitationTestEnv(t)
	env.seedOrgWithOwner(t, "owner-1")
	ownerToken := env.token(t, "owner-1", "owner@acme.com")

	created := env.invite(t, ownerToken, "new@acme.com", "org_member")
	inviteToken := decodeEnvelope(t, created)["token"].(string)

	require.NoError(t, env.db.Model(&models.Invitation{}).
		Where("token = ?", inviteToken).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	newToken := env.token(t, "u-new", "new@acme.com")
	w := env.do(t, http.MethodPost, "/api/invitations/accept", newToken, map[string]string{
		"token": inviteToken,
	})
	require.Equal(t, http.StatusGone, w.Code)
}

func TestListInvitations_OmitsTokens(t *testing.T) {
	env := setupInvitationTestEnv(t)
	env.seedOrgWithOwner(t, "owner-1")
	ownerToken := env.token(t, "owner-1", "owner@acme.com")

	created := env.invite(t, ownerToken, "new@acme.com", "org_member")
	require.Equal(t, http.StatusCreated, created.Code)

	w := env.do(t, http.MethodGet, "/api/organizations/1/invitations", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	require.NotContains(t, envelope.Data[0], "token")
}
