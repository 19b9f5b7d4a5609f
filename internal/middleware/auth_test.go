package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fashion-shop/internal/config"
	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"
	"fashion-shop/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserRepo overrides only the lookup the middleware needs.
type stubUserRepo struct {
	repository.UserRepository
	user *model.User
	err  error
}

func (s *stubUserRepo) GetByID(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return s.user, s.err
}

func testManager(accessTTL time.Duration) *token.Manager {
	return token.NewManager(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     accessTTL,
		RefreshTTL:    time.Hour,
	})
}

func authRouter(tokens *token.Manager, repo repository.UserRepository, roles ...model.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", Auth(tokens, repo, zerolog.Nop()))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		principal, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": principal.Email})
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, authHeader string) (*httptest.ResponseRecorder, model.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body model.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestAuth_MissingToken(t *testing.T) {
	r := authRouter(testManager(time.Hour), &stubUserRepo{})

	rec, body := doRequest(t, r, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body.Error, "missing bearer token")
}

func TestAuth_MalformedToken(t *testing.T) {
	r := authRouter(testManager(time.Hour), &stubUserRepo{})

	rec, body := doRequest(t, r, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body.Error, "invalid token")
}

func TestAuth_ExpiredTokenHasDistinctMessage(t *testing.T) {
	manager := testManager(-time.Minute)
	signed, err := manager.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	r := authRouter(testManager(-time.Minute), &stubUserRepo{})

	rec, body := doRequest(t, r, "Bearer "+signed)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body.Error, "token expired")
}

func TestAuth_DeactivatedUserRejected(t *testing.T) {
	manager := testManager(time.Hour)
	userID := uuid.New()
	signed, err := manager.GenerateAccessToken(userID)
	require.NoError(t, err)

	repo := &stubUserRepo{user: &model.User{ID: userID, IsActive: false}}
	r := authRouter(manager, repo)

	rec, _ := doRequest(t, r, "Bearer "+signed)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidTokenResolvesPrincipal(t *testing.T) {
	manager := testManager(time.Hour)
	userID := uuid.New()
	signed, err := manager.GenerateAccessToken(userID)
	require.NoError(t, err)

	repo := &stubUserRepo{user: &model.User{
		ID:       userID,
		Email:    "jane@example.com",
		IsActive: true,
		Roles:    []model.Role{model.RoleUser},
	}}
	r := authRouter(manager, repo)

	rec, _ := doRequest(t, r, "Bearer "+signed)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jane@example.com")
}

func TestRequireRole_ForbidsPlainUser(t *testing.T) {
	manager := testManager(time.Hour)
	userID := uuid.New()
	signed, err := manager.GenerateAccessToken(userID)
	require.NoError(t, err)

	repo := &stubUserRepo{user: &model.User{
		ID:       userID,
		IsActive: true,
		Roles:    []model.Role{model.RoleUser},
	}}
	r := authRouter(manager, repo, model.RoleAdmin)

	rec, body := doRequest(t, r, "Bearer "+signed)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, body.Error, "insufficient permissions")
}

func TestRequireRole_AllowsAnyListedRole(t *testing.T) {
	manager := testManager(time.Hour)
	userID := uuid.New()
	signed, err := manager.GenerateAccessToken(userID)
	require.NoError(t, err)

	repo := &stubUserRepo{user: &model.User{
		ID:       userID,
		Email:    "mod@example.com",
		IsActive: true,
		Roles:    []model.Role{model.RoleModerator},
	}}
	r := authRouter(manager, repo, model.RoleModerator, model.RoleAdmin)

	rec, _ := doRequest(t, r, "Bearer "+signed)

	assert.Equal(t, http.StatusOK, rec.Code)
}
