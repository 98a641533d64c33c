package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	transport "github.com/krishna-gitAcc/hospital-management-project/internal/adapters/transport/http"
	"github.com/krishna-gitAcc/hospital-management-project/internal/adapters/transport/http/middleware"
	appjwt "github.com/krishna-gitAcc/hospital-management-project/internal/app/auth/jwt"
	appsvc "github.com/krishna-gitAcc/hospital-management-project/internal/app/auth/service"
	authErrors "github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/errors"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
	"github.com/krishna-gitAcc/hospital-management-project/internal/infra/config"
)

/* ──────────────────────────────── stubs ──────────────────────────────── */

type userRepoStub struct {
	users map[string]model.User
	calls int
}

func (u *userRepoStub) CreateUser(_ context.Context, m model.User) (uuid.UUID, error) {
	u.calls++
	if _, ok := u.users[m.Email]; ok {
		return uuid.Nil, authErrors.ErrAlreadyExists
	}
	u.users[m.Email] = m
	return m.ID, nil
}

func (u *userRepoStub) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	u.calls++
	v, ok := u.users[email]
	if !ok {
		return model.User{}, authErrors.ErrNotFound
	}
	return v, nil
}

func (u *userRepoStub) ExistsByEmail(_ context.Context, email string) (bool, error) {
	u.calls++
	_, ok := u.users[email]
	return ok, nil
}

func (u *userRepoStub) UpdateUser(_ context.Context, m model.User) error {
	u.users[m.Email] = m
	return nil
}

func (u *userRepoStub) CountByRole(_ context.Context, _ model.Role) (int64, error) { return 0, nil }

type sessionRepoStub struct{}

func (sessionRepoStub) CreateSession(_ context.Context, _ string) (string, error) {
	return uuid.NewString(), nil
}

type tokenRepoStub struct{}

func (tokenRepoStub) Revoke(_ context.Context, _ string, _ time.Time) error { return nil }
func (tokenRepoStub) IsRevoked(_ context.Context, _ string) (bool, error)  { return false, nil }

/* ───────────────────────────── helpers ───────────────────────────── */

const gatewaySecret = "hospital-secret-key"

func newRouter(t *testing.T) (*gin.Engine, *userRepoStub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:       "test-secret-which-is-long-enough",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	util, err := appjwt.NewJWTUtil(cfg)
	require.NoError(t, err)

	ur := &userRepoStub{users: make(map[string]model.User)}
	svc := appsvc.New(ur, sessionRepoStub{}, tokenRepoStub{}, util, cfg, validator.New())

	r := gin.New()
	r.Use(middleware.NewGatewayFilter("X-Gateway-Secret", gatewaySecret))
	transport.NewHandler(svc, zap.NewNop()).RegisterRoutes(r)
	return r, ur
}

func do(t *testing.T, r *gin.Engine, path string, body any, withSecret bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if withSecret {
		req.Header.Set("X-Gateway-Secret", gatewaySecret)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

/* ───────────────────────────── tests ───────────────────────────── */

func TestHandler_RegisterDefaultsToPatient(t *testing.T) {
	r, _ := newRouter(t)

	w, out := do(t, r, "/auth/register", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 200, w.Code)
	require.Equal(t, "PATIENT", out["role"])
	require.Equal(t, "a@x.com", out["email"])
	require.NotEmpty(t, out["user_id"])
	require.NotContains(t, out, "access_token")
	require.NotContains(t, out, "refresh_token")
}

func TestHandler_RegisterUnknownRole(t *testing.T) {
	r, _ := newRouter(t)

	w, _ := do(t, r, "/auth/register?role=WIZARD", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 400, w.Code)
}

func TestHandler_RegisterDuplicate(t *testing.T) {
	r, _ := newRouter(t)

	w, _ := do(t, r, "/auth/register", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 200, w.Code)
	w, out := do(t, r, "/auth/register", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 409, w.Code)
	require.Equal(t, "email already exists", out["error"])
}

func TestHandler_LoginBasicScenario(t *testing.T) {
	r, _ := newRouter(t)

	w, _ := do(t, r, "/auth/register?role=DOCTOR", gin.H{"email": "doc@h.com", "password": "secret"}, true)
	require.Equal(t, 200, w.Code)

	w, out := do(t, r, "/auth/login/basic", gin.H{"email": "doc@h.com", "password": "secret"}, true)
	require.Equal(t, 200, w.Code)
	require.NotEmpty(t, out["access_token"])
	require.NotContains(t, out, "refresh_token")
	require.Equal(t, "DOCTOR", out["role"])
}

func TestHandler_LoginTokenAndRefresh(t *testing.T) {
	r, _ := newRouter(t)

	w, _ := do(t, r, "/auth/register", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 200, w.Code)

	w, out := do(t, r, "/auth/login/token", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 200, w.Code)
	require.NotEmpty(t, out["access_token"])
	require.NotEmpty(t, out["refresh_token"])

	w, out2 := do(t, r, "/auth/refresh", gin.H{"refresh_token": out["refresh_token"]}, true)
	require.Equal(t, 200, w.Code)
	require.NotEmpty(t, out2["access_token"])
	require.NotEmpty(t, out2["refresh_token"])
}

func TestHandler_LoginSession(t *testing.T) {
	r, _ := newRouter(t)

	w, _ := do(t, r, "/auth/register", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 200, w.Code)

	w, out := do(t, r, "/auth/login/session", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 200, w.Code)
	require.NotEmpty(t, out["session_id"])
	require.NotContains(t, out, "access_token")
}

func TestHandler_InvalidCredentialsMessageUniform(t *testing.T) {
	r, _ := newRouter(t)

	w, _ := do(t, r, "/auth/register", gin.H{"email": "a@x.com", "password": "p4ssword"}, true)
	require.Equal(t, 200, w.Code)

	w, outWrong := do(t, r, "/auth/login/token", gin.H{"email": "a@x.com", "password": "nope"}, true)
	require.Equal(t, 401, w.Code)

	w, outGhost := do(t, r, "/auth/login/token", gin.H{"email": "ghost@x.com", "password": "nope"}, true)
	require.Equal(t, 401, w.Code)

	require.Equal(t, outWrong["error"], outGhost["error"])
}

func TestHandler_RefreshInvalidToken(t *testing.T) {
	r, _ := newRouter(t)

	w, out := do(t, r, "/auth/refresh", gin.H{"refresh_token": "garbage"}, true)
	require.Equal(t, 401, w.Code)
	require.Equal(t, "invalid token", out["error"])
}

func TestHandler_Logout(t *testing.T) {
	r, _ := newRouter(t)

	w, out := do(t, r, "/auth/logout", nil, true)
	require.Equal(t, 200, w.Code)
	require.Equal(t, "logged out", out["message"])
}

func TestHandler_GatewayFilterShortCircuits(t *testing.T) {
	r, ur := newRouter(t)

	w, out := do(t, r, "/auth/login/token", gin.H{"email": "a@x.com", "password": "p4ssword"}, false)
	require.Equal(t, 403, w.Code)
	require.Equal(t, "Access Denied: Only Gateway can access this service", out["error"])
	// the store must never be touched on a rejected request
	require.Zero(t, ur.calls)
}
