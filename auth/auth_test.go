package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"velore/middleware"
	"velore/models"
	"velore/persist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doLogin(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req, nil)
	return rec
}

func TestLoginFallbackAdmin(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "admin123")
	store := persist.NewMemSubstrate()
	h := NewHandlers(store, nil)

	rec := doLogin(t, h, `{"email":"admin@velore.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	loggedIn, ok := persist.Load[bool](store, persist.KeyAdminLoggedIn)
	require.True(t, ok)
	assert.True(t, loggedIn)

	user, ok := persist.Load[models.AdminUser](store, persist.KeyAdminUser)
	require.True(t, ok)
	assert.Equal(t, "admin@velore.com", user.Email)
	assert.Equal(t, "admin", user.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "admin123")
	store := persist.NewMemSubstrate()
	h := NewHandlers(store, nil)

	rec := doLogin(t, h, `{"email":"admin@velore.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, ok := persist.Load[bool](store, persist.KeyAdminLoggedIn)
	assert.False(t, ok)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "admin123")
	h := NewHandlers(persist.NewMemSubstrate(), nil)

	rec := doLogin(t, h, `{"email":"admin@velore.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := middleware.ValidateJWT("Bearer " + resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin@velore.com", claims.Email)
}

func TestLogoutClearsSession(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "admin123")
	store := persist.NewMemSubstrate()
	h := NewHandlers(store, nil)

	require.Equal(t, http.StatusOK, doLogin(t, h, `{"email":"admin@velore.com","password":"admin123"}`).Code)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, ok := persist.Load[bool](store, persist.KeyAdminLoggedIn)
	assert.False(t, ok)
	_, ok = persist.Load[models.AdminUser](store, persist.KeyAdminUser)
	assert.False(t, ok)
}

func TestSessionWithoutLogin(t *testing.T) {
	h := NewHandlers(persist.NewMemSubstrate(), nil)

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isAdminLoggedIn":false`)
}
