package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"marketplace-backend/config"
	"marketplace-backend/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// The DB is only reached after the token checks pass, so these cases run
// against a nil database.
func TestAuthRequiredRejectsBadCredentials(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	guard := AuthRequired(nil, cfg)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Token abc"},
		{"malformed token", "Bearer not-a-token"},
		{"empty token", "Bearer "},
	}
	for _, tc := range cases {
		c, w := newTestContext(t)
		if tc.header != "" {
			c.Request.Header.Set("Authorization", tc.header)
		}

		guard(c)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, w.Code)
		}
		if !c.IsAborted() {
			t.Errorf("%s: expected request to be aborted", tc.name)
		}
	}
}

func TestSellerRequired(t *testing.T) {
	guard := SellerRequired()

	for _, role := range []models.Role{models.RoleSeller, models.RoleAdmin} {
		c, w := newTestContext(t)
		SetCurrentUser(c, models.User{Role: role})
		guard(c)
		if c.IsAborted() {
			t.Errorf("role %s: expected to pass, got %d", role, w.Code)
		}
	}

	c, w := newTestContext(t)
	SetCurrentUser(c, models.User{Role: models.RoleBuyer})
	guard(c)
	if w.Code != http.StatusForbidden || !c.IsAborted() {
		t.Errorf("buyer: expected 403, got %d", w.Code)
	}

	// Guard chain broken: no account attached at all.
	c, w = newTestContext(t)
	guard(c)
	if w.Code != http.StatusForbidden {
		t.Errorf("no user: expected 403, got %d", w.Code)
	}
}

func TestAdminRequired(t *testing.T) {
	guard := AdminRequired()

	c, w := newTestContext(t)
	SetCurrentUser(c, models.User{Role: models.RoleAdmin})
	guard(c)
	if c.IsAborted() {
		t.Errorf("admin: expected to pass, got %d", w.Code)
	}

	for _, role := range []models.Role{models.RoleBuyer, models.RoleSeller} {
		c, w := newTestContext(t)
		SetCurrentUser(c, models.User{Role: role})
		guard(c)
		if w.Code != http.StatusForbidden || !c.IsAborted() {
			t.Errorf("role %s: expected 403, got %d", role, w.Code)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	c, _ := newTestContext(t)
	if _, ok := CurrentUser(c); ok {
		t.Error("expected no user on fresh context")
	}

	want := models.User{Username: "alice", Role: models.RoleBuyer}
	SetCurrentUser(c, want)
	got, ok := CurrentUser(c)
	if !ok || got.Username != "alice" {
		t.Errorf("expected attached user back, got %+v", got)
	}
}
