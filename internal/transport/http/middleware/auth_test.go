package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/domain/auth"
)

type revokedSet map[string]bool

func (s revokedSet) Revoked(token string) bool { return s[token] }

func TestAuthMiddlewareSetsClaims(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", Email: "hr@co.com", Roles: []string{"ROLE_HR"}}, time.Hour)
	require.NoError(t, err)

	var role auth.Role
	handler := Auth(secret, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		require.True(t, ok)
		assert.Equal(t, "u1", claims.UserID)
		role, _ = ClaimsRole(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, auth.RoleManager, role)
}

func TestAuthMiddlewareAnonymous(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic " + token,
		"bad secret":   "Bearer " + mustToken(t, "other"),
		"revoked":      "Bearer " + token,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			h := Auth(secret, revokedSet{token: true})(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("anonymous request reached handler")
			})))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u2"}, time.Hour)
	require.NoError(t, err)
	return token
}

func TestRequireCapability(t *testing.T) {
	resolver := auth.DefaultResolver()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	roleOf := func(role auth.Role, present bool) RoleFunc {
		return func(*http.Request) (auth.Role, bool) { return role, present }
	}

	tests := []struct {
		name    string
		role    auth.Role
		present bool
		want    int
	}{
		{"manager approves", auth.RoleManager, true, http.StatusNoContent},
		{"employee refused", auth.RoleEmployee, true, http.StatusForbidden},
		{"anonymous", "", false, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := RequireCapability(resolver, auth.CapApproveLeave, roleOf(tc.role, tc.present))(ok)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leave/1/approve", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
