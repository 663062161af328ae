package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/transport/http/api"
)

type ctxKey string

const ctxKeyClaims ctxKey = "claims"

// Revocations reports bearer tokens that were logged out before expiry.
type Revocations interface {
	Revoked(token string) bool
}

// Auth attaches verified bearer claims to the request context. Requests
// without a usable token pass through anonymous.
func Auth(secret string, revoked Revocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if revoked != nil && revoked.Revoked(token) {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyClaims, *claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth refuses anonymous requests with a 401 envelope.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClaims(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(ctxKeyClaims).(auth.Claims)
	return claims, ok
}

// ClaimsRole is a RoleFunc reading the role from verified bearer claims.
func ClaimsRole(r *http.Request) (auth.Role, bool) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		return "", false
	}
	return auth.NormalizeRoles(claims.Roles), true
}
