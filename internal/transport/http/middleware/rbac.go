package middleware

import (
	"net/http"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/transport/http/api"
)

// RoleFunc yields the caller's role, or false when there is no caller.
type RoleFunc func(r *http.Request) (auth.Role, bool)

func RequireCapability(resolver *auth.Resolver, capability auth.Capability, roleOf RoleFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := roleOf(r)
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !resolver.Has(role, capability) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
