package middleware

import (
	"net/http"

	"github.com/unrolled/secure"

	"hrmconsole/internal/requestctx"
	"hrmconsole/internal/transport/http/api"
)

func SecureHeaders(isProd bool) func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:               true,
		ContentTypeNosniff:      true,
		ReferrerPolicy:          "no-referrer",
		PermissionsPolicy:       "geolocation=(self), microphone=(), camera=(), payment=()",
		ContentSecurityPolicy:   "default-src 'self'; base-uri 'self'; form-action 'self'; frame-ancestors 'none'; object-src 'none'; img-src 'self' data:",
		CrossOriginOpenerPolicy: "same-origin",
		STSSeconds:              63072000,
		STSIncludeSubdomains:    true,
		STSPreload:              true,
		SSLProxyHeaders:         map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:           !isProd,
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				requestctx.Logger(r.Context()).Warn("secure headers blocked request", "err", err)
				api.Fail(w, http.StatusBadRequest, "bad_request", "request rejected", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
