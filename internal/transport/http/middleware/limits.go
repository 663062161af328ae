package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"hrmconsole/internal/requestctx"
	"hrmconsole/internal/transport/http/api"
)

// BodyLimit caps request bodies on writes. Declared lengths above the cap are
// refused before the handler runs.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
				if r.ContentLength > maxBytes {
					api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", GetRequestID(r.Context()))
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRateLimit throttles credential attempts per client address and per
// submitted email, whichever trips first.
func LoginRateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	byIP := httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(clientIPKey),
		httprate.WithLimitHandler(tooManyRequests),
	)
	byEmail := httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(EmailOrIPKey("email")),
		httprate.WithLimitHandler(tooManyRequests),
	)
	return func(next http.Handler) http.Handler {
		return byIP(byEmail(next))
	}
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	requestctx.Logger(r.Context()).Warn("rate limit exceeded", "path", r.URL.Path, "method", r.Method)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
}

func clientIPKey(r *http.Request) (string, error) {
	key, err := httprate.KeyByRealIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}

// EmailOrIPKey keys on a JSON body field, falling back to the client address.
// The body is restored for the next handler.
func EmailOrIPKey(field string) httprate.KeyFunc {
	field = strings.TrimSpace(field)
	if field == "" {
		field = "email"
	}
	return func(r *http.Request) (string, error) {
		if email := extractJSONField(r, field); email != "" {
			return "email:" + strings.ToLower(email), nil
		}
		return clientIPKey(r)
	}
}

func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}
