package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/platform/metrics"
	"hrmconsole/internal/requestctx"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}

func TestLoggerRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := metrics.New()

	h := RequestID(logger)(Logger(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestctx.Logger(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	out := buf.String()
	assert.Contains(t, out, `"msg":"http request"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"requestId"`)
	n, err := testutil.GatherAndCount(m.Registry(), "hrms_console_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSecureHeaders(t *testing.T) {
	h := SecureHeaders(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestBodyLimit(t *testing.T) {
	h := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{}")))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLoginRateLimitByEmail(t *testing.T) {
	var reached []string
	h := LoginRateLimit(2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = append(reached, extractJSONField(r, "email"))
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(email, ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("a@co.com", "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, send("A@co.com", "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("a@co.com", "10.0.0.3"))
	assert.Equal(t, http.StatusNoContent, send("b@co.com", "10.0.0.4"))
	assert.Equal(t, []string{"a@co.com", "A@co.com", "b@co.com"}, reached)
}

func TestLoginRateLimitDisabled(t *testing.T) {
	h := LoginRateLimit(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}
