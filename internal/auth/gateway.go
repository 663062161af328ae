// Package authgateway turns credentials into a console session and tears it
// down again. It also hosts the role-switch control used for demos.
package authgateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hrmconsole/internal/apiclient"
	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/platform/metrics"
	"hrmconsole/internal/platform/storage"
	"hrmconsole/internal/session"
)

const (
	loginEndpoint  = "/auth/login"
	logoutEndpoint = "/auth/logout"
	revokeTimeout  = 5 * time.Second
)

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token      string   `json:"token"`
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	EmployeeID string   `json:"employeeId"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Roles      []string `json:"roles"`
}

type Gateway struct {
	client   *apiclient.Client
	sessions *session.Store
	storage  storage.Storage
	metrics  *metrics.Collector
	logger   *slog.Logger
	validate *validator.Validate

	revokeOnLogout bool
}

type Option func(*Gateway)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithServerLogout makes Logout ask the backend to revoke the token first.
func WithServerLogout(enabled bool) Option {
	return func(g *Gateway) { g.revokeOnLogout = enabled }
}

func New(client *apiclient.Client, sessions *session.Store, st storage.Storage, opts ...Option) *Gateway {
	g := &Gateway{
		client:   client,
		sessions: sessions,
		storage:  st,
		logger:   slog.Default(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login authenticates against the auth service and, only on full success,
// establishes the session. Every failure is one of ErrInvalidCredentials,
// ErrAuthUnavailable or ErrMalformedAuthResponse and leaves the current
// session untouched.
func (g *Gateway) Login(ctx context.Context, email, password string) (auth.Principal, error) {
	req := loginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := g.validate.Struct(req); err != nil {
		g.metrics.RecordLogin("invalid")
		return auth.Principal{}, fmt.Errorf("%w: email and password are required", ErrInvalidCredentials)
	}

	var resp loginResponse
	if err := g.client.Post(ctx, loginEndpoint, req, &resp); err != nil {
		g.metrics.RecordLogin("failure")
		return auth.Principal{}, g.classify(req.Email, err)
	}

	token := strings.TrimSpace(resp.Token)
	if token == "" || strings.TrimSpace(resp.ID) == "" {
		g.metrics.RecordLogin("failure")
		g.logger.Warn("login response incomplete", "email", req.Email, "hasToken", token != "", "hasId", resp.ID != "")
		return auth.Principal{}, ErrMalformedAuthResponse
	}

	principal := auth.Principal{
		ID:         resp.ID,
		EmployeeID: resp.EmployeeID,
		Email:      firstNonEmpty(resp.Email, req.Email),
		Role:       auth.NormalizeRoles(resp.Roles),
	}
	principal.DisplayName = firstNonEmpty(strings.TrimSpace(resp.Name), auth.DisplayNameFromEmail(principal.Email))

	if err := g.sessions.Set(ctx, principal, token); err != nil {
		g.metrics.RecordLogin("failure")
		g.logger.Error("persist session failed", "email", req.Email, "err", err)
		return auth.Principal{}, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	g.metrics.RecordLogin("success")
	g.logger.Info("login succeeded", "userId", principal.ID, "role", principal.Role)
	return principal, nil
}

func (g *Gateway) classify(email string, err error) error {
	status := apiclient.StatusOf(err)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		status == http.StatusBadRequest || status == http.StatusNotFound:
		g.logger.Info("login rejected", "email", email, "status", status, "err", err)
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, err.Error())
	case status >= 200 && status < 300:
		g.logger.Warn("login response unreadable", "email", email, "err", err)
		return fmt.Errorf("%w: %s", ErrMalformedAuthResponse, err.Error())
	default:
		g.logger.Warn("auth service unavailable", "email", email, "status", status, "err", err)
		return fmt.Errorf("%w: %s", ErrAuthUnavailable, err.Error())
	}
}

// Logout always ends with no session. Server-side revocation and storage
// failures are logged, never returned.
func (g *Gateway) Logout(ctx context.Context) {
	if g.revokeOnLogout && g.sessions.Token() != "" {
		rctx, cancel := context.WithTimeout(ctx, revokeTimeout)
		if err := g.client.Post(rctx, logoutEndpoint, nil, nil); err != nil {
			g.logger.Warn("server logout failed", "err", err)
		}
		cancel()
	}

	principal, had := g.sessions.Current()
	if err := g.sessions.Clear(ctx); err != nil {
		g.logger.Warn("clear session failed", "err", err)
	}

	// The token has been persisted under its own key independently of the
	// principal before; remove it again straight from the medium.
	if err := g.storage.Delete(ctx, g.sessions.TokenKey()); err != nil && !errors.Is(err, storage.ErrNotFound) {
		g.logger.Warn("clear auth artifacts failed", "err", err)
	}
	if had {
		g.logger.Info("logged out", "userId", principal.ID)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
