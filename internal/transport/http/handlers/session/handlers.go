package sessionhandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authgateway "hrmconsole/internal/auth"
	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/guard"
	"hrmconsole/internal/requestctx"
	"hrmconsole/internal/session"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/shared"
)

type Handler struct {
	Gateway  *authgateway.Gateway
	Switcher *authgateway.RoleSwitcher
	Sessions *session.Store
	Resolver *auth.Resolver
	Guard    *guard.Guard
}

func NewHandler(gateway *authgateway.Gateway, switcher *authgateway.RoleSwitcher, sessions *session.Store, resolver *auth.Resolver, g *guard.Guard) *Handler {
	return &Handler{Gateway: gateway, Switcher: switcher, Sessions: sessions, Resolver: resolver, Guard: g}
}

// RegisterRoutes mounts login, logout, role switch and the session view.
// loginLimit wraps only the login route.
func (h *Handler) RegisterRoutes(r chi.Router, loginLimit func(http.Handler) http.Handler) {
	r.With(loginLimit).Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	r.Post("/role", h.HandleSwitchRole)
	r.Get("/session", h.HandleSession)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

type View struct {
	User                 auth.Principal    `json:"user"`
	Capabilities         []auth.Capability `json:"capabilities"`
	Navigation           []guard.NavItem   `json:"navigation"`
	CapabilityMapVersion string            `json:"capabilityMapVersion"`
	RoleSwitchEnabled    bool              `json:"roleSwitchEnabled"`
}

func (h *Handler) view(p auth.Principal) View {
	return View{
		User:                 p,
		Capabilities:         h.Resolver.CapabilitiesFor(p.Role),
		Navigation:           h.Guard.Navigation(),
		CapabilityMapVersion: h.Resolver.Version(),
		RoleSwitchEnabled:    h.Switcher.Enabled(),
	}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}

	principal, err := h.Gateway.Login(r.Context(), payload.Email, payload.Password)
	switch {
	case err == nil:
	case errors.Is(err, authgateway.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", failureMessage(err), requestID)
		return
	case errors.Is(err, authgateway.ErrMalformedAuthResponse):
		api.Fail(w, http.StatusBadGateway, "auth_malformed", "authentication service returned an unusable response", requestID)
		return
	default:
		api.Fail(w, http.StatusServiceUnavailable, "auth_unavailable", "authentication service unavailable", requestID)
		return
	}
	api.Success(w, h.view(principal), requestID)
}

// failureMessage drops the sentinel prefix so the operator sees the
// server's wording.
func failureMessage(err error) string {
	if rest, ok := strings.CutPrefix(err.Error(), authgateway.ErrInvalidCredentials.Error()+": "); ok && rest != "" {
		return rest
	}
	return err.Error()
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Gateway.Logout(r.Context())
	api.Success(w, map[string]string{"status": "logged_out"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleSwitchRole(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload roleRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}

	err := h.Switcher.Switch(r.Context(), payload.Role)
	switch {
	case errors.Is(err, authgateway.ErrRoleSwitchDisabled):
		api.Fail(w, http.StatusForbidden, "role_switch_disabled", "role switching is disabled", requestID)
		return
	case errors.Is(err, auth.ErrUnknownRole):
		api.Fail(w, http.StatusBadRequest, "unknown_role", "role must be one of admin, manager, employee", requestID)
		return
	case err != nil:
		requestctx.Logger(r.Context()).Error("role switch failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "role_switch_failed", "role switch failed", requestID)
		return
	}
	h.HandleSession(w, r)
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.Sessions.Current()
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "no active session", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.view(principal), requestctx.GetRequestID(r.Context()))
}
