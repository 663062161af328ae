package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/requestctx"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
)

var errBadCredentials = errors.New("bad credentials")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token      string   `json:"token"`
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	EmployeeID string   `json:"employeeId"`
	Email      string   `json:"email"`
	Name       string   `json:"name,omitempty"`
	Roles      []string `json:"roles"`
}

// handleLogin accepts the seeded accounts, and any other address with the
// demo password as a fresh employee.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || payload.Password == "" {
		writeMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	acct, err := s.authenticate(email, payload.Password)
	if err != nil {
		requestctx.Logger(r.Context()).Info("login rejected", "email", email)
		writeMessage(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	token, err := auth.GenerateToken(s.secret, auth.Claims{
		UserID:     acct.ID,
		EmployeeID: acct.EmployeeID,
		Email:      acct.Email,
		Roles:      acct.Roles,
	}, s.ttl)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}
	writeBare(w, http.StatusOK, loginResponse{
		Token:      token,
		Type:       "Bearer",
		ID:         acct.ID,
		EmployeeID: acct.EmployeeID,
		Email:      acct.Email,
		Name:       acct.Name,
		Roles:      acct.Roles,
	})
}

func (s *Server) authenticate(email, password string) (*account, error) {
	s.mu.RLock()
	acct, ok := s.accounts[email]
	s.mu.RUnlock()
	if ok {
		if err := auth.CheckPassword(acct.PasswordHash, password); err != nil {
			return nil, err
		}
		return acct, nil
	}
	if password != DemoPassword {
		return nil, errBadCredentials
	}

	id := uuid.NewString()
	acct = &account{ID: id, EmployeeID: id, Email: email, Roles: []string{"ROLE_EMPLOYEE"}, PasswordHash: s.demoHash}
	s.mu.Lock()
	if existing, ok := s.accounts[email]; ok {
		acct = existing
	} else {
		s.accounts[email] = acct
	}
	s.mu.Unlock()
	return acct, nil
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.BearerToken(r); ok {
		s.mu.Lock()
		s.revoked[token] = s.now()
		s.mu.Unlock()
	}
	api.NoContent(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())
	api.Success(w, map[string]any{
		"id":         claims.UserID,
		"employeeId": claims.EmployeeID,
		"email":      claims.Email,
		"roles":      claims.Roles,
	}, requestctx.GetRequestID(r.Context()))
}
