// Package devserver is an in-memory stand-in for the HRM backend and its
// auth service. It serves the same contract the console consumes, mixing
// enveloped and bare responses, and is meant for demos and end-to-end tests.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/hrmapi"
	"hrmconsole/internal/transport/http/middleware"
)

const DemoPassword = "password"

type Options struct {
	Secret   string
	TokenTTL time.Duration
	Logger   *slog.Logger
	Resolver *auth.Resolver
}

type account struct {
	ID           string
	EmployeeID   string
	Email        string
	Name         string
	Roles        []string
	PasswordHash string
}

type Server struct {
	secret   string
	ttl      time.Duration
	logger   *slog.Logger
	resolver *auth.Resolver
	demoHash string

	mu          sync.RWMutex
	accounts    map[string]*account
	revoked     map[string]time.Time
	employees   map[string]hrmapi.Employee
	departments map[string]hrmapi.Department
	leaves      map[string]hrmapi.LeaveRequest
	payslips    map[string]hrmapi.Payslip
	attendance  map[string]hrmapi.AttendanceRecord
	roles       []hrmapi.RoleDefinition
	now         func() time.Time
}

func New(opts Options) (*Server, error) {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 8 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Resolver == nil {
		opts.Resolver = auth.DefaultResolver()
	}
	s := &Server{
		secret:      opts.Secret,
		ttl:         opts.TokenTTL,
		logger:      opts.Logger,
		resolver:    opts.Resolver,
		accounts:    map[string]*account{},
		revoked:     map[string]time.Time{},
		employees:   map[string]hrmapi.Employee{},
		departments: map[string]hrmapi.Department{},
		leaves:      map[string]hrmapi.LeaveRequest{},
		payslips:    map[string]hrmapi.Payslip{},
		attendance:  map[string]hrmapi.AttendanceRecord{},
		now:         time.Now,
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// Revoked implements middleware.Revocations.
func (s *Server) Revoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[token]
	return ok
}

// PruneRevoked forgets revoked tokens that have expired anyway and returns
// how many it dropped.
func (s *Server) PruneRevoked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for token := range s.revoked {
		if auth.TokenExpired(token, now) {
			delete(s.revoked, token)
			n++
		}
	}
	return n
}

// Handler serves the API under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))
	r.Use(middleware.Logger(nil))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Auth(s.secret, s))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)
			s.registerEmployees(r)
			s.registerDepartments(r)
			s.registerLeaves(r)
			s.registerPayroll(r)
			s.registerAttendance(r)
			s.registerSettings(r)
		})
	})
	return r
}

func (s *Server) require(c auth.Capability) func(http.Handler) http.Handler {
	return middleware.RequireCapability(s.resolver, c, middleware.ClaimsRole)
}

// selfOr admits callers acting on their own employee record, or holding c.
func (s *Server) selfOr(c auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := middleware.GetClaims(r.Context())
			if id := chi.URLParam(r, "employeeId"); id != "" && (id == claims.EmployeeID || id == claims.UserID) {
				next.ServeHTTP(w, r)
				return
			}
			s.require(c)(next).ServeHTTP(w, r)
		})
	}
}

// writeBare writes a payload without the envelope, the way part of the
// backend does.
func writeBare(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeBare(w, status, map[string]string{"message": message})
}
