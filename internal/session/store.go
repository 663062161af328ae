// Package session holds the console's single client-side session: the
// authenticated principal paired with its bearer token.
//
// The pair is persisted as two entries in a storage medium and is always
// written and cleared together. Whatever is read back at startup that does
// not form a complete, parseable, unexpired pair is treated as logged out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/platform/storage"
)

const (
	DefaultKeyPrefix = "hrms_"
	userSuffix       = "user"
	tokenSuffix      = "token"
)

var ErrInvalidSession = errors.New("session: principal and token are both required")

type Store struct {
	mu       sync.Mutex
	storage  storage.Storage
	logger   *slog.Logger
	now      func() time.Time
	userKey  string
	tokenKey string

	principal *auth.Principal
	token     string
}

type Option func(*Store)

func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.userKey = prefix + userSuffix
		s.tokenKey = prefix + tokenSuffix
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open reads the persisted session before returning, so callers never
// observe a half-loaded store.
func Open(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage:  st,
		logger:   slog.Default(),
		now:      time.Now,
		userKey:  DefaultKeyPrefix + userSuffix,
		tokenKey: DefaultKeyPrefix + tokenSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

func (s *Store) UserKey() string  { return s.userKey }
func (s *Store) TokenKey() string { return s.tokenKey }

func (s *Store) load(ctx context.Context) {
	rawUser, userErr := s.storage.Get(ctx, s.userKey)
	token, tokenErr := s.storage.Get(ctx, s.tokenKey)

	if errors.Is(userErr, storage.ErrNotFound) && errors.Is(tokenErr, storage.ErrNotFound) {
		return
	}

	reason := ""
	var principal auth.Principal
	switch {
	case userErr != nil && !errors.Is(userErr, storage.ErrNotFound):
		reason = "unreadable principal"
	case tokenErr != nil && !errors.Is(tokenErr, storage.ErrNotFound):
		reason = "unreadable token"
	case userErr != nil:
		reason = "token without principal"
	case tokenErr != nil || strings.TrimSpace(token) == "":
		reason = "principal without token"
	case json.Unmarshal([]byte(rawUser), &principal) != nil:
		reason = "malformed principal"
	case !principal.Valid():
		reason = "incomplete principal"
	case auth.TokenExpired(token, s.now()):
		reason = "expired token"
	}
	if reason != "" {
		s.logger.Warn("discarding persisted session", "reason", reason)
		if err := s.storage.Delete(ctx, s.userKey, s.tokenKey); err != nil {
			s.logger.Warn("purge persisted session failed", "err", err)
		}
		return
	}

	principal.Role = principal.Role.OrEmployee()
	s.principal = &principal
	s.token = token
}

// Current returns the principal of the active session, if any.
func (s *Store) Current() (auth.Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return auth.Principal{}, false
	}
	return *s.principal, true
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal != nil && s.token != ""
}

// Set persists principal and token in one storage write and only then makes
// them visible.
func (s *Store) Set(ctx context.Context, p auth.Principal, token string) error {
	if !p.Valid() || strings.TrimSpace(token) == "" {
		return ErrInvalidSession
	}
	p.Role = p.Role.OrEmployee()
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("session: encode principal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.SetMany(ctx, map[string]string{s.userKey: string(raw), s.tokenKey: token}); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	s.principal = &p
	s.token = token
	return nil
}

// Clear drops the session. Clearing an empty session succeeds. The in-memory
// state is cleared even when the storage delete fails, so the process never
// keeps acting as a principal the caller asked to forget.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = nil
	s.token = ""
	if err := s.storage.Delete(ctx, s.userKey, s.tokenKey); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// UpdateRole replaces the role of the active principal. Without an active
// session it does nothing and returns nil; callers only offer a role switch
// to authenticated users.
func (s *Store) UpdateRole(ctx context.Context, role auth.Role) error {
	if !role.Valid() {
		return auth.ErrUnknownRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return nil
	}
	updated := s.principal.WithRole(role)
	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("session: encode principal: %w", err)
	}
	if err := s.storage.SetMany(ctx, map[string]string{s.userKey: string(raw)}); err != nil {
		return fmt.Errorf("session: persist role: %w", err)
	}
	s.principal = &updated
	return nil
}

// ExpireStale clears the session once its token's exp has passed and reports
// whether it did.
func (s *Store) ExpireStale(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil || !auth.TokenExpired(s.token, s.now()) {
		return false, nil
	}
	s.logger.Info("session token expired", "userId", s.principal.ID)
	s.principal = nil
	s.token = ""
	if err := s.storage.Delete(ctx, s.userKey, s.tokenKey); err != nil {
		return true, fmt.Errorf("session: expire: %w", err)
	}
	return true, nil
}
