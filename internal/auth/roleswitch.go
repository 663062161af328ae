package authgateway

import (
	"context"
	"log/slog"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/session"
)

// RoleSwitcher reassigns the current principal's role locally, without a
// server round-trip. It exists for demos of role-gated views and must stay
// disabled wherever the role is a server-authoritative, audited value.
type RoleSwitcher struct {
	sessions *session.Store
	enabled  bool
	logger   *slog.Logger
}

func NewRoleSwitcher(sessions *session.Store, enabled bool, logger *slog.Logger) *RoleSwitcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleSwitcher{sessions: sessions, enabled: enabled, logger: logger}
}

func (s *RoleSwitcher) Enabled() bool {
	return s.enabled
}

// Switch is a no-op returning nil when nobody is logged in.
func (s *RoleSwitcher) Switch(ctx context.Context, value string) error {
	if !s.enabled {
		return ErrRoleSwitchDisabled
	}
	role, err := auth.ParseRole(value)
	if err != nil {
		return err
	}
	before, ok := s.sessions.Current()
	if err := s.sessions.UpdateRole(ctx, role); err != nil {
		return err
	}
	if ok {
		s.logger.Info("role switched", "userId", before.ID, "from", before.Role, "to", role)
	}
	return nil
}
