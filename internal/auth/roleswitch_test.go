package authgateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/platform/storage"
	"hrmconsole/internal/session"
)

func TestSwitchRoleTakesEffectImmediately(t *testing.T) {
	ctx := context.Background()
	sessions := session.Open(ctx, storage.NewMemory())
	require.NoError(t, sessions.Set(ctx, auth.Principal{ID: "2", Email: "manager@hrms.com", Role: auth.RoleManager}, "t"))
	resolver := auth.DefaultResolver()

	before, _ := sessions.Current()
	require.False(t, resolver.Has(before.Role, auth.CapManageSettings))

	s := NewRoleSwitcher(sessions, true, nil)
	require.NoError(t, s.Switch(ctx, "admin"))

	after, _ := sessions.Current()
	assert.Equal(t, auth.RoleAdmin, after.Role)
	assert.Contains(t, resolver.CapabilitiesFor(after.Role), auth.CapManageSettings)
	assert.Equal(t, "t", sessions.Token())
}

func TestSwitchRoleWithoutSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	sessions := session.Open(ctx, storage.NewMemory())

	require.NoError(t, NewRoleSwitcher(sessions, true, nil).Switch(ctx, "admin"))
	assert.False(t, sessions.IsAuthenticated())
}

func TestSwitchRoleRejections(t *testing.T) {
	ctx := context.Background()
	sessions := session.Open(ctx, storage.NewMemory())
	require.NoError(t, sessions.Set(ctx, auth.Principal{ID: "3", Email: "e@hrms.com", Role: auth.RoleEmployee}, "t"))

	err := NewRoleSwitcher(sessions, false, nil).Switch(ctx, "admin")
	require.ErrorIs(t, err, ErrRoleSwitchDisabled)

	err = NewRoleSwitcher(sessions, true, nil).Switch(ctx, "owner")
	require.ErrorIs(t, err, auth.ErrUnknownRole)

	current, _ := sessions.Current()
	assert.Equal(t, auth.RoleEmployee, current.Role)
}
