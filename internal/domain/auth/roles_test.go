package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoles(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  Role
	}{
		{name: "spring admin", roles: []string{"ROLE_ADMIN"}, want: RoleAdmin},
		{name: "spring employee", roles: []string{"ROLE_EMPLOYEE"}, want: RoleEmployee},
		{name: "lower case manager", roles: []string{"manager"}, want: RoleManager},
		{name: "admin wins over manager", roles: []string{"ROLE_MANAGER", "ROLE_ADMIN"}, want: RoleAdmin},
		{name: "manager wins over employee", roles: []string{"ROLE_EMPLOYEE", "ROLE_HR"}, want: RoleManager},
		{name: "super admin", roles: []string{"ROLE_SUPER-ADMIN"}, want: RoleAdmin},
		{name: "no roles", roles: nil, want: RoleEmployee},
		{name: "unrecognized", roles: []string{"ROLE_AUDITOR", ""}, want: RoleEmployee},
		{name: "admin substring is not admin", roles: []string{"ROLE_ADMINISTRATIVE_ASSISTANT"}, want: RoleEmployee},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeRoles(tc.roles))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("owner")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.True(t, RoleManager.AtLeast(RoleEmployee))
	assert.False(t, RoleEmployee.AtLeast(RoleManager))
	assert.Equal(t, RoleEmployee.Level(), Role("ghost").Level())
}

func TestDisplayNameFromEmail(t *testing.T) {
	assert.Equal(t, "new.hire", DisplayNameFromEmail("new.hire@co.com"))
	assert.Equal(t, "plain", DisplayNameFromEmail("plain"))
	assert.Equal(t, "@odd", DisplayNameFromEmail("@odd"))
}
