package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitiesForIsTotal(t *testing.T) {
	r := DefaultResolver()
	for _, role := range Roles {
		caps := r.CapabilitiesFor(role)
		assert.NotNil(t, caps, "role %s", role)
	}
}

func TestHasMatchesCapabilitiesFor(t *testing.T) {
	r := DefaultResolver()
	for _, role := range Roles {
		granted := map[Capability]bool{}
		for _, c := range r.CapabilitiesFor(role) {
			granted[c] = true
		}
		for _, c := range AllCapabilities {
			assert.Equal(t, granted[c], r.Has(role, c), "role %s capability %s", role, c)
		}
	}
}

func TestUnknownRoleGetsEmployeeSet(t *testing.T) {
	r := DefaultResolver()
	want := r.CapabilitiesFor(RoleEmployee)
	for _, role := range []Role{"", "root", "ADMIN", "superuser"} {
		assert.Equal(t, want, r.CapabilitiesFor(role), "role %q", role)
		assert.False(t, r.CanManageSettings(role))
	}
}

func TestAdminIsSupersetOfManager(t *testing.T) {
	r := DefaultResolver()
	for _, c := range r.CapabilitiesFor(RoleManager) {
		assert.True(t, r.Has(RoleAdmin, c), "admin lacks %s", c)
	}
}

func TestHasAnyHasAll(t *testing.T) {
	r := DefaultResolver()

	assert.True(t, r.HasAny(RoleEmployee, CapManageSettings, CapManageLeave))
	assert.False(t, r.HasAny(RoleEmployee, CapManageSettings, CapApproveLeave))
	assert.False(t, r.HasAny(RoleAdmin))

	assert.True(t, r.HasAll(RoleManager, CapApproveLeave, CapManageEmployees))
	assert.False(t, r.HasAll(RoleManager, CapApproveLeave, CapManageSettings))
	assert.True(t, r.HasAll(RoleEmployee))
}

func TestNamedPredicates(t *testing.T) {
	r := DefaultResolver()

	assert.True(t, r.CanManageSettings(RoleAdmin))
	assert.False(t, r.CanManageSettings(RoleManager))
	assert.True(t, r.CanApproveLeave(RoleManager))
	assert.False(t, r.CanApproveLeave(RoleEmployee))
	assert.True(t, r.CanViewAllPayslips(RoleManager))
	assert.False(t, r.CanViewAllPayslips(RoleEmployee))
	assert.False(t, r.CanManageDepartments(RoleEmployee))
	assert.True(t, r.CanManageOnboarding(RoleManager))
	assert.True(t, r.CanManagePayroll(RoleAdmin))
	assert.False(t, r.CanManageAttendance(RoleManager))
	assert.False(t, r.CanManageEmployees(RoleEmployee))
}

func TestResolverReturnsCopies(t *testing.T) {
	r := DefaultResolver()
	caps := r.CapabilitiesFor(RoleAdmin)
	caps[0] = "tampered"
	assert.Equal(t, CapViewDashboard, r.CapabilitiesFor(RoleAdmin)[0])
}

func TestResolverFollowsCustomMap(t *testing.T) {
	m := CapabilityMap{
		Version: "flat",
		Roles: map[Role][]Capability{
			RoleAdmin:    {CapViewDashboard},
			RoleManager:  {CapViewDashboard, CapManageSettings},
			RoleEmployee: {},
		},
	}
	r, err := NewResolver(m)
	require.NoError(t, err)
	assert.Equal(t, "flat", r.Version())
	assert.True(t, r.CanManageSettings(RoleManager))
	assert.False(t, r.CanManageSettings(RoleAdmin))
	assert.Empty(t, r.CapabilitiesFor(RoleEmployee))
	assert.NotNil(t, r.CapabilitiesFor(RoleEmployee))
}

func TestNewResolverRejectsPartialMap(t *testing.T) {
	_, err := NewResolver(CapabilityMap{Roles: map[Role][]Capability{RoleAdmin: {}}})
	require.ErrorIs(t, err, ErrIncompleteMap)
}
