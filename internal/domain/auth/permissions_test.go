package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCapabilityMapIsTotal(t *testing.T) {
	m := DefaultCapabilityMap()
	require.NoError(t, m.Validate())
	for _, role := range Roles {
		_, ok := m.Roles[role]
		assert.True(t, ok, "role %s missing", role)
	}
}

func TestAllCapabilitiesUnique(t *testing.T) {
	seen := map[Capability]struct{}{}
	for _, c := range AllCapabilities {
		if _, ok := seen[c]; ok {
			t.Fatalf("duplicate capability %s", c)
		}
		seen[c] = struct{}{}
	}
}

func TestDefaultMapAdminCoversManager(t *testing.T) {
	m := DefaultCapabilityMap()
	admin := map[Capability]struct{}{}
	for _, c := range m.Roles[RoleAdmin] {
		admin[c] = struct{}{}
	}
	for _, c := range m.Roles[RoleManager] {
		_, ok := admin[c]
		assert.True(t, ok, "admin lacks manager capability %s", c)
	}
}

func TestDecodeCapabilityMap(t *testing.T) {
	doc := `
version: "2026-03"
roles:
  admin: [view_dashboard, manage_settings]
  manager: [view_dashboard]
  employee: []
`
	m, err := DecodeCapabilityMap(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "2026-03", m.Version)
	assert.Equal(t, []Capability{CapViewDashboard, CapManageSettings}, m.Roles[RoleAdmin])
	assert.Empty(t, m.Roles[RoleEmployee])
}

func TestDecodeCapabilityMapRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{
			name: "missing role",
			doc:  "version: x\nroles:\n  admin: []\n  manager: []\n",
			err:  ErrIncompleteMap,
		},
		{
			name: "unknown capability",
			doc:  "version: x\nroles:\n  admin: [fly]\n  manager: []\n  employee: []\n",
			err:  ErrUnknownCapability,
		},
		{
			name: "unknown role",
			doc:  "version: x\nroles:\n  admin: []\n  manager: []\n  employee: []\n  intern: []\n",
			err:  ErrUnknownRole,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCapabilityMap(strings.NewReader(tc.doc))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestLoadCapabilityMapEmptyPathUsesDefault(t *testing.T) {
	m, err := LoadCapabilityMap("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCapabilityMapVersion, m.Version)
}
