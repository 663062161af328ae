package auth

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Capability string

const (
	CapViewDashboard     Capability = "view_dashboard"
	CapManageEmployees   Capability = "manage_employees"
	CapManageDepartments Capability = "manage_departments"
	CapManageLeave       Capability = "manage_leave"
	CapApproveLeave      Capability = "approve_leave"
	CapViewPayroll       Capability = "view_payroll"
	CapManagePayroll     Capability = "manage_payroll"
	CapViewAttendance    Capability = "view_attendance"
	CapManageAttendance  Capability = "manage_attendance"
	CapManageSettings    Capability = "manage_settings"
	CapViewPerformance   Capability = "view_performance"
	CapManageOnboarding  Capability = "manage_onboarding"
	CapViewAllPayslips   Capability = "view_all_payslips"
	CapViewOwnPayslip    Capability = "view_own_payslip"
)

var AllCapabilities = []Capability{
	CapViewDashboard,
	CapManageEmployees,
	CapManageDepartments,
	CapManageLeave,
	CapApproveLeave,
	CapViewPayroll,
	CapManagePayroll,
	CapViewAttendance,
	CapManageAttendance,
	CapManageSettings,
	CapViewPerformance,
	CapManageOnboarding,
	CapViewAllPayslips,
	CapViewOwnPayslip,
}

func (c Capability) Known() bool {
	for _, known := range AllCapabilities {
		if c == known {
			return true
		}
	}
	return false
}

// CapabilityMap is the versioned role to capability configuration.
type CapabilityMap struct {
	Version string                `yaml:"version" json:"version"`
	Roles   map[Role][]Capability `yaml:"roles" json:"roles"`
}

const DefaultCapabilityMapVersion = "2026-01"

// DefaultCapabilityMap returns a fresh copy of the built-in map.
func DefaultCapabilityMap() CapabilityMap {
	return CapabilityMap{
		Version: DefaultCapabilityMapVersion,
		Roles: map[Role][]Capability{
			RoleAdmin: {
				CapViewDashboard,
				CapManageEmployees,
				CapManageDepartments,
				CapManageLeave,
				CapApproveLeave,
				CapViewPayroll,
				CapManagePayroll,
				CapViewAttendance,
				CapManageAttendance,
				CapManageSettings,
				CapViewPerformance,
				CapManageOnboarding,
				CapViewAllPayslips,
			},
			RoleManager: {
				CapViewDashboard,
				CapManageEmployees,
				CapManageDepartments,
				CapApproveLeave,
				CapViewPayroll,
				CapViewAttendance,
				CapViewPerformance,
				CapManageOnboarding,
				CapViewAllPayslips,
			},
			RoleEmployee: {
				CapViewDashboard,
				CapManageLeave,
				CapViewAttendance,
				CapViewPerformance,
				CapViewOwnPayslip,
			},
		},
	}
}

// Validate checks totality over the role enum and that every capability is known.
func (m CapabilityMap) Validate() error {
	for _, role := range Roles {
		if _, ok := m.Roles[role]; !ok {
			return fmt.Errorf("%w: missing %s", ErrIncompleteMap, role)
		}
	}
	for role, caps := range m.Roles {
		if !role.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownRole, role)
		}
		for _, c := range caps {
			if !c.Known() {
				return fmt.Errorf("%w: %q for role %s", ErrUnknownCapability, c, role)
			}
		}
	}
	return nil
}

func DecodeCapabilityMap(r io.Reader) (CapabilityMap, error) {
	var m CapabilityMap
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return CapabilityMap{}, fmt.Errorf("decode capability map: %w", err)
	}
	if m.Roles == nil {
		m.Roles = map[Role][]Capability{}
	}
	if err := m.Validate(); err != nil {
		return CapabilityMap{}, err
	}
	return m, nil
}

// LoadCapabilityMap reads a YAML map from path, or returns the built-in map
// when path is empty.
func LoadCapabilityMap(path string) (CapabilityMap, error) {
	if path == "" {
		return DefaultCapabilityMap(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return CapabilityMap{}, err
	}
	defer f.Close()
	return DecodeCapabilityMap(f)
}
