package auth

import "github.com/samber/lo"

// Resolver is the only place a role is turned into capabilities. It is
// immutable after construction and safe for concurrent use.
type Resolver struct {
	version string
	ordered map[Role][]Capability
	sets    map[Role]map[Capability]struct{}
}

func NewResolver(m CapabilityMap) (*Resolver, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	r := &Resolver{
		version: m.Version,
		ordered: make(map[Role][]Capability, len(Roles)),
		sets:    make(map[Role]map[Capability]struct{}, len(Roles)),
	}
	for _, role := range Roles {
		caps := lo.Uniq(m.Roles[role])
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		r.ordered[role] = caps
		r.sets[role] = set
	}
	return r, nil
}

// DefaultResolver panics only if the built-in map is broken, which the tests rule out.
func DefaultResolver() *Resolver {
	r, err := NewResolver(DefaultCapabilityMap())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Resolver) Version() string {
	return r.version
}

// CapabilitiesFor returns a copy of the role's capabilities in configured order.
// Roles outside the enum get the employee set.
func (r *Resolver) CapabilitiesFor(role Role) []Capability {
	caps := r.ordered[role.OrEmployee()]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

func (r *Resolver) Has(role Role, c Capability) bool {
	_, ok := r.sets[role.OrEmployee()][c]
	return ok
}

// HasAny is false for an empty argument list.
func (r *Resolver) HasAny(role Role, caps ...Capability) bool {
	return lo.SomeBy(caps, func(c Capability) bool { return r.Has(role, c) })
}

// HasAll is true for an empty argument list.
func (r *Resolver) HasAll(role Role, caps ...Capability) bool {
	return lo.EveryBy(caps, func(c Capability) bool { return r.Has(role, c) })
}

func (r *Resolver) CanViewAllPayslips(role Role) bool   { return r.Has(role, CapViewAllPayslips) }
func (r *Resolver) CanManageEmployees(role Role) bool   { return r.Has(role, CapManageEmployees) }
func (r *Resolver) CanManageDepartments(role Role) bool { return r.Has(role, CapManageDepartments) }
func (r *Resolver) CanApproveLeave(role Role) bool      { return r.Has(role, CapApproveLeave) }
func (r *Resolver) CanManageSettings(role Role) bool    { return r.Has(role, CapManageSettings) }
func (r *Resolver) CanManageOnboarding(role Role) bool  { return r.Has(role, CapManageOnboarding) }
func (r *Resolver) CanManagePayroll(role Role) bool     { return r.Has(role, CapManagePayroll) }
func (r *Resolver) CanManageAttendance(role Role) bool  { return r.Has(role, CapManageAttendance) }
