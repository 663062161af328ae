package auth

import "strings"

type Principal struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId,omitempty"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Role        Role   `json:"role"`
}

func (p Principal) Valid() bool {
	return strings.TrimSpace(p.ID) != "" && strings.TrimSpace(p.Email) != ""
}

// WithRole returns a copy carrying role; the receiver is left untouched.
func (p Principal) WithRole(role Role) Principal {
	p.Role = role
	return p
}

// DisplayNameFromEmail returns the local part of an address, or the whole
// value when it has no @.
func DisplayNameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
