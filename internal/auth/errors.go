package authgateway

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAuthUnavailable       = errors.New("auth service unavailable")
	ErrMalformedAuthResponse = errors.New("malformed auth response")
	ErrRoleSwitchDisabled    = errors.New("role switch is disabled")
)
