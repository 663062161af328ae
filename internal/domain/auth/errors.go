package auth

import "errors"

var (
	ErrUnknownRole       = errors.New("unknown role")
	ErrUnknownCapability = errors.New("unknown capability")
	ErrIncompleteMap     = errors.New("capability map does not cover every role")
	ErrInvalidToken      = errors.New("invalid token")
)
