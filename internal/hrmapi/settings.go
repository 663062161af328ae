package hrmapi

import (
	"context"
	"fmt"
	"strings"
)

type Settings struct {
	api Requester
}

func (s *Settings) Roles(ctx context.Context) ([]RoleDefinition, error) {
	var out []RoleDefinition
	if err := s.api.Get(ctx, "/roles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Settings) CreateRole(ctx context.Context, role RoleDefinition) (RoleDefinition, error) {
	if strings.TrimSpace(role.Name) == "" {
		return RoleDefinition{}, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	var out RoleDefinition
	err := s.api.Post(ctx, "/roles", role, &out)
	return out, err
}

// Users returns the first page of users; a missing content list is empty.
func (s *Settings) Users(ctx context.Context) ([]User, error) {
	var page Page[User]
	if err := s.api.Get(ctx, "/users", nil, &page); err != nil {
		return nil, err
	}
	if page.Content == nil {
		return []User{}, nil
	}
	return page.Content, nil
}
