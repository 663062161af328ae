package hrmapi

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Leave struct {
	api      Requester
	validate *validator.Validate
}

func (s *Leave) List(ctx context.Context) ([]LeaveRequest, error) {
	var out []LeaveRequest
	if err := s.api.Get(ctx, "/leaves", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Leave) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var out []LeaveRequest
	if err := s.api.Get(ctx, path("leaves", "employee", employeeID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Leave) Apply(ctx context.Context, req LeaveApplication) (LeaveRequest, error) {
	if err := s.validate.Struct(req); err != nil {
		return LeaveRequest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.EndDate < req.StartDate {
		return LeaveRequest{}, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	var out LeaveRequest
	err := s.api.Post(ctx, "/leaves", req, &out)
	return out, err
}

// UpdateStatus accepts only the two terminal decisions.
func (s *Leave) UpdateStatus(ctx context.Context, id string, status LeaveStatus) (LeaveRequest, error) {
	if status != LeaveApproved && status != LeaveRejected {
		return LeaveRequest{}, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	var out LeaveRequest
	err := s.api.Patch(ctx, path("leaves", id, "status"), map[string]LeaveStatus{"status": status}, &out)
	return out, err
}
