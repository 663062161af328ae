// Package hrmapi holds thin typed calls to the HRM backend. Business rules
// stay on the server; these only shape requests and responses.
package hrmapi

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidInput = errors.New("invalid input")

// Requester is the subset of the API gateway the services need.
type Requester interface {
	Get(ctx context.Context, endpoint string, query url.Values, out any) error
	Post(ctx context.Context, endpoint string, body, out any) error
	Put(ctx context.Context, endpoint string, body, out any) error
	Patch(ctx context.Context, endpoint string, body, out any) error
	Delete(ctx context.Context, endpoint string, out any) error
}

type Services struct {
	Employees   *Employees
	Departments *Departments
	Leave       *Leave
	Payroll     *Payroll
	Attendance  *Attendance
	Settings    *Settings
}

func New(api Requester) *Services {
	v := validator.New()
	return &Services{
		Employees:   &Employees{api: api},
		Departments: &Departments{api: api},
		Leave:       &Leave{api: api, validate: v},
		Payroll:     &Payroll{api: api},
		Attendance:  &Attendance{api: api, validate: v},
		Settings:    &Settings{api: api},
	}
}

// ListParams are optional paging and filter arguments; zero values are not
// sent.
type ListParams struct {
	Page   int
	Size   int
	Search string
	Month  string
}

func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Month != "" {
		q.Set("month", p.Month)
	}
	return q
}

func path(parts ...string) string {
	out := ""
	for _, p := range parts {
		out += "/" + url.PathEscape(p)
	}
	return out
}
