package hrmapi

import "context"

type Employees struct {
	api Requester
}

func (s *Employees) List(ctx context.Context, params ListParams) ([]Employee, error) {
	var out []Employee
	if err := s.api.Get(ctx, "/employees", params.Query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Employees) Get(ctx context.Context, id string) (Employee, error) {
	var out Employee
	err := s.api.Get(ctx, path("employees", id), nil, &out)
	return out, err
}

func (s *Employees) Create(ctx context.Context, e Employee) (Employee, error) {
	e.ID = ""
	var out Employee
	err := s.api.Post(ctx, "/employees", e, &out)
	return out, err
}

func (s *Employees) Update(ctx context.Context, id string, patch EmployeeUpdate) (Employee, error) {
	var out Employee
	err := s.api.Put(ctx, path("employees", id), patch, &out)
	return out, err
}

func (s *Employees) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, path("employees", id), nil)
}
