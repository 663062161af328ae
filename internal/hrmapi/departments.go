package hrmapi

import "context"

type Departments struct {
	api Requester
}

func (s *Departments) List(ctx context.Context) ([]Department, error) {
	var out []Department
	if err := s.api.Get(ctx, "/departments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Departments) Get(ctx context.Context, id string) (Department, error) {
	var out Department
	err := s.api.Get(ctx, path("departments", id), nil, &out)
	return out, err
}

// Create ignores ID and EmployeeCount; both are owned by the server.
func (s *Departments) Create(ctx context.Context, d Department) (Department, error) {
	d.ID, d.EmployeeCount = "", 0
	var out Department
	err := s.api.Post(ctx, "/departments", d, &out)
	return out, err
}

func (s *Departments) Update(ctx context.Context, id string, patch DepartmentUpdate) (Department, error) {
	var out Department
	err := s.api.Put(ctx, path("departments", id), patch, &out)
	return out, err
}

func (s *Departments) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, path("departments", id), nil)
}
