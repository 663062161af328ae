package devserver

import (
	"cmp"
	"encoding/json"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/hrmapi"
	"hrmconsole/internal/requestctx"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
)

// sorted returns map values ordered by id, numeric ids first.
func sorted[T any](m map[string]T, id func(T) string) []T {
	out := lo.Values(m)
	slices.SortFunc(out, func(a, b T) int {
		ia, ib := id(a), id(b)
		if c := cmp.Compare(len(ia), len(ib)); c != 0 {
			return c
		}
		return cmp.Compare(ia, ib)
	})
	return out
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return false
	}
	return true
}

func (s *Server) registerEmployees(r chi.Router) {
	r.Get("/employees", s.listEmployees)
	r.Get("/employees/{id}", s.getEmployee)
	r.Group(func(r chi.Router) {
		r.Use(s.require(auth.CapManageEmployees))
		r.Post("/employees", s.createEmployee)
		r.Put("/employees/{id}", s.updateEmployee)
		r.Delete("/employees/{id}", s.deleteEmployee)
	})
}

// listEmployees filters by search and slices by zero-based page when a size
// is given. Responses are enveloped.
func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	all := sorted(s.employees, func(e hrmapi.Employee) string { return e.ID })
	s.mu.RUnlock()

	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search"))); q != "" {
		all = lo.Filter(all, func(e hrmapi.Employee, _ int) bool {
			return strings.Contains(strings.ToLower(e.FullName()), q) || strings.Contains(strings.ToLower(e.Email), q)
		})
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if size > 0 && page >= 0 {
		all = lo.Subset(all, page*size, uint(size))
	}
	api.Success(w, all, requestctx.GetRequestID(r.Context()))
}

func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	e, ok := s.employees[chi.URLParam(r, "id")]
	s.mu.RUnlock()
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "Employee not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, e, requestctx.GetRequestID(r.Context()))
}

func (s *Server) createEmployee(w http.ResponseWriter, r *http.Request) {
	var e hrmapi.Employee
	if !decode(w, r, &e) {
		return
	}
	if strings.TrimSpace(e.Email) == "" || strings.TrimSpace(e.FirstName) == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "firstName and email are required", requestctx.GetRequestID(r.Context()))
		return
	}
	e.ID = uuid.NewString()
	if e.Status == "" {
		e.Status = hrmapi.EmployeeActive
	}
	s.mu.Lock()
	s.employees[e.ID] = e
	s.mu.Unlock()
	api.Created(w, e, requestctx.GetRequestID(r.Context()))
}

func (s *Server) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var patch hrmapi.EmployeeUpdate
	if !decode(w, r, &patch) {
		return
	}
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	e, ok := s.employees[id]
	if ok {
		e = applyEmployee(e, patch)
		s.employees[id] = e
	}
	s.mu.Unlock()
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "Employee not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, e, requestctx.GetRequestID(r.Context()))
}

func applyEmployee(e hrmapi.Employee, p hrmapi.EmployeeUpdate) hrmapi.Employee {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.FirstName, p.FirstName)
	set(&e.LastName, p.LastName)
	set(&e.Email, p.Email)
	set(&e.Phone, p.Phone)
	set(&e.Department, p.Department)
	set(&e.Role, p.Role)
	set(&e.DateOfJoining, p.DateOfJoining)
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Salary != nil {
		e.Salary = p.Salary
	}
	return e
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.employees[id]
	delete(s.employees, id)
	s.mu.Unlock()
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "Employee not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.NoContent(w)
}

// Departments answer without the envelope.
func (s *Server) registerDepartments(r chi.Router) {
	r.Get("/departments", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		writeBare(w, http.StatusOK, sorted(s.departments, func(d hrmapi.Department) string { return d.ID }))
	})
	r.Get("/departments/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		d, ok := s.departments[chi.URLParam(r, "id")]
		s.mu.RUnlock()
		if !ok {
			writeMessage(w, http.StatusNotFound, "Department not found")
			return
		}
		writeBare(w, http.StatusOK, d)
	})
	r.Group(func(r chi.Router) {
		r.Use(s.require(auth.CapManageDepartments))
		r.Post("/departments", func(w http.ResponseWriter, r *http.Request) {
			var d hrmapi.Department
			if !decode(w, r, &d) {
				return
			}
			if strings.TrimSpace(d.Name) == "" {
				writeMessage(w, http.StatusBadRequest, "name is required")
				return
			}
			d.ID, d.EmployeeCount = uuid.NewString(), 0
			s.mu.Lock()
			s.departments[d.ID] = d
			s.mu.Unlock()
			writeBare(w, http.StatusCreated, d)
		})
		r.Put("/departments/{id}", func(w http.ResponseWriter, r *http.Request) {
			var patch hrmapi.DepartmentUpdate
			if !decode(w, r, &patch) {
				return
			}
			id := chi.URLParam(r, "id")
			s.mu.Lock()
			d, ok := s.departments[id]
			if ok {
				d.Name = lo.FromPtrOr(patch.Name, d.Name)
				d.Head = lo.FromPtrOr(patch.Head, d.Head)
				d.Description = lo.FromPtrOr(patch.Description, d.Description)
				s.departments[id] = d
			}
			s.mu.Unlock()
			if !ok {
				writeMessage(w, http.StatusNotFound, "Department not found")
				return
			}
			writeBare(w, http.StatusOK, d)
		})
		r.Delete("/departments/{id}", func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			delete(s.departments, chi.URLParam(r, "id"))
			s.mu.Unlock()
			api.NoContent(w)
		})
	})
}

func (s *Server) registerLeaves(r chi.Router) {
	r.With(s.require(auth.CapApproveLeave)).Get("/leaves", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		api.Success(w, sorted(s.leaves, func(l hrmapi.LeaveRequest) string { return l.ID }), requestctx.GetRequestID(r.Context()))
	})
	r.With(s.selfOr(auth.CapApproveLeave)).Get("/leaves/employee/{employeeId}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "employeeId")
		s.mu.RLock()
		all := sorted(s.leaves, func(l hrmapi.LeaveRequest) string { return l.ID })
		s.mu.RUnlock()
		api.Success(w, lo.Filter(all, func(l hrmapi.LeaveRequest, _ int) bool { return l.EmployeeID == id }), requestctx.GetRequestID(r.Context()))
	})
	r.Post("/leaves", s.applyLeave)
	r.With(s.require(auth.CapApproveLeave)).Patch("/leaves/{id}/status", s.decideLeave)
}

func (s *Server) applyLeave(w http.ResponseWriter, r *http.Request) {
	var req hrmapi.LeaveApplication
	if !decode(w, r, &req) {
		return
	}
	claims, _ := middleware.GetClaims(r.Context())
	if req.EmployeeID != claims.EmployeeID && req.EmployeeID != claims.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "leave can only be requested for yourself", requestctx.GetRequestID(r.Context()))
		return
	}
	l := hrmapi.LeaveRequest{
		ID:           uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Type:         req.Type,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Reason:       req.Reason,
		Status:       hrmapi.LeavePending,
		AppliedOn:    s.now().Format("2006-01-02"),
	}
	s.mu.Lock()
	s.leaves[l.ID] = l
	s.mu.Unlock()
	api.Created(w, l, requestctx.GetRequestID(r.Context()))
}

func (s *Server) decideLeave(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status hrmapi.LeaveStatus `json:"status"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.Status != hrmapi.LeaveApproved && body.Status != hrmapi.LeaveRejected {
		api.Fail(w, http.StatusBadRequest, "validation_error", "status must be approved or rejected", requestctx.GetRequestID(r.Context()))
		return
	}
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	l, ok := s.leaves[id]
	conflict := ok && l.Status != hrmapi.LeavePending
	if ok && !conflict {
		l.Status = body.Status
		s.leaves[id] = l
	}
	s.mu.Unlock()
	switch {
	case !ok:
		api.Fail(w, http.StatusNotFound, "not_found", "Leave request not found", requestctx.GetRequestID(r.Context()))
	case conflict:
		api.Fail(w, http.StatusConflict, "conflict", "leave request already decided", requestctx.GetRequestID(r.Context()))
	default:
		api.Success(w, l, requestctx.GetRequestID(r.Context()))
	}
}

// Payroll answers without the envelope.
func (s *Server) registerPayroll(r chi.Router) {
	r.With(s.require(auth.CapViewAllPayslips)).Get("/payroll", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		writeBare(w, http.StatusOK, sorted(s.payslips, func(p hrmapi.Payslip) string { return p.ID }))
	})
	r.With(s.selfOr(auth.CapViewAllPayslips)).Get("/payroll/employee/{employeeId}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "employeeId")
		s.mu.RLock()
		all := sorted(s.payslips, func(p hrmapi.Payslip) string { return p.ID })
		s.mu.RUnlock()
		writeBare(w, http.StatusOK, lo.Filter(all, func(p hrmapi.Payslip, _ int) bool { return p.EmployeeID == id }))
	})
	r.With(s.require(auth.CapManagePayroll)).Post("/payroll/generate", s.generatePayslip)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// generatePayslip derives a month's payslip from the annual salary with a
// fixed demo split.
func (s *Server) generatePayslip(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EmployeeID string `json:"employeeId"`
		Month      string `json:"month"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[body.EmployeeID]
	if !ok || e.Salary == nil {
		writeMessage(w, http.StatusNotFound, "Employee not found")
		return
	}
	monthly := *e.Salary / 12
	p := hrmapi.Payslip{
		ID:                 uuid.NewString(),
		EmployeeID:         e.ID,
		EmployeeName:       e.FullName(),
		Month:              body.Month,
		BasicSalary:        round2(monthly * 0.7),
		HRA:                round2(monthly * 0.2),
		TransportAllowance: 500,
		MedicalAllowance:   300,
	}
	p.Tax = round2(p.Gross() * 0.15)
	p.ProvidentFund = round2(p.BasicSalary * 0.12)
	p.NetSalary = round2(p.Gross() - p.Deductions())
	s.payslips[p.ID] = p
	writeBare(w, http.StatusCreated, p)
}

// Attendance answers without the envelope. Today's record is null until
// the employee punches in.
func (s *Server) registerAttendance(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.selfOr(auth.CapManageAttendance))
		r.Get("/attendance/today/{employeeId}", func(w http.ResponseWriter, r *http.Request) {
			s.mu.RLock()
			rec, ok := s.attendance[s.attendanceKey(chi.URLParam(r, "employeeId"))]
			s.mu.RUnlock()
			if !ok {
				writeBare(w, http.StatusOK, nil)
				return
			}
			writeBare(w, http.StatusOK, rec)
		})
		r.Post("/attendance/punch-in/{employeeId}", s.punch(true))
		r.Put("/attendance/punch-out/{employeeId}", s.punch(false))
		r.Get("/attendance/employee/{employeeId}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "employeeId")
			month := r.URL.Query().Get("month")
			s.mu.RLock()
			all := sorted(s.attendance, func(a hrmapi.AttendanceRecord) string { return a.Date })
			s.mu.RUnlock()
			writeBare(w, http.StatusOK, lo.Filter(all, func(a hrmapi.AttendanceRecord, _ int) bool {
				return a.EmployeeID == id && (month == "" || strings.HasPrefix(a.Date, month))
			}))
		})
	})
}

// timeOfDay places a clock reading on the same day as ref.
func timeOfDay(ref time.Time, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("15:04:05", clock, ref.Location())
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := ref.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, ref.Location()), nil
}

func (s *Server) attendanceKey(employeeID string) string {
	return employeeID + "|" + s.now().Format("2006-01-02")
}

func (s *Server) punch(in bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hrmapi.PunchRequest
		if !decode(w, r, &req) {
			return
		}
		employeeID := chi.URLParam(r, "employeeId")
		now := s.now()
		stamp := now.Format("15:04:05")
		loc := &hrmapi.Location{Latitude: req.Latitude, Longitude: req.Longitude}

		s.mu.Lock()
		defer s.mu.Unlock()
		key := s.attendanceKey(employeeID)
		rec, exists := s.attendance[key]
		switch {
		case in && exists:
			writeMessage(w, http.StatusConflict, "Already punched in today")
			return
		case !in && (!exists || rec.PunchOutTime != nil):
			writeMessage(w, http.StatusConflict, "No open punch-in for today")
			return
		case in:
			rec = hrmapi.AttendanceRecord{
				ID:              uuid.NewString(),
				EmployeeID:      employeeID,
				Date:            now.Format("2006-01-02"),
				PunchInTime:     &stamp,
				PunchInLocation: loc,
				Status:          hrmapi.AttendancePresent,
			}
			if e, ok := s.employees[employeeID]; ok {
				rec.EmployeeName = e.FullName()
			}
		default:
			rec.PunchOutTime = &stamp
			rec.PunchOutLocation = loc
			if started, err := timeOfDay(now, *rec.PunchInTime); err == nil {
				hours := round2(now.Sub(started).Hours())
				rec.WorkingHours = &hours
			}
		}
		s.attendance[key] = rec
		writeBare(w, http.StatusOK, rec)
	}
}

func (s *Server) registerSettings(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.require(auth.CapManageSettings))
		r.Get("/roles", func(w http.ResponseWriter, r *http.Request) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			writeBare(w, http.StatusOK, s.roles)
		})
		r.Post("/roles", func(w http.ResponseWriter, r *http.Request) {
			var role hrmapi.RoleDefinition
			if !decode(w, r, &role) {
				return
			}
			role.ID = uuid.NewString()
			s.mu.Lock()
			s.roles = append(s.roles, role)
			s.mu.Unlock()
			api.Created(w, role, requestctx.GetRequestID(r.Context()))
		})
		r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
			s.mu.RLock()
			users := make([]hrmapi.User, 0, len(s.accounts))
			for _, a := range s.accounts {
				users = append(users, hrmapi.User{ID: a.ID, Email: a.Email, Name: a.Name, Role: string(auth.NormalizeRoles(a.Roles))})
			}
			s.mu.RUnlock()
			slices.SortFunc(users, func(a, b hrmapi.User) int { return cmp.Compare(a.Email, b.Email) })
			api.Success(w, hrmapi.Page[hrmapi.User]{
				Content:          users,
				TotalElements:    len(users),
				TotalPages:       1,
				Size:             len(users),
				First:            true,
				Last:             true,
				NumberOfElements: len(users),
				Empty:            len(users) == 0,
			}, requestctx.GetRequestID(r.Context()))
		})
	})
}
