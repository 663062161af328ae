package viewhandler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/guard"
	"hrmconsole/internal/hrmapi"
	"hrmconsole/internal/requestctx"
	"hrmconsole/internal/session"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
	"hrmconsole/internal/transport/http/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	Services *hrmapi.Services
	Sessions *session.Store
	Resolver *auth.Resolver
	Guard    *guard.Guard
}

func NewHandler(services *hrmapi.Services, sessions *session.Store, resolver *auth.Resolver, g *guard.Guard) *Handler {
	return &Handler{Services: services, Sessions: sessions, Resolver: resolver, Guard: g}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.HandleDashboard)
	r.Get("/employees", h.HandleEmployees)
	r.Get("/departments", h.HandleDepartments)
	r.Get("/leave", h.HandleLeave)
	r.With(h.require(auth.CapManageLeave)).Post("/leave", h.HandleApplyLeave)
	r.Group(func(r chi.Router) {
		r.Use(h.require(auth.CapApproveLeave))
		r.Post("/leave/{id}/approve", h.HandleLeaveDecision(hrmapi.LeaveApproved))
		r.Post("/leave/{id}/reject", h.HandleLeaveDecision(hrmapi.LeaveRejected))
	})
	r.Get("/payroll", h.HandlePayroll)
	r.Get("/payroll/{id}/pdf", h.HandlePayslipPDF)
	r.Get("/attendance", h.HandleAttendance)
	r.Post("/attendance/punch-in", h.HandlePunch(true))
	r.Post("/attendance/punch-out", h.HandlePunch(false))
	r.Get("/settings", h.HandleSettings)
	r.Get("/onboarding", h.HandleOnboarding)
	r.Get("/performance", h.HandlePerformance)
	r.Get("/profile", h.HandleProfile)
}

func (h *Handler) require(c auth.Capability) func(http.Handler) http.Handler {
	return middleware.RequireCapability(h.Resolver, c, h.role)
}

func (h *Handler) role(*http.Request) (auth.Role, bool) {
	p, ok := h.Sessions.Current()
	return p.Role, ok
}

// principal reads the session for a request the guard already admitted.
// A logout racing the request still yields a 401 rather than a panic.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := h.Sessions.Current()
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "no active session", requestctx.GetRequestID(r.Context()))
	}
	return p, ok
}

func employeeID(p auth.Principal) string {
	if p.EmployeeID != "" {
		return p.EmployeeID
	}
	return p.ID
}

type page struct {
	User       auth.Principal  `json:"user"`
	Navigation []guard.NavItem `json:"navigation"`
}

func (h *Handler) page(p auth.Principal) page {
	return page{User: p, Navigation: h.Guard.Navigation()}
}

type dashboardView struct {
	page
	EmployeeCount *int                     `json:"employeeCount,omitempty"`
	PendingLeave  *int                     `json:"pendingLeave,omitempty"`
	Today         *hrmapi.AttendanceRecord `json:"today,omitempty"`
	Errors        map[string]string        `json:"errors,omitempty"`
}

// HandleDashboard gathers the role's widgets concurrently. A failed widget is
// reported in errors without failing the page.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	view := dashboardView{page: h.page(p)}
	var (
		g          errgroup.Group
		employees  []hrmapi.Employee
		leaves     []hrmapi.LeaveRequest
		today      *hrmapi.AttendanceRecord
		empErr     error
		leaveErr   error
		todayErr   error
		canApprove = h.Resolver.CanApproveLeave(p.Role)
	)
	ctx := r.Context()
	if h.Resolver.CanManageEmployees(p.Role) {
		g.Go(func() error {
			employees, empErr = h.Services.Employees.List(ctx, hrmapi.ListParams{})
			return nil
		})
	}
	g.Go(func() error {
		if canApprove {
			leaves, leaveErr = h.Services.Leave.List(ctx)
		} else {
			leaves, leaveErr = h.Services.Leave.ListByEmployee(ctx, employeeID(p))
		}
		return nil
	})
	if h.Resolver.Has(p.Role, auth.CapViewAttendance) {
		g.Go(func() error {
			today, todayErr = h.Services.Attendance.Today(ctx, employeeID(p))
			return nil
		})
	}
	_ = g.Wait()

	view.Errors = map[string]string{}
	if empErr != nil {
		view.Errors["employees"] = empErr.Error()
	} else if h.Resolver.CanManageEmployees(p.Role) {
		n := len(employees)
		view.EmployeeCount = &n
	}
	if leaveErr != nil {
		view.Errors["leave"] = leaveErr.Error()
	} else {
		n := 0
		for _, l := range leaves {
			if l.Status == hrmapi.LeavePending {
				n++
			}
		}
		view.PendingLeave = &n
	}
	if todayErr != nil {
		view.Errors["attendance"] = todayErr.Error()
	}
	view.Today = today
	if len(view.Errors) == 0 {
		view.Errors = nil
	}
	api.Success(w, view, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleEmployees(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	params := shared.ParseListParams(r, defaultPageSize, maxPageSize)
	employees, err := h.Services.Employees.List(r.Context(), params)
	if err != nil {
		shared.FailUpstream(w, r, err)
		return
	}
	api.Success(w, struct {
		page
		Employees []hrmapi.Employee `json:"employees"`
		Page      int               `json:"page"`
		Size      int               `json:"size"`
		CanManage bool              `json:"canManage"`
	}{h.page(p), nonNil(employees), params.Page, params.Size, h.Resolver.CanManageEmployees(p.Role)}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	departments, err := h.Services.Departments.List(r.Context())
	if err != nil {
		shared.FailUpstream(w, r, err)
		return
	}
	api.Success(w, struct {
		page
		Departments []hrmapi.Department `json:"departments"`
		CanManage   bool                `json:"canManage"`
	}{h.page(p), nonNil(departments), h.Resolver.CanManageDepartments(p.Role)}, requestctx.GetRequestID(r.Context()))
}

// HandleLeave shows every request to approvers and only their own to
// everyone else.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	canApprove := h.Resolver.CanApproveLeave(p.Role)
	var (
		leaves []hrmapi.LeaveRequest
		err    error
	)
	if canApprove {
		leaves, err = h.Services.Leave.List(r.Context())
	} else {
		leaves, err = h.Services.Leave.ListByEmployee(r.Context(), employeeID(p))
	}
	if err != nil {
		shared.FailUpstream(w, r, err)
		return
	}
	api.Success(w, struct {
		page
		Requests   []hrmapi.LeaveRequest `json:"requests"`
		CanApprove bool                  `json:"canApprove"`
		CanApply   bool                  `json:"canApply"`
	}{h.page(p), nonNil(leaves), canApprove, h.Resolver.Has(p.Role, auth.CapManageLeave)}, requestctx.GetRequestID(r.Context()))
}

type leaveApplication struct {
	Type      hrmapi.LeaveType `json:"type"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Reason    string           `json:"reason"`
}

func (h *Handler) HandleApplyLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var payload leaveApplication
	if !shared.Decode(w, r, &payload, requestctx.GetRequestID(r.Context())) {
		return
	}
	created, err := h.Services.Leave.Apply(r.Context(), hrmapi.LeaveApplication{
		EmployeeID:   employeeID(p),
		EmployeeName: p.DisplayName,
		Type:         payload.Type,
		StartDate:    payload.StartDate,
		EndDate:      payload.EndDate,
		Reason:       payload.Reason,
	})
	if err != nil {
		shared.FailUpstream(w, r, err)
		return
	}
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleLeaveDecision(status hrmapi.LeaveStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := h.Services.Leave.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
		if err != nil {
			shared.FailUpstream(w, r, err)
			return
		}
		requestctx.Logger(r.Context()).Info("leave decided", "leaveId", updated.ID, "status", status)
		api.Success(w, updated, requestctx.GetRequestID(r.Context()))
	}
}

// payslips returns what the role may see: everything, only the caller's
// own, or nothing.
func (h *Handler) payslips(ctx context.Context, p auth.Principal) ([]hrmapi.Payslip, error) {
	switch {
	case h.Resolver.CanViewAllPayslips(p.Role):
		return h.Services.Payroll.List(ctx)
	case h.Resolver.Has(p.Role, auth.CapViewOwnPayslip):
		return h.Services.Payroll.ListByEmployee(ctx, employeeID(p))
	}
	return nil, nil
}

func (h *Handler) HandlePayroll(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	slips, err := h.payslips(r.Context(), p)
	if err != nil {
		shared.FailUpstream(w, r, err)
		return
	}
	api.Success(w, struct {
		page
		Payslips  []hrmapi.Payslip `json:"payslips"`
		ViewAll   bool             `json:"viewAll"`
		CanManage bool             `json:"canManage"`
	}{h.page(p), nonNil(slips), h.Resolver.CanViewAllPayslips(p.Role), h.Resolver.CanManagePayroll(p.Role)}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	slips, err := h.payslips(r.Context(), p)
	if err != nil {
		shared.FailUpstream(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	for _, slip := range slips {
		if slip.ID != id {
			continue
		}
		var buf bytes.Buffer
		if err := hrmapi.RenderPayslipPDF(&buf, slip); err != nil {
			requestctx.Logger(r.Context()).Error("render payslip failed", "payslipId", id, "err", err)
			api.Fail(w, http.StatusInternalServerError, "pdf_error", "failed to render payslip", requestctx.GetRequestID(r.Context()))
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="payslip-`+slip.Month+`.pdf"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = w.Write(buf.Bytes())
		return
	}
	api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleAttendance(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	params := shared.ParseListParams(r, defaultPageSize, maxPageSize)
	overview := h.Services.Attendance.Overview(r.Context(), employeeID(p), params)
	api.Success(w, struct {
		page
		hrmapi.Overview
		CanManage bool `json:"canManage"`
	}{h.page(p), overview, h.Resolver.CanManageAttendance(p.Role)}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandlePunch(in bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.principal(w, r)
		if !ok {
			return
		}
		var payload hrmapi.PunchRequest
		if !shared.Decode(w, r, &payload, requestctx.GetRequestID(r.Context())) {
			return
		}
		var (
			rec hrmapi.AttendanceRecord
			err error
		)
		if in {
			rec, err = h.Services.Attendance.PunchIn(r.Context(), employeeID(p), payload)
		} else {
			rec, err = h.Services.Attendance.PunchOut(r.Context(), employeeID(p), payload)
		}
		if err != nil {
			shared.FailUpstream(w, r, err)
			return
		}
		api.Success(w, rec, requestctx.GetRequestID(r.Context()))
	}
}

func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	g, ctx := errgroup.WithContext(r.Context())
	var (
		roles []hrmapi.RoleDefinition
		users []hrmapi.User
	)
	g.Go(func() (err error) {
		roles, err = h.Services.Settings.Roles(ctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = h.Services.Settings.Users(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		shared.FailUpstream(w, r, err)
		return
	}
	api.Success(w, struct {
		page
		Roles                []hrmapi.RoleDefinition         `json:"roles"`
		Users                []hrmapi.User                   `json:"users"`
		CapabilityMapVersion string                          `json:"capabilityMapVersion"`
		CapabilityMap        map[auth.Role][]auth.Capability `json:"capabilityMap"`
	}{h.page(p), nonNil(roles), nonNil(users), h.Resolver.Version(), h.capabilityMap()}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) capabilityMap() map[auth.Role][]auth.Capability {
	out := make(map[auth.Role][]auth.Capability, len(auth.Roles))
	for _, role := range auth.Roles {
		out[role] = h.Resolver.CapabilitiesFor(role)
	}
	return out
}

// HandleOnboarding and HandlePerformance have no backend of their own; they
// expose what the role may do on those pages.
func (h *Handler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	api.Success(w, struct {
		page
		CanManage bool `json:"canManage"`
	}{h.page(p), h.Resolver.CanManageOnboarding(p.Role)}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	api.Success(w, struct {
		page
		CanReviewTeam bool `json:"canReviewTeam"`
	}{h.page(p), h.Resolver.CanManageEmployees(p.Role)}, requestctx.GetRequestID(r.Context()))
}

// HandleProfile shows the signed-in principal and what their current role
// grants.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	api.Success(w, struct {
		page
		Capabilities []auth.Capability `json:"capabilities"`
	}{h.page(p), nonNil(h.Resolver.CapabilitiesFor(p.Role))}, requestctx.GetRequestID(r.Context()))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
