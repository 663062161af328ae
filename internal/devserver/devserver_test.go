package devserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/apiclient"
	authgateway "hrmconsole/internal/auth"
	"hrmconsole/internal/devserver"
	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/hrmapi"
	"hrmconsole/internal/platform/storage"
	"hrmconsole/internal/session"
)

type console struct {
	gateway  *authgateway.Gateway
	sessions *session.Store
	client   *apiclient.Client
	services *hrmapi.Services
}

func newConsole(t *testing.T) console {
	t.Helper()
	backend, err := devserver.New(devserver.Options{Secret: "test-secret"})
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	st := storage.NewMemory()
	sessions := session.Open(context.Background(), st)
	client := apiclient.New(srv.URL+"/api", sessions, apiclient.WithHTTPClient(srv.Client()))
	return console{
		gateway:  authgateway.New(client, sessions, st, authgateway.WithServerLogout(true)),
		sessions: sessions,
		client:   client,
		services: hrmapi.New(client),
	}
}

func TestSeededLogins(t *testing.T) {
	cases := []struct {
		email string
		role  auth.Role
	}{
		{"admin@hrms.com", auth.RoleAdmin},
		{"manager@hrms.com", auth.RoleManager},
		{"employee@hrms.com", auth.RoleEmployee},
		{"newcomer@hrms.com", auth.RoleEmployee},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			c := newConsole(t)
			p, err := c.gateway.Login(context.Background(), tc.email, devserver.DemoPassword)
			require.NoError(t, err)
			assert.Equal(t, tc.role, p.Role)
			assert.Equal(t, tc.email, p.Email)
			assert.NotEmpty(t, c.sessions.Token())
		})
	}
}

func TestUnseededAddressLogsInAgain(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()

	first, err := c.gateway.Login(ctx, "new.hire@co.com", devserver.DemoPassword)
	require.NoError(t, err)
	c.gateway.Logout(ctx)

	second, err := c.gateway.Login(ctx, "new.hire@co.com", devserver.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, auth.RoleEmployee, second.Role)

	c.gateway.Logout(ctx)
	_, err = c.gateway.Login(ctx, "new.hire@co.com", "wrong")
	assert.ErrorIs(t, err, authgateway.ErrInvalidCredentials)
}

func TestWrongPasswordRejected(t *testing.T) {
	c := newConsole(t)
	_, err := c.gateway.Login(context.Background(), "admin@hrms.com", "nope")
	require.ErrorIs(t, err, authgateway.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Bad credentials")
	assert.False(t, c.sessions.IsAuthenticated())
}

func TestLogoutRevokesToken(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()
	_, err := c.gateway.Login(ctx, "admin@hrms.com", devserver.DemoPassword)
	require.NoError(t, err)
	token := c.sessions.Token()

	_, err = c.services.Employees.List(ctx, hrmapi.ListParams{})
	require.NoError(t, err)

	c.gateway.Logout(ctx)
	assert.False(t, c.sessions.IsAuthenticated())

	// The old token no longer opens anything.
	stale := apiclient.New(c.client.URL("", nil), apiclient.TokenFunc(func() string { return token }))
	err = stale.Get(ctx, "/employees", nil, nil)
	assert.True(t, apiclient.IsUnauthorized(err))
}

func TestAnonymousCallsRejected(t *testing.T) {
	c := newConsole(t)
	_, err := c.services.Departments.List(context.Background())
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))
}

func TestEmployeeScopedAccess(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()
	p, err := c.gateway.Login(ctx, "employee@hrms.com", devserver.DemoPassword)
	require.NoError(t, err)

	own, err := c.services.Payroll.ListByEmployee(ctx, p.EmployeeID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "David Martinez", own[0].EmployeeName)

	_, err = c.services.Payroll.List(ctx)
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
	_, err = c.services.Payroll.ListByEmployee(ctx, "1")
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
	_, err = c.services.Employees.Create(ctx, hrmapi.Employee{FirstName: "X", Email: "x@hrms.com"})
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
	_, err = c.services.Leave.UpdateStatus(ctx, "4", hrmapi.LeaveApproved)
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
}

func TestLeaveLifecycle(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()
	p, err := c.gateway.Login(ctx, "employee@hrms.com", devserver.DemoPassword)
	require.NoError(t, err)

	created, err := c.services.Leave.Apply(ctx, hrmapi.LeaveApplication{
		EmployeeID: p.EmployeeID,
		Type:       hrmapi.LeaveSick,
		StartDate:  "2026-04-01",
		EndDate:    "2026-04-02",
		Reason:     "Dentist",
	})
	require.NoError(t, err)
	assert.Equal(t, hrmapi.LeavePending, created.Status)
	assert.NotEmpty(t, created.AppliedOn)

	mine, err := c.services.Leave.ListByEmployee(ctx, p.EmployeeID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	c.gateway.Logout(ctx)
	_, err = c.gateway.Login(ctx, "manager@hrms.com", devserver.DemoPassword)
	require.NoError(t, err)

	decided, err := c.services.Leave.UpdateStatus(ctx, created.ID, hrmapi.LeaveApproved)
	require.NoError(t, err)
	assert.Equal(t, hrmapi.LeaveApproved, decided.Status)

	_, err = c.services.Leave.UpdateStatus(ctx, created.ID, hrmapi.LeaveRejected)
	assert.Equal(t, http.StatusConflict, apiclient.StatusOf(err))
}

func TestEmployeeCRUD(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()
	_, err := c.gateway.Login(ctx, "admin@hrms.com", devserver.DemoPassword)
	require.NoError(t, err)

	all, err := c.services.Employees.List(ctx, hrmapi.ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 6)

	found, err := c.services.Employees.List(ctx, hrmapi.ListParams{Search: "chen"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "3", found[0].ID)

	paged, err := c.services.Employees.List(ctx, hrmapi.ListParams{Page: 1, Size: 4})
	require.NoError(t, err)
	assert.Len(t, paged, 2)

	e, err := c.services.Employees.Create(ctx, hrmapi.Employee{FirstName: "Nina", LastName: "Park", Email: "nina@hrms.com"})
	require.NoError(t, err)
	assert.Equal(t, hrmapi.EmployeeActive, e.Status)

	role := "QA Engineer"
	updated, err := c.services.Employees.Update(ctx, e.ID, hrmapi.EmployeeUpdate{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, role, updated.Role)
	assert.Equal(t, "Nina", updated.FirstName)

	require.NoError(t, c.services.Employees.Delete(ctx, e.ID))
	_, err = c.services.Employees.Get(ctx, e.ID)
	assert.True(t, apiclient.IsNotFound(err))
}

func TestAttendancePunchCycle(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()
	p, err := c.gateway.Login(ctx, "employee@hrms.com", devserver.DemoPassword)
	require.NoError(t, err)

	today, err := c.services.Attendance.Today(ctx, p.EmployeeID)
	require.NoError(t, err)
	assert.Nil(t, today)

	punch := hrmapi.PunchRequest{Latitude: 51.5, Longitude: -0.12}
	in, err := c.services.Attendance.PunchIn(ctx, p.EmployeeID, punch)
	require.NoError(t, err)
	require.NotNil(t, in.PunchInTime)
	assert.Equal(t, "David Martinez", in.EmployeeName)

	_, err = c.services.Attendance.PunchIn(ctx, p.EmployeeID, punch)
	assert.Equal(t, http.StatusConflict, apiclient.StatusOf(err))

	out, err := c.services.Attendance.PunchOut(ctx, p.EmployeeID, punch)
	require.NoError(t, err)
	assert.NotNil(t, out.PunchOutTime)
	assert.NotNil(t, out.WorkingHours)

	history, err := c.services.Attendance.History(ctx, p.EmployeeID, hrmapi.ListParams{})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSettingsAndPayroll(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()
	_, err := c.gateway.Login(ctx, "admin@hrms.com", devserver.DemoPassword)
	require.NoError(t, err)

	users, err := c.services.Settings.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	roles, err := c.services.Settings.Roles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 3)
	assert.Contains(t, roles[0].Permissions, string(auth.CapManageSettings))

	slip, err := c.services.Payroll.Generate(ctx, "7", "March 2026")
	require.NoError(t, err)
	assert.InDelta(t, slip.Gross()-slip.Deductions(), slip.NetSalary, 0.01)

	depts, err := c.services.Departments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, depts, 4)
}
