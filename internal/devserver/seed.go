package devserver

import (
	"strings"

	"github.com/samber/lo"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/hrmapi"
)

func (s *Server) seed() error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	s.demoHash = hash
	for _, a := range []account{
		{ID: "1", EmployeeID: "10", Email: "admin@hrms.com", Name: "Admin User", Roles: []string{"ROLE_ADMIN"}},
		{ID: "2", EmployeeID: "3", Email: "manager@hrms.com", Name: "Manager User", Roles: []string{"ROLE_MANAGER"}},
		{ID: "3", EmployeeID: "7", Email: "employee@hrms.com", Name: "Employee User", Roles: []string{"ROLE_EMPLOYEE"}},
	} {
		a.PasswordHash = hash
		s.accounts[strings.ToLower(a.Email)] = &a
	}

	salary := func(v float64) *float64 { return &v }
	for _, e := range []hrmapi.Employee{
		{ID: "1", FirstName: "John", LastName: "Smith", Email: "john.smith@hrms.com", Phone: "+1 555-0101", Department: "Engineering", Role: "Senior Developer", DateOfJoining: "2021-03-15", Status: hrmapi.EmployeeActive, Salary: salary(95000)},
		{ID: "2", FirstName: "Sarah", LastName: "Johnson", Email: "sarah.j@hrms.com", Phone: "+1 555-0102", Department: "Marketing", Role: "Marketing Manager", DateOfJoining: "2020-07-22", Status: hrmapi.EmployeeActive, Salary: salary(85000)},
		{ID: "3", FirstName: "Michael", LastName: "Chen", Email: "michael.c@hrms.com", Phone: "+1 555-0103", Department: "Engineering", Role: "Tech Lead", DateOfJoining: "2019-11-01", Status: hrmapi.EmployeeActive, Salary: salary(120000)},
		{ID: "5", FirstName: "Robert", LastName: "Wilson", Email: "robert.w@hrms.com", Phone: "+1 555-0105", Department: "Finance", Role: "Financial Analyst", DateOfJoining: "2021-09-05", Status: hrmapi.EmployeeOnLeave, Salary: salary(78000)},
		{ID: "7", FirstName: "David", LastName: "Martinez", Email: "david.m@hrms.com", Phone: "+1 555-0107", Department: "Engineering", Role: "Junior Developer", DateOfJoining: "2023-02-28", Status: hrmapi.EmployeeActive, Salary: salary(65000)},
		{ID: "10", FirstName: "Amanda", LastName: "White", Email: "amanda.w@hrms.com", Phone: "+1 555-0110", Department: "HR", Role: "HR Director", DateOfJoining: "2018-08-01", Status: hrmapi.EmployeeActive, Salary: salary(110000)},
	} {
		s.employees[e.ID] = e
	}

	for _, d := range []hrmapi.Department{
		{ID: "1", Name: "Engineering", Head: "Michael Chen", EmployeeCount: 24, Description: "Software development and technical operations"},
		{ID: "2", Name: "Marketing", Head: "Sarah Johnson", EmployeeCount: 12, Description: "Brand management, campaigns, and market research"},
		{ID: "3", Name: "HR", Head: "Amanda White", EmployeeCount: 8, Description: "Human resources and talent management"},
		{ID: "4", Name: "Finance", Head: "Robert Wilson", EmployeeCount: 10, Description: "Financial planning, accounting, and budgeting"},
	} {
		s.departments[d.ID] = d
	}

	for _, l := range []hrmapi.LeaveRequest{
		{ID: "1", EmployeeID: "1", EmployeeName: "John Smith", Type: hrmapi.LeaveAnnual, StartDate: "2026-03-01", EndDate: "2026-03-05", Reason: "Family vacation", Status: hrmapi.LeaveApproved, AppliedOn: "2026-02-10"},
		{ID: "2", EmployeeID: "5", EmployeeName: "Robert Wilson", Type: hrmapi.LeaveSick, StartDate: "2026-02-18", EndDate: "2026-02-20", Reason: "Flu", Status: hrmapi.LeaveApproved, AppliedOn: "2026-02-17"},
		{ID: "3", EmployeeID: "2", EmployeeName: "Sarah Johnson", Type: hrmapi.LeaveCasual, StartDate: "2026-02-25", EndDate: "2026-02-25", Reason: "Personal errands", Status: hrmapi.LeavePending, AppliedOn: "2026-02-19"},
		{ID: "4", EmployeeID: "7", EmployeeName: "David Martinez", Type: hrmapi.LeaveAnnual, StartDate: "2026-03-10", EndDate: "2026-03-14", Reason: "Travel abroad", Status: hrmapi.LeavePending, AppliedOn: "2026-02-18"},
	} {
		s.leaves[l.ID] = l
	}

	for _, p := range []hrmapi.Payslip{
		{ID: "1", EmployeeID: "1", EmployeeName: "John Smith", Month: "February 2026", BasicSalary: 7917, HRA: 2375, TransportAllowance: 500, MedicalAllowance: 300, Tax: 1650, ProvidentFund: 950, NetSalary: 8492},
		{ID: "2", EmployeeID: "7", EmployeeName: "David Martinez", Month: "February 2026", BasicSalary: 5417, HRA: 1625, TransportAllowance: 500, MedicalAllowance: 300, Tax: 900, ProvidentFund: 650, NetSalary: 6292},
		{ID: "3", EmployeeID: "3", EmployeeName: "Michael Chen", Month: "February 2026", BasicSalary: 10000, HRA: 3000, TransportAllowance: 500, MedicalAllowance: 300, Tax: 2200, ProvidentFund: 1200, NetSalary: 10400},
	} {
		s.payslips[p.ID] = p
	}

	s.roles = []hrmapi.RoleDefinition{
		{ID: "1", Name: "ADMIN", Description: "Full access", Permissions: capabilityNames(s.resolver, auth.RoleAdmin)},
		{ID: "2", Name: "MANAGER", Description: "Team management", Permissions: capabilityNames(s.resolver, auth.RoleManager)},
		{ID: "3", Name: "EMPLOYEE", Description: "Self service", Permissions: capabilityNames(s.resolver, auth.RoleEmployee)},
	}
	return nil
}

func capabilityNames(r *auth.Resolver, role auth.Role) []string {
	return lo.Map(r.CapabilitiesFor(role), func(c auth.Capability, _ int) string { return string(c) })
}
