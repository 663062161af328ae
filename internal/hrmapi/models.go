package hrmapi

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
	EmployeeOnLeave  EmployeeStatus = "on-leave"
)

type Employee struct {
	ID            string         `json:"id,omitempty"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	Department    string         `json:"department,omitempty"`
	Role          string         `json:"role,omitempty"`
	DateOfJoining string         `json:"dateOfJoining,omitempty"`
	Status        EmployeeStatus `json:"status,omitempty"`
	Avatar        string         `json:"avatar,omitempty"`
	Salary        *float64       `json:"salary,omitempty"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// EmployeeUpdate carries only the fields being changed.
type EmployeeUpdate struct {
	FirstName     *string         `json:"firstName,omitempty"`
	LastName      *string         `json:"lastName,omitempty"`
	Email         *string         `json:"email,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Department    *string         `json:"department,omitempty"`
	Role          *string         `json:"role,omitempty"`
	DateOfJoining *string         `json:"dateOfJoining,omitempty"`
	Status        *EmployeeStatus `json:"status,omitempty"`
	Salary        *float64        `json:"salary,omitempty"`
}

type Department struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Head          string `json:"head,omitempty"`
	EmployeeCount int    `json:"employeeCount,omitempty"`
	Description   string `json:"description,omitempty"`
}

type DepartmentUpdate struct {
	Name        *string `json:"name,omitempty"`
	Head        *string `json:"head,omitempty"`
	Description *string `json:"description,omitempty"`
}

type LeaveType string

const (
	LeaveSick      LeaveType = "sick"
	LeaveCasual    LeaveType = "casual"
	LeaveAnnual    LeaveType = "annual"
	LeaveMaternity LeaveType = "maternity"
	LeaveOther     LeaveType = "other"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type LeaveRequest struct {
	ID           string      `json:"id"`
	EmployeeID   string      `json:"employeeId"`
	EmployeeName string      `json:"employeeName"`
	Type         LeaveType   `json:"type"`
	StartDate    string      `json:"startDate"`
	EndDate      string      `json:"endDate"`
	Reason       string      `json:"reason"`
	Status       LeaveStatus `json:"status"`
	AppliedOn    string      `json:"appliedOn"`
}

type LeaveApplication struct {
	EmployeeID   string    `json:"employeeId" validate:"required"`
	EmployeeName string    `json:"employeeName"`
	Type         LeaveType `json:"type" validate:"required,oneof=sick casual annual maternity other"`
	StartDate    string    `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string    `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason       string    `json:"reason"`
}

type Payslip struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employeeId"`
	EmployeeName       string  `json:"employeeName"`
	Month              string  `json:"month"`
	BasicSalary        float64 `json:"basicSalary"`
	HRA                float64 `json:"hra"`
	TransportAllowance float64 `json:"transportAllowance"`
	MedicalAllowance   float64 `json:"medicalAllowance"`
	Tax                float64 `json:"tax"`
	ProvidentFund      float64 `json:"providentFund"`
	NetSalary          float64 `json:"netSalary"`
}

func (p Payslip) Gross() float64 {
	return p.BasicSalary + p.HRA + p.TransportAllowance + p.MedicalAllowance
}

func (p Payslip) Deductions() float64 {
	return p.Tax + p.ProvidentFund
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceHalfDay AttendanceStatus = "HALF_DAY"
	AttendanceOnLeave AttendanceStatus = "ON_LEAVE"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AttendanceRecord struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employeeId"`
	EmployeeName     string           `json:"employeeName"`
	Date             string           `json:"date"`
	PunchInTime      *string          `json:"punchInTime"`
	PunchOutTime     *string          `json:"punchOutTime"`
	PunchInLocation  *Location        `json:"punchInLocation"`
	PunchOutLocation *Location        `json:"punchOutLocation"`
	Status           AttendanceStatus `json:"status"`
	WorkingHours     *float64         `json:"workingHours"`
}

// PunchRequest carries coordinates and an address resolved by the caller.
type PunchRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Address   string  `json:"address"`
}

type RoleDefinition struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Page is the paging envelope the settings endpoints return.
type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	Size             int  `json:"size"`
	Number           int  `json:"number"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	NumberOfElements int  `json:"numberOfElements"`
	Empty            bool `json:"empty"`
}
