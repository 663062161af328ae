package hrmapi

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

type Payroll struct {
	api Requester
}

func (s *Payroll) List(ctx context.Context) ([]Payslip, error) {
	var out []Payslip
	if err := s.api.Get(ctx, "/payroll", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Payroll) ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	var out []Payslip
	if err := s.api.Get(ctx, path("payroll", "employee", employeeID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Payroll) Generate(ctx context.Context, employeeID, month string) (Payslip, error) {
	if employeeID == "" || month == "" {
		return Payslip{}, fmt.Errorf("%w: employee and month are required", ErrInvalidInput)
	}
	var out Payslip
	err := s.api.Post(ctx, "/payroll/generate", map[string]string{"employeeId": employeeID, "month": month}, &out)
	return out, err
}

// RenderPayslipPDF writes an A4 payslip to w.
func RenderPayslipPDF(w io.Writer, p Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+p.Month, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", p.EmployeeName, p.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Month: %s", p.Month))
	pdf.Ln(10)

	line := func(label string, amount float64) {
		pdf.CellFormat(90, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	line("Basic salary", p.BasicSalary)
	line("HRA", p.HRA)
	line("Transport allowance", p.TransportAllowance)
	line("Medical allowance", p.MedicalAllowance)
	line("Gross", p.Gross())
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	line("Tax", p.Tax)
	line("Provident fund", p.ProvidentFund)
	line("Total deductions", p.Deductions())
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	line("Net salary", p.NetSalary)

	return pdf.Output(w)
}
