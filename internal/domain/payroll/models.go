package payroll

import "time"

const (
	RunStatusDraft     = "DRAFT"
	RunStatusCommitted = "COMMITTED"
)

// Offer is the stored salary structure for one employee. Gross and net are
// derived once at creation and trusted as authoritative afterwards; payroll
// recomputes only the monthly LWP deduction on top of them.
type Offer struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employeeId"`
	BasicPay         float64   `json:"basicPay"`
	HRA              float64   `json:"hra"`
	DA               float64   `json:"da"`
	SpecialAllowance float64   `json:"specialAllowance"`
	GrossSalary      float64   `json:"grossSalary"`
	PFDeduction      float64   `json:"pfDeduction"`
	Tax              float64   `json:"tax"`
	NetSalary        float64   `json:"netSalary"`
	CreatedAt        time.Time `json:"createdAt"`
}

// EligibleEmployee joins an employee with their offer. Employees without an
// offer never appear here.
type EligibleEmployee struct {
	EmployeeID   string
	EmployeeName string
	Email        string
	Offer        Offer
}

type PreviewRow struct {
	EmployeeID       string  `json:"employeeId"`
	EmployeeName     string  `json:"employeeName"`
	BasicPay         float64 `json:"basicPay"`
	HRA              float64 `json:"hra"`
	DA               float64 `json:"da"`
	SpecialAllowance float64 `json:"specialAllowance"`
	GrossSalary      float64 `json:"grossSalary"`
	LWPDays          float64 `json:"lwpDays"`
	LWPDeduction     float64 `json:"lwpDeduction"`
	PFDeduction      float64 `json:"pfDeduction"`
	Tax              float64 `json:"tax"`
	TotalDeductions  float64 `json:"totalDeductions"`
	NetPayable       float64 `json:"netPayable"`
}

type Run struct {
	ID        string    `json:"id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type RunItem struct {
	ID  string     `json:"id"`
	Row PreviewRow `json:"row"`
}

type PayslipData struct {
	EmployeeName string
	Email        string
	Month        int
	Year         int
	Row          PreviewRow
}

type ExportRow struct {
	EmployeeName string
	Gross        string
	LWPDays      string
	Deductions   string
	Net          string
}
