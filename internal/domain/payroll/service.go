package payroll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jung-kurt/gofpdf"

	cryptoutil "orbithr/internal/platform/crypto"
)

type Service struct {
	store  StoreAPI
	leaves LWPSource
	crypto *cryptoutil.Cipher
}

func NewService(store StoreAPI, leaves LWPSource, crypto *cryptoutil.Cipher) *Service {
	return &Service{store: store, leaves: leaves, crypto: crypto}
}

// Preview computes, without persisting, the payroll figures for every
// employee holding an offer. A tenant with no eligible employees gets an
// empty slice, not an error. Rows come back sorted by employee name so two
// previews over the same data are identical.
func (s *Service) Preview(ctx context.Context, tenantID string, month, year int) ([]PreviewRow, error) {
	if month < 1 || month > 12 || year <= 0 {
		return nil, ErrInvalidPeriod
	}

	employees, err := s.store.EligibleEmployees(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	windowStart, windowEnd := MonthWindow(month, year)
	rows := make([]PreviewRow, 0, len(employees))
	for _, employee := range employees {
		requests, err := s.leaves.ApprovedLWPRequests(ctx, tenantID, employee.EmployeeID, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}
		var totalLwpDays float64
		for _, request := range requests {
			totalLwpDays += request.DaysLWP
		}
		rows = append(rows, ComputeRow(employee, totalLwpDays))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].EmployeeName < rows[j].EmployeeName })
	return rows, nil
}

// CommitRun persists a preview as an immutable run.
func (s *Service) CommitRun(ctx context.Context, tenantID, createdBy string, month, year int) (Run, []PreviewRow, error) {
	rows, err := s.Preview(ctx, tenantID, month, year)
	if err != nil {
		return Run{}, nil, err
	}
	if len(rows) == 0 {
		return Run{}, nil, ErrEmptyRun
	}

	run := Run{Month: month, Year: year, Status: RunStatusCommitted, CreatedBy: createdBy}
	run.ID, err = s.store.CreateRun(ctx, tenantID, run, rows)
	if err != nil {
		return Run{}, nil, err
	}
	return run, rows, nil
}

func (s *Service) Runs(ctx context.Context, tenantID string) ([]Run, error) {
	return s.store.ListRuns(ctx, tenantID)
}

func (s *Service) RunByID(ctx context.Context, tenantID, runID string) (Run, []PreviewRow, error) {
	run, rows, err := s.store.RunByID(ctx, tenantID, runID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, nil, ErrRunNotFound
		}
		return Run{}, nil, err
	}
	return run, rows, nil
}

// ExportRows renders a preview with amounts pre-formatted for the report
// writers.
func (s *Service) ExportRows(ctx context.Context, tenantID string, month, year int) ([]ExportRow, error) {
	rows, err := s.Preview(ctx, tenantID, month, year)
	if err != nil {
		return nil, err
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ExportRow{
			EmployeeName: row.EmployeeName,
			Gross:        formatAmount(row.GrossSalary),
			LWPDays:      strconv.FormatFloat(row.LWPDays, 'f', -1, 64),
			Deductions:   formatAmount(row.TotalDeductions),
			Net:          formatAmount(row.NetPayable),
		})
	}
	return out, nil
}

// RunExportRows renders a committed run with amounts pre-formatted for the
// report writers.
func (s *Service) RunExportRows(ctx context.Context, tenantID, runID string) (Run, []ExportRow, error) {
	run, rows, err := s.RunByID(ctx, tenantID, runID)
	if err != nil {
		return Run{}, nil, err
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ExportRow{
			EmployeeName: row.EmployeeName,
			Gross:        formatAmount(row.GrossSalary),
			LWPDays:      strconv.FormatFloat(row.LWPDays, 'f', -1, 64),
			Deductions:   formatAmount(row.TotalDeductions),
			Net:          formatAmount(row.NetPayable),
		})
	}
	return run, out, nil
}

func (s *Service) GeneratePayslipPDF(ctx context.Context, tenantID, runID, employeeID string) (string, error) {
	data, err := s.store.PayslipData(ctx, tenantID, runID, employeeID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll("storage/payslips", 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join("storage/payslips", runID+"-"+employeeID+".pdf")

	period := time.Date(data.Year, time.Month(data.Month), 1, 0, 0, 0, 0, time.UTC)
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", data.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", data.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period.Format("January 2006")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Gross Salary: %.2f", data.Row.GrossSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("LWP Days: %.1f", data.Row.LWPDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("LWP Deduction: %.2f", data.Row.LWPDeduction))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("PF: %.2f  Tax: %.2f", data.Row.PFDeduction, data.Row.Tax))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total Deductions: %.2f", data.Row.TotalDeductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net Payable: %.2f", data.Row.NetPayable))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if s.crypto != nil && s.crypto.Configured() {
		raw, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		encrypted, err := s.crypto.SealPayslip(raw)
		if err != nil {
			return "", err
		}
		encryptedPath := filePath + ".enc"
		if err := os.WriteFile(encryptedPath, encrypted, 0o600); err != nil {
			return "", err
		}
		if err := os.Remove(filePath); err != nil {
			return "", err
		}
		return encryptedPath, nil
	}

	return filePath, nil
}

// PayslipPDF renders the payslip and returns its plaintext contents,
// transparently decrypting the at-rest copy.
func (s *Service) PayslipPDF(ctx context.Context, tenantID, runID, employeeID string) ([]byte, error) {
	path, err := s.GeneratePayslipPDF(ctx, tenantID, runID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".enc") {
		return s.crypto.OpenPayslip(raw)
	}
	return raw, nil
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
