package payroll

import (
	"context"

	"orbithr/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) EligibleEmployees(ctx context.Context, tenantID string) ([]EligibleEmployee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.first_name || ' ' || e.last_name, e.email,
           o.id, o.basic_pay, o.hra, o.da, o.special_allowance,
           o.gross_salary, o.pf_deduction, o.tax, o.net_salary, o.created_at
    FROM employees e
    JOIN offers o ON o.employee_id = e.id AND o.tenant_id = e.tenant_id
    WHERE e.tenant_id = $1
    ORDER BY e.first_name, e.last_name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []EligibleEmployee
	for rows.Next() {
		var employee EligibleEmployee
		if err := rows.Scan(&employee.EmployeeID, &employee.EmployeeName, &employee.Email,
			&employee.Offer.ID, &employee.Offer.BasicPay, &employee.Offer.HRA, &employee.Offer.DA, &employee.Offer.SpecialAllowance,
			&employee.Offer.GrossSalary, &employee.Offer.PFDeduction, &employee.Offer.Tax, &employee.Offer.NetSalary, &employee.Offer.CreatedAt); err != nil {
			return nil, err
		}
		employee.Offer.EmployeeID = employee.EmployeeID
		employees = append(employees, employee)
	}
	return employees, nil
}

func (s *Store) CreateRun(ctx context.Context, tenantID string, run Run, rows []PreviewRow) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var runID string
	err = tx.QueryRow(ctx, `
    INSERT INTO payroll_runs (tenant_id, month, year, status, created_by)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, run.Month, run.Year, run.Status, run.CreatedBy).Scan(&runID)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			return "", ErrRunExists
		}
		return "", err
	}

	for _, row := range rows {
		_, err = tx.Exec(ctx, `
    INSERT INTO payroll_items (tenant_id, run_id, employee_id, employee_name,
        basic_pay, hra, da, special_allowance, gross_salary,
        lwp_days, lwp_deduction, pf_deduction, tax, total_deductions, net_payable)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
  `, tenantID, runID, row.EmployeeID, row.EmployeeName,
			row.BasicPay, row.HRA, row.DA, row.SpecialAllowance, row.GrossSalary,
			row.LWPDays, row.LWPDeduction, row.PFDeduction, row.Tax, row.TotalDeductions, row.NetPayable)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) ListRuns(ctx context.Context, tenantID string) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, month, year, status, COALESCE(created_by::text, ''), created_at
    FROM payroll_runs
    WHERE tenant_id = $1
    ORDER BY year DESC, month DESC
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Month, &run.Year, &run.Status, &run.CreatedBy, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *Store) RunByID(ctx context.Context, tenantID, runID string) (Run, []PreviewRow, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    SELECT id, month, year, status, COALESCE(created_by::text, ''), created_at
    FROM payroll_runs
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, runID).Scan(&run.ID, &run.Month, &run.Year, &run.Status, &run.CreatedBy, &run.CreatedAt)
	if err != nil {
		return Run{}, nil, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, employee_name, basic_pay, hra, da, special_allowance,
           gross_salary, lwp_days, lwp_deduction, pf_deduction, tax, total_deductions, net_payable
    FROM payroll_items
    WHERE tenant_id = $1 AND run_id = $2
    ORDER BY employee_name
  `, tenantID, runID)
	if err != nil {
		return Run{}, nil, err
	}
	defer rows.Close()

	var items []PreviewRow
	for rows.Next() {
		var row PreviewRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.BasicPay, &row.HRA, &row.DA, &row.SpecialAllowance,
			&row.GrossSalary, &row.LWPDays, &row.LWPDeduction, &row.PFDeduction, &row.Tax, &row.TotalDeductions, &row.NetPayable); err != nil {
			return Run{}, nil, err
		}
		items = append(items, row)
	}
	return run, items, nil
}

func (s *Store) PayslipData(ctx context.Context, tenantID, runID, employeeID string) (PayslipData, error) {
	var data PayslipData
	err := s.DB.QueryRow(ctx, `
    SELECT i.employee_name, e.email, r.month, r.year,
           i.gross_salary, i.lwp_days, i.lwp_deduction, i.pf_deduction, i.tax,
           i.total_deductions, i.net_payable
    FROM payroll_items i
    JOIN payroll_runs r ON i.run_id = r.id
    JOIN employees e ON i.employee_id = e.id
    WHERE i.tenant_id = $1 AND i.run_id = $2 AND i.employee_id = $3
  `, tenantID, runID, employeeID).Scan(&data.EmployeeName, &data.Email, &data.Month, &data.Year,
		&data.Row.GrossSalary, &data.Row.LWPDays, &data.Row.LWPDeduction, &data.Row.PFDeduction, &data.Row.Tax,
		&data.Row.TotalDeductions, &data.Row.NetPayable)
	if err != nil {
		return PayslipData{}, err
	}
	data.Row.EmployeeID = employeeID
	data.Row.EmployeeName = data.EmployeeName
	return data, nil
}
