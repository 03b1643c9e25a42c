// Package reports assembles the admin dashboard from aggregate queries.
package reports

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"orbithr/internal/domain/attendance"
	"orbithr/internal/platform/querier"
)

type Dashboard struct {
	Headcount        int            `json:"headcount"`
	AttendanceToday  map[string]int `json:"attendanceToday"`
	PendingLeave     int            `json:"pendingLeave"`
	LastPayrollMonth int            `json:"lastPayrollMonth"`
	LastPayrollYear  int            `json:"lastPayrollYear"`
	LastPayrollNet   float64        `json:"lastPayrollNet"`
	BirthdaysSoon    int            `json:"birthdaysSoon"`
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Dashboard(ctx context.Context, tenantID string) (Dashboard, error) {
	dashboard := Dashboard{AttendanceToday: map[string]int{
		attendance.StatusPresent: 0,
		attendance.StatusHalfDay: 0,
		attendance.StatusAbsent:  0,
	}}

	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE tenant_id = $1 AND status = 'ACTIVE'
  `, tenantID).Scan(&dashboard.Headcount)
	if err != nil {
		return Dashboard{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(1)
    FROM attendance_records
    WHERE tenant_id = $1 AND work_date = current_date
    GROUP BY status
  `, tenantID)
	if err != nil {
		return Dashboard{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Dashboard{}, err
		}
		dashboard.AttendanceToday[status] = count
	}

	err = s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM leave_requests WHERE tenant_id = $1 AND status = 'PENDING'
  `, tenantID).Scan(&dashboard.PendingLeave)
	if err != nil {
		return Dashboard{}, err
	}

	err = s.DB.QueryRow(ctx, `
    SELECT r.month, r.year, COALESCE(SUM(i.net_payable), 0)
    FROM payroll_runs r
    JOIN payroll_items i ON i.run_id = r.id
    WHERE r.tenant_id = $1
    GROUP BY r.month, r.year, r.created_at
    ORDER BY r.created_at DESC
    LIMIT 1
  `, tenantID).Scan(&dashboard.LastPayrollMonth, &dashboard.LastPayrollYear, &dashboard.LastPayrollNet)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Dashboard{}, err
	}

	err = s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE tenant_id = $1 AND status = 'ACTIVE' AND date_of_birth IS NOT NULL
      AND to_date(to_char(date_of_birth, 'MMDD') || to_char(now(), 'YYYY'), 'MMDDYYYY')
          BETWEEN current_date AND current_date + 7
  `, tenantID).Scan(&dashboard.BirthdaysSoon)
	if err != nil {
		return Dashboard{}, err
	}

	return dashboard, nil
}
