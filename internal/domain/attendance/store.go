package attendance

import (
	"context"
	"time"

	"orbithr/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) FindDay(ctx context.Context, tenantID, employeeID string, day time.Time) (Record, error) {
	var record Record
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, work_date, check_in, check_out, COALESCE(hours_worked, 0), COALESCE(status, ''), created_at, updated_at
    FROM attendance_records
    WHERE tenant_id = $1 AND employee_id = $2 AND work_date = $3
  `, tenantID, employeeID, day).Scan(&record.ID, &record.EmployeeID, &record.WorkDate, &record.CheckIn, &record.CheckOut, &record.Hours, &record.Status, &record.CreatedAt, &record.UpdatedAt)
	return record, err
}

// UpsertCheckIn returns pgx.ErrNoRows when the day is already resolved: the
// conflict update is guarded so a closed record never gets its check-in moved.
func (s *Store) UpsertCheckIn(ctx context.Context, tenantID, employeeID string, day time.Time, checkIn time.Time) (Record, error) {
	var record Record
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (tenant_id, employee_id, work_date, check_in)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (tenant_id, employee_id, work_date)
    DO UPDATE SET check_in = EXCLUDED.check_in, updated_at = now()
    WHERE attendance_records.check_out IS NULL
    RETURNING id, employee_id, work_date, check_in, check_out, COALESCE(hours_worked, 0), COALESCE(status, ''), created_at, updated_at
  `, tenantID, employeeID, day, checkIn).Scan(&record.ID, &record.EmployeeID, &record.WorkDate, &record.CheckIn, &record.CheckOut, &record.Hours, &record.Status, &record.CreatedAt, &record.UpdatedAt)
	return record, err
}

func (s *Store) SetCheckOut(ctx context.Context, tenantID, recordID string, checkOut time.Time, hours float64, status string) (Record, error) {
	var record Record
	err := s.DB.QueryRow(ctx, `
    UPDATE attendance_records
    SET check_out = $1, hours_worked = $2, status = $3, updated_at = now()
    WHERE tenant_id = $4 AND id = $5
    RETURNING id, employee_id, work_date, check_in, check_out, COALESCE(hours_worked, 0), COALESCE(status, ''), created_at, updated_at
  `, checkOut, hours, status, tenantID, recordID).Scan(&record.ID, &record.EmployeeID, &record.WorkDate, &record.CheckIn, &record.CheckOut, &record.Hours, &record.Status, &record.CreatedAt, &record.UpdatedAt)
	return record, err
}

func (s *Store) List(ctx context.Context, tenantID string, filter ListFilter) ([]Record, int, error) {
	query := `
    SELECT id, employee_id, work_date, check_in, check_out, COALESCE(hours_worked, 0), COALESCE(status, ''), created_at, updated_at
    FROM attendance_records
    WHERE tenant_id = $1
  `
	countQuery := "SELECT COUNT(1) FROM attendance_records WHERE tenant_id = $1"
	args := []any{tenantID}
	query, countQuery, args = applyFilter(query, countQuery, args, filter)

	var total int
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY work_date DESC, employee_id"
	if filter.Limit > 0 {
		query += positional(" LIMIT", len(args)+1) + positional(" OFFSET", len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.ID, &record.EmployeeID, &record.WorkDate, &record.CheckIn, &record.CheckOut, &record.Hours, &record.Status, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, record)
	}
	return out, total, nil
}

func (s *Store) ExportRows(ctx context.Context, tenantID string, filter ListFilter) ([]ExportRow, error) {
	query := `
    SELECT e.employee_number, e.first_name || ' ' || e.last_name, COALESCE(e.designation, ''),
           a.work_date, a.check_in, a.check_out, COALESCE(a.hours_worked, 0), COALESCE(a.status, '')
    FROM attendance_records a
    JOIN employees e ON a.employee_id = e.id
    WHERE a.tenant_id = $1
  `
	args := []any{tenantID}
	if filter.EmployeeID != "" {
		query += positional(" AND a.employee_id =", len(args)+1)
		args = append(args, filter.EmployeeID)
	}
	if !filter.From.IsZero() {
		query += positional(" AND a.work_date >=", len(args)+1)
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += positional(" AND a.work_date <=", len(args)+1)
		args = append(args, filter.To)
	}
	query += " ORDER BY a.work_date, e.last_name, e.first_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRow
	for rows.Next() {
		var row ExportRow
		var workDate time.Time
		var checkIn, checkOut *time.Time
		var hours float64
		if err := rows.Scan(&row.EmployeeNumber, &row.Name, &row.Designation, &workDate, &checkIn, &checkOut, &hours, &row.Status); err != nil {
			return nil, err
		}
		row.Date = workDate.Format("2006-01-02")
		row.CheckIn = formatClock(checkIn)
		row.CheckOut = formatClock(checkOut)
		row.Hours = formatHours(hours)
		out = append(out, row)
	}
	return out, nil
}

func applyFilter(query, countQuery string, args []any, filter ListFilter) (string, string, []any) {
	if filter.EmployeeID != "" {
		clause := positional(" AND employee_id =", len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.EmployeeID)
	}
	if !filter.From.IsZero() {
		clause := positional(" AND work_date >=", len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		clause := positional(" AND work_date <=", len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.To)
	}
	return query, countQuery, args
}
