package core

import (
	"context"
	"strconv"

	"orbithr/internal/domain/auth"
	"orbithr/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id,
    COALESCE(user_id::text, ''),
    COALESCE(employee_number, ''),
    first_name, last_name, email,
    COALESCE(phone, ''),
    date_of_birth,
    COALESCE(designation, ''),
    COALESCE(department, ''),
    start_date, status, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Phone, &emp.DateOfBirth, &emp.Designation, &emp.Department,
		&emp.StartDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (s *Store) GetEmployee(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID))
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, tenantID, userID string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1 AND user_id = $2
  `, tenantID, userID))
}

func (s *Store) ListEmployees(ctx context.Context, tenantID string, filter ListFilter) ([]Employee, error) {
	query := `
    SELECT` + employeeColumns + `
    FROM employees
    WHERE tenant_id = $1
  `
	args := []any{tenantID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		position := "$" + strconv.Itoa(len(args))
		query += " AND (first_name ILIKE " + position + " OR last_name ILIKE " + position + " OR email ILIKE " + position + ")"
	}
	query += " ORDER BY first_name, last_name"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func (s *Store) CreateEmployee(ctx context.Context, tenantID string, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (tenant_id, user_id, employee_number, first_name, last_name, email, phone,
        date_of_birth, designation, department, start_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `,
		tenantID, nullIfEmpty(emp.UserID), nullIfEmpty(emp.EmployeeNumber), emp.FirstName, emp.LastName, emp.Email,
		emp.Phone, emp.DateOfBirth, emp.Designation, emp.Department, emp.StartDate, emp.Status,
	).Scan(&id)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, tenantID, employeeID string, emp Employee) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET employee_number = $1,
        first_name = $2,
        last_name = $3,
        email = $4,
        phone = $5,
        date_of_birth = $6,
        designation = $7,
        department = $8,
        start_date = $9,
        status = $10,
        updated_at = now()
    WHERE tenant_id = $11 AND id = $12
  `,
		emp.EmployeeNumber, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.DateOfBirth,
		emp.Designation, emp.Department, emp.StartDate, emp.Status, tenantID, employeeID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// DeactivateEmployee disables the profile and its login instead of deleting
// rows; payroll history has to survive offboarding.
func (s *Store) DeactivateEmployee(ctx context.Context, tenantID, employeeID string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3
  `, EmployeeStatusInactive, tenantID, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE users SET status = $1
    WHERE tenant_id = $2 AND id = (SELECT user_id FROM employees WHERE tenant_id = $2 AND id = $3)
  `, auth.UserStatusDisabled, tenantID, employeeID)
	return err
}

// OnboardEmployee creates the login and the profile in one transaction so a
// failed profile insert never leaves an orphaned user.
func (s *Store) OnboardEmployee(ctx context.Context, tenantID string, input OnboardInput) (string, string, error) {
	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", "", err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", "", err
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `
    INSERT INTO users (tenant_id, email, password_hash, role_id, status)
    VALUES ($1, $2, $3, (SELECT id FROM roles WHERE tenant_id = $1 AND name = $4), $5)
    RETURNING id
  `, tenantID, input.Employee.Email, passwordHash, input.Role, auth.UserStatusActive).Scan(&userID)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			return "", "", ErrEmailTaken
		}
		return "", "", err
	}

	var employeeID string
	err = tx.QueryRow(ctx, `
    INSERT INTO employees (tenant_id, user_id, employee_number, first_name, last_name, email, phone,
        date_of_birth, designation, department, start_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `,
		tenantID, userID, nullIfEmpty(input.Employee.EmployeeNumber),
		input.Employee.FirstName, input.Employee.LastName, input.Employee.Email, input.Employee.Phone,
		input.Employee.DateOfBirth, input.Employee.Designation, input.Employee.Department,
		input.Employee.StartDate, EmployeeStatusActive,
	).Scan(&employeeID)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			return "", "", ErrEmailTaken
		}
		return "", "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", "", err
	}
	return employeeID, userID, nil
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, tenantID, userID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    SELECT id FROM employees WHERE tenant_id = $1 AND user_id = $2
  `, tenantID, userID).Scan(&id)
	return id, err
}

// UpcomingBirthdays lists active employees whose birthday falls within the
// next days, ignoring the birth year.
func (s *Store) UpcomingBirthdays(ctx context.Context, tenantID string, days int) ([]Birthday, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name || ' ' || last_name, date_of_birth
    FROM employees
    WHERE tenant_id = $1 AND status = $2 AND date_of_birth IS NOT NULL
      AND to_date(to_char(date_of_birth, 'MMDD') || to_char(now(), 'YYYY'), 'MMDDYYYY')
          BETWEEN current_date AND current_date + $3::int
    ORDER BY to_char(date_of_birth, 'MMDD')
  `, tenantID, EmployeeStatusActive, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var birthdays []Birthday
	for rows.Next() {
		var birthday Birthday
		if err := rows.Scan(&birthday.EmployeeID, &birthday.Name, &birthday.DateOfBirth); err != nil {
			return nil, err
		}
		birthdays = append(birthdays, birthday)
	}
	return birthdays, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
