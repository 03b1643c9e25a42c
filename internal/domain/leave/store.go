package leave

import (
	"context"
	"strconv"
	"time"

	"orbithr/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListPolicies(ctx context.Context, tenantID string) ([]Policy, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, default_days, created_at
    FROM leave_policies
    WHERE tenant_id = $1
    ORDER BY name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var policy Policy
		if err := rows.Scan(&policy.ID, &policy.Name, &policy.DefaultDays, &policy.CreatedAt); err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

func (s *Store) CreatePolicy(ctx context.Context, tenantID, name string, defaultDays float64) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_policies (tenant_id, name, default_days)
    VALUES ($1,$2,$3)
    RETURNING id
  `, tenantID, name, defaultDays).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdatePolicy(ctx context.Context, tenantID, policyID, name string, defaultDays float64) error {
	// Existing balances keep their allotment; only future lazy creations see
	// the new default.
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_policies SET name = $1, default_days = $2
    WHERE tenant_id = $3 AND id = $4
  `, name, defaultDays, tenantID, policyID)
	return err
}

func (s *Store) FindBalance(ctx context.Context, tenantID, employeeID, policyID string, year int) (Balance, error) {
	var balance Balance
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, policy_id, year, days_allotted, days_used
    FROM leave_balances
    WHERE tenant_id = $1 AND employee_id = $2 AND policy_id = $3 AND year = $4
  `, tenantID, employeeID, policyID, year).Scan(&balance.ID, &balance.EmployeeID, &balance.PolicyID, &balance.Year, &balance.DaysAllotted, &balance.DaysUsed)
	return balance, err
}

func (s *Store) CreateBalance(ctx context.Context, tenantID, employeeID, policyID string, year int, daysAllotted float64) (Balance, error) {
	var balance Balance
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_balances (tenant_id, employee_id, policy_id, year, days_allotted, days_used)
    VALUES ($1,$2,$3,$4,$5,0)
    RETURNING id, employee_id, policy_id, year, days_allotted, days_used
  `, tenantID, employeeID, policyID, year, daysAllotted).Scan(&balance.ID, &balance.EmployeeID, &balance.PolicyID, &balance.Year, &balance.DaysAllotted, &balance.DaysUsed)
	return balance, err
}

func (s *Store) AddDaysUsed(ctx context.Context, tenantID, balanceID string, days float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_balances SET days_used = days_used + $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3
  `, days, tenantID, balanceID)
	return err
}

func (s *Store) CreateRequest(ctx context.Context, tenantID string, request Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (tenant_id, employee_id, policy_id, start_date, end_date, days, days_lwp, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, tenantID, request.EmployeeID, request.PolicyID, request.StartDate, request.EndDate, request.Days, request.DaysLWP, request.Reason, request.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) RequestByID(ctx context.Context, tenantID, requestID string) (Request, error) {
	var request Request
	err := s.DB.QueryRow(ctx, `
    SELECT lr.id, lr.employee_id, lr.policy_id, lp.name, lr.start_date, lr.end_date,
           lr.days, lr.days_lwp, COALESCE(lr.reason, ''), lr.status, COALESCE(lr.decided_by::text, ''), lr.created_at
    FROM leave_requests lr
    JOIN leave_policies lp ON lr.policy_id = lp.id
    WHERE lr.tenant_id = $1 AND lr.id = $2
  `, tenantID, requestID).Scan(&request.ID, &request.EmployeeID, &request.PolicyID, &request.PolicyName, &request.StartDate, &request.EndDate, &request.Days, &request.DaysLWP, &request.Reason, &request.Status, &request.DecidedBy, &request.CreatedAt)
	return request, err
}

func (s *Store) ListRequests(ctx context.Context, tenantID, employeeID string, limit, offset int) ([]Request, error) {
	query := `
    SELECT lr.id, lr.employee_id, lr.policy_id, lp.name, lr.start_date, lr.end_date,
           lr.days, lr.days_lwp, COALESCE(lr.reason, ''), lr.status, COALESCE(lr.decided_by::text, ''), lr.created_at
    FROM leave_requests lr
    JOIN leave_policies lp ON lr.policy_id = lp.id
    WHERE lr.tenant_id = $1
  `
	args := []any{tenantID}
	if employeeID != "" {
		query += " AND lr.employee_id = $2"
		args = append(args, employeeID)
	}
	query += " ORDER BY lr.created_at DESC"
	if limit > 0 {
		query += positional(" LIMIT", len(args)+1) + positional(" OFFSET", len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var request Request
		if err := rows.Scan(&request.ID, &request.EmployeeID, &request.PolicyID, &request.PolicyName, &request.StartDate, &request.EndDate, &request.Days, &request.DaysLWP, &request.Reason, &request.Status, &request.DecidedBy, &request.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// ApprovedLWPRequests feeds the payroll calculator: approved requests with
// unpaid days whose start date falls inside the window. Requests spanning the
// window end still count in full; requests starting before the window are
// excluded entirely.
func (s *Store) ApprovedLWPRequests(ctx context.Context, tenantID, employeeID string, windowStart, windowEnd time.Time) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, policy_id, start_date, end_date, days, days_lwp, status, created_at
    FROM leave_requests
    WHERE tenant_id = $1 AND employee_id = $2 AND status = $3
      AND days_lwp > 0
      AND start_date >= $4 AND start_date <= $5
  `, tenantID, employeeID, StatusApproved, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var request Request
		if err := rows.Scan(&request.ID, &request.EmployeeID, &request.PolicyID, &request.StartDate, &request.EndDate, &request.Days, &request.DaysLWP, &request.Status, &request.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func positional(prefix string, index int) string {
	return prefix + " $" + strconv.Itoa(index)
}
