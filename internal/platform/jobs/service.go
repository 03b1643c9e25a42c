package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"orbithr/internal/domain/auth"
	"orbithr/internal/domain/core"
	"orbithr/internal/domain/leave"
	"orbithr/internal/domain/notifications"
	"orbithr/internal/platform/config"
)

const (
	JobBalanceSweep   = "leave_balance_sweep"
	JobBirthdayDigest = "birthday_digest"
)

type Service struct {
	DB        *pgxpool.Pool
	Cfg       config.Config
	Leaves    *leave.Service
	Employees *core.Service
	Notify    *notifications.Service
	queue     chan job
}

type job struct {
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, leaves *leave.Service, employees *core.Service, notify *notifications.Service) *Service {
	return &Service{
		DB:        db,
		Cfg:       cfg,
		Leaves:    leaves,
		Employees: employees,
		Notify:    notify,
		queue:     make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.BalanceSweepInterval > 0 {
		go s.scheduleBalanceSweep(ctx, s.Cfg.BalanceSweepInterval)
	}
	if s.Cfg.BirthdayDigestHour >= 0 {
		go s.scheduleBirthdayDigest(ctx)
	}
}

func (s *Service) Enqueue(jobType, tenantID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, TenantID: tenantID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "tenantId", tenantID)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, TenantID: tenantID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, j.TenantID, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// scheduleBalanceSweep lazily creates the current year's leave balances for
// every employee so the first GET /leave of a year is never the only trigger.
func (s *Service) scheduleBalanceSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tenants, err := s.listTenants(ctx)
			if err != nil {
				slog.Warn("balance sweep tenant lookup failed", "err", err)
				continue
			}
			for _, tenantID := range tenants {
				tenant := tenantID
				s.Enqueue(JobBalanceSweep, tenant, func(ctx context.Context) (any, error) {
					return s.sweepBalances(ctx, tenant)
				})
			}
		}
	}
}

func (s *Service) sweepBalances(ctx context.Context, tenantID string) (any, error) {
	employees, err := s.Employees.ListEmployees(ctx, tenantID, core.ListFilter{Status: core.EmployeeStatusActive})
	if err != nil {
		return nil, err
	}
	year := time.Now().Year()
	ensured := 0
	for _, employee := range employees {
		if _, err := s.Leaves.EnsureBalances(ctx, tenantID, employee.ID, year); err != nil {
			slog.Warn("balance sweep failed for employee", "employeeId", employee.ID, "err", err)
			continue
		}
		ensured++
	}
	return map[string]any{"year": year, "employees": ensured}, nil
}

// scheduleBirthdayDigest fires once per day at the configured hour.
func (s *Service) scheduleBirthdayDigest(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	var lastRun string
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			day := now.Format("2006-01-02")
			if now.Hour() != s.Cfg.BirthdayDigestHour || day == lastRun {
				continue
			}
			lastRun = day
			tenants, err := s.listTenants(ctx)
			if err != nil {
				slog.Warn("birthday digest tenant lookup failed", "err", err)
				continue
			}
			for _, tenantID := range tenants {
				tenant := tenantID
				s.Enqueue(JobBirthdayDigest, tenant, func(ctx context.Context) (any, error) {
					return s.birthdayDigest(ctx, tenant)
				})
			}
		}
	}
}

func (s *Service) birthdayDigest(ctx context.Context, tenantID string) (any, error) {
	birthdays, err := s.Employees.UpcomingBirthdays(ctx, tenantID, 0)
	if err != nil {
		return nil, err
	}
	if len(birthdays) == 0 {
		return map[string]any{"birthdays": 0}, nil
	}

	body := "Birthdays today:"
	for _, birthday := range birthdays {
		body += fmt.Sprintf(" %s;", birthday.Name)
	}

	userIDs, err := s.listTenantUsers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, userID := range userIDs {
		if err := s.Notify.Notify(ctx, tenantID, userID, notifications.TypeBirthdayDigest, "Birthdays today", body); err != nil {
			slog.Warn("birthday digest notify failed", "userId", userID, "err", err)
		}
	}
	return map[string]any{"birthdays": len(birthdays), "notified": len(userIDs)}, nil
}

func (s *Service) listTenants(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT id FROM tenants`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Service) listTenantUsers(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT id FROM users WHERE tenant_id = $1 AND status = $2`, tenantID, auth.UserStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
