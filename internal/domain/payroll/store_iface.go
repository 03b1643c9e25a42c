package payroll

import (
	"context"
	"time"

	"orbithr/internal/domain/leave"
)

type StoreAPI interface {
	EligibleEmployees(ctx context.Context, tenantID string) ([]EligibleEmployee, error)
	CreateOffer(ctx context.Context, tenantID string, offer Offer) (string, error)
	OfferByEmployee(ctx context.Context, tenantID, employeeID string) (Offer, error)
	CreateRun(ctx context.Context, tenantID string, run Run, rows []PreviewRow) (string, error)
	RunByID(ctx context.Context, tenantID, runID string) (Run, []PreviewRow, error)
	ListRuns(ctx context.Context, tenantID string) ([]Run, error)
	PayslipData(ctx context.Context, tenantID, runID, employeeID string) (PayslipData, error)
}

// LWPSource yields approved unpaid-leave requests whose start date falls
// inside the window. Satisfied by the leave store.
type LWPSource interface {
	ApprovedLWPRequests(ctx context.Context, tenantID, employeeID string, windowStart, windowEnd time.Time) ([]leave.Request, error)
}
