package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListPolicies(ctx context.Context, tenantID string) ([]Policy, error)
	CreatePolicy(ctx context.Context, tenantID, name string, defaultDays float64) (string, error)
	UpdatePolicy(ctx context.Context, tenantID, policyID, name string, defaultDays float64) error

	FindBalance(ctx context.Context, tenantID, employeeID, policyID string, year int) (Balance, error)
	CreateBalance(ctx context.Context, tenantID, employeeID, policyID string, year int, daysAllotted float64) (Balance, error)
	AddDaysUsed(ctx context.Context, tenantID, balanceID string, days float64) error

	CreateRequest(ctx context.Context, tenantID string, request Request) (string, error)
	RequestByID(ctx context.Context, tenantID, requestID string) (Request, error)
	ListRequests(ctx context.Context, tenantID, employeeID string, limit, offset int) ([]Request, error)
	UpdateRequestStatus(ctx context.Context, tenantID, requestID, status, decidedBy string) error

	ApprovedLWPRequests(ctx context.Context, tenantID, employeeID string, windowStart, windowEnd time.Time) ([]Request, error)
}
