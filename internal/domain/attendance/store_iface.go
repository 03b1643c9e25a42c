package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindDay(ctx context.Context, tenantID, employeeID string, day time.Time) (Record, error)
	UpsertCheckIn(ctx context.Context, tenantID, employeeID string, day time.Time, checkIn time.Time) (Record, error)
	SetCheckOut(ctx context.Context, tenantID, recordID string, checkOut time.Time, hours float64, status string) (Record, error)
	List(ctx context.Context, tenantID string, filter ListFilter) ([]Record, int, error)
	ExportRows(ctx context.Context, tenantID string, filter ListFilter) ([]ExportRow, error)
}
