package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// CheckIn records the first check-in of the day, or moves the check-in time
// when called again before check-out. One row per (tenant, employee, day).
// Once the day is checked out the record is closed and the check-in is fixed.
func (s *Service) CheckIn(ctx context.Context, tenantID, employeeID string, at time.Time) (Record, error) {
	day := dateOnly(at)
	record, err := s.store.UpsertCheckIn(ctx, tenantID, employeeID, day, at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrAlreadyCheckedOut
		}
		return Record{}, err
	}
	return record, nil
}

// CheckOut resolves the day: computes hours worked, classifies the status and
// closes the record. The day must have an open check-in.
func (s *Service) CheckOut(ctx context.Context, tenantID, employeeID string, at time.Time) (Record, error) {
	day := dateOnly(at)
	record, err := s.store.FindDay(ctx, tenantID, employeeID, day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNoCheckIn
		}
		return Record{}, err
	}
	if record.CheckIn == nil {
		return Record{}, ErrNoCheckIn
	}
	if record.CheckOut != nil {
		return Record{}, ErrAlreadyCheckedOut
	}
	if !at.After(*record.CheckIn) {
		return Record{}, ErrInvalidDuration
	}

	hours := HoursBetween(*record.CheckIn, at)
	return s.store.SetCheckOut(ctx, tenantID, record.ID, at, hours, Classify(hours))
}

func (s *Service) List(ctx context.Context, tenantID string, filter ListFilter) ([]Record, int, error) {
	return s.store.List(ctx, tenantID, filter)
}

func (s *Service) ExportRows(ctx context.Context, tenantID string, filter ListFilter) ([]ExportRow, error) {
	return s.store.ExportRows(ctx, tenantID, filter)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
