package payroll

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"orbithr/internal/domain/leave"
)

type fakeStore struct {
	employees []EligibleEmployee
	runs      map[string]Run
	items     map[string][]PreviewRow
	nextRun   int
}

func (f *fakeStore) EligibleEmployees(_ context.Context, _ string) ([]EligibleEmployee, error) {
	return f.employees, nil
}

func (f *fakeStore) CreateOffer(_ context.Context, _ string, offer Offer) (string, error) {
	for _, employee := range f.employees {
		if employee.EmployeeID == offer.EmployeeID {
			return "", ErrOfferExists
		}
	}
	offer.ID = "offer-" + offer.EmployeeID
	f.employees = append(f.employees, EligibleEmployee{EmployeeID: offer.EmployeeID, Offer: offer})
	return offer.ID, nil
}

func (f *fakeStore) OfferByEmployee(_ context.Context, _ string, employeeID string) (Offer, error) {
	for _, employee := range f.employees {
		if employee.EmployeeID == employeeID {
			return employee.Offer, nil
		}
	}
	return Offer{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateRun(_ context.Context, _ string, run Run, rows []PreviewRow) (string, error) {
	if f.runs == nil {
		f.runs = map[string]Run{}
		f.items = map[string][]PreviewRow{}
	}
	f.nextRun++
	id := "run-" + string(rune('0'+f.nextRun))
	run.ID = id
	f.runs[id] = run
	f.items[id] = rows
	return id, nil
}

func (f *fakeStore) RunByID(_ context.Context, _ string, runID string) (Run, []PreviewRow, error) {
	run, ok := f.runs[runID]
	if !ok {
		return Run{}, nil, pgx.ErrNoRows
	}
	return run, f.items[runID], nil
}

func (f *fakeStore) ListRuns(_ context.Context, _ string) ([]Run, error) {
	var out []Run
	for _, run := range f.runs {
		out = append(out, run)
	}
	return out, nil
}

func (f *fakeStore) PayslipData(_ context.Context, _ string, _ string, _ string) (PayslipData, error) {
	return PayslipData{}, nil
}

type fakeLeaves struct {
	requests []leave.Request
}

func (f *fakeLeaves) ApprovedLWPRequests(_ context.Context, _ string, employeeID string, windowStart, windowEnd time.Time) ([]leave.Request, error) {
	var out []leave.Request
	for _, request := range f.requests {
		if request.EmployeeID != employeeID || request.Status != leave.StatusApproved || request.DaysLWP <= 0 {
			continue
		}
		if request.StartDate.Before(windowStart) || request.StartDate.After(windowEnd) {
			continue
		}
		out = append(out, request)
	}
	return out, nil
}

func salariedEmployee(id, name string, gross float64) EligibleEmployee {
	return EligibleEmployee{
		EmployeeID:   id,
		EmployeeName: name,
		Offer:        Offer{EmployeeID: id, GrossSalary: gross},
	}
}

func TestPreviewEmptyTenant(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeLeaves{}, nil)

	rows, err := svc.Preview(context.Background(), "t1", 1, 2025)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
}

func TestPreviewRejectsBadPeriod(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeLeaves{}, nil)
	if _, err := svc.Preview(context.Background(), "t1", 13, 2025); err != ErrInvalidPeriod {
		t.Fatalf("month 13 err = %v, want ErrInvalidPeriod", err)
	}
	if _, err := svc.Preview(context.Background(), "t1", 0, 2025); err != ErrInvalidPeriod {
		t.Fatalf("month 0 err = %v, want ErrInvalidPeriod", err)
	}
}

func TestPreviewCountsLeaveInStartMonthOnly(t *testing.T) {
	store := &fakeStore{employees: []EligibleEmployee{salariedEmployee("e1", "Asha Rao", 30000)}}
	leaves := &fakeLeaves{requests: []leave.Request{{
		EmployeeID: "e1",
		Status:     leave.StatusApproved,
		StartDate:  time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Days:       7,
		DaysLWP:    5,
	}}}
	svc := NewService(store, leaves, nil)

	january, err := svc.Preview(context.Background(), "t1", 1, 2025)
	if err != nil {
		t.Fatalf("january preview: %v", err)
	}
	if january[0].LWPDays != 5 {
		t.Fatalf("january LWP days = %v, want 5", january[0].LWPDays)
	}
	if january[0].LWPDeduction != 5000.00 {
		t.Fatalf("january deduction = %v, want 5000.00", january[0].LWPDeduction)
	}

	february, err := svc.Preview(context.Background(), "t1", 2, 2025)
	if err != nil {
		t.Fatalf("february preview: %v", err)
	}
	if february[0].LWPDays != 0 {
		t.Fatalf("february LWP days = %v, want 0: the request starts in january", february[0].LWPDays)
	}
}

func TestPreviewIdempotentAndSorted(t *testing.T) {
	store := &fakeStore{employees: []EligibleEmployee{
		salariedEmployee("e2", "Zoya Khan", 45000),
		salariedEmployee("e1", "Asha Rao", 30000),
	}}
	svc := NewService(store, &fakeLeaves{}, nil)

	first, err := svc.Preview(context.Background(), "t1", 3, 2025)
	if err != nil {
		t.Fatalf("first preview: %v", err)
	}
	second, err := svc.Preview(context.Background(), "t1", 3, 2025)
	if err != nil {
		t.Fatalf("second preview: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("previews differ:\n%+v\n%+v", first, second)
	}
	if first[0].EmployeeName != "Asha Rao" || first[1].EmployeeName != "Zoya Khan" {
		t.Fatalf("rows not sorted by name: %+v", first)
	}
}

func TestSecondOfferRejected(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeLeaves{}, nil)

	if _, err := svc.CreateOffer(context.Background(), "t1", "e1", OfferInput{BasicPay: 10000}); err != nil {
		t.Fatalf("first offer: %v", err)
	}
	if _, err := svc.CreateOffer(context.Background(), "t1", "e1", OfferInput{BasicPay: 20000}); err != ErrOfferExists {
		t.Fatalf("second offer err = %v, want ErrOfferExists", err)
	}
}

func TestRunByIDMissingReturnsNotFound(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeLeaves{}, nil)
	if _, _, err := svc.RunByID(context.Background(), "t1", "no-such-run"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestRunExportRowsMissingReturnsNotFound(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeLeaves{}, nil)
	if _, _, err := svc.RunExportRows(context.Background(), "t1", "no-such-run"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestOfferForMissingReturnsNotFound(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeLeaves{}, nil)
	if _, err := svc.OfferFor(context.Background(), "t1", "e-none"); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("err = %v, want ErrOfferNotFound", err)
	}
}

func TestCommitRunRequiresRows(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeLeaves{}, nil)
	if _, _, err := svc.CommitRun(context.Background(), "t1", "admin", 1, 2025); err != ErrEmptyRun {
		t.Fatalf("err = %v, want ErrEmptyRun", err)
	}
}

func TestCommitRunPersistsPreview(t *testing.T) {
	store := &fakeStore{employees: []EligibleEmployee{salariedEmployee("e1", "Asha Rao", 30000)}}
	svc := NewService(store, &fakeLeaves{}, nil)

	run, rows, err := svc.CommitRun(context.Background(), "t1", "admin", 1, 2025)
	if err != nil {
		t.Fatalf("CommitRun: %v", err)
	}
	if run.Status != RunStatusCommitted {
		t.Fatalf("status = %q", run.Status)
	}
	if len(rows) != 1 || len(store.items[run.ID]) != 1 {
		t.Fatalf("run rows not persisted: %+v", store.items)
	}
}
