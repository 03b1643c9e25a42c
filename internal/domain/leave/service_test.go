package leave

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeStore struct {
	policies  []Policy
	balances  map[string]Balance
	requests  map[string]Request
	nextID    int
	usedCalls []float64

	// when > 0, CreateBalance fails that many times with a unique violation
	// after inserting the row, simulating a concurrent winner.
	raceInserts int
}

func newFakeStore(policies ...Policy) *fakeStore {
	return &fakeStore{
		policies: policies,
		balances: map[string]Balance{},
		requests: map[string]Request{},
	}
}

func (f *fakeStore) id() string {
	f.nextID++
	return "id-" + strconv.Itoa(f.nextID)
}

func balanceKey(employeeID, policyID string, year int) string {
	return employeeID + "|" + policyID + "|" + strconv.Itoa(year)
}

func (f *fakeStore) ListPolicies(_ context.Context, _ string) ([]Policy, error) {
	return f.policies, nil
}

func (f *fakeStore) CreatePolicy(_ context.Context, _ string, name string, defaultDays float64) (string, error) {
	policy := Policy{ID: f.id(), Name: name, DefaultDays: defaultDays}
	f.policies = append(f.policies, policy)
	return policy.ID, nil
}

func (f *fakeStore) UpdatePolicy(_ context.Context, _ string, policyID, name string, defaultDays float64) error {
	for i := range f.policies {
		if f.policies[i].ID == policyID {
			f.policies[i].Name = name
			f.policies[i].DefaultDays = defaultDays
			return nil
		}
	}
	return ErrPolicyNotFound
}

func (f *fakeStore) FindBalance(_ context.Context, _ string, employeeID, policyID string, year int) (Balance, error) {
	balance, ok := f.balances[balanceKey(employeeID, policyID, year)]
	if !ok {
		return Balance{}, pgx.ErrNoRows
	}
	return balance, nil
}

func (f *fakeStore) CreateBalance(_ context.Context, _ string, employeeID, policyID string, year int, daysAllotted float64) (Balance, error) {
	key := balanceKey(employeeID, policyID, year)
	if _, exists := f.balances[key]; exists {
		return Balance{}, &pgconn.PgError{Code: "23505"}
	}
	balance := Balance{
		ID:           f.id(),
		EmployeeID:   employeeID,
		PolicyID:     policyID,
		Year:         year,
		DaysAllotted: daysAllotted,
	}
	if f.raceInserts > 0 {
		f.raceInserts--
		// The concurrent request committed first with the same values.
		f.balances[key] = balance
		return Balance{}, &pgconn.PgError{Code: "23505"}
	}
	f.balances[key] = balance
	return balance, nil
}

func (f *fakeStore) AddDaysUsed(_ context.Context, _ string, balanceID string, days float64) error {
	f.usedCalls = append(f.usedCalls, days)
	for key, balance := range f.balances {
		if balance.ID == balanceID {
			balance.DaysUsed += days
			f.balances[key] = balance
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeStore) CreateRequest(_ context.Context, _ string, request Request) (string, error) {
	request.ID = f.id()
	f.requests[request.ID] = request
	return request.ID, nil
}

func (f *fakeStore) RequestByID(_ context.Context, _ string, requestID string) (Request, error) {
	request, ok := f.requests[requestID]
	if !ok {
		return Request{}, pgx.ErrNoRows
	}
	return request, nil
}

func (f *fakeStore) ListRequests(_ context.Context, _ string, employeeID string, _, _ int) ([]Request, error) {
	var out []Request
	for _, request := range f.requests {
		if employeeID == "" || request.EmployeeID == employeeID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateRequestStatus(_ context.Context, _ string, requestID, status, decidedBy string) error {
	request, ok := f.requests[requestID]
	if !ok {
		return pgx.ErrNoRows
	}
	request.Status = status
	request.DecidedBy = decidedBy
	f.requests[requestID] = request
	return nil
}

func (f *fakeStore) ApprovedLWPRequests(_ context.Context, _ string, employeeID string, windowStart, windowEnd time.Time) ([]Request, error) {
	var out []Request
	for _, request := range f.requests {
		if request.EmployeeID != employeeID || request.Status != StatusApproved || request.DaysLWP <= 0 {
			continue
		}
		if request.StartDate.Before(windowStart) || request.StartDate.After(windowEnd) {
			continue
		}
		out = append(out, request)
	}
	return out, nil
}

func TestEnsureBalancesSeedsFromPolicyDefaults(t *testing.T) {
	store := newFakeStore(
		Policy{ID: "p-casual", Name: "Casual Leave", DefaultDays: 12},
		Policy{ID: "p-sick", Name: "Sick Leave", DefaultDays: 10},
	)
	svc := NewService(store)

	balances, err := svc.EnsureBalances(context.Background(), "t1", "e1", 2025)
	if err != nil {
		t.Fatalf("EnsureBalances: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("got %d balances, want 2", len(balances))
	}
	if balances[0].DaysAllotted != 12 || balances[0].DaysRemaining != 12 {
		t.Fatalf("casual balance = %+v, want 12 allotted and remaining", balances[0])
	}
	if balances[1].PolicyName != "Sick Leave" {
		t.Fatalf("policy name = %q", balances[1].PolicyName)
	}
}

func TestEnsureBalancesIdempotent(t *testing.T) {
	store := newFakeStore(Policy{ID: "p1", Name: "Casual Leave", DefaultDays: 12})
	svc := NewService(store)

	first, err := svc.EnsureBalances(context.Background(), "t1", "e1", 2025)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.EnsureBalances(context.Background(), "t1", "e1", 2025)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first[0].ID != second[0].ID {
		t.Fatalf("balance recreated: %q vs %q", first[0].ID, second[0].ID)
	}
	if len(store.balances) != 1 {
		t.Fatalf("got %d balance rows, want 1", len(store.balances))
	}
}

func TestEnsureBalancesSurvivesInsertRace(t *testing.T) {
	store := newFakeStore(Policy{ID: "p1", Name: "Casual Leave", DefaultDays: 12})
	store.raceInserts = 1
	svc := NewService(store)

	balances, err := svc.EnsureBalances(context.Background(), "t1", "e1", 2025)
	if err != nil {
		t.Fatalf("EnsureBalances after unique violation: %v", err)
	}
	if len(balances) != 1 {
		t.Fatalf("got %d balances, want 1", len(balances))
	}
	if balances[0].DaysAllotted != 12 {
		t.Fatalf("re-read balance = %+v, want the winner's row", balances[0])
	}
}

func TestCreateRequestRejectsExcessLWP(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	start := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateRequest(context.Background(), "t1", Request{
		EmployeeID: "e1",
		PolicyID:   "p1",
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 2),
		DaysLWP:    4,
	})
	if err != ErrLWPExceedsDays {
		t.Fatalf("err = %v, want ErrLWPExceedsDays", err)
	}
}

func TestApproveChargesPaidDaysOnly(t *testing.T) {
	store := newFakeStore(Policy{ID: "p1", Name: "Casual Leave", DefaultDays: 12})
	svc := NewService(store)
	start := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	id, err := svc.CreateRequest(context.Background(), "t1", Request{
		EmployeeID: "e1",
		PolicyID:   "p1",
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 4),
		DaysLWP:    2,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	request, err := svc.Approve(context.Background(), "t1", id, "mgr")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if request.Status != StatusApproved || request.DecidedBy != "mgr" {
		t.Fatalf("request = %+v", request)
	}
	if len(store.usedCalls) != 1 || store.usedCalls[0] != 3 {
		t.Fatalf("AddDaysUsed calls = %v, want one call charging 3 paid days", store.usedCalls)
	}
}

func TestApproveDecidedRequestRejected(t *testing.T) {
	store := newFakeStore(Policy{ID: "p1", Name: "Casual Leave", DefaultDays: 12})
	svc := NewService(store)
	start := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	id, _ := svc.CreateRequest(context.Background(), "t1", Request{
		EmployeeID: "e1", PolicyID: "p1", StartDate: start, EndDate: start,
	})
	if _, err := svc.Approve(context.Background(), "t1", id, "mgr"); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := svc.Approve(context.Background(), "t1", id, "mgr"); err != ErrRequestDecided {
		t.Fatalf("second approve err = %v, want ErrRequestDecided", err)
	}
}

func TestCancelRequiresOwnership(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	start := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	id, _ := svc.CreateRequest(context.Background(), "t1", Request{
		EmployeeID: "e1", PolicyID: "p1", StartDate: start, EndDate: start,
	})
	if _, err := svc.Cancel(context.Background(), "t1", id, "e2"); err != ErrRequestNotFound {
		t.Fatalf("cancel by non-owner err = %v, want ErrRequestNotFound", err)
	}
	request, err := svc.Cancel(context.Background(), "t1", id, "e1")
	if err != nil {
		t.Fatalf("cancel by owner: %v", err)
	}
	if request.Status != StatusCancelled {
		t.Fatalf("status = %q, want CANCELLED", request.Status)
	}
}
