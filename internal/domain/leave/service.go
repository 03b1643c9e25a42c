package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"orbithr/internal/platform/querier"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListPolicies(ctx context.Context, tenantID string) ([]Policy, error) {
	return s.store.ListPolicies(ctx, tenantID)
}

func (s *Service) CreatePolicy(ctx context.Context, tenantID, name string, defaultDays float64) (string, error) {
	return s.store.CreatePolicy(ctx, tenantID, name, defaultDays)
}

func (s *Service) UpdatePolicy(ctx context.Context, tenantID, policyID, name string, defaultDays float64) error {
	return s.store.UpdatePolicy(ctx, tenantID, policyID, name, defaultDays)
}

// EnsureBalances guarantees one balance row per tenant policy for the
// employee and year, then reports remaining days. A missing row is created
// seeded from the policy default; when a concurrent request wins the insert
// race the unique violation is swallowed and the winner's row re-read.
func (s *Service) EnsureBalances(ctx context.Context, tenantID, employeeID string, year int) ([]Balance, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	policies, err := s.store.ListPolicies(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	balances := make([]Balance, 0, len(policies))
	for _, policy := range policies {
		balance, err := s.store.FindBalance(ctx, tenantID, employeeID, policy.ID, year)
		if errors.Is(err, pgx.ErrNoRows) {
			balance, err = s.store.CreateBalance(ctx, tenantID, employeeID, policy.ID, year, policy.DefaultDays)
			if querier.IsUniqueViolation(err) {
				balance, err = s.store.FindBalance(ctx, tenantID, employeeID, policy.ID, year)
			}
		}
		if err != nil {
			return nil, err
		}
		balance.PolicyName = policy.Name
		balance.DaysRemaining = Remaining(balance.DaysAllotted, balance.DaysUsed)
		balances = append(balances, balance)
	}
	return balances, nil
}

func (s *Service) OverviewFor(ctx context.Context, tenantID, employeeID string, year int) (Overview, error) {
	balances, err := s.EnsureBalances(ctx, tenantID, employeeID, year)
	if err != nil {
		return Overview{}, err
	}
	requests, err := s.store.ListRequests(ctx, tenantID, employeeID, 100, 0)
	if err != nil {
		return Overview{}, err
	}
	if requests == nil {
		requests = []Request{}
	}
	return Overview{Balances: balances, Requests: requests}, nil
}

func (s *Service) CreateRequest(ctx context.Context, tenantID string, request Request) (string, error) {
	days, err := CalculateDays(request.StartDate, request.EndDate)
	if err != nil {
		return "", err
	}
	if request.DaysLWP < 0 || request.DaysLWP > days {
		return "", ErrLWPExceedsDays
	}
	request.Days = days
	request.Status = StatusPending
	return s.store.CreateRequest(ctx, tenantID, request)
}

// Approve finalizes a pending request. Paid days are charged against the
// year's balance; LWP days are left for payroll to deduct.
func (s *Service) Approve(ctx context.Context, tenantID, requestID, approverID string) (Request, error) {
	request, err := s.pendingRequest(ctx, tenantID, requestID)
	if err != nil {
		return Request{}, err
	}

	paidDays := request.Days - request.DaysLWP
	if paidDays > 0 {
		balances, err := s.EnsureBalances(ctx, tenantID, request.EmployeeID, request.StartDate.Year())
		if err != nil {
			return Request{}, err
		}
		for _, balance := range balances {
			if balance.PolicyID == request.PolicyID {
				if err := s.store.AddDaysUsed(ctx, tenantID, balance.ID, paidDays); err != nil {
					return Request{}, err
				}
				break
			}
		}
	}

	if err := s.store.UpdateRequestStatus(ctx, tenantID, requestID, StatusApproved, approverID); err != nil {
		return Request{}, err
	}
	request.Status = StatusApproved
	request.DecidedBy = approverID
	return request, nil
}

func (s *Service) Reject(ctx context.Context, tenantID, requestID, approverID string) (Request, error) {
	request, err := s.pendingRequest(ctx, tenantID, requestID)
	if err != nil {
		return Request{}, err
	}
	if err := s.store.UpdateRequestStatus(ctx, tenantID, requestID, StatusRejected, approverID); err != nil {
		return Request{}, err
	}
	request.Status = StatusRejected
	request.DecidedBy = approverID
	return request, nil
}

func (s *Service) Cancel(ctx context.Context, tenantID, requestID, employeeID string) (Request, error) {
	request, err := s.pendingRequest(ctx, tenantID, requestID)
	if err != nil {
		return Request{}, err
	}
	if request.EmployeeID != employeeID {
		return Request{}, ErrRequestNotFound
	}
	if err := s.store.UpdateRequestStatus(ctx, tenantID, requestID, StatusCancelled, employeeID); err != nil {
		return Request{}, err
	}
	request.Status = StatusCancelled
	return request, nil
}

func (s *Service) ListRequests(ctx context.Context, tenantID, employeeID string, limit, offset int) ([]Request, error) {
	return s.store.ListRequests(ctx, tenantID, employeeID, limit, offset)
}

func (s *Service) pendingRequest(ctx context.Context, tenantID, requestID string) (Request, error) {
	request, err := s.store.RequestByID(ctx, tenantID, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrRequestNotFound
		}
		return Request{}, err
	}
	if request.Status != StatusPending {
		return Request{}, ErrRequestDecided
	}
	return request, nil
}
