package tenant

import "context"

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (Registration, error) {
	if input.Name == "" || input.Slug == "" || input.AdminEmail == "" || input.AdminPassword == "" {
		return Registration{}, ErrMissingFields
	}
	switch input.Plan {
	case "":
		input.Plan = PlanFree
	case PlanFree, PlanStandard:
	default:
		return Registration{}, ErrUnknownPlan
	}
	return s.store.Register(ctx, input)
}

func (s *Service) Subscription(ctx context.Context, tenantID string) (Subscription, error) {
	return s.store.SubscriptionFor(ctx, tenantID)
}
