package tenant

import (
	"context"
	"errors"

	"orbithr/internal/domain/auth"
	"orbithr/internal/platform/querier"
)

var (
	ErrSlugTaken     = errors.New("tenant slug already registered")
	ErrEmailTaken    = errors.New("admin email already registered")
	ErrMissingFields = errors.New("name, slug, admin email and password are required")
	ErrUnknownPlan   = errors.New("unknown subscription plan")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// Register creates the tenant, its role set, the first admin user and the
// subscription in a single transaction. A failure anywhere rolls back the
// whole signup.
func (s *Store) Register(ctx context.Context, input RegisterInput) (Registration, error) {
	passwordHash, err := auth.HashPassword(input.AdminPassword)
	if err != nil {
		return Registration{}, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Registration{}, err
	}
	defer tx.Rollback(ctx)

	var registration Registration
	err = tx.QueryRow(ctx, `
    INSERT INTO tenants (name, slug)
    VALUES ($1, $2)
    RETURNING id, name, slug, created_at
  `, input.Name, input.Slug).Scan(&registration.Tenant.ID, &registration.Tenant.Name, &registration.Tenant.Slug, &registration.Tenant.CreatedAt)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			return Registration{}, ErrSlugTaken
		}
		return Registration{}, err
	}
	tenantID := registration.Tenant.ID

	// The permission catalog must exist before role_permissions rows can be
	// linked; an unseeded database would otherwise leave every role empty.
	for _, permission := range auth.DefaultPermissions {
		if _, err := tx.Exec(ctx, `
    INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING
  `, permission); err != nil {
			return Registration{}, err
		}
	}

	for _, role := range []string{auth.RoleEmployee, auth.RoleManager, auth.RoleAdmin} {
		if _, err := tx.Exec(ctx, `
    INSERT INTO roles (tenant_id, name) VALUES ($1, $2)
  `, tenantID, role); err != nil {
			return Registration{}, err
		}
		for _, permission := range auth.RolePermissions[role] {
			if _, err := tx.Exec(ctx, `
    INSERT INTO role_permissions (role_id, permission_id)
    SELECT r.id, p.id FROM roles r, permissions p
    WHERE r.tenant_id = $1 AND r.name = $2 AND p.key = $3
  `, tenantID, role, permission); err != nil {
				return Registration{}, err
			}
		}
	}

	err = tx.QueryRow(ctx, `
    INSERT INTO users (tenant_id, email, password_hash, role_id, status)
    VALUES ($1, $2, $3, (SELECT id FROM roles WHERE tenant_id = $1 AND name = $4), $5)
    RETURNING id
  `, tenantID, input.AdminEmail, passwordHash, auth.RoleAdmin, auth.UserStatusActive).Scan(&registration.AdminUserID)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			return Registration{}, ErrEmailTaken
		}
		return Registration{}, err
	}

	err = tx.QueryRow(ctx, `
    INSERT INTO subscriptions (tenant_id, plan, status)
    VALUES ($1, $2, $3)
    RETURNING id, plan, status, started_at
  `, tenantID, input.Plan, SubscriptionActive).Scan(&registration.Subscription.ID, &registration.Subscription.Plan, &registration.Subscription.Status, &registration.Subscription.StartedAt)
	if err != nil {
		return Registration{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Registration{}, err
	}
	return registration, nil
}

func (s *Store) SubscriptionFor(ctx context.Context, tenantID string) (Subscription, error) {
	var subscription Subscription
	err := s.DB.QueryRow(ctx, `
    SELECT id, plan, status, started_at
    FROM subscriptions
    WHERE tenant_id = $1
    ORDER BY started_at DESC
    LIMIT 1
  `, tenantID).Scan(&subscription.ID, &subscription.Plan, &subscription.Status, &subscription.StartedAt)
	return subscription, err
}
