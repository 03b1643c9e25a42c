package tenant

import "time"

const (
	PlanFree     = "FREE"
	PlanStandard = "STANDARD"

	SubscriptionActive = "ACTIVE"
)

type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

type Subscription struct {
	ID        string    `json:"id"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
}

type RegisterInput struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
	Plan          string `json:"plan"`
}

type Registration struct {
	Tenant       Tenant       `json:"tenant"`
	AdminUserID  string       `json:"adminUserId"`
	Subscription Subscription `json:"subscription"`
}
