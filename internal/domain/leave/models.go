package leave

import "time"

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

type Policy struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DefaultDays float64   `json:"defaultDays"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Balance struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	PolicyID      string  `json:"policyId"`
	PolicyName    string  `json:"policyName"`
	Year          int     `json:"year"`
	DaysAllotted  float64 `json:"daysAllotted"`
	DaysUsed      float64 `json:"daysUsed"`
	DaysRemaining float64 `json:"daysRemaining"`
}

type Request struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	PolicyID   string    `json:"policyId"`
	PolicyName string    `json:"policyName,omitempty"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Days       float64   `json:"days"`
	DaysLWP    float64   `json:"daysLwp"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decidedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Overview is the GET /leave payload for the authenticated employee.
type Overview struct {
	Balances []Balance `json:"balances"`
	Requests []Request `json:"requests"`
}
