package engagement

import "time"

type Announcement struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recognition is a public shout-out from one user to an employee.
type Recognition struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	EmployeeID string    `json:"employeeId"`
	Message    string    `json:"message"`
	Badge      string    `json:"badge"`
	CreatedAt  time.Time `json:"createdAt"`
}
