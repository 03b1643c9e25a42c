package core

import "time"

const (
	EmployeeStatusActive   = "ACTIVE"
	EmployeeStatusInactive = "INACTIVE"
)

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Designation    string     `json:"designation"`
	Department     string     `json:"department"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// OnboardInput creates the login and the profile together.
type OnboardInput struct {
	Employee Employee `json:"employee"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
}

type Birthday struct {
	EmployeeID  string    `json:"employeeId"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}
