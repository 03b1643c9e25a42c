package attendance

import "time"

type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	WorkDate   time.Time  `json:"workDate"`
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	Hours      float64    `json:"hoursWorked"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// ExportRow is the flat shape handed to the report exporters; all formatting
// is applied here, the exporters write cells verbatim.
type ExportRow struct {
	EmployeeNumber string
	Name           string
	Designation    string
	Date           string
	CheckIn        string
	CheckOut       string
	Hours          string
	Status         string
}

type ListFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
