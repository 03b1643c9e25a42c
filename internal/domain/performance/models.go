package performance

import "time"

const (
	GoalStatusActive    = "ACTIVE"
	GoalStatusCompleted = "COMPLETED"
	GoalStatusCancelled = "CANCELLED"

	ReviewStatusDraft     = "DRAFT"
	ReviewStatusSubmitted = "SUBMITTED"
	ReviewStatusFinalized = "FINALIZED"

	FeedbackSelf    = "SELF"
	FeedbackManager = "MANAGER"
	FeedbackPeer    = "PEER"
	FeedbackReport  = "REPORT"
)

type Goal struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	CreatedBy   string     `json:"createdBy"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      string     `json:"status"`
	Progress    float64    `json:"progress"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Checkin struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goalId"`
	AuthorID  string    `json:"authorId"`
	Notes     string    `json:"notes"`
	Progress  float64   `json:"progress"`
	CreatedAt time.Time `json:"createdAt"`
}

type Review struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	ReviewerID string    `json:"reviewerId"`
	Period     string    `json:"period"`
	Rating     float64   `json:"rating"`
	Summary    string    `json:"summary"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Feedback is one 360-degree response attached to a review.
type Feedback struct {
	ID           string    `json:"id"`
	ReviewID     string    `json:"reviewId"`
	FromUserID   string    `json:"fromUserId"`
	Relationship string    `json:"relationship"`
	Message      string    `json:"message"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Promotion struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	FromDesignation string     `json:"fromDesignation"`
	ToDesignation   string     `json:"toDesignation"`
	EffectiveDate   *time.Time `json:"effectiveDate,omitempty"`
	ApprovedBy      string     `json:"approvedBy"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type Summary struct {
	GoalsTotal         int            `json:"goalsTotal"`
	GoalsCompleted     int            `json:"goalsCompleted"`
	AverageProgress    float64        `json:"averageProgress"`
	ReviewsTotal       int            `json:"reviewsTotal"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}
