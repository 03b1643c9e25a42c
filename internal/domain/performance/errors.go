package performance

import "errors"

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrReviewFinalized = errors.New("review already finalized")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrMissingTitle    = errors.New("title is required")
)
