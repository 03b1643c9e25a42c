package performance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListGoals(ctx context.Context, tenantID, employeeID string) ([]Goal, error) {
	return s.store.ListGoals(ctx, tenantID, employeeID)
}

func (s *Service) CreateGoal(ctx context.Context, tenantID string, goal Goal) (string, error) {
	if goal.Title == "" {
		return "", ErrMissingTitle
	}
	if !validProgress(goal.Progress) {
		return "", ErrInvalidProgress
	}
	if goal.Status == "" {
		goal.Status = GoalStatusActive
	}
	return s.store.CreateGoal(ctx, tenantID, goal)
}

// Checkin records progress against a goal; reaching 100 completes it.
func (s *Service) Checkin(ctx context.Context, tenantID string, checkin Checkin) (string, error) {
	if !validProgress(checkin.Progress) {
		return "", ErrInvalidProgress
	}
	goal, err := s.store.GoalByID(ctx, tenantID, checkin.GoalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrGoalNotFound
		}
		return "", err
	}

	id, err := s.store.CreateCheckin(ctx, tenantID, checkin)
	if err != nil {
		return "", err
	}

	status := goal.Status
	if checkin.Progress >= 100 {
		status = GoalStatusCompleted
	}
	if err := s.store.UpdateGoalProgress(ctx, tenantID, checkin.GoalID, checkin.Progress, status); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) ListCheckins(ctx context.Context, tenantID, goalID string) ([]Checkin, error) {
	return s.store.ListCheckins(ctx, tenantID, goalID)
}

func (s *Service) CreateReview(ctx context.Context, tenantID string, review Review) (string, error) {
	if !validRating(review.Rating) {
		return "", ErrInvalidRating
	}
	if review.Status == "" {
		review.Status = ReviewStatusDraft
	}
	return s.store.CreateReview(ctx, tenantID, review)
}

func (s *Service) ListReviews(ctx context.Context, tenantID, employeeID string) ([]Review, error) {
	return s.store.ListReviews(ctx, tenantID, employeeID)
}

func (s *Service) FinalizeReview(ctx context.Context, tenantID, reviewID string) error {
	review, err := s.store.ReviewByID(ctx, tenantID, reviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.Status == ReviewStatusFinalized {
		return ErrReviewFinalized
	}
	return s.store.UpdateReviewStatus(ctx, tenantID, reviewID, ReviewStatusFinalized)
}

// AddFeedback attaches one 360-degree response. Finalized reviews are
// immutable.
func (s *Service) AddFeedback(ctx context.Context, tenantID string, feedback Feedback) (string, error) {
	if !validRating(feedback.Rating) {
		return "", ErrInvalidRating
	}
	review, err := s.store.ReviewByID(ctx, tenantID, feedback.ReviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrReviewNotFound
		}
		return "", err
	}
	if review.Status == ReviewStatusFinalized {
		return "", ErrReviewFinalized
	}
	return s.store.CreateFeedback(ctx, tenantID, feedback)
}

func (s *Service) ListFeedback(ctx context.Context, tenantID, reviewID string) ([]Feedback, error) {
	return s.store.ListFeedback(ctx, tenantID, reviewID)
}

func (s *Service) CreatePromotion(ctx context.Context, tenantID string, promotion Promotion) (string, error) {
	return s.store.CreatePromotion(ctx, tenantID, promotion)
}

func (s *Service) ListPromotions(ctx context.Context, tenantID, employeeID string) ([]Promotion, error) {
	return s.store.ListPromotions(ctx, tenantID, employeeID)
}

func (s *Service) SummaryFor(ctx context.Context, tenantID, employeeID string) (Summary, error) {
	goals, err := s.store.ListGoals(ctx, tenantID, employeeID)
	if err != nil {
		return Summary{}, err
	}
	ratings, err := s.store.RatingsFor(ctx, tenantID, employeeID)
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(goals, ratings), nil
}
