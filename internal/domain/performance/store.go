package performance

import (
	"context"

	"orbithr/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListGoals(ctx context.Context, tenantID, employeeID string) ([]Goal, error) {
	query := `
    SELECT id, employee_id, COALESCE(created_by::text, ''), title, COALESCE(description, ''),
           due_date, status, progress, created_at
    FROM goals
    WHERE tenant_id = $1
  `
	args := []any{tenantID}
	if employeeID != "" {
		query += " AND employee_id = $2"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var goal Goal
		if err := rows.Scan(&goal.ID, &goal.EmployeeID, &goal.CreatedBy, &goal.Title, &goal.Description,
			&goal.DueDate, &goal.Status, &goal.Progress, &goal.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, nil
}

func (s *Store) GoalByID(ctx context.Context, tenantID, goalID string) (Goal, error) {
	var goal Goal
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, COALESCE(created_by::text, ''), title, COALESCE(description, ''),
           due_date, status, progress, created_at
    FROM goals
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, goalID).Scan(&goal.ID, &goal.EmployeeID, &goal.CreatedBy, &goal.Title, &goal.Description,
		&goal.DueDate, &goal.Status, &goal.Progress, &goal.CreatedAt)
	return goal, err
}

func (s *Store) CreateGoal(ctx context.Context, tenantID string, goal Goal) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO goals (tenant_id, employee_id, created_by, title, description, due_date, status, progress)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, tenantID, goal.EmployeeID, goal.CreatedBy, goal.Title, goal.Description, goal.DueDate, goal.Status, goal.Progress).Scan(&id)
	return id, err
}

func (s *Store) UpdateGoalProgress(ctx context.Context, tenantID, goalID string, progress float64, status string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE goals SET progress = $1, status = $2, updated_at = now()
    WHERE tenant_id = $3 AND id = $4
  `, progress, status, tenantID, goalID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (s *Store) CreateCheckin(ctx context.Context, tenantID string, checkin Checkin) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO goal_checkins (tenant_id, goal_id, author_id, notes, progress)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, checkin.GoalID, checkin.AuthorID, checkin.Notes, checkin.Progress).Scan(&id)
	return id, err
}

func (s *Store) ListCheckins(ctx context.Context, tenantID, goalID string) ([]Checkin, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, goal_id, author_id, COALESCE(notes, ''), progress, created_at
    FROM goal_checkins
    WHERE tenant_id = $1 AND goal_id = $2
    ORDER BY created_at DESC
  `, tenantID, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkins []Checkin
	for rows.Next() {
		var checkin Checkin
		if err := rows.Scan(&checkin.ID, &checkin.GoalID, &checkin.AuthorID, &checkin.Notes, &checkin.Progress, &checkin.CreatedAt); err != nil {
			return nil, err
		}
		checkins = append(checkins, checkin)
	}
	return checkins, nil
}

func (s *Store) CreateReview(ctx context.Context, tenantID string, review Review) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO reviews (tenant_id, employee_id, reviewer_id, period, rating, summary, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, tenantID, review.EmployeeID, review.ReviewerID, review.Period, review.Rating, review.Summary, review.Status).Scan(&id)
	return id, err
}

func (s *Store) ReviewByID(ctx context.Context, tenantID, reviewID string) (Review, error) {
	var review Review
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, reviewer_id, period, rating, COALESCE(summary, ''), status, created_at
    FROM reviews
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, reviewID).Scan(&review.ID, &review.EmployeeID, &review.ReviewerID, &review.Period,
		&review.Rating, &review.Summary, &review.Status, &review.CreatedAt)
	return review, err
}

func (s *Store) ListReviews(ctx context.Context, tenantID, employeeID string) ([]Review, error) {
	query := `
    SELECT id, employee_id, reviewer_id, period, rating, COALESCE(summary, ''), status, created_at
    FROM reviews
    WHERE tenant_id = $1
  `
	args := []any{tenantID}
	if employeeID != "" {
		query += " AND employee_id = $2"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		if err := rows.Scan(&review.ID, &review.EmployeeID, &review.ReviewerID, &review.Period,
			&review.Rating, &review.Summary, &review.Status, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (s *Store) UpdateReviewStatus(ctx context.Context, tenantID, reviewID, status string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE reviews SET status = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3
  `, status, tenantID, reviewID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (s *Store) CreateFeedback(ctx context.Context, tenantID string, feedback Feedback) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO review_feedback (tenant_id, review_id, from_user_id, relationship, message, rating)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, tenantID, feedback.ReviewID, feedback.FromUserID, feedback.Relationship, feedback.Message, feedback.Rating).Scan(&id)
	return id, err
}

func (s *Store) ListFeedback(ctx context.Context, tenantID, reviewID string) ([]Feedback, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, review_id, from_user_id, relationship, COALESCE(message, ''), rating, created_at
    FROM review_feedback
    WHERE tenant_id = $1 AND review_id = $2
    ORDER BY created_at
  `, tenantID, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []Feedback
	for rows.Next() {
		var item Feedback
		if err := rows.Scan(&item.ID, &item.ReviewID, &item.FromUserID, &item.Relationship, &item.Message, &item.Rating, &item.CreatedAt); err != nil {
			return nil, err
		}
		feedback = append(feedback, item)
	}
	return feedback, nil
}

func (s *Store) CreatePromotion(ctx context.Context, tenantID string, promotion Promotion) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO promotions (tenant_id, employee_id, from_designation, to_designation, effective_date, approved_by, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, tenantID, promotion.EmployeeID, promotion.FromDesignation, promotion.ToDesignation,
		promotion.EffectiveDate, promotion.ApprovedBy, promotion.Notes).Scan(&id)
	return id, err
}

func (s *Store) ListPromotions(ctx context.Context, tenantID, employeeID string) ([]Promotion, error) {
	query := `
    SELECT id, employee_id, COALESCE(from_designation, ''), to_designation, effective_date,
           COALESCE(approved_by::text, ''), COALESCE(notes, ''), created_at
    FROM promotions
    WHERE tenant_id = $1
  `
	args := []any{tenantID}
	if employeeID != "" {
		query += " AND employee_id = $2"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promotions []Promotion
	for rows.Next() {
		var promotion Promotion
		if err := rows.Scan(&promotion.ID, &promotion.EmployeeID, &promotion.FromDesignation, &promotion.ToDesignation,
			&promotion.EffectiveDate, &promotion.ApprovedBy, &promotion.Notes, &promotion.CreatedAt); err != nil {
			return nil, err
		}
		promotions = append(promotions, promotion)
	}
	return promotions, nil
}

func (s *Store) RatingsFor(ctx context.Context, tenantID, employeeID string) ([]float64, error) {
	query := `
    SELECT rating FROM reviews WHERE tenant_id = $1 AND status = $2
  `
	args := []any{tenantID, ReviewStatusFinalized}
	if employeeID != "" {
		query += " AND employee_id = $3"
		args = append(args, employeeID)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []float64
	for rows.Next() {
		var rating float64
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}
