package notifications

import (
	"context"
	"log/slog"
	"time"

	"orbithr/internal/platform/querier"
)

const (
	TypeLeaveSubmitted      = "leave_submitted"
	TypeLeaveApproved       = "leave_approved"
	TypeLeaveRejected       = "leave_rejected"
	TypeLeaveCancelled      = "leave_cancelled"
	TypePayrollCommitted    = "payroll_committed"
	TypeGoalCreated         = "goal_created"
	TypeReviewAssigned      = "review_assigned"
	TypeFeedbackReceived    = "feedback_received"
	TypeRecognitionReceived = "recognition_received"
	TypeBirthdayDigest      = "birthday_digest"
)

type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Email is the outbound copy of a notification. Kind carries the
// notification type so the mailer can shape the message per event.
type Email struct {
	To      string
	Subject string
	Body    string
	Kind    string
}

type Mailer interface {
	Deliver(ctx context.Context, msg Email) error
}

type Service struct {
	store  *Store
	mailer Mailer
}

// New wires the in-app feed and, when mailer is non-nil, a best-effort email
// copy. Email failures are logged and never fail the caller.
func New(store *Store, mailer Mailer) *Service {
	return &Service{store: store, mailer: mailer}
}

func (s *Service) Notify(ctx context.Context, tenantID, userID, ntype, title, body string) error {
	if err := s.store.Create(ctx, tenantID, userID, ntype, title, body); err != nil {
		return err
	}

	if s.mailer == nil {
		return nil
	}
	email, err := s.store.UserEmail(ctx, tenantID, userID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	msg := Email{To: email, Subject: title, Body: body, Kind: ntype}
	if err := s.mailer.Deliver(ctx, msg); err != nil {
		slog.Warn("notification email send failed", "type", ntype, "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, tenantID, userID string, limit, offset int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.List(ctx, tenantID, userID, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, tenantID, userID string) (int, error) {
	return s.store.UnreadCount(ctx, tenantID, userID)
}

func (s *Service) MarkRead(ctx context.Context, tenantID, userID, notificationID string) error {
	return s.store.MarkRead(ctx, tenantID, userID, notificationID)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, tenantID, userID, ntype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (tenant_id, user_id, type, title, body)
    VALUES ($1,$2,$3,$4,$5)
  `, tenantID, userID, ntype, title, body)
	return err
}

func (s *Store) UserEmail(ctx context.Context, tenantID, userID string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, "SELECT email FROM users WHERE tenant_id = $1 AND id = $2", tenantID, userID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *Store) List(ctx context.Context, tenantID, userID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, type, title, body, read_at, created_at
    FROM notifications
    WHERE tenant_id = $1 AND user_id = $2
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var notification Notification
		if err := rows.Scan(&notification.ID, &notification.Type, &notification.Title, &notification.Body,
			&notification.ReadAt, &notification.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, notification)
	}
	return out, nil
}

func (s *Store) UnreadCount(ctx context.Context, tenantID, userID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notifications
    WHERE tenant_id = $1 AND user_id = $2 AND read_at IS NULL
  `, tenantID, userID).Scan(&total)
	return total, err
}

func (s *Store) MarkRead(ctx context.Context, tenantID, userID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE tenant_id = $1 AND user_id = $2 AND id = $3
  `, tenantID, userID, notificationID)
	return err
}
