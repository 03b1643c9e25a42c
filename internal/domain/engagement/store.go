package engagement

import (
	"context"
	"errors"

	"orbithr/internal/platform/querier"
)

var (
	ErrMissingTitle   = errors.New("announcement title is required")
	ErrMissingMessage = errors.New("recognition message is required")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListAnnouncements(ctx context.Context, tenantID string, limit, offset int) ([]Announcement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, author_id, title, body, pinned, created_at
    FROM announcements
    WHERE tenant_id = $1
    ORDER BY pinned DESC, created_at DESC
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []Announcement
	for rows.Next() {
		var announcement Announcement
		if err := rows.Scan(&announcement.ID, &announcement.AuthorID, &announcement.Title, &announcement.Body,
			&announcement.Pinned, &announcement.CreatedAt); err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}
	return announcements, nil
}

func (s *Store) CreateAnnouncement(ctx context.Context, tenantID string, announcement Announcement) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (tenant_id, author_id, title, body, pinned)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, announcement.AuthorID, announcement.Title, announcement.Body, announcement.Pinned).Scan(&id)
	return id, err
}

func (s *Store) ListRecognitions(ctx context.Context, tenantID string, limit, offset int) ([]Recognition, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, from_user_id, employee_id, message, COALESCE(badge, ''), created_at
    FROM recognitions
    WHERE tenant_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recognitions []Recognition
	for rows.Next() {
		var recognition Recognition
		if err := rows.Scan(&recognition.ID, &recognition.FromUserID, &recognition.EmployeeID,
			&recognition.Message, &recognition.Badge, &recognition.CreatedAt); err != nil {
			return nil, err
		}
		recognitions = append(recognitions, recognition)
	}
	return recognitions, nil
}

func (s *Store) CreateRecognition(ctx context.Context, tenantID string, recognition Recognition) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO recognitions (tenant_id, from_user_id, employee_id, message, badge)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, recognition.FromUserID, recognition.EmployeeID, recognition.Message, recognition.Badge).Scan(&id)
	return id, err
}
