package engagement

import "context"

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListAnnouncements(ctx context.Context, tenantID string, limit, offset int) ([]Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListAnnouncements(ctx, tenantID, limit, offset)
}

func (s *Service) CreateAnnouncement(ctx context.Context, tenantID string, announcement Announcement) (string, error) {
	if announcement.Title == "" {
		return "", ErrMissingTitle
	}
	return s.store.CreateAnnouncement(ctx, tenantID, announcement)
}

func (s *Service) ListRecognitions(ctx context.Context, tenantID string, limit, offset int) ([]Recognition, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListRecognitions(ctx, tenantID, limit, offset)
}

func (s *Service) CreateRecognition(ctx context.Context, tenantID string, recognition Recognition) (string, error) {
	if recognition.Message == "" {
		return "", ErrMissingMessage
	}
	return s.store.CreateRecognition(ctx, tenantID, recognition)
}
