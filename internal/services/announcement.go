package services

import (
	"context"

	"github.com/nosaterra/apiserver/types"
)

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	List(ctx context.Context) ([]types.Announcement, error)
	Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// AnnouncementService encapsulates announcement use-cases.
type AnnouncementService struct {
	repo     AnnouncementRepository
	notifier *Notifier
}

func NewAnnouncementService(repo AnnouncementRepository, notifier *Notifier) *AnnouncementService {
	return &AnnouncementService{repo: repo, notifier: notifier}
}

func (s *AnnouncementService) List(ctx context.Context) ([]types.Announcement, error) {
	return s.repo.List(ctx)
}

// Create persists the announcement and fans out a best-effort
// notification.
func (s *AnnouncementService) Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	created, err := s.repo.Create(ctx, announcement)
	if err != nil {
		return types.Announcement{}, err
	}
	s.notifier.AnnouncementCreated(ctx, created)
	return created, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *AnnouncementService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
