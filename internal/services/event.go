package services

import (
	"context"

	"github.com/nosaterra/apiserver/types"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	List(ctx context.Context) ([]types.Event, error)
	Create(ctx context.Context, event types.Event) (types.Event, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// EventService encapsulates event use-cases.
type EventService struct {
	repo        EventRepository
	attendances AttendanceRepository
	notifier    *Notifier
}

func NewEventService(repo EventRepository, attendances AttendanceRepository, notifier *Notifier) *EventService {
	return &EventService{repo: repo, attendances: attendances, notifier: notifier}
}

func (s *EventService) List(ctx context.Context) ([]types.Event, error) {
	return s.repo.List(ctx)
}

// Create persists the event and fans out a best-effort notification.
func (s *EventService) Create(ctx context.Context, event types.Event) (types.Event, error) {
	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return types.Event{}, err
	}
	s.notifier.EventCreated(ctx, created)
	return created, nil
}

// Delete removes the event and every attendance recorded for it.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.attendances.DeleteByEvent(ctx, id)
}

func (s *EventService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
