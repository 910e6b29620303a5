package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nosaterra/apiserver/internal/store"
	"github.com/nosaterra/apiserver/types"
)

// AttendanceRepository defines persistence operations for attendances.
type AttendanceRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]types.Attendance, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (types.Attendance, error)
	Create(ctx context.Context, attendance types.Attendance) (types.Attendance, error)
	UpdateStatus(ctx context.Context, eventID, userID, status string) error
	DeleteByEvent(ctx context.Context, eventID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// AttendanceService encapsulates attendance use-cases.
type AttendanceService struct {
	repo AttendanceRepository
}

func NewAttendanceService(repo AttendanceRepository) *AttendanceService {
	return &AttendanceService{repo: repo}
}

func (s *AttendanceService) ListByEvent(ctx context.Context, eventID string) ([]types.Attendance, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// Mark upserts the user's attendance for an event: a first mark creates
// the record, a repeated mark updates its status in place.
func (s *AttendanceService) Mark(ctx context.Context, eventID string, user types.User, status string) (types.Attendance, error) {
	existing, err := s.repo.GetByEventAndUser(ctx, eventID, user.ID)
	if err == nil {
		if err := s.repo.UpdateStatus(ctx, eventID, user.ID, status); err != nil {
			return types.Attendance{}, err
		}
		existing.Status = status
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.Attendance{}, err
	}

	attendance := types.Attendance{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    user.ID,
		UserName:  user.Name,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.Create(ctx, attendance)
}

func (s *AttendanceService) DeleteByUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}
