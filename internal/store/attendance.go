package store

import (
	"context"

	"github.com/nosaterra/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AttendanceRepository handles persistence for event attendances.
type AttendanceRepository struct {
	coll *mongo.Collection
}

func NewAttendanceRepository(database *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{coll: database.Collection("attendances")}
}

// ListByEvent returns every attendance recorded for the event.
func (r *AttendanceRepository) ListByEvent(ctx context.Context, eventID string) ([]types.Attendance, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"event_id": eventID},
		options.Find().SetProjection(bson.M{"_id": 0}),
	)
	if err != nil {
		return nil, err
	}
	attendances := []types.Attendance{}
	if err := cursor.All(ctx, &attendances); err != nil {
		return nil, err
	}
	return attendances, nil
}

// GetByEventAndUser fetches the caller's existing attendance for an event.
func (r *AttendanceRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (types.Attendance, error) {
	var attendance types.Attendance
	err := r.coll.FindOne(ctx, bson.M{"event_id": eventID, "user_id": userID},
		options.FindOne().SetProjection(bson.M{"_id": 0}),
	).Decode(&attendance)
	if err != nil {
		return types.Attendance{}, mapError(err)
	}
	return attendance, nil
}

func (r *AttendanceRepository) Create(ctx context.Context, attendance types.Attendance) (types.Attendance, error) {
	if _, err := r.coll.InsertOne(ctx, attendance); err != nil {
		return types.Attendance{}, mapError(err)
	}
	return attendance, nil
}

// UpdateStatus changes the status of the caller's existing attendance.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, eventID, userID, status string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"event_id": eventID, "user_id": userID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return mapError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByEvent removes every attendance for the event.
func (r *AttendanceRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"event_id": eventID})
	return mapError(err)
}

// DeleteByUser removes every attendance recorded by the user.
func (r *AttendanceRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return mapError(err)
}
