package store

import (
	"context"

	"github.com/nosaterra/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(database *mongo.Database) *EventRepository {
	return &EventRepository{coll: database.Collection("events")}
}

// List returns events ordered by start date, soonest first.
func (r *EventRepository) List(ctx context.Context) ([]types.Event, error) {
	cursor, err := r.coll.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"_id": 0}).
			SetSort(bson.D{{Key: "start_date", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	events := []types.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) Create(ctx context.Context, event types.Event) (types.Event, error) {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return types.Event{}, mapError(err)
	}
	return event, nil
}

// Delete removes an event if present. Deleting an absent id is not an
// error; attendances are cascaded by the service.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	return mapError(err)
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
