package store

import (
	"context"

	"github.com/nosaterra/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnnouncementRepository handles persistence for announcements.
type AnnouncementRepository struct {
	coll *mongo.Collection
}

func NewAnnouncementRepository(database *mongo.Database) *AnnouncementRepository {
	return &AnnouncementRepository{coll: database.Collection("announcements")}
}

// List returns announcements newest first.
func (r *AnnouncementRepository) List(ctx context.Context) ([]types.Announcement, error) {
	cursor, err := r.coll.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"_id": 0}).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	announcements := []types.Announcement{}
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	if _, err := r.coll.InsertOne(ctx, announcement); err != nil {
		return types.Announcement{}, mapError(err)
	}
	return announcement, nil
}

// Delete removes an announcement if present. Deleting an absent id is
// not an error.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	return mapError(err)
}

func (r *AnnouncementRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
