package store

import (
	"context"

	"github.com/nosaterra/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository handles persistence for posts.
type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(database *mongo.Database) *PostRepository {
	return &PostRepository{coll: database.Collection("posts")}
}

// List returns posts newest first, optionally filtered by category.
// An empty category or "all" returns everything.
func (r *PostRepository) List(ctx context.Context, category string) ([]types.Post, error) {
	filter := bson.M{}
	if category != "" && category != "all" {
		filter["category"] = category
	}

	cursor, err := r.coll.Find(ctx, filter,
		options.Find().
			SetProjection(bson.M{"_id": 0}).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	posts := []types.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Get(ctx context.Context, id string) (types.Post, error) {
	var post types.Post
	err := r.coll.FindOne(ctx, bson.M{"id": id},
		options.FindOne().SetProjection(bson.M{"_id": 0}),
	).Decode(&post)
	if err != nil {
		return types.Post{}, mapError(err)
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return types.Post{}, mapError(err)
	}
	return post, nil
}

// SetLikes replaces the likes array of a post.
func (r *PostRepository) SetLikes(ctx context.Context, id string, likes []string) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"likes": likes}})
	if err != nil {
		return mapError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return mapError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser removes every post authored by the user.
func (r *PostRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return mapError(err)
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
