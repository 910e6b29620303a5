package store

import (
	"context"

	"github.com/nosaterra/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository handles persistence for comments.
type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(database *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: database.Collection("comments")}
}

// ListByPost returns a post's comments oldest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]types.Comment, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"post_id": postID},
		options.Find().
			SetProjection(bson.M{"_id": 0}).
			SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	comments := []types.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) Get(ctx context.Context, id string) (types.Comment, error) {
	var comment types.Comment
	err := r.coll.FindOne(ctx, bson.M{"id": id},
		options.FindOne().SetProjection(bson.M{"_id": 0}),
	).Decode(&comment)
	if err != nil {
		return types.Comment{}, mapError(err)
	}
	return comment, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return types.Comment{}, mapError(err)
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return mapError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByPost removes every comment attached to the post.
func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"post_id": postID})
	return mapError(err)
}

// DeleteByUser removes every comment authored by the user.
func (r *CommentRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return mapError(err)
}
