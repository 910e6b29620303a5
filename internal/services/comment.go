package services

import (
	"context"

	"github.com/nosaterra/apiserver/types"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID string) ([]types.Comment, error)
	Get(ctx context.Context, id string) (types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// CommentService encapsulates comment use-cases.
type CommentService struct {
	repo CommentRepository
}

func NewCommentService(repo CommentRepository) *CommentService {
	return &CommentService{repo: repo}
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]types.Comment, error) {
	return s.repo.ListByPost(ctx, postID)
}

func (s *CommentService) Get(ctx context.Context, id string) (types.Comment, error) {
	return s.repo.Get(ctx, id)
}

func (s *CommentService) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	return s.repo.Create(ctx, comment)
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *CommentService) DeleteByPost(ctx context.Context, postID string) error {
	return s.repo.DeleteByPost(ctx, postID)
}

func (s *CommentService) DeleteByUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}
