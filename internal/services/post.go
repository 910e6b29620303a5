package services

import (
	"context"

	"github.com/nosaterra/apiserver/types"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	List(ctx context.Context, category string) ([]types.Post, error)
	Get(ctx context.Context, id string) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	SetLikes(ctx context.Context, id string, likes []string) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
}

// PostService encapsulates post use-cases.
type PostService struct {
	repo PostRepository
}

func NewPostService(repo PostRepository) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) List(ctx context.Context, category string) ([]types.Post, error) {
	return s.repo.List(ctx, category)
}

func (s *PostService) Get(ctx context.Context, id string) (types.Post, error) {
	return s.repo.Get(ctx, id)
}

func (s *PostService) Create(ctx context.Context, post types.Post) (types.Post, error) {
	return s.repo.Create(ctx, post)
}

// ToggleLike adds userID to the post's likes if absent, removes it if
// present, and returns the resulting like count.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (int, error) {
	post, err := s.repo.Get(ctx, postID)
	if err != nil {
		return 0, err
	}

	likes := make([]string, 0, len(post.Likes)+1)
	found := false
	for _, id := range post.Likes {
		if id == userID {
			found = true
			continue
		}
		likes = append(likes, id)
	}
	if !found {
		likes = append(likes, userID)
	}

	if err := s.repo.SetLikes(ctx, postID, likes); err != nil {
		return 0, err
	}
	return len(likes), nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *PostService) DeleteByUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}

func (s *PostService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
