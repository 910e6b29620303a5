package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nosaterra/apiserver/internal/services"
	"github.com/nosaterra/apiserver/internal/store"
	"github.com/nosaterra/apiserver/types"
)

const defaultCategory = "general"

// PostHandler provides feed endpoints: posts and their comments.
type PostHandler struct {
	postService    *services.PostService
	commentService *services.CommentService
}

func NewPostHandler(postService *services.PostService, commentService *services.CommentService) *PostHandler {
	return &PostHandler{postService: postService, commentService: commentService}
}

// PostRouter registers post and nested comment routes. All routes
// require authentication.
func PostRouter(r chi.Router, postService *services.PostService, commentService *services.CommentService, mw *Middleware) {
	handler := NewPostHandler(postService, commentService)

	r.Use(mw.RequireAuth)
	r.Get("/", handler.ListPosts)
	r.Post("/", handler.CreatePost)
	r.Route("/{postID}", func(r chi.Router) {
		r.Post("/like", handler.LikePost)
		r.Delete("/", handler.DeletePost)
		r.Get("/comments", handler.ListComments)
		r.Post("/comments", handler.CreateComment)
	})
}

// CommentRouter registers the standalone comment deletion route.
func CommentRouter(r chi.Router, postService *services.PostService, commentService *services.CommentService, mw *Middleware) {
	handler := NewPostHandler(postService, commentService)

	r.Use(mw.RequireAuth)
	r.Delete("/{commentID}", handler.DeleteComment)
}

type PostCreateRequest struct {
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

type CommentCreateRequest struct {
	Content string `json:"content" validate:"required"`
}

// LikesResponse carries the like count after a toggle.
type LikesResponse struct {
	Likes int `json:"likes"`
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req PostCreateRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == "" {
		req.Category = defaultCategory
	}

	post, err := h.postService.Create(r.Context(), types.Post{
		ID:         uuid.NewString(),
		UserID:     caller.ID,
		UserName:   caller.Name,
		UserAvatar: caller.Avatar,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		Category:   req.Category,
		Likes:      []string{},
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// LikePost toggles the caller's like: present removes it, absent adds it.
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	count, err := h.postService.ToggleLike(r.Context(), chi.URLParam(r, "postID"), caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	writeJSON(w, http.StatusOK, LikesResponse{Likes: count})
}

// DeletePost removes a post and its comments. Only the author or an
// admin may delete.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	postID := chi.URLParam(r, "postID")
	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	if post.UserID != caller.ID && caller.Role != types.RoleAdmin {
		writeError(w, http.StatusForbidden, "Not authorized")
		return
	}

	if err := h.postService.Delete(r.Context(), postID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	if err := h.commentService.DeleteByPost(r.Context(), postID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Post deleted"})
}

func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListByPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list comments")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req CommentCreateRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.commentService.Create(r.Context(), types.Comment{
		ID:         uuid.NewString(),
		PostID:     chi.URLParam(r, "postID"),
		UserID:     caller.ID,
		UserName:   caller.Name,
		UserAvatar: caller.Avatar,
		Content:    req.Content,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// DeleteComment removes a comment. Only the author or an admin may
// delete.
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	commentID := chi.URLParam(r, "commentID")
	comment, err := h.commentService.Get(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch comment")
		return
	}

	if comment.UserID != caller.ID && caller.Role != types.RoleAdmin {
		writeError(w, http.StatusForbidden, "Not authorized")
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Comment deleted"})
}
