package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nosaterra/apiserver/internal/services"
	"github.com/nosaterra/apiserver/internal/store"
	"github.com/nosaterra/apiserver/types"
)

// AdminHandler provides the admin-only management endpoints.
type AdminHandler struct {
	userService         *services.UserService
	postService         *services.PostService
	commentService      *services.CommentService
	attendanceService   *services.AttendanceService
	eventService        *services.EventService
	announcementService *services.AnnouncementService
}

func NewAdminHandler(
	userService *services.UserService,
	postService *services.PostService,
	commentService *services.CommentService,
	attendanceService *services.AttendanceService,
	eventService *services.EventService,
	announcementService *services.AnnouncementService,
) *AdminHandler {
	return &AdminHandler{
		userService:         userService,
		postService:         postService,
		commentService:      commentService,
		attendanceService:   attendanceService,
		eventService:        eventService,
		announcementService: announcementService,
	}
}

// AdminRouter registers admin routes. Every route requires an
// authenticated admin.
func AdminRouter(
	r chi.Router,
	userService *services.UserService,
	postService *services.PostService,
	commentService *services.CommentService,
	attendanceService *services.AttendanceService,
	eventService *services.EventService,
	announcementService *services.AnnouncementService,
	mw *Middleware,
) {
	handler := NewAdminHandler(userService, postService, commentService, attendanceService, eventService, announcementService)

	r.Use(mw.RequireAuth, mw.RequireAdmin)
	r.Get("/stats", handler.GetStats)
	r.Get("/users", handler.ListUsers)
	r.Delete("/users/{userID}", handler.DeleteUser)
	r.Put("/users/{userID}/role", handler.UpdateUserRole)
}

// GetStats returns collection totals for the dashboard.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	totalUsers, err := h.userService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	totalPosts, err := h.postService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	totalEvents, err := h.eventService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	totalAnnouncements, err := h.announcementService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, types.Stats{
		TotalUsers:         totalUsers,
		TotalPosts:         totalPosts,
		TotalEvents:        totalEvents,
		TotalAnnouncements: totalAnnouncements,
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// DeleteUser removes an account and everything it owns: posts, comments,
// and attendances. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID == caller.ID {
		writeError(w, http.StatusBadRequest, "Cannot delete yourself")
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	if err := h.postService.DeleteByUser(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if err := h.commentService.DeleteByUser(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if err := h.attendanceService.DeleteByUser(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted"})
}

// UpdateUserRole sets a user's role from the "role" query parameter.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if !types.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	if err := h.userService.UpdateRole(r.Context(), chi.URLParam(r, "userID"), role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Role updated"})
}
