package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nosaterra/apiserver/internal/services"
	"github.com/nosaterra/apiserver/types"
)

// AnnouncementHandler provides announcement endpoints. Reading is open
// to members, writing is admin-only.
type AnnouncementHandler struct {
	announcementService *services.AnnouncementService
}

func NewAnnouncementHandler(announcementService *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// AnnouncementRouter registers announcement routes on the given router.
func AnnouncementRouter(r chi.Router, announcementService *services.AnnouncementService, mw *Middleware) {
	handler := NewAnnouncementHandler(announcementService)

	r.Use(mw.RequireAuth)
	r.Get("/", handler.ListAnnouncements)
	r.With(mw.RequireAdmin).Post("/", handler.CreateAnnouncement)
	r.With(mw.RequireAdmin).Delete("/{announcementID}", handler.DeleteAnnouncement)
}

type AnnouncementCreateRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

func (h *AnnouncementHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.announcementService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list announcements")
		return
	}
	writeJSON(w, http.StatusOK, announcements)
}

func (h *AnnouncementHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req AnnouncementCreateRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == "" {
		req.Category = defaultCategory
	}

	announcement, err := h.announcementService.Create(r.Context(), types.Announcement{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Content:       req.Content,
		Category:      req.Category,
		CreatedBy:     caller.ID,
		CreatedByName: caller.Name,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create announcement")
		return
	}

	writeJSON(w, http.StatusOK, announcement)
}

func (h *AnnouncementHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.announcementService.Delete(r.Context(), chi.URLParam(r, "announcementID")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete announcement")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Announcement deleted"})
}
