package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nosaterra/apiserver/internal/db"
	"github.com/nosaterra/apiserver/internal/services"
	"github.com/nosaterra/apiserver/types"
)

// EventHandler provides event and attendance endpoints.
type EventHandler struct {
	eventService      *services.EventService
	attendanceService *services.AttendanceService
}

func NewEventHandler(eventService *services.EventService, attendanceService *services.AttendanceService) *EventHandler {
	return &EventHandler{eventService: eventService, attendanceService: attendanceService}
}

// EventRouter registers event routes on the given router. All routes
// require authentication; deletion is admin-only.
func EventRouter(r chi.Router, eventService *services.EventService, attendanceService *services.AttendanceService, mw *Middleware) {
	handler := NewEventHandler(eventService, attendanceService)

	r.Use(mw.RequireAuth)
	r.Get("/", handler.ListEvents)
	r.Post("/", handler.CreateEvent)
	r.Route("/{eventID}", func(r chi.Router) {
		r.With(mw.RequireAdmin).Delete("/", handler.DeleteEvent)
		r.Get("/attendances", handler.ListAttendances)
		r.Post("/attend", handler.MarkAttendance)
	})
}

type EventCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Category    string `json:"category"`
}

type AttendanceRequest struct {
	Status string `json:"status"`
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req EventCreateRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == "" {
		req.Category = defaultCategory
	}

	startDate, err := db.ParseISOTime(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date")
		return
	}
	endDate, err := db.ParseISOTime(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date")
		return
	}

	event, err := h.eventService.Create(r.Context(), types.Event{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		StartDate:     startDate,
		EndDate:       endDate,
		Category:      req.Category,
		CreatedBy:     caller.ID,
		CreatedByName: caller.Name,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent removes an event and cascades its attendances.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Event deleted"})
}

func (h *EventHandler) ListAttendances(w http.ResponseWriter, r *http.Request) {
	attendances, err := h.attendanceService.ListByEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attendances")
		return
	}
	writeJSON(w, http.StatusOK, attendances)
}

// MarkAttendance upserts the caller's RSVP for the event: the first mark
// creates it, repeated marks update the status.
func (h *EventHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req AttendanceRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		req.Status = types.AttendanceAttending
	}
	if !types.ValidAttendanceStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	attendance, err := h.attendanceService.Mark(r.Context(), chi.URLParam(r, "eventID"), caller, req.Status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark attendance")
		return
	}

	writeJSON(w, http.StatusOK, attendance)
}
