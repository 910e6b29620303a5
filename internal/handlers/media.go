package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nosaterra/apiserver/internal/storage"
)

const (
	maxMediaBytes  = 10 << 20
	mediaFormField = "file"
	mediaURLPrefix = "/api/media/"
	fallbackUpload = "application/octet-stream"
)

// MediaHandler stores and serves member media (avatars, post photos).
// With no storage backend configured, uploads answer 503.
type MediaHandler struct {
	media *storage.Media
}

func NewMediaHandler(media *storage.Media) *MediaHandler {
	return &MediaHandler{media: media}
}

// MediaRouter registers media routes. Uploads require a member token;
// downloads are public so stored URLs work from image tags.
func MediaRouter(r chi.Router, media *storage.Media, mw *Middleware) {
	handler := NewMediaHandler(media)

	r.With(mw.RequireAuth).Post("/", handler.Upload)
	r.Get("/{key}", handler.Download)
}

// MediaResponse carries the URL under which an upload is served.
type MediaResponse struct {
	URL string `json:"url"`
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		writeError(w, http.StatusServiceUnavailable, "Media storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxMediaBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile(mediaFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	data, err := readLimited(file, maxMediaBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if contentType == "" {
		contentType = fallbackUpload
	}

	key := uuid.NewString() + mediaExtension(header.Filename)
	if err := h.media.Upload(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	writeJSON(w, http.StatusOK, MediaResponse{URL: mediaURLPrefix + key})
}

func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		writeError(w, http.StatusNotFound, "Media not found")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" || strings.ContainsAny(key, "/\\") {
		writeError(w, http.StatusBadRequest, "Invalid media key")
		return
	}

	object, err := h.media.Open(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "Media not found")
		return
	}
	defer object.Close()

	if contentType := mime.TypeByExtension(path.Ext(key)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if _, err := io.Copy(w, object); err != nil {
		// Response may be partially written; nothing more to do.
		return
	}
}

func mediaExtension(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 10 {
		return ""
	}
	return ext
}

func readLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("Failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("Uploaded file too large")
	}
	return data, nil
}
