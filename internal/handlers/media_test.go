package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/nosaterra/apiserver/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}}
}

func (m *memObjects) EnsureBucket(context.Context) error { return nil }

func (m *memObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func mountMedia(env *testEnv, media *storage.Media) {
	env.router.Route("/api/media", func(r chi.Router) {
		MediaRouter(r, media, env.mw)
	})
}

func multipartUpload(t *testing.T, filename string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(mediaFormField, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestMediaUploadAndDownload(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "ana@example.com", "Ana")
	mountMedia(env, storage.NewMedia(newMemObjects()))

	body, contentType := multipartUpload(t, "garden.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/media", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[MediaResponse](t, rec)
	require.True(t, strings.HasPrefix(resp.URL, mediaURLPrefix))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))

	// Downloads are public: no token.
	rec = env.request(t, http.MethodGet, resp.URL, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestMediaUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	mountMedia(env, storage.NewMedia(newMemObjects()))

	body, contentType := multipartUpload(t, "garden.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/media", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMediaUploadWithoutBackend(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "ana@example.com", "Ana")
	mountMedia(env, nil)

	body, contentType := multipartUpload(t, "garden.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/media", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Media storage not configured", decodeBody[DetailResponse](t, rec).Detail)
}

func TestMediaDownloadUnknownKey(t *testing.T) {
	env := newTestEnv(t)
	mountMedia(env, storage.NewMedia(newMemObjects()))

	rec := env.request(t, http.MethodGet, "/api/media/no-such-key.png", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Media not found", decodeBody[DetailResponse](t, rec).Detail)
}
