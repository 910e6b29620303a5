package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nosaterra/apiserver/internal/auth"
	"github.com/nosaterra/apiserver/internal/services"
	"github.com/nosaterra/apiserver/internal/store"
	"github.com/nosaterra/apiserver/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// In-memory repositories backing handler tests. They implement the
// repository interfaces in internal/services and mirror the store
// contracts: ErrNotFound/ErrDuplicate sentinels, credential stripped
// from read projections.

type memUsers struct {
	mu    sync.Mutex
	users map[string]types.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]types.User{}}
}

func (m *memUsers) GetByID(_ context.Context, id string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user.Public(), nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id string, update types.UserUpdate) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Position != nil {
		user.Position = *update.Position
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	m.users[id] = user
	return user.Public(), nil
}

func (m *memUsers) UpdateRole(_ context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Role = role
	m.users[id] = user
	return nil
}

func (m *memUsers) List(_ context.Context) ([]types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]types.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user.Public())
	}
	return users, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type memPosts struct {
	mu    sync.Mutex
	posts []types.Post
}

func (m *memPosts) List(_ context.Context, category string) ([]types.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := []types.Post{}
	for i := len(m.posts) - 1; i >= 0; i-- {
		if category == "" || category == "all" || m.posts[i].Category == category {
			posts = append(posts, m.posts[i])
		}
	}
	return posts, nil
}

func (m *memPosts) Get(_ context.Context, id string) (types.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, post := range m.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return types.Post{}, store.ErrNotFound
}

func (m *memPosts) Create(_ context.Context, post types.Post) (types.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, post)
	return post, nil
}

func (m *memPosts) SetLikes(_ context.Context, id string, likes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts[i].Likes = likes
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memPosts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memPosts) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.posts[:0]
	for _, post := range m.posts {
		if post.UserID != userID {
			kept = append(kept, post)
		}
	}
	m.posts = kept
	return nil
}

func (m *memPosts) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.posts)), nil
}

type memComments struct {
	mu       sync.Mutex
	comments []types.Comment
}

func (m *memComments) ListByPost(_ context.Context, postID string) ([]types.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comments := []types.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (m *memComments) Get(_ context.Context, id string) (types.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, comment := range m.comments {
		if comment.ID == id {
			return comment, nil
		}
	}
	return types.Comment{}, store.ErrNotFound
}

func (m *memComments) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, comment)
	return comment, nil
}

func (m *memComments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.comments {
		if m.comments[i].ID == id {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memComments) DeleteByPost(_ context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.comments[:0]
	for _, comment := range m.comments {
		if comment.PostID != postID {
			kept = append(kept, comment)
		}
	}
	m.comments = kept
	return nil
}

func (m *memComments) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.comments[:0]
	for _, comment := range m.comments {
		if comment.UserID != userID {
			kept = append(kept, comment)
		}
	}
	m.comments = kept
	return nil
}

type memAnnouncements struct {
	mu            sync.Mutex
	announcements []types.Announcement
}

func (m *memAnnouncements) List(_ context.Context) ([]types.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	announcements := []types.Announcement{}
	for i := len(m.announcements) - 1; i >= 0; i-- {
		announcements = append(announcements, m.announcements[i])
	}
	return announcements, nil
}

func (m *memAnnouncements) Create(_ context.Context, announcement types.Announcement) (types.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announcements = append(m.announcements, announcement)
	return announcement, nil
}

func (m *memAnnouncements) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.announcements {
		if m.announcements[i].ID == id {
			m.announcements = append(m.announcements[:i], m.announcements[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memAnnouncements) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.announcements)), nil
}

type memEvents struct {
	mu     sync.Mutex
	events []types.Event
}

func (m *memEvents) List(_ context.Context) ([]types.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := append([]types.Event{}, m.events...)
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events, nil
}

func (m *memEvents) Create(_ context.Context, event types.Event) (types.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return event, nil
}

func (m *memEvents) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memEvents) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.events)), nil
}

type memAttendances struct {
	mu          sync.Mutex
	attendances []types.Attendance
}

func (m *memAttendances) ListByEvent(_ context.Context, eventID string) ([]types.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	attendances := []types.Attendance{}
	for _, attendance := range m.attendances {
		if attendance.EventID == eventID {
			attendances = append(attendances, attendance)
		}
	}
	return attendances, nil
}

func (m *memAttendances) GetByEventAndUser(_ context.Context, eventID, userID string) (types.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, attendance := range m.attendances {
		if attendance.EventID == eventID && attendance.UserID == userID {
			return attendance, nil
		}
	}
	return types.Attendance{}, store.ErrNotFound
}

func (m *memAttendances) Create(_ context.Context, attendance types.Attendance) (types.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendances = append(m.attendances, attendance)
	return attendance, nil
}

func (m *memAttendances) UpdateStatus(_ context.Context, eventID, userID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.attendances {
		if m.attendances[i].EventID == eventID && m.attendances[i].UserID == userID {
			m.attendances[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memAttendances) DeleteByEvent(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.attendances[:0]
	for _, attendance := range m.attendances {
		if attendance.EventID != eventID {
			kept = append(kept, attendance)
		}
	}
	m.attendances = kept
	return nil
}

func (m *memAttendances) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.attendances[:0]
	for _, attendance := range m.attendances {
		if attendance.UserID != userID {
			kept = append(kept, attendance)
		}
	}
	m.attendances = kept
	return nil
}

const testSecret = "test-secret"

type testEnv struct {
	router      *chi.Mux
	users       *memUsers
	posts       *memPosts
	comments    *memComments
	events      *memEvents
	attendances *memAttendances
	tokens      *auth.Tokens
	mw          *Middleware
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:       newMemUsers(),
		posts:       &memPosts{},
		comments:    &memComments{},
		events:      &memEvents{},
		attendances: &memAttendances{},
		tokens:      auth.NewTokens(testSecret, time.Hour),
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Quiet during tests

	announcements := &memAnnouncements{}
	notifier := services.NewNotifier(nil, logger)

	userService := services.NewUserService(env.users)
	postService := services.NewPostService(env.posts)
	commentService := services.NewCommentService(env.comments)
	announcementService := services.NewAnnouncementService(announcements, notifier)
	eventService := services.NewEventService(env.events, env.attendances, notifier)
	attendanceService := services.NewAttendanceService(env.attendances)

	mw := NewMiddleware(env.tokens, userService, logger)
	env.mw = mw

	router := chi.NewRouter()
	router.Route("/api/auth", func(r chi.Router) {
		AuthRouter(r, userService, env.tokens, mw)
	})
	router.Route("/api/users", func(r chi.Router) {
		UserRouter(r, userService, mw)
	})
	router.Route("/api/posts", func(r chi.Router) {
		PostRouter(r, postService, commentService, mw)
	})
	router.Route("/api/comments", func(r chi.Router) {
		CommentRouter(r, postService, commentService, mw)
	})
	router.Route("/api/announcements", func(r chi.Router) {
		AnnouncementRouter(r, announcementService, mw)
	})
	router.Route("/api/events", func(r chi.Router) {
		EventRouter(r, eventService, attendanceService, mw)
	})
	router.Route("/api/admin", func(r chi.Router) {
		AdminRouter(r, userService, postService, commentService, attendanceService, eventService, announcementService, mw)
	})

	env.router = router
	return env
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, email, name string) (string, types.User) {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "pw12345",
		"name":     name,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[AuthResponse](t, rec)
	return resp.AccessToken, resp.User
}

func (e *testEnv) registerAdmin(t *testing.T, email, name string) (string, types.User) {
	t.Helper()

	token, user := e.register(t, email, name)
	require.NoError(t, e.users.UpdateRole(context.Background(), user.ID, types.RoleAdmin))
	user.Role = types.RoleAdmin
	return token, user
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}
