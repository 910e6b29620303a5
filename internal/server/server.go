package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nosaterra/apiserver/config"
	"github.com/nosaterra/apiserver/internal/auth"
	"github.com/nosaterra/apiserver/internal/db"
	"github.com/nosaterra/apiserver/internal/handlers"
	"github.com/nosaterra/apiserver/internal/mq"
	"github.com/nosaterra/apiserver/internal/services"
	"github.com/nosaterra/apiserver/internal/storage"
	"github.com/nosaterra/apiserver/internal/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Server wraps the HTTP server, router, and backing connections.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	client     *mongo.Client
	queue      *mq.MQ
	logger     *logrus.Logger
}

// New constructs a Server: opens the document store, ensures indexes,
// seeds the admin account, and wires every route.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := newLogger(cfg.LogLevel)

	if cfg.Auth.UsingDefaultSecret() {
		logger.Warn("JWT_SECRET not set; running with the built-in fallback secret, unsafe outside local development")
	}

	client, database, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	userRepo := store.NewUserRepository(database)
	postRepo := store.NewPostRepository(database)
	commentRepo := store.NewCommentRepository(database)
	announcementRepo := store.NewAnnouncementRepository(database)
	eventRepo := store.NewEventRepository(database)
	attendanceRepo := store.NewAttendanceRepository(database)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	queue, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("connect message queue: %w", err)
	}

	media, err := storage.NewMediaFromConfig(ctx, cfg.Storage)
	if err != nil {
		if queue != nil {
			_ = queue.Close()
		}
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	notifier := services.NewNotifier(queue, logger)

	userService := services.NewUserService(userRepo)
	postService := services.NewPostService(postRepo)
	commentService := services.NewCommentService(commentRepo)
	announcementService := services.NewAnnouncementService(announcementRepo, notifier)
	eventService := services.NewEventService(eventRepo, attendanceRepo, notifier)
	attendanceService := services.NewAttendanceService(attendanceRepo)

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, auth.DefaultTokenTTL)
	mw := handlers.NewMiddleware(tokens, userService, logger)

	if err := seedAdmin(ctx, cfg.Admin, userService, logger); err != nil {
		if queue != nil {
			_ = queue.Close()
		}
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, tokens, mw)
		})
		api.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, mw)
		})
		api.Route("/posts", func(r chi.Router) {
			handlers.PostRouter(r, postService, commentService, mw)
		})
		api.Route("/comments", func(r chi.Router) {
			handlers.CommentRouter(r, postService, commentService, mw)
		})
		api.Route("/announcements", func(r chi.Router) {
			handlers.AnnouncementRouter(r, announcementService, mw)
		})
		api.Route("/events", func(r chi.Router) {
			handlers.EventRouter(r, eventService, attendanceService, mw)
		})
		api.Route("/admin", func(r chi.Router) {
			handlers.AdminRouter(r, userService, postService, commentService, attendanceService, eventService, announcementService, mw)
		})
		api.Route("/media", func(r chi.Router) {
			handlers.MediaRouter(r, media, mw)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		client:     client,
		queue:      queue,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.client != nil {
		_ = s.client.Disconnect(context.Background())
	}
	return s.httpServer.Close()
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
