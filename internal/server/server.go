package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rowanhale/tally/internal/auth"
	"github.com/rowanhale/tally/internal/habit"
	"github.com/rowanhale/tally/internal/handler"
	"github.com/rowanhale/tally/internal/middleware"
	"github.com/rowanhale/tally/internal/store"
	ws "github.com/rowanhale/tally/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	habitH       *handler.HabitHandler
	analyticsH   *handler.AnalyticsHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

// New wires stores, services, and handlers. The observer location is used
// for all period computation; pass nil to track in the server's local zone.
func New(db *sql.DB, observer *time.Location, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	habitStore := store.NewHabitStore(db)

	authService := auth.NewService(userStore)
	habitService := habit.NewService(habitStore, observer, logger.With("component", "habit"))

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(authService, sessionStore, logger.With("component", "auth")),
		habitH:       handler.NewHabitHandler(habitService, hub, logger.With("component", "habit_handler")),
		analyticsH:   handler.NewAnalyticsHandler(habitService, logger.With("component", "analytics")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Habit API routes
	mux.HandleFunc("POST /api/habits", s.habitH.Create)
	mux.HandleFunc("GET /api/habits", s.habitH.List)
	mux.HandleFunc("GET /api/habits/due", s.habitH.Due)
	mux.HandleFunc("GET /api/habits/{id}", s.habitH.Get)
	mux.HandleFunc("PUT /api/habits/{id}", s.habitH.Update)
	mux.HandleFunc("DELETE /api/habits/{id}", s.habitH.Delete)
	mux.HandleFunc("POST /api/habits/{id}/complete", s.habitH.Complete)
	mux.HandleFunc("GET /api/habits/{id}/completions", s.habitH.Completions)

	// Analytics API routes
	mux.HandleFunc("GET /api/analytics/longest-streak", s.analyticsH.LongestStreak)
	mux.HandleFunc("GET /api/analytics/by-periodicity", s.analyticsH.ByPeriodicity)
	mux.HandleFunc("GET /api/analytics/titles", s.analyticsH.Titles)

	// Live event feed
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
