package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/eclatbeaute/eclat/internal/ai"
	"github.com/eclatbeaute/eclat/internal/handler"
	"github.com/eclatbeaute/eclat/internal/loyalty"
	"github.com/eclatbeaute/eclat/internal/middleware"
	"github.com/eclatbeaute/eclat/internal/push"
	"github.com/eclatbeaute/eclat/internal/recommend"
	"github.com/eclatbeaute/eclat/internal/store"
	ws "github.com/eclatbeaute/eclat/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	profileH    *handler.ProfileHandler
	taskH       *handler.TaskHandler
	productH    *handler.ProductHandler
	reviewH     *handler.ReviewHandler
	orderH      *handler.OrderHandler
	quizH       *handler.QuizHandler
	aiH         *handler.AIHandler
	pushH       *handler.PushHandler
	pushStore   *store.PushStore
	taskStore   *store.TaskStore
	jwtSecret   []byte
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, aiClient *ai.Client, pushSender *push.Sender, jwtSecret []byte, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	profileStore := store.NewProfileStore(db)
	taskStore := store.NewTaskStore(db)
	productStore := store.NewProductStore(db)
	reviewStore := store.NewReviewStore(db)
	orderStore := store.NewOrderStore(db)
	quizStore := store.NewQuizStore(db)
	pushStore := store.NewPushStore(db)

	loyaltySvc := loyalty.NewService(db, logger.With("component", "loyalty"))
	aiSvc := ai.NewService(aiClient, logger.With("component", "ai"))
	generator := recommend.NewGenerator(aiClient, logger.With("component", "recommend"))

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(userStore, jwtSecret, logger),
		profileH:    handler.NewProfileHandler(profileStore, taskStore, loyaltySvc, generator, hub, logger),
		taskH:       handler.NewTaskHandler(taskStore, loyaltySvc, hub, logger),
		productH:    handler.NewProductHandler(productStore, logger),
		reviewH:     handler.NewReviewHandler(reviewStore, productStore, aiSvc, logger),
		orderH:      handler.NewOrderHandler(orderStore, profileStore, hub, logger),
		quizH:       handler.NewQuizHandler(quizStore, productStore, aiSvc, logger),
		aiH:         handler.NewAIHandler(aiSvc, logger),
		pushH:       handler.NewPushHandler(pushStore, pushSender, logger),
		pushStore:   pushStore,
		taskStore:   taskStore,
		jwtSecret:   jwtSecret,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Hub exposes the websocket hub so background services can publish events.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// PushStore returns the subscription store for the reminder scheduler.
func (s *Server) PushStore() *store.PushStore {
	return s.pushStore
}

// TaskStore returns the task store for the reminder scheduler.
func (s *Server) TaskStore() *store.TaskStore {
	return s.taskStore
}

// RateLimiter returns the limiter for periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Authenticated routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.jwtSecret)
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.Ping(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimitByIP(s.rateLimiter, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Profile and onboarding
	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.profileH.Update)
	mux.HandleFunc("POST /api/profile/onboarding", s.profileH.Onboarding)
	mux.HandleFunc("POST /api/profile/recommendations/refresh", s.profileH.RefreshRecommendations)

	// Tasks
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("GET /api/tasks/clean", s.taskH.Clean)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("PUT /api/tasks/{id}/progress", s.taskH.Progress)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)

	// Catalog
	mux.HandleFunc("GET /api/products", s.productH.List)
	mux.HandleFunc("GET /api/products/{id}", s.productH.Get)
	mux.Handle("POST /api/products", middleware.RequireAdmin(http.HandlerFunc(s.productH.Create)))
	mux.Handle("PUT /api/products/{id}", middleware.RequireAdmin(http.HandlerFunc(s.productH.Update)))
	mux.Handle("DELETE /api/products/{id}", middleware.RequireAdmin(http.HandlerFunc(s.productH.Delete)))

	// Reviews
	mux.HandleFunc("GET /api/products/{id}/reviews", s.reviewH.ListByProduct)
	mux.HandleFunc("POST /api/products/{id}/reviews", s.reviewH.Create)
	mux.HandleFunc("DELETE /api/reviews/{id}", s.reviewH.Delete)

	// Orders
	mux.HandleFunc("POST /api/orders", s.orderH.Create)
	mux.HandleFunc("GET /api/orders", s.orderH.List)
	mux.HandleFunc("GET /api/orders/discount-points", s.orderH.DiscountPoints)
	mux.HandleFunc("GET /api/orders/{id}", s.orderH.Get)
	mux.HandleFunc("PUT /api/orders/{id}/pay", s.orderH.Pay)
	mux.Handle("PUT /api/orders/{id}/status", middleware.RequireAdmin(http.HandlerFunc(s.orderH.UpdateStatus)))
	mux.HandleFunc("DELETE /api/orders/{id}", s.orderH.Delete)

	// Product quizzes
	mux.Handle("POST /api/products/{id}/quiz/generate", middleware.RequireAdmin(http.HandlerFunc(s.quizH.Generate)))
	mux.HandleFunc("GET /api/products/{id}/quiz", s.quizH.Get)
	mux.HandleFunc("POST /api/quiz/{id}/submit", s.quizH.Submit)
	mux.HandleFunc("GET /api/quiz/results", s.quizH.UserResults)
	mux.HandleFunc("GET /api/quiz/{id}/results", s.quizH.QuizResult)
	mux.HandleFunc("GET /api/quiz/leaderboard", s.quizH.Leaderboard)

	// AI utilities
	mux.HandleFunc("POST /api/ai/description", s.aiH.Description)
	mux.HandleFunc("POST /api/ai/sentiment", s.aiH.Sentiment)
	mux.HandleFunc("POST /api/ai/chat", s.aiH.Chat)
	mux.HandleFunc("POST /api/ai/task-advice", s.aiH.TaskAdvice)
	mux.HandleFunc("POST /api/ai/quiz", s.aiH.Quiz)

	// Push notifications
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)

	// Live events
	mux.HandleFunc("GET /api/ws", ws.Handler(s.hub))
}
