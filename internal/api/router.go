package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/iammorganparry/taskplanner/internal/analyzer"
	"github.com/iammorganparry/taskplanner/internal/auth"
	"github.com/iammorganparry/taskplanner/internal/store"
	"github.com/iammorganparry/taskplanner/internal/tasks"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(
	db *store.DB,
	taskSvc *tasks.Service,
	authSvc *auth.Service,
	client *analyzer.Client,
	engine *analyzer.Engine,
	defaultCanvasWidth float64,
	defaultCanvasHeight float64,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	// Handlers
	healthH := NewHealthHandler(db, taskSvc)
	authH := NewAuthHandler(authSvc)
	taskH := NewTaskHandler(taskSvc)
	graphH := NewGraphHandler(taskSvc, defaultCanvasWidth, defaultCanvasHeight)
	analyzeH := NewAnalyzeHandler(taskSvc, client)
	analyzerH := NewAnalyzerHandler(engine)

	// Unauthenticated routes
	r.Get("/health", healthH.Health)
	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// The analyzer surface. Served unauthenticated like the original
	// backend; the dashboard reaches it through its HTTP client only.
	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/analyze", analyzerH.Analyze)
		r.Get("/suggest", analyzerH.Suggest)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(authSvc))

		r.Post("/auth/signout", authH.SignOut)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskH.List)
			r.Post("/", taskH.Add)
			r.Post("/import", taskH.Import)
			r.Post("/analyze", analyzeH.Analyze)
			r.Delete("/{index}", taskH.Delete)
		})

		r.Route("/graph", func(r chi.Router) {
			r.Get("/", graphH.Graph)
			r.Get("/layout", graphH.Layout)
		})
	})

	return r
}
