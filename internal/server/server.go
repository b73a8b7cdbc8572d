package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"qook-backend/internal/app"
)

// Server exposes the qook API over HTTP. Handlers are thin: decode,
// delegate to the app layer, encode.
type Server struct {
	addr    string
	dataDir string
	log     *slog.Logger
	app     *app.App
	router  *chi.Mux
}

// New builds the router. allowedOrigins follows the web client's CORS
// needs; "*" allows any origin. dataDir is reported by the system health
// endpoint.
func New(addr string, allowedOrigins []string, dataDir string, log *slog.Logger, application *app.App) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	s := &Server{
		addr:    addr,
		dataDir: dataDir,
		log:     log,
		app:     application,
		router:  r,
	}

	r.Get("/health", s.handleHealth)
	r.Get("/system-health", s.handleSystemHealth)
	r.Post("/generate-weekly-plan", s.handleGenerateWeeklyPlan)
	r.Post("/get-recipe-details", s.handleRecipeDetails)
	r.Post("/replace-meal", s.handleReplaceMeal)
	r.Post("/generate-shopping-list", s.handleShoppingList)
	r.Post("/analyze-fridge", s.handleAnalyzeFridge)
	r.Post("/save-meal-image", s.handleSaveMealImage)
	r.Post("/chat", s.handleChat)
	r.Post("/check-subscription", s.handleCheckSubscription)

	return s
}

// Handler returns the underlying router, mainly for tests and for
// mounting extra routes (the Telegram webhook).
func (s *Server) Handler() *chi.Mux {
	return s.router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
