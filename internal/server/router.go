// Package server assembles the HTTP API: middleware stack, routes, health
// and info endpoints. Kept separate from main so tests can mount the full
// router against an in-memory store.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rshah/taskflow/backend/internal/apperr"
	"github.com/rshah/taskflow/backend/internal/auth"
	"github.com/rshah/taskflow/backend/internal/config"
	"github.com/rshah/taskflow/backend/internal/middleware"
	"github.com/rshah/taskflow/backend/internal/respond"
	"github.com/rshah/taskflow/backend/internal/store"
	"github.com/rshah/taskflow/backend/internal/tasks"
)

// NewRouter wires the full API surface.
func NewRouter(cfg *config.Config, st *store.Store, tokens *auth.TokenManager) http.Handler {
	authHandler := auth.NewHandler(st, tokens, cfg.BcryptCost, cfg.Production())
	taskHandler := tasks.NewHandler(st, cfg.Production())
	requireAuth := middleware.RequireAuth(tokens, st, cfg.Production())
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(middleware.Recover(cfg.Production()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: cfg.CORSOrigin != "*",
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, r, apperr.NotFound("Route not found"), cfg.Production())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, r, &apperr.Error{
			Status:  http.StatusMethodNotAllowed,
			Message: "Method not allowed",
		}, cfg.Production())
	})

	// Liveness plus store connectivity.
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := st.Ping(req.Context()); err != nil {
			apperr.Write(w, req, apperr.Unavailable("Store unavailable").WithCause(err), cfg.Production())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"status":  "ok",
			"store":   "up",
		})
	})

	// Service self-description.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"name":    "taskflow-api",
			"version": "1.0.0",
			"endpoints": map[string]string{
				"auth":   "/api/auth",
				"tasks":  "/api/tasks",
				"health": "/health",
			},
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Handler)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(requireAuth).Get("/me", authHandler.Me)
			r.With(requireAuth).Post("/logout", authHandler.Logout)
			r.With(requireAuth).Post("/change-password", authHandler.ChangePassword)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/stats", taskHandler.Stats)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})
	})

	return r
}
