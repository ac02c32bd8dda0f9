package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Token endpoints (no auth required)
		r.Post("/auth/token", s.handleToken)
		r.Post("/auth/token/refresh", s.handleTokenRefresh)

		// Device collection: listing tolerates anonymous callers (empty
		// result), everything else requires a token.
		r.Route("/devices", func(r chi.Router) {
			r.With(s.optionalAuthMiddleware).Get("/", s.handleListDevices)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)

				r.Post("/", s.handleCreateDevice)
				r.Get("/user/{username}", s.handleUserDevices)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetDevice)
					r.Patch("/", s.handleUpdateDevice)
					r.Delete("/", s.handleDeleteDevice)
				})
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)
			r.Put("/auth/password", s.handleChangePassword)

			// Telemetry reads
			r.Get("/metrics/{serial}/{field}", s.handleDeviceMetric)

			// Account administration (superuser only, checked per handler)
			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", s.handleListAccounts)
				r.Post("/", s.handleCreateAccount)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetAccount)
					r.Patch("/", s.handleUpdateAccount)
					r.Delete("/", s.handleDeleteAccount)
				})
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
