// Package web serves the blood bank JSON API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/BloodBank/internal/config"
	"github.com/JonMunkholm/BloodBank/internal/core"
	mw "github.com/JonMunkholm/BloodBank/internal/web/middleware"
)

// Server is the HTTP front of the ledger service.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *mw.RateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes. Identity runs
// before Logger so access lines carry the caller id.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Identity)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.CORS(s.cfg.CORS.AllowedOrigins))
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled && s.cfg.Rate.RequestsPerMinute > 0 {
		s.limiter = mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.Handler)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/inventory", func(r chi.Router) {
			r.Post("/create-inventory", s.handleCreateInventory)
			r.Get("/get-inventory", s.handleGetInventory)
			r.Post("/get-inventory-hospital", s.handleGetInventoryHospital)
			r.Get("/get-recent-inventory", s.handleGetRecentInventory)
			r.Get("/get-donars", s.handleGetDonors)
			r.Get("/get-hospitals", s.handleGetHospitals)
			r.Get("/get-organisation", s.handleGetOrganisations)
			r.Get("/available", s.handleAvailable)
		})

		r.Get("/analytics/bloodGroups-data", s.handleBloodGroupData)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleRegisterUser)
			r.Get("/current-user", s.handleCurrentUser)
		})

		// Admin listings
		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.AdminOnly(s.service))
			r.Get("/donar-list", s.handleListUsers(core.RoleDonor, "donarData", "Donar List Fetched Successfully"))
			r.Get("/hospital-list", s.handleListUsers(core.RoleHospital, "hospitalData", "Hospital List Fetched Successfully"))
			r.Get("/org-list", s.handleListUsers(core.RoleOrganisation, "orgData", "Org List Fetched Successfully"))
		})
	})
}

// Start begins listening on the configured address. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	addr := s.cfg.Server.Addr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		// JSON only; nothing should be loaded from a response.
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}
