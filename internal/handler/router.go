package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/commons/commons/internal/middleware"
)

// RouterConfig collects everything the HTTP surface is built from.
type RouterConfig struct {
	Logger        *slog.Logger
	Verifier      middleware.TokenVerifier
	CORS          middleware.CORSConfig
	MaxBodySize   int64
	IsDevelopment bool

	Health      *HealthHandler
	Metrics     *MetricsHandler
	Roles       *RoleHandler
	Communities *CommunityHandler
	Members     *MemberHandler
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	h := New()
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.IsDevelopment))
	r.Use(middleware.CORS(cfg.CORS))

	// Probes and metrics stay unauthenticated.
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/metrics", cfg.Metrics.Metrics)
	r.Get("/", h.Hello)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
		r.Use(middleware.Auth(middleware.AuthConfig{
			Logger:   cfg.Logger,
			Verifier: cfg.Verifier,
		}))

		r.Route("/role", func(r chi.Router) {
			r.Post("/", cfg.Roles.Create)
			r.Get("/", cfg.Roles.List)
		})

		r.Route("/community", func(r chi.Router) {
			r.Post("/", cfg.Communities.Create)
			r.Get("/", cfg.Communities.ListOwned)
			r.Get("/me/owner", cfg.Communities.ListForCaller)
			r.Get("/me/member", cfg.Communities.ListJoined)
			r.Get("/{id}/members", cfg.Members.List)
		})

		r.Post("/member", cfg.Members.Add)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
