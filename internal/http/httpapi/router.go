package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"logoforge/internal/http/handlers"
	"logoforge/internal/infra"
	"logoforge/internal/middleware"
)

// Options carries the middleware settings the router needs.
type Options struct {
	Logger          infra.Logger
	AllowedOrigins  []string
	Locales         middleware.I18NOptions
	RateLimitPerMin int
	// TrustProxyHeaders makes X-Forwarded-For and X-Real-IP decide the
	// client IP. Enable it only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.ClientAddress(opts.TrustProxyHeaders),
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	// Health
	r.Get("/healthz", app.Health)
	r.Get("/v1/healthz", app.Health)

	// Docs
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
			middleware.I18N(opts.Locales),
		)
		r.Post("/generate", app.Generate)
		r.Post("/v1/generate", app.Generate)
	})

	return r
}
