// Package httpapi assembles the chi router: shared middleware, health and
// metrics endpoints, and the versioned API routes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"fleetops/internal/platform/metrics"
	"fleetops/pkg/platform/httputil"
	"fleetops/pkg/platform/middleware/auth"
	"fleetops/pkg/platform/middleware/request"
	"fleetops/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck checks one backing dependency.
type HealthCheck func(ctx context.Context) error

type Config struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	// Validator guards /v1 with bearer auth; nil leaves the API open.
	Validator auth.JWTValidator
	Checks    map[string]HealthCheck
	Modules   []Registrar
	// Clock overrides the per-request time source.
	Clock func() time.Time
}

func NewRouter(cfg Config) http.Handler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(request.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requesttime.MiddlewareWithClock(clock))
	r.Use(request.Logger(cfg.Logger))

	r.Get("/health", healthHandler(cfg.Checks))
	if cfg.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Registry))
	}

	r.Route("/v1", func(v1 chi.Router) {
		if cfg.Validator != nil {
			v1.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		}
		for _, m := range cfg.Modules {
			m.Register(v1)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
