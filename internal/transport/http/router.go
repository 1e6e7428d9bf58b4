package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/platform/metrics"
	"storefront/internal/platform/middleware"
	"storefront/pkg/platform/httputil"
)

// Registrar mounts a module's routes under /api.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps holds everything the router composes.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	APIs         []Registrar
	HealthChecks map[string]HealthCheck
	PublicDir    string

	// ClientIP resolves the caller address; nil trusts no forwarding headers.
	ClientIP *middleware.IPResolver
}

// NewRouter wires the API, health, metrics and static frontend routes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(d.ClientIP.Middleware)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.CORS())

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.LatencyMiddleware(d.Metrics))
		api.Use(middleware.Timeout(30 * time.Second))
		for _, reg := range d.APIs {
			reg.Register(api)
		}
		api.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteMessage(w, http.StatusNotFound, "not found")
		})
		api.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		})
	})

	r.Get("/health", healthHandler(d.HealthChecks))
	if d.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(d.Gatherer))
	}

	r.NotFound(spaHandler(d.PublicDir).ServeHTTP)
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

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
