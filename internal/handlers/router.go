package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/it23631960/pearl-logistics-user/internal/health"
	"github.com/it23631960/pearl-logistics-user/internal/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler
	probe       *health.Probe

	auth     RouteRegistrar
	cart     RouteRegistrar
	checkout RouteRegistrar
	orders   RouteRegistrar
	reports  RouteRegistrar
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix = "/api"
	defaultTimeout   = 30 * time.Second
)

// WithBasePath overrides the API prefix.
func WithBasePath(path string) Option {
	return func(cfg *routerConfig) {
		if path != "" {
			cfg.basePath = path
		}
	}
}

// WithMiddleware appends shared middleware applied to every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithBackendProbe enables the /readyz backend reachability check.
func WithBackendProbe(probe *health.Probe) Option {
	return func(cfg *routerConfig) { cfg.probe = probe }
}

// WithAuthRoutes mounts the /auth group.
func WithAuthRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.auth = reg }
}

// WithCartRoutes mounts the /cart group.
func WithCartRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.cart = reg }
}

// WithCheckoutRoutes mounts the /checkout group.
func WithCheckoutRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.checkout = reg }
}

// WithOrderRoutes mounts the /orders group.
func WithOrderRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.orders = reg }
}

// WithReportRoutes mounts the /reports group.
func WithReportRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.reports = reg }
}

// NewRouter constructs the chi router with shared middleware and the
// storefront route groups.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("route_not_found", fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(cfg.probe))

	r.Route(cfg.basePath, func(api chi.Router) {
		mount := func(path string, registrar RouteRegistrar) {
			api.Route(path, func(group chi.Router) {
				if registrar != nil {
					registrar(group)
					return
				}
				group.HandleFunc("/*", func(w http.ResponseWriter, req *http.Request) {
					httpx.WriteError(req.Context(), w, httpx.NewError("not_implemented", "route group is not wired", http.StatusNotImplemented))
				})
			})
		}

		mount("/auth", cfg.auth)
		mount("/cart", cfg.cart)
		mount("/checkout", cfg.checkout)
		mount("/orders", cfg.orders)
		mount("/reports", cfg.reports)
	})

	return r
}

var startTime = time.Now()

func healthz(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    time.Since(startTime).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func readyz(probe *health.Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if probe == nil {
			httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
			return
		}
		report := probe.Check(r.Context())
		payload := map[string]any{
			"status":     "ok",
			"backend":    report.Reachable,
			"checked_at": report.CheckedAt.Format(time.RFC3339),
		}
		if report.Err != "" {
			payload["error"] = report.Err
		}
		if !report.Reachable {
			payload["status"] = "degraded"
			httpx.WriteJSON(w, http.StatusServiceUnavailable, payload)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, payload)
	}
}
