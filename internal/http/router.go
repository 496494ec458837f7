// Package httpapi assembles the HTTP surface: middleware chain, API
// routes, health and metrics endpoints. Business logic stays in the
// feature services.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	extractionhandler "veridoc/internal/extraction/handler"
	verifyhandler "veridoc/internal/verify/handler"
	"veridoc/pkg/platform/httputil"
	"veridoc/pkg/platform/middleware/auth"
	"veridoc/pkg/platform/middleware/metadata"
	"veridoc/pkg/platform/middleware/ratelimit"
	"veridoc/pkg/platform/middleware/requestid"
	"veridoc/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router needs. Validator may be nil to run
// the API unauthenticated (local development); Limiter may be nil to
// disable rate limiting.
type Deps struct {
	Extraction *extractionhandler.Handler
	Verify     *verifyhandler.Handler
	Validator  auth.TokenValidator
	// APISecretHash, when set, admits machine clients presenting the
	// shared X-API-Key instead of a bearer token.
	APISecretHash string
	Limiter       *ratelimit.Limiter
	Logger        *slog.Logger
	Health        []HealthChecker
}

// HealthChecker reports the health of one dependency.
type HealthChecker interface {
	Name() string
	Healthy() bool
}

// NewRouter wires the full middleware chain and all endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(api chi.Router) {
		if deps.Limiter != nil {
			api.Use(deps.Limiter.Middleware)
		}
		if mw := authMiddleware(deps); mw != nil {
			api.Use(mw)
		}
		deps.Extraction.Register(api)
		deps.Verify.Register(api)
	})

	return r
}

// authMiddleware picks the authentication scheme from the configured
// credentials. With both configured, a request presenting X-API-Key is
// checked against the secret hash and all others need a bearer token.
func authMiddleware(deps Deps) func(http.Handler) http.Handler {
	var (
		bearer func(http.Handler) http.Handler
		apiKey func(http.Handler) http.Handler
	)
	if deps.Validator != nil {
		bearer = auth.RequireAuth(deps.Validator, deps.Logger)
	}
	if deps.APISecretHash != "" {
		apiKey = auth.RequireAPISecret(deps.APISecretHash, deps.Logger)
	}

	switch {
	case bearer != nil && apiKey != nil:
		return func(next http.Handler) http.Handler {
			withBearer := bearer(next)
			withAPIKey := apiKey(next)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get(auth.APISecretHeader) != "" {
					withAPIKey.ServeHTTP(w, r)
					return
				}
				withBearer.ServeHTTP(w, r)
			})
		}
	case bearer != nil:
		return bearer
	case apiKey != nil:
		return apiKey
	default:
		return nil
	}
}

func handleHealth(checkers []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		components := make(map[string]string, len(checkers))
		for _, c := range checkers {
			if c.Healthy() {
				components[c.Name()] = "ok"
				continue
			}
			components[c.Name()] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status":     overall,
			"components": components,
		})
	}
}
