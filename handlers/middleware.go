package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"trip_recommender/config"
	"trip_recommender/metrics"
	"trip_recommender/models"
	"trip_recommender/utils"
)

// Middleware builds the per-route middleware from configuration.
type Middleware struct {
	cors         func(http.Handler) http.Handler
	rateRequests int
	rateWindow   time.Duration
	rateDisabled bool
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{
		cors: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
			MaxAge:         300,
		}),
		rateRequests: cfg.RateLimit.Requests,
		rateWindow:   time.Duration(cfg.RateLimit.WindowSec) * time.Second,
		rateDisabled: cfg.RateLimit.Disabled,
	}
}

func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits requests per client IP and answers with the standard
// envelope once the window is exhausted.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	if m.rateDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		m.rateRequests,
		m.rateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.WriteErrorResponse(w, http.StatusTooManyRequests, models.CodeRateLimited, nil)
		}),
	)
}

// Metrics records request duration and counts by method, route pattern and
// status code.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		code := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		if status >= http.StatusBadRequest {
			metrics.HTTPErrorsTotal.WithLabelValues(r.Method, route, code).Inc()
		}
	})
}
