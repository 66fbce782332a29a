package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"trip_recommender/cache"
	_ "trip_recommender/docs" // registers swagger docs
	"trip_recommender/logger"
	"trip_recommender/models"
	"trip_recommender/services"
	"trip_recommender/utils"
)

// Recommender is the recommendation engine as seen by the HTTP layer.
type Recommender interface {
	Recommend(ctx context.Context, q services.RecommendationQuery) ([]models.ScoredTrip, error)
	Invalidate(trigger string) int
}

type CacheStatser interface {
	Stats() cache.Stats
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type RecommendationHandler struct {
	engine Recommender
	stats  CacheStatser
}

func NewRecommendationHandler(engine Recommender, stats CacheStatser) *RecommendationHandler {
	return &RecommendationHandler{engine: engine, stats: stats}
}

// GetRecommendations godoc
// @Summary Ranked trip recommendations for a user
// @Description Scores every active trip against the user's preferences and the optional location, budget and duration, best match first. Results are cached per parameter set.
// @Tags recommendations
// @Produce json
// @Param userId path string true "User ID"
// @Param lat query number false "Latitude of the user"
// @Param lng query number false "Longitude of the user"
// @Param budget query number false "Maximum car trip cost"
// @Param duration query number false "Maximum trip duration in hours"
// @Success 200 {object} models.RecommendationResponse
// @Failure 400 {object} models.APIResponse "missing user id"
// @Failure 404 {object} models.APIResponse "user not found"
// @Failure 429 {object} models.APIResponse "rate limited"
// @Failure 500 {object} models.APIResponse "server error"
// @Router /api/v1/recommendations/{userId} [get]
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !utils.ValidateUserID(w, userID) {
		return
	}

	q := services.RecommendationQuery{
		UserID:   userID,
		Lat:      utils.OptionalQuery(r, "lat"),
		Lng:      utils.OptionalQuery(r, "lng"),
		Budget:   utils.OptionalQuery(r, "budget"),
		Duration: utils.OptionalQuery(r, "duration"),
	}

	list, err := h.engine.Recommend(r.Context(), q)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, models.CodeUserNotFound, map[string]interface{}{
				"userId": userID,
			})
			return
		}
		logger.Error("recommendation failed", "user_id", userID, "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, models.CodeRecommendGenError, nil)
		return
	}

	utils.WriteSuccessResponse(w, models.RecommendationsData{Recommendations: list})
}

// InvalidateCache godoc
// @Summary Drop all cached recommendations
// @Description Called after trips or user preferences change so the next request is scored on fresh data.
// @Tags recommendations
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/recommendations/cache/invalidate [post]
func (h *RecommendationHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	n := h.engine.Invalidate("api")
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"invalidated": n,
	})
}

// CacheStats godoc
// @Summary Recommendation cache statistics
// @Tags recommendations
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/recommendations/cache/stats [get]
func (h *RecommendationHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, h.stats.Stats())
}

// HealthHandler godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /healthz [get]
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("health check failed", "error", err)
			utils.WriteCustomErrorResponse(w, http.StatusServiceUnavailable, models.CodeDatabaseError, "database unavailable", nil)
			return
		}
		utils.WriteSuccessResponse(w, map[string]interface{}{"status": "ok"})
	}
}

func RegisterRoutes(r chi.Router, h *RecommendationHandler, health Pinger, mw *Middleware) {
	r.Use(mw.CORS())
	r.Use(Metrics)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/healthz", HealthHandler(health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Post("/cache/invalidate", h.InvalidateCache)
		r.Get("/cache/stats", h.CacheStats)
		r.With(mw.RateLimit()).Get("/{userId}", h.GetRecommendations)
	})
}
