package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"trip_recommender/logger"
	"trip_recommender/metrics"
	"trip_recommender/models"
)

// ErrUserNotFound is returned when the requested user does not exist.
var ErrUserNotFound = errors.New("user not found")

// absentParam stands in for a query parameter that was not supplied.
const absentParam = "none"

// UserStore looks up user profiles. A missing user is (nil, nil).
type UserStore interface {
	FindUserByID(ctx context.Context, id string) (*models.UserProfile, error)
}

// TripStore lists the trips eligible for recommendation.
type TripStore interface {
	FindActiveTrips(ctx context.Context) ([]models.TripCandidate, error)
}

// ResultCache holds scored lists keyed by request parameters.
type ResultCache interface {
	Get(key string) ([]models.ScoredTrip, bool)
	Set(key string, value []models.ScoredTrip)
	InvalidateAll() int
}

// RecommendationQuery carries the raw request values. A nil pointer means
// the parameter was not supplied.
type RecommendationQuery struct {
	UserID   string
	Lat      *string
	Lng      *string
	Budget   *string
	Duration *string
}

// CacheKey identifies the query in the result cache. Longitude comes before
// latitude.
func (q RecommendationQuery) CacheKey() string {
	return fmt.Sprintf("cache_%s_%s_%s_%s_%s",
		q.UserID, keyPart(q.Lng), keyPart(q.Lat), keyPart(q.Budget), keyPart(q.Duration))
}

func keyPart(v *string) string {
	if v == nil {
		return absentParam
	}
	return *v
}

// RecommendationEngine ranks active trips for a user and caches the result
// per distinct query.
type RecommendationEngine struct {
	users UserStore
	trips TripStore
	cache ResultCache
}

func NewRecommendationEngine(users UserStore, trips TripStore, cache ResultCache) *RecommendationEngine {
	return &RecommendationEngine{users: users, trips: trips, cache: cache}
}

// Recommend returns every active trip scored for the user, best first.
// Cached lists are returned as is and must not be modified by the caller.
func (e *RecommendationEngine) Recommend(ctx context.Context, q RecommendationQuery) ([]models.ScoredTrip, error) {
	key := q.CacheKey()
	if cached, ok := e.cache.Get(key); ok {
		logger.Debug("recommendation cache hit", "key", key)
		return cached, nil
	}

	start := time.Now()

	user, err := e.users.FindUserByID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	trips, err := e.trips.FindActiveTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active trips: %w", err)
	}

	params := ParseScoringParams(q.Lat, q.Lng, q.Budget, q.Duration)
	scored := make([]models.ScoredTrip, 0, len(trips))
	for _, trip := range trips {
		total, breakdown := ScoreTrip(trip, user, params)
		scored = append(scored, models.ScoredTrip{
			Trip:                trip,
			RecommendationScore: total,
			ScoreBreakdown:      breakdown,
		})
	}

	// stable: equal scores keep the store's order
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RecommendationScore > scored[j].RecommendationScore
	})

	e.cache.Set(key, scored)

	elapsed := time.Since(start)
	metrics.RecommendationDuration.Observe(elapsed.Seconds())
	metrics.TripsScored.Add(float64(len(scored)))
	logger.Info("recommendations computed",
		"user_id", q.UserID,
		"trips", len(scored),
		"duration_ms", elapsed.Milliseconds(),
		"key", key)

	return scored, nil
}

// Invalidate drops every cached result. trigger names the caller for
// metrics and logs.
func (e *RecommendationEngine) Invalidate(trigger string) int {
	n := e.cache.InvalidateAll()
	metrics.CacheInvalidations.WithLabelValues(trigger).Inc()
	logger.Info("recommendation cache invalidated", "trigger", trigger, "entries", n)
	return n
}
