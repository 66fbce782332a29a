package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip_recommender/cache"
	"trip_recommender/config"
	"trip_recommender/models"
	"trip_recommender/services"
)

type fakeRecommender struct {
	mu          sync.Mutex
	list        []models.ScoredTrip
	err         error
	queries     []services.RecommendationQuery
	invalidated []string
}

func (f *fakeRecommender) Recommend(_ context.Context, q services.RecommendationQuery) ([]models.ScoredTrip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.list, f.err
}

func (f *fakeRecommender) Invalidate(trigger string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, trigger)
	return 4
}

type fakeStats struct{}

func (fakeStats) Stats() cache.Stats {
	return cache.Stats{Hits: 3, Misses: 1, Keys: 2}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.RateLimit.Requests = 100
	cfg.RateLimit.WindowSec = 900
	return cfg
}

func newTestRouter(engine *fakeRecommender, cfg *config.Config, pinger Pinger) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewRecommendationHandler(engine, fakeStats{}), pinger, NewMiddleware(cfg))
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetRecommendations_Success(t *testing.T) {
	engine := &fakeRecommender{list: []models.ScoredTrip{
		{Trip: models.TripCandidate{ID: "t1", Title: "Beach Escape"}, RecommendationScore: 60},
	}}
	router := newTestRouter(engine, testConfig(), fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/u1?lat=17.7&lng=83.2&budget=", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, float64(models.CodeSuccess), body["code"])
	data := body["data"].(map[string]any)
	list := data["recommendations"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "Beach Escape", first["title"])
	assert.Equal(t, 60.0, first["recommendationScore"])

	require.Len(t, engine.queries, 1)
	q := engine.queries[0]
	assert.Equal(t, "u1", q.UserID)
	require.NotNil(t, q.Lat)
	assert.Equal(t, "17.7", *q.Lat)
	require.NotNil(t, q.Budget)
	assert.Equal(t, "", *q.Budget, "empty value is passed through")
	assert.Nil(t, q.Duration)
}

func TestGetRecommendations_EmptyListIsArray(t *testing.T) {
	router := newTestRouter(&fakeRecommender{list: []models.ScoredTrip{}}, testConfig(), fakePinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/u1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"recommendations":[]}}`, rec.Body.String())
}

func TestGetRecommendations_UserNotFound(t *testing.T) {
	router := newTestRouter(&fakeRecommender{err: services.ErrUserNotFound}, testConfig(), fakePinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(models.CodeUserNotFound), body["code"])
	assert.Equal(t, "User not found", body["message"])
}

func TestGetRecommendations_StoreFailure(t *testing.T) {
	err := errors.New("load active trips: connection refused")
	router := newTestRouter(&fakeRecommender{err: err}, testConfig(), fakePinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/u1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(models.CodeRecommendGenError), body["code"])
	assert.Equal(t, "Failed to fetch recommendations", body["message"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetRecommendations_MissingUserID(t *testing.T) {
	h := NewRecommendationHandler(&fakeRecommender{}, fakeStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", "")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.GetRecommendations(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(models.CodeMissingParams), decode(t, rec)["code"])
}

func TestGetRecommendations_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 2
	router := newTestRouter(&fakeRecommender{list: []models.ScoredTrip{}}, cfg, fakePinger{})

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/u1", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			body := decode(t, rec)
			assert.Equal(t, float64(models.CodeRateLimited), body["code"])
			assert.Equal(t, "Rate Limit Exceeded. Try again after 15 Minutes", body["message"])
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// other routes are not limited
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/cache/stats", nil)
	req.RemoteAddr = "203.0.113.7:4000"
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetRecommendations_RateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 1
	cfg.RateLimit.Disabled = true
	router := newTestRouter(&fakeRecommender{list: []models.ScoredTrip{}}, cfg, fakePinger{})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/u1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestInvalidateCache(t *testing.T) {
	engine := &fakeRecommender{}
	router := newTestRouter(engine, testConfig(), fakePinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/cache/invalidate", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api"}, engine.invalidated)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, 4.0, data["invalidated"])
}

func TestCacheStats(t *testing.T) {
	router := newTestRouter(&fakeRecommender{}, testConfig(), fakePinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/cache/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, 3.0, data["hits"])
	assert.Equal(t, 2.0, data["keys"])
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeRecommender{}, testConfig(), fakePinger{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newTestRouter(&fakeRecommender{}, testConfig(), fakePinger{err: errors.New("down")}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, float64(models.CodeDatabaseError), decode(t, rec)["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(&fakeRecommender{list: []models.ScoredTrip{}}, testConfig(), fakePinger{})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/u1", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/recommendations/{userId}"`)
}

func TestSwaggerDoc(t *testing.T) {
	router := newTestRouter(&fakeRecommender{}, testConfig(), fakePinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/recommendations/{userId}")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&fakeRecommender{}, testConfig(), fakePinger{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations/u1", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
