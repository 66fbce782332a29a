package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheObserver(t *testing.T) {
	hits := testutil.ToFloat64(RecommendationCacheEvents.WithLabelValues("hit"))
	misses := testutil.ToFloat64(RecommendationCacheEvents.WithLabelValues("miss"))
	evictions := testutil.ToFloat64(RecommendationCacheEvents.WithLabelValues("eviction"))

	obs := CacheObserver{}
	obs.Hit()
	obs.Miss()
	obs.Miss()
	obs.Evicted(3)

	assert.Equal(t, hits+1, testutil.ToFloat64(RecommendationCacheEvents.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(RecommendationCacheEvents.WithLabelValues("miss")))
	assert.Equal(t, evictions+3, testutil.ToFloat64(RecommendationCacheEvents.WithLabelValues("eviction")))
}
