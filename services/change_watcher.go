package services

import (
	"context"
	"sync"

	"trip_recommender/logger"
	"trip_recommender/repository"
)

// VersionSource reports the current fingerprint of user and trip data.
type VersionSource interface {
	LatestVersion(ctx context.Context) (repository.DataVersion, error)
}

// Invalidator drops cached recommendations.
type Invalidator interface {
	Invalidate(trigger string) int
}

// ChangeWatcher invalidates cached recommendations when the stored users
// or trips change behind the service's back.
type ChangeWatcher struct {
	source      VersionSource
	invalidator Invalidator

	mu   sync.Mutex
	last repository.DataVersion
	seen bool
}

func NewChangeWatcher(source VersionSource, invalidator Invalidator) *ChangeWatcher {
	return &ChangeWatcher{source: source, invalidator: invalidator}
}

// Check compares the current data version with the previous one and
// invalidates on change. The first call only records a baseline.
func (w *ChangeWatcher) Check(ctx context.Context) (bool, error) {
	v, err := w.source.LatestVersion(ctx)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	changed := w.seen && v != w.last
	w.last = v
	w.seen = true
	w.mu.Unlock()

	if changed {
		logger.Info("trip or user data changed", "trips", v.TripCount, "users", v.UserCount)
		w.invalidator.Invalidate("data_change")
	}
	return changed, nil
}
