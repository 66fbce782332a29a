package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"trip_recommender/logger"
	"trip_recommender/models"
)

// TripRepository reads trip documents from the trips table. Each row keeps
// the full trip as a JSON document next to its id and status.
type TripRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewTripRepository(db *sql.DB, timeout time.Duration) *TripRepository {
	return &TripRepository{db: db, timeout: timeout}
}

// FindActiveTrips returns every active trip in insertion order.
func (r *TripRepository) FindActiveTrips(ctx context.Context) ([]models.TripCandidate, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, status, document
		FROM trips
		WHERE status = ?
		ORDER BY created_at, id
	`, models.TripStatusActive)
	if err != nil {
		return nil, fmt.Errorf("query active trips: %w", err)
	}
	defer rows.Close()

	trips := make([]models.TripCandidate, 0)
	for rows.Next() {
		var id, status string
		var document sql.NullString
		if err := rows.Scan(&id, &status, &document); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}

		var trip models.TripCandidate
		if document.Valid && document.String != "" {
			if err := json.Unmarshal([]byte(document.String), &trip); err != nil {
				logger.Warn("skipping trip whose document is not a JSON object", "trip_id", id, "error", err)
				continue
			}
		}
		if trip.ID == "" {
			trip.ID = id
		}
		if trip.Status == "" {
			trip.Status = status
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read active trips: %w", err)
	}

	return trips, nil
}
