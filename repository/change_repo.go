package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DataVersion fingerprints the user and trip tables. Any write that can
// change a recommendation changes at least one field. The checksums cover
// rows rewritten within the same updated_at second.
type DataVersion struct {
	TripsUpdatedAt float64 // unix seconds of the newest trip update
	TripCount      int64
	TripsChecksum  int64 // XOR of per-row CRC32 over id, status and document
	UsersUpdatedAt float64
	UserCount      int64
	UsersChecksum  int64 // XOR of per-row CRC32 over id, preferences and interests
}

// ChangeRepository tracks when users or trips were last modified.
type ChangeRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewChangeRepository(db *sql.DB, timeout time.Duration) *ChangeRepository {
	return &ChangeRepository{db: db, timeout: timeout}
}

func (r *ChangeRepository) LatestVersion(ctx context.Context) (DataVersion, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var v DataVersion
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COALESCE(UNIX_TIMESTAMP(MAX(updated_at)), 0) FROM trips),
			(SELECT COUNT(*) FROM trips),
			(SELECT COALESCE(BIT_XOR(CRC32(CONCAT_WS('#', id, status, document))), 0) FROM trips),
			(SELECT COALESCE(UNIX_TIMESTAMP(MAX(updated_at)), 0) FROM users),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(BIT_XOR(CRC32(CONCAT_WS('#', id, preferences, interests))), 0) FROM users)
	`).Scan(&v.TripsUpdatedAt, &v.TripCount, &v.TripsChecksum, &v.UsersUpdatedAt, &v.UserCount, &v.UsersChecksum)
	if err != nil {
		return DataVersion{}, fmt.Errorf("read data version: %w", err)
	}
	return v, nil
}

// Ping checks the database connection.
func (r *ChangeRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return r.db.PingContext(ctx)
}
