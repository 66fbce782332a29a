package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"trip_recommender/logger"
	"trip_recommender/models"
	"trip_recommender/utils"
)

// UserRepository reads user profiles from the users table. Preferences and
// interests are stored as JSON columns.
type UserRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewUserRepository(db *sql.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: timeout}
}

// FindUserByID returns the user, or nil without error when no such user exists.
func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*models.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var preferences, interests sql.NullString
	user := &models.UserProfile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, preferences, interests FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &preferences, &interests)
	if err != nil {
		if utils.IsSQLNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}

	if preferences.Valid && preferences.String != "" {
		var prefs models.UserPreferences
		if err := json.Unmarshal([]byte(preferences.String), &prefs); err != nil {
			logger.Warn("ignoring malformed user preferences", "user_id", id, "error", err)
		} else {
			user.Preferences = &prefs
		}
	}
	if interests.Valid && interests.String != "" {
		if err := json.Unmarshal([]byte(interests.String), &user.Interests); err != nil {
			logger.Warn("ignoring malformed user interests", "user_id", id, "error", err)
			user.Interests = nil
		}
	}

	return user, nil
}
