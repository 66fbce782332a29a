package models

// UserPreferences holds the scoring-relevant preferences of a user.
type UserPreferences struct {
	TripDifficulty   string `json:"tripDifficulty,omitempty"`
	AltitudeSickness bool   `json:"altitudeSickness"`
}

// UserProfile is the subset of a user record the recommender reads.
// Preferences is nil when the user never set any.
type UserProfile struct {
	ID          string           `json:"_id"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	Interests   []string         `json:"interests,omitempty"`
}

// IsAltitudeSensitive reports whether the user asked to avoid altitude sickness risk.
func (u *UserProfile) IsAltitudeSensitive() bool {
	return u != nil && u.Preferences != nil && u.Preferences.AltitudeSickness
}

// PreferredDifficulty returns the user's trip difficulty, or "" when unset.
func (u *UserProfile) PreferredDifficulty() string {
	if u == nil || u.Preferences == nil {
		return ""
	}
	return u.Preferences.TripDifficulty
}
