package services

import (
	"math"
	"strings"

	"trip_recommender/models"
	"trip_recommender/utils"
)

// Factor ceilings. Altitude sickness is a flat bonus or penalty of its
// ceiling; the others scale up to their ceiling.
const (
	MaxAltitudeScore   = 25.0
	MaxDifficultyScore = 10.0
	MaxInterestScore   = 15.0
	MaxDistanceScore   = 15.0
	MaxRatingScore     = 15.0
	MaxBudgetScore     = 10.0
	MaxDurationScore   = 10.0

	neutralDifficultyScore = 5.0
	fullDistanceKm         = 100.0
	maxRating              = 5.0
	maxTotalScore          = 100.0
)

var difficultyLevels = map[string]float64{
	"easy":     1,
	"moderate": 2,
	"hard":     3,
}

// ScoringParams are the request-level inputs to ScoreTrip. A factor whose
// Has* flag is false is skipped.
type ScoringParams struct {
	Lat, Lng    float64
	HasLocation bool
	Budget      float64
	HasBudget   bool
	Duration    float64
	HasDuration bool
}

// ParseScoringParams converts raw request values. Values that are not
// numbers leave the matching factor disabled. A zero latitude or longitude
// counts as no location.
func ParseScoringParams(lat, lng, budget, duration *string) ScoringParams {
	var p ScoringParams

	latV, latOK := utils.ParseOptionalNumber(lat)
	lngV, lngOK := utils.ParseOptionalNumber(lng)
	if latOK && lngOK && latV != 0 && lngV != 0 {
		p.Lat, p.Lng, p.HasLocation = latV, lngV, true
	}
	p.Budget, p.HasBudget = utils.ParseOptionalNumber(budget)
	p.Duration, p.HasDuration = utils.ParseOptionalNumber(duration)
	return p
}

// ScoreTrip rates how well trip fits user on a 0..100 scale. The breakdown
// keeps each factor's own value; only the total is clamped.
func ScoreTrip(trip models.TripCandidate, user *models.UserProfile, p ScoringParams) (float64, models.ScoreBreakdown) {
	breakdown := models.ScoreBreakdown{
		AltitudeSickness: altitudeScore(trip, user),
		Difficulty:       difficultyScore(trip, user),
		Interests:        interestScore(trip, user),
		Distance:         distanceScore(trip, p),
		Rating:           ratingScore(trip),
		Budget:           budgetScore(trip, p),
		Duration:         durationScore(trip, p),
	}

	return clampScore(breakdown.Sum()), breakdown
}

// clampScore bounds total to [0, maxTotalScore]; NaN counts as 0.
func clampScore(total float64) float64 {
	if math.IsNaN(total) {
		return 0
	}
	return math.Max(0, math.Min(maxTotalScore, total))
}

func altitudeScore(trip models.TripCandidate, user *models.UserProfile) float64 {
	if user.IsAltitudeSensitive() && trip.AltitudeSickness {
		return -MaxAltitudeScore
	}
	return MaxAltitudeScore
}

func difficultyScore(trip models.TripCandidate, user *models.UserProfile) float64 {
	userLevel, userOK := difficultyLevels[user.PreferredDifficulty()]
	tripLevel, tripOK := difficultyLevels[trip.Difficulty]
	if !userOK || !tripOK {
		return neutralDifficultyScore
	}
	if tripLevel <= userLevel {
		return MaxDifficultyScore * (tripLevel / userLevel)
	}
	return 0
}

// interestScore counts each user interest at most once, whether it matches
// a keyword exactly or appears in the description.
func interestScore(trip models.TripCandidate, user *models.UserProfile) float64 {
	if user == nil || len(user.Interests) == 0 {
		return 0
	}

	keywords := make(map[string]struct{}, len(trip.Keywords))
	for _, k := range trip.Keywords {
		keywords[strings.ToLower(k)] = struct{}{}
	}
	desc := strings.ToLower(trip.Description)

	matches := 0
	for _, interest := range user.Interests {
		term := strings.ToLower(interest)
		if _, ok := keywords[term]; ok {
			matches++
		} else if strings.Contains(desc, term) {
			matches++
		}
	}

	return math.Min(float64(matches)/float64(len(user.Interests))*MaxInterestScore, MaxInterestScore)
}

func distanceScore(trip models.TripCandidate, p ScoringParams) float64 {
	if !p.HasLocation {
		return 0
	}
	tripLat, tripLng, ok := trip.StartPoint.LatLng()
	if !ok {
		return 0
	}
	km := utils.HaversineKm(p.Lat, p.Lng, tripLat, tripLng)
	return math.Max(0, MaxDistanceScore-(km/fullDistanceKm)*MaxDistanceScore)
}

// ratingScore treats a zero rating like a missing one.
func ratingScore(trip models.TripCandidate) float64 {
	if trip.Rating == nil || *trip.Rating == 0 {
		return 0
	}
	return math.Min((*trip.Rating/maxRating)*MaxRatingScore, MaxRatingScore)
}

// budgetScore only looks at the car tier; bike costs are ignored.
func budgetScore(trip models.TripCandidate, p ScoringParams) float64 {
	if !p.HasBudget {
		return 0
	}
	cost, ok := trip.EstimatedCost.CarTotal()
	if !ok {
		return 0
	}
	return withinLimitScore(cost, p.Budget, MaxBudgetScore)
}

func durationScore(trip models.TripCandidate, p ScoringParams) float64 {
	if !p.HasDuration || trip.Duration == nil {
		return 0
	}
	return withinLimitScore(*trip.Duration, p.Duration, MaxDurationScore)
}

// withinLimitScore gives full points when value fits in limit and decays
// linearly with the relative overshoot. Any overshoot of a limit that is
// not positive scores nothing.
func withinLimitScore(value, limit, ceiling float64) float64 {
	if value <= limit {
		return ceiling
	}
	if limit <= 0 {
		return 0
	}
	over := value - limit
	return math.Max(0, ceiling-(over/limit)*ceiling)
}
