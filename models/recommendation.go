package models

import (
	"github.com/goccy/go-json"
)

// ScoreBreakdown is the per-factor contribution to a recommendation score.
// Values are unclamped; only the total is bounded to [0, 100].
type ScoreBreakdown struct {
	AltitudeSickness float64 `json:"altitudeSickness"`
	Difficulty       float64 `json:"difficulty"`
	Interests        float64 `json:"interests"`
	Distance         float64 `json:"distance"`
	Rating           float64 `json:"rating"`
	Budget           float64 `json:"budget"`
	Duration         float64 `json:"duration"`
}

// Sum adds the factors in a fixed order so totals are reproducible.
func (b ScoreBreakdown) Sum() float64 {
	total := 0.0
	total += b.AltitudeSickness
	total += b.Difficulty
	total += b.Interests
	total += b.Distance
	total += b.Rating
	total += b.Budget
	total += b.Duration
	return total
}

// ScoredTrip is a trip annotated with its recommendation score. It encodes
// as the trip document plus recommendationScore and scoreBreakdown.
type ScoredTrip struct {
	Trip                TripCandidate  `json:"-"`
	RecommendationScore float64        `json:"recommendationScore"`
	ScoreBreakdown      ScoreBreakdown `json:"scoreBreakdown"`
}

func (s ScoredTrip) MarshalJSON() ([]byte, error) {
	fields, err := s.Trip.fields()
	if err != nil {
		return nil, err
	}
	score, err := json.Marshal(s.RecommendationScore)
	if err != nil {
		return nil, err
	}
	breakdown, err := json.Marshal(s.ScoreBreakdown)
	if err != nil {
		return nil, err
	}
	fields["recommendationScore"] = score
	fields["scoreBreakdown"] = breakdown
	return json.Marshal(fields)
}

func (s *ScoredTrip) UnmarshalJSON(data []byte) error {
	var annotations struct {
		RecommendationScore float64        `json:"recommendationScore"`
		ScoreBreakdown      ScoreBreakdown `json:"scoreBreakdown"`
	}
	if err := json.Unmarshal(data, &annotations); err != nil {
		return err
	}
	var trip TripCandidate
	if err := json.Unmarshal(data, &trip); err != nil {
		return err
	}
	delete(trip.Extra, "recommendationScore")
	delete(trip.Extra, "scoreBreakdown")

	s.Trip = trip
	s.RecommendationScore = annotations.RecommendationScore
	s.ScoreBreakdown = annotations.ScoreBreakdown
	return nil
}
