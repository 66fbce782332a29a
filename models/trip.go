package models

import (
	"github.com/goccy/go-json"
)

const TripStatusActive = "active"

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

type TripPoint struct {
	Name     string    `json:"name,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

func (p *TripPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = TripPoint{
		Name:     decodeField[string](raw, "name"),
		Location: decodeField[*GeoPoint](raw, "location"),
	}
	return nil
}

// LatLng returns the point as (latitude, longitude). ok is false when the
// point has no usable coordinate pair.
func (p *TripPoint) LatLng() (lat, lng float64, ok bool) {
	if p == nil || p.Location == nil || len(p.Location.Coordinates) < 2 {
		return 0, 0, false
	}
	return p.Location.Coordinates[1], p.Location.Coordinates[0], true
}

type CostTier struct {
	Fuel          *float64 `json:"fuel,omitempty"`
	Tolls         *float64 `json:"tolls,omitempty"`
	Accommodation *float64 `json:"accommodation,omitempty"`
	Food          *float64 `json:"food,omitempty"`
	Parking       *float64 `json:"parking,omitempty"`
	Total         *float64 `json:"total,omitempty"`
}

func (c *CostTier) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CostTier{
		Fuel:          decodeField[*float64](raw, "fuel"),
		Tolls:         decodeField[*float64](raw, "tolls"),
		Accommodation: decodeField[*float64](raw, "accommodation"),
		Food:          decodeField[*float64](raw, "food"),
		Parking:       decodeField[*float64](raw, "parking"),
		Total:         decodeField[*float64](raw, "total"),
	}
	return nil
}

type EstimatedCost struct {
	Car  *CostTier `json:"car,omitempty"`
	Bike *CostTier `json:"bike,omitempty"`
}

func (e *EstimatedCost) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = EstimatedCost{
		Car:  decodeField[*CostTier](raw, "car"),
		Bike: decodeField[*CostTier](raw, "bike"),
	}
	return nil
}

// CarTotal returns the car tier total, if the trip has one.
func (e *EstimatedCost) CarTotal() (float64, bool) {
	if e == nil || e.Car == nil || e.Car.Total == nil {
		return 0, false
	}
	return *e.Car.Total, true
}

// TripCandidate is a trip document as read from the trip store. The typed
// fields are the ones the scorer reads; every other field of the stored
// document is kept in Extra and written back out unchanged.
type TripCandidate struct {
	ID               string         `json:"_id,omitempty"`
	Title            string         `json:"title,omitempty"`
	Description      string         `json:"description,omitempty"`
	Keywords         []string       `json:"keywords,omitempty"`
	Difficulty       string         `json:"difficulty,omitempty"`
	AltitudeSickness bool           `json:"altitudeSickness,omitempty"`
	StartPoint       *TripPoint     `json:"startPoint,omitempty"`
	Rating           *float64       `json:"rating,omitempty"`
	EstimatedCost    *EstimatedCost `json:"estimatedCost,omitempty"`
	Duration         *float64       `json:"duration,omitempty"` // hours
	Status           string         `json:"status,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// tripDoc has the TripCandidate fields without its JSON methods.
type tripDoc TripCandidate

// UnmarshalJSON decodes each typed field on its own. A field holding the
// wrong JSON type is left at its zero value and survives only in Extra;
// the call fails only when data is not a JSON object.
func (t *TripCandidate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = TripCandidate{
		ID:               decodeField[string](raw, "_id"),
		Title:            decodeField[string](raw, "title"),
		Description:      decodeField[string](raw, "description"),
		Keywords:         decodeKeywords(raw["keywords"]),
		Difficulty:       decodeField[string](raw, "difficulty"),
		AltitudeSickness: decodeField[bool](raw, "altitudeSickness"),
		StartPoint:       decodeField[*TripPoint](raw, "startPoint"),
		Rating:           decodeField[*float64](raw, "rating"),
		EstimatedCost:    decodeField[*EstimatedCost](raw, "estimatedCost"),
		Duration:         decodeField[*float64](raw, "duration"),
		Status:           decodeField[string](raw, "status"),
		Extra:            raw,
	}
	return nil
}

// decodeField decodes raw[key] into a T. A missing or mistyped value gives
// the zero T.
func decodeField[T any](raw map[string]json.RawMessage, key string) T {
	var v T
	msg, ok := raw[key]
	if !ok {
		return v
	}
	if err := json.Unmarshal(msg, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// decodeKeywords keeps the string entries of a keyword list.
func decodeKeywords(msg json.RawMessage) []string {
	var items []json.RawMessage
	if len(msg) == 0 || json.Unmarshal(msg, &items) != nil {
		return nil
	}
	keywords := make([]string, 0, len(items))
	for _, item := range items {
		var kw string
		if json.Unmarshal(item, &kw) == nil {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func (t TripCandidate) MarshalJSON() ([]byte, error) {
	fields, err := t.fields()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// fields merges the stored document with the typed fields; typed values win.
func (t TripCandidate) fields() (map[string]json.RawMessage, error) {
	typed, err := json.Marshal(tripDoc(t))
	if err != nil {
		return nil, err
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(typed, &overlay); err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(t.Extra)+len(overlay)+2)
	for k, v := range t.Extra {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out, nil
}
