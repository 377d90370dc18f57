package types

import (
	"errors"
	"fmt"
)

const (
	MinTripDays  = 1
	MaxTripDays  = 30
	MaxInterests = 3
)

// ErrInvalidInput is the sentinel matched by every TravelInput validation failure.
var ErrInvalidInput = errors.New("invalid travel input")

// ValidationError names the offending TravelInput field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// TravelInput is one generate or regenerate request.
type TravelInput struct {
	Departure         string      `json:"departure,omitempty"`
	Destination       string      `json:"destination"`
	Budget            float64     `json:"budget"`
	Days              int         `json:"days"`
	Interests         []Interest  `json:"interests"`
	TravelStyle       TravelStyle `json:"travelStyle"`
	StartDate         string      `json:"startDate,omitempty"` // YYYY-MM-DD
	LockedActivityIDs []string    `json:"lockedActivityIds,omitempty"`
	ExistingItinerary *Itinerary  `json:"existingItinerary,omitempty"`
}

// IsRegeneration reports whether the request carries an itinerary to partially regenerate.
func (in TravelInput) IsRegeneration() bool {
	return in.ExistingItinerary != nil
}

// LockedSet returns the locked activity ids as a set.
func (in TravelInput) LockedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(in.LockedActivityIDs))
	for _, id := range in.LockedActivityIDs {
		set[id] = struct{}{}
	}
	return set
}

// RegenerateRequest reruns a stored itinerary. Zero-valued overrides keep the stored values.
type RegenerateRequest struct {
	LockedActivityIDs []string    `json:"lockedActivityIds"`
	Budget            float64     `json:"budget,omitempty"`
	Interests         []Interest  `json:"interests,omitempty"`
	TravelStyle       TravelStyle `json:"travelStyle,omitempty"`
}

// Apply builds the TravelInput that regenerates existing with this request's locks and overrides.
func (r RegenerateRequest) Apply(existing *Itinerary) TravelInput {
	in := TravelInput{
		Departure:         existing.Departure,
		Destination:       existing.Destination,
		Budget:            existing.TotalBudget,
		Days:              len(existing.Days),
		Interests:         existing.Interests,
		TravelStyle:       existing.TravelStyle,
		LockedActivityIDs: r.LockedActivityIDs,
		ExistingItinerary: existing,
	}
	if len(existing.Days) > 0 {
		in.StartDate = existing.Days[0].Date
	}
	if r.Budget > 0 {
		in.Budget = r.Budget
	}
	if len(r.Interests) > 0 {
		in.Interests = r.Interests
	}
	if r.TravelStyle != "" {
		in.TravelStyle = r.TravelStyle
	}
	return in
}
