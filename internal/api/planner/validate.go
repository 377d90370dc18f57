package planner

import (
	"math"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const dateLayout = "2006-01-02"

// normalize validates the input and fills defaults. It runs before any network call.
func normalize(in types.TravelInput, now time.Time) (types.TravelInput, time.Time, error) {
	in.Destination = strings.TrimSpace(in.Destination)
	in.Departure = strings.TrimSpace(in.Departure)

	if in.Destination == "" {
		return in, time.Time{}, &types.ValidationError{Field: "destination", Message: "must not be empty"}
	}
	if in.Budget <= 0 || math.IsNaN(in.Budget) || math.IsInf(in.Budget, 0) {
		return in, time.Time{}, &types.ValidationError{Field: "budget", Message: "must be a positive number"}
	}
	if in.Days < types.MinTripDays || in.Days > types.MaxTripDays {
		return in, time.Time{}, &types.ValidationError{Field: "days", Message: "must be between 1 and 30"}
	}

	interests := make([]types.Interest, 0, len(in.Interests))
	seen := make(map[types.Interest]struct{}, len(in.Interests))
	for _, raw := range in.Interests {
		tag := types.ParseInterest(string(raw))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		interests = append(interests, tag)
	}
	if len(interests) > types.MaxInterests {
		return in, time.Time{}, &types.ValidationError{Field: "interests", Message: "at most 3 tags are allowed"}
	}
	if len(interests) == 0 {
		interests = append(interests, types.DefaultInterests...)
	}
	in.Interests = interests

	if in.TravelStyle == "" {
		in.TravelStyle = types.TravelStyleComfort
	}
	if !in.TravelStyle.Valid() {
		return in, time.Time{}, &types.ValidationError{Field: "travelStyle", Message: "must be one of budget, comfort, luxury"}
	}

	start, err := startDate(in, now)
	if err != nil {
		return in, time.Time{}, err
	}
	in.StartDate = start.Format(dateLayout)
	return in, start, nil
}

// startDate picks the explicit date, then the first day of the itinerary being regenerated, then tomorrow.
func startDate(in types.TravelInput, now time.Time) (time.Time, error) {
	if in.StartDate != "" {
		d, err := time.Parse(dateLayout, in.StartDate)
		if err != nil {
			return time.Time{}, &types.ValidationError{Field: "startDate", Message: "must be formatted as YYYY-MM-DD"}
		}
		return d, nil
	}
	if in.IsRegeneration() && len(in.ExistingItinerary.Days) > 0 {
		if d, err := time.Parse(dateLayout, in.ExistingItinerary.Days[0].Date); err == nil {
			return d, nil
		}
	}
	y, m, d := now.AddDate(0, 0, 1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
