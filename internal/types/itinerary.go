package types

import "time"

// Location is where an activity takes place.
type Location struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

// Activity is one filled slot of a day plan.
type Activity struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	StartTime            string     `json:"startTime"`
	EndTime              string     `json:"endTime"`
	Location             Location   `json:"location"`
	Cost                 float64    `json:"cost"`
	Category             Category   `json:"category"`
	MatchedInterests     []Interest `json:"matchedInterests"`
	RecommendationReason string     `json:"recommendationReason,omitempty"`
	IsLocked             bool       `json:"isLocked"`
}

// DayPlan holds the activities of one trip day ordered by start time.
type DayPlan struct {
	Day           int        `json:"day"`
	Date          string     `json:"date"`
	Activities    []Activity `json:"activities"`
	TotalBudget   float64    `json:"totalBudget"`
	TransportNote string     `json:"transportNote,omitempty"`
}

// Transportation is the intercity (or local) transport leg of the trip.
type Transportation struct {
	Mode        string          `json:"mode"`
	Description string          `json:"description"`
	Cost        float64         `json:"cost"`
	Source      CandidateSource `json:"source,omitempty"`
}

// Itinerary is the engine's output value; persisting it is the caller's job.
type Itinerary struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Destination      string           `json:"destination"`
	Departure        string           `json:"departure,omitempty"`
	TotalBudget      float64          `json:"totalBudget"`
	TravelStyle      TravelStyle      `json:"travelStyle,omitempty"`
	Interests        []Interest       `json:"interests,omitempty"`
	Days             []DayPlan        `json:"days"`
	Transportation   Transportation   `json:"transportation"`
	ActualExpense    BudgetBreakdown  `json:"actualExpense"`
	BudgetComparison BudgetComparison `json:"budgetComparison"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// FindActivity returns the activity with the given id and the day it belongs to.
func (it *Itinerary) FindActivity(id string) (*Activity, int, bool) {
	for d := range it.Days {
		for a := range it.Days[d].Activities {
			if it.Days[d].Activities[a].ID == id {
				return &it.Days[d].Activities[a], it.Days[d].Day, true
			}
		}
	}
	return nil, 0, false
}

// ActivityCount returns the number of activities across all days.
func (it *Itinerary) ActivityCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Activities)
	}
	return n
}

// ItinerarySummary is the list view of a stored itinerary.
type ItinerarySummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	DayCount    int       `json:"dayCount"`
	TotalBudget float64   `json:"totalBudget"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ActivityDetail locates one activity inside a stored itinerary.
type ActivityDetail struct {
	ItineraryID string   `json:"itineraryId"`
	Day         int      `json:"day"`
	Activity    Activity `json:"activity"`
}
