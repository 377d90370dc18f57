package types

import "fmt"

// Coordinates is a WGS84/GCJ-02 point as returned by the POI service.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}

// CandidateSource records where a candidate came from.
type CandidateSource string

const (
	SourceLive     CandidateSource = "live"
	SourceFallback CandidateSource = "fallback"
)

// POICandidate is an immutable point of interest produced by the gateway or the fallback synthesizer.
type POICandidate struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Coordinates    Coordinates     `json:"coordinates"`
	Category       Category        `json:"category"`
	Rating         *float64        `json:"rating,omitempty"`
	Cost           *float64        `json:"cost,omitempty"`
	PopularityHint *float64        `json:"popularityHint,omitempty"`
	TypeLabel      string          `json:"typeLabel,omitempty"`    // upstream type path, e.g. "风景名胜;公园广场;公园"
	BusinessArea   string          `json:"businessArea,omitempty"` // upstream business district
	Source         CandidateSource `json:"source,omitempty"`
}

// ScoredCandidate pairs a candidate with its desirability score for one request.
type ScoredCandidate struct {
	POICandidate
	Score            float64    `json:"score"`
	MatchedInterests []Interest `json:"matchedInterests"`
}

// HasInterest reports whether the candidate matched the given tag.
func (s ScoredCandidate) HasInterest(tag Interest) bool {
	for _, m := range s.MatchedInterests {
		if m == tag {
			return true
		}
	}
	return false
}

// FareQuote is the cheapest intercity option between two cities.
type FareQuote struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Date    string          `json:"date"`
	Mode    string          `json:"mode"`
	Carrier string          `json:"carrier,omitempty"`
	Price   float64         `json:"price"`
	Source  CandidateSource `json:"source"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
