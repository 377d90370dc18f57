// Package allocator fills the daily slot template with scored candidates.
package allocator

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-trip-planner/internal/api/fallback"
	"github.com/FACorreiaa/go-trip-planner/internal/api/scoring"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Session is the allocation state of one generate call. It owns the set of
// POI names already placed so no two activities of the trip share a venue.
// A Session must not be shared between requests.
type Session struct {
	destination string
	interests   []types.Interest
	hotelLevel  types.TravelStyle
	pools       map[types.Category][]types.ScoredCandidate
	synth       *fallback.Synthesizer
	used        map[string]struct{}
	newID       func() string
	logger      *slog.Logger
}

func NewSession(destination string, interests []types.Interest, hotelLevel types.TravelStyle,
	pools map[types.Category][]types.ScoredCandidate, synth *fallback.Synthesizer, logger *slog.Logger) *Session {
	return &Session{
		destination: destination,
		interests:   interests,
		hotelLevel:  hotelLevel,
		pools:       pools,
		synth:       synth,
		used:        make(map[string]struct{}),
		newID:       uuid.NewString,
		logger:      logger,
	}
}

// Reserve marks names as used. Locked activities of every day are reserved before any day is allocated.
func (s *Session) Reserve(activities ...types.Activity) {
	for _, a := range activities {
		s.used[a.Name] = struct{}{}
	}
}

func (s *Session) isUsed(name string) bool {
	_, ok := s.used[name]
	return ok
}

// DayRequest describes one day to allocate.
type DayRequest struct {
	Day    int
	Date   string
	Budget types.DayBudget
	// Locked activities carried over from the previous version of this day.
	Locked []types.Activity
}

type decisionKind int

const (
	decisionLocked decisionKind = iota
	decisionPicked
	decisionPlaceholder
)

type decision struct {
	slot      Slot
	kind      decisionKind
	locked    types.Activity
	candidate types.ScoredCandidate
}

// AllocateDay decides every slot of the day first, then materializes the plan once.
func (s *Session) AllocateDay(ctx context.Context, req DayRequest) types.DayPlan {
	decisions := make([]*decision, len(Template))

	for _, a := range req.Locked {
		idx := lockSlot(decisions, a)
		if idx < 0 {
			s.logger.WarnContext(ctx, "No free slot for locked activity, dropping it",
				slog.Int("day", req.Day), slog.String("activity_id", a.ID), slog.String("name", a.Name))
			continue
		}
		a.IsLocked = true
		decisions[idx] = &decision{slot: Template[idx], kind: decisionLocked, locked: a}
		s.Reserve(a)
	}

	var bias types.Interest
	if req.Day >= 2 && len(s.interests) > 0 {
		bias = s.interests[(req.Day-2)%len(s.interests)]
	}

	firstAttraction := true
	for i, slot := range Template {
		if slot.Category == types.CategoryHotel {
			continue
		}
		landmark := false
		if slot.Category == types.CategoryAttraction {
			landmark = req.Day == 1 && firstAttraction
			firstAttraction = false
		}
		if decisions[i] != nil {
			continue
		}
		decisions[i] = s.decide(req, slot, bias, landmark)
	}

	// Hotel last, once the rest of the day is settled.
	for i, slot := range Template {
		if slot.Category == types.CategoryHotel && decisions[i] == nil {
			decisions[i] = s.decideHotel(req, slot)
		}
	}

	return s.materialize(req, decisions)
}

// lockSlot maps a locked activity to its original slot. Preference order: same start time,
// same-category slot whose window holds the start time, nearest same-category start,
// any slot holding the start time, first free same-category slot, first free slot.
func lockSlot(decisions []*decision, a types.Activity) int {
	for i, slot := range Template {
		if decisions[i] == nil && slot.Start == a.StartTime {
			return i
		}
	}

	if at, ok := clockMinutes(a.StartTime); ok {
		best, bestGap := -1, 0
		for i, slot := range Template {
			if decisions[i] != nil || slot.Category != a.Category {
				continue
			}
			if slot.contains(at) {
				return i
			}
			start, _ := clockMinutes(slot.Start)
			gap := at - start
			if gap < 0 {
				gap = -gap
			}
			if best < 0 || gap < bestGap {
				best, bestGap = i, gap
			}
		}
		if best >= 0 {
			return best
		}
		for i, slot := range Template {
			if decisions[i] == nil && slot.contains(at) {
				return i
			}
		}
	}

	for i, slot := range Template {
		if decisions[i] == nil && slot.Category == a.Category {
			return i
		}
	}
	for i := range Template {
		if decisions[i] == nil {
			return i
		}
	}
	return -1
}

func (s *Session) decide(req DayRequest, slot Slot, bias types.Interest, landmark bool) *decision {
	pool := s.pools[slot.Category]

	if landmark {
		if c, ok := s.first(pool, isLandmark); ok {
			return s.pick(slot, c)
		}
	}
	if bias != "" {
		if c, ok := s.first(pool, func(c types.ScoredCandidate) bool { return c.HasInterest(bias) }); ok {
			return s.pick(slot, c)
		}
	}
	if c, ok := s.first(pool, nil); ok {
		return s.pick(slot, c)
	}

	cost := 0.0
	if slot.Category == types.CategoryRestaurant {
		cost = math.Min(placeholderMealCap, math.Floor(req.Budget.Food/2))
	}
	return s.placeholder(req, slot, cost)
}

func (s *Session) decideHotel(req DayRequest, slot Slot) *decision {
	limit := req.Budget.Total * hotelShareCap

	var best, cheapest *types.ScoredCandidate
	var bestCost, cheapestCost float64
	pool := s.pools[types.CategoryHotel]
	for i := range pool {
		c := &pool[i]
		if s.isUsed(c.Name) {
			continue
		}
		cost := s.costOf(c.POICandidate)
		if cost <= limit && (best == nil || cost > bestCost) {
			best, bestCost = c, cost
		}
		if cheapest == nil || cost < cheapestCost {
			cheapest, cheapestCost = c, cost
		}
	}

	switch {
	case best != nil:
		return s.pick(slot, *best)
	case cheapest != nil:
		return s.pick(slot, *cheapest)
	}
	return s.placeholder(req, slot, math.Floor(req.Budget.Total*placeholderHotelRate))
}

func (s *Session) first(pool []types.ScoredCandidate, keep func(types.ScoredCandidate) bool) (types.ScoredCandidate, bool) {
	for _, c := range pool {
		if s.isUsed(c.Name) {
			continue
		}
		if keep == nil || keep(c) {
			return c, true
		}
	}
	return types.ScoredCandidate{}, false
}

func (s *Session) pick(slot Slot, c types.ScoredCandidate) *decision {
	s.used[c.Name] = struct{}{}
	return &decision{slot: slot, kind: decisionPicked, candidate: c}
}

func (s *Session) placeholder(req DayRequest, slot Slot, cost float64) *decision {
	c := s.synth.FreeTime(s.destination, slot.Category, req.Day, slot.Label, cost)
	s.used[c.Name] = struct{}{}
	return &decision{slot: slot, kind: decisionPlaceholder, candidate: scoring.Score(c, s.interests)}
}

func (s *Session) costOf(c types.POICandidate) float64 {
	if c.Cost != nil {
		return *c.Cost
	}
	return s.synth.EstimateCost(c.Category, c.Name, s.hotelLevel)
}

func (s *Session) materialize(req DayRequest, decisions []*decision) types.DayPlan {
	plan := types.DayPlan{
		Day:        req.Day,
		Date:       req.Date,
		Activities: make([]types.Activity, 0, len(decisions)),
	}
	for _, d := range decisions {
		var a types.Activity
		if d.kind == decisionLocked {
			a = d.locked
		} else {
			a = s.activity(d)
		}
		plan.Activities = append(plan.Activities, a)
		plan.TotalBudget += a.Cost
	}
	sort.SliceStable(plan.Activities, func(i, j int) bool {
		return plan.Activities[i].StartTime < plan.Activities[j].StartTime
	})
	return plan
}

func (s *Session) activity(d *decision) types.Activity {
	c := d.candidate
	matched := make([]types.Interest, len(c.MatchedInterests))
	copy(matched, c.MatchedInterests)

	a := types.Activity{
		ID:        s.newID(),
		Name:      c.Name,
		StartTime: d.slot.Start,
		EndTime:   d.slot.End,
		Location: types.Location{
			Name:        c.Name,
			Address:     c.Address,
			Coordinates: c.Coordinates,
		},
		Cost:             s.costOf(c.POICandidate),
		Category:         d.slot.Category,
		MatchedInterests: matched,
	}
	a.Description = fallback.Describe(a)
	a.RecommendationReason = fallback.Reason(a)
	return a
}

func isLandmark(c types.ScoredCandidate) bool {
	for _, m := range landmarkMarkers {
		if strings.Contains(c.Name, m) {
			return true
		}
	}
	return false
}
