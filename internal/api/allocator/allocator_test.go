package allocator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api/fallback"
	"github.com/FACorreiaa/go-trip-planner/internal/api/scoring"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var testInterests = []types.Interest{types.InterestHistory, types.InterestFood}

func poi(name string, category types.Category, cost float64) types.POICandidate {
	return types.POICandidate{ID: "id-" + name, Name: name, Category: category, Cost: types.Ptr(cost)}
}

func rankedPools(pools map[types.Category][]types.POICandidate, interests []types.Interest) map[types.Category][]types.ScoredCandidate {
	out := make(map[types.Category][]types.ScoredCandidate, len(pools))
	for cat, list := range pools {
		out[cat] = scoring.Rank(list, interests)
	}
	return out
}

func fallbackPools(destination string) map[types.Category][]types.POICandidate {
	synth := fallback.New()
	pools := make(map[types.Category][]types.POICandidate)
	for _, cat := range types.Categories {
		pools[cat] = synth.Candidates(destination, cat, types.TravelStyleComfort)
	}
	return pools
}

func newTestSession(pools map[types.Category][]types.POICandidate, interests []types.Interest) *Session {
	s := NewSession("邯郸", interests, types.TravelStyleComfort, rankedPools(pools, interests),
		fallback.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("act-%d", n)
	}
	return s
}

func dayBudget(total float64) types.DayBudget {
	return types.DayBudget{Total: total, Hotel: total * 0.35, Food: total * 0.30, Activities: total * 0.35}
}

func TestAllocateDay_FillsEverySlot(t *testing.T) {
	s := newTestSession(fallbackPools("邯郸"), testInterests)
	plan := s.AllocateDay(context.Background(), DayRequest{Day: 1, Date: "2026-05-01", Budget: dayBudget(666)})

	require.Len(t, plan.Activities, len(Template))
	assert.Equal(t, 1, plan.Day)
	assert.Equal(t, "2026-05-01", plan.Date)

	total := 0.0
	for i, a := range plan.Activities {
		assert.Equal(t, Template[i].Start, a.StartTime)
		assert.Equal(t, Template[i].End, a.EndTime)
		assert.Equal(t, Template[i].Category, a.Category)
		assert.False(t, a.IsLocked)
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Description)
		total += a.Cost
	}
	assert.Equal(t, total, plan.TotalBudget)
	assert.Equal(t, "邯郸博物馆", plan.Activities[0].Name)
}

func TestAllocateDay_LandmarkFirstOnDayOne(t *testing.T) {
	pools := fallbackPools("邯郸")
	pools[types.CategoryAttraction] = []types.POICandidate{
		{Name: "丛台古迹遗址", Category: types.CategoryAttraction, Rating: types.Ptr(5.0), Cost: types.Ptr(0.0)},
		poi("城市规划展示中心", types.CategoryAttraction, 0),
	}
	s := newTestSession(pools, testInterests)

	plan := s.AllocateDay(context.Background(), DayRequest{Day: 1, Budget: dayBudget(666)})
	assert.Equal(t, "城市规划展示中心", plan.Activities[0].Name)
	assert.Equal(t, "丛台古迹遗址", plan.Activities[2].Name)
}

func TestAllocateDay_NoDuplicatesAcrossDays(t *testing.T) {
	pools := map[types.Category][]types.POICandidate{
		types.CategoryAttraction: {poi("博物馆甲", types.CategoryAttraction, 20), poi("公园乙", types.CategoryAttraction, 0)},
		types.CategoryRestaurant: {poi("饭庄丙", types.CategoryRestaurant, 80)},
		types.CategoryLeisure:    {},
		types.CategoryHotel:      {poi("酒店丁", types.CategoryHotel, 200)},
	}
	s := newTestSession(pools, testInterests)

	seen := map[string]bool{}
	for day := 1; day <= 4; day++ {
		plan := s.AllocateDay(context.Background(), DayRequest{Day: day, Budget: dayBudget(600)})
		require.Len(t, plan.Activities, len(Template))
		for _, a := range plan.Activities {
			assert.False(t, seen[a.Name], "duplicate %s on day %d", a.Name, day)
			seen[a.Name] = true
		}
	}
	assert.True(t, seen["博物馆甲"])
	assert.True(t, seen["酒店丁"])
}

func TestAllocateDay_PlaceholderCosts(t *testing.T) {
	s := newTestSession(map[types.Category][]types.POICandidate{}, testInterests)
	plan := s.AllocateDay(context.Background(), DayRequest{Day: 2, Budget: dayBudget(600)})

	require.Len(t, plan.Activities, len(Template))
	assert.Equal(t, 0.0, plan.Activities[0].Cost)
	assert.Equal(t, placeholderMealCap, plan.Activities[1].Cost)
	assert.Equal(t, 210.0, plan.Activities[5].Cost)
	assert.Contains(t, plan.Activities[0].Name, "第2天")
}

func TestAllocateDay_HotelBudgetMatch(t *testing.T) {
	pools := fallbackPools("邯郸")
	pools[types.CategoryHotel] = []types.POICandidate{
		poi("甲酒店", types.CategoryHotel, 100),
		poi("乙酒店", types.CategoryHotel, 300),
		poi("丙酒店", types.CategoryHotel, 230),
	}
	s := newTestSession(pools, testInterests)

	hotelOf := func(day int) types.Activity {
		plan := s.AllocateDay(context.Background(), DayRequest{Day: day, Budget: dayBudget(600)})
		return plan.Activities[len(plan.Activities)-1]
	}

	assert.Equal(t, "丙酒店", hotelOf(1).Name)
	assert.Equal(t, "甲酒店", hotelOf(2).Name)
	assert.Equal(t, "乙酒店", hotelOf(3).Name, "falls back to cheapest remaining")
	last := hotelOf(4)
	assert.Equal(t, 210.0, last.Cost)
	assert.Equal(t, types.CategoryHotel, last.Category)
}

func TestAllocateDay_InterestRotation(t *testing.T) {
	pools := fallbackPools("邯郸")
	pools[types.CategoryAttraction] = []types.POICandidate{
		{Name: "中心广场", Category: types.CategoryAttraction, Rating: types.Ptr(5.0), Cost: types.Ptr(0.0)},
		{Name: "人民公园", Category: types.CategoryAttraction, Rating: types.Ptr(4.9), Cost: types.Ptr(0.0)},
		{Name: "湿地森林", Category: types.CategoryAttraction, Rating: types.Ptr(4.8), Cost: types.Ptr(0.0)},
		poi("古城墙遗址", types.CategoryAttraction, 0),
		poi("滨江风景带", types.CategoryAttraction, 0),
	}
	interests := []types.Interest{types.InterestHistory, types.InterestNature}
	s := newTestSession(pools, interests)
	s.Reserve(types.Activity{Name: "中心广场"})

	day2 := s.AllocateDay(context.Background(), DayRequest{Day: 2, Budget: dayBudget(600)})
	assert.Equal(t, "古城墙遗址", day2.Activities[0].Name)
	assert.Contains(t, day2.Activities[0].MatchedInterests, types.InterestHistory)

	day3 := s.AllocateDay(context.Background(), DayRequest{Day: 3, Budget: dayBudget(600)})
	for _, a := range []types.Activity{day3.Activities[0], day3.Activities[2]} {
		assert.Contains(t, a.MatchedInterests, types.InterestNature, a.Name)
	}
}

func TestAllocateDay_LockedActivities(t *testing.T) {
	locked := types.Activity{
		ID: "keep-me", Name: "邯郸博物馆", StartTime: "09:00", EndTime: "11:30",
		Cost: 0, Category: types.CategoryAttraction, Description: "原描述",
		MatchedInterests: []types.Interest{types.InterestHistory},
	}
	moved := types.Activity{
		ID: "dinner", Name: "自家小馆", StartTime: "18:30", EndTime: "19:45",
		Cost: 66, Category: types.CategoryRestaurant,
	}

	s := newTestSession(fallbackPools("邯郸"), testInterests)
	plan := s.AllocateDay(context.Background(), DayRequest{
		Day: 1, Budget: dayBudget(666), Locked: []types.Activity{locked, moved},
	})
	require.Len(t, plan.Activities, len(Template))

	want := locked
	want.IsLocked = true
	assert.Equal(t, want, plan.Activities[0])

	// Off-template start time: it replaces the dinner slot it falls in and lunch is still planned.
	require.Equal(t, "dinner", plan.Activities[4].ID)
	kept := plan.Activities[4]
	assert.True(t, kept.IsLocked)
	assert.Equal(t, "18:30", kept.StartTime)
	assert.Equal(t, "19:45", kept.EndTime)
	assert.Equal(t, 66.0, kept.Cost)

	lunch := plan.Activities[1]
	assert.Equal(t, "12:00", lunch.StartTime)
	assert.Equal(t, types.CategoryRestaurant, lunch.Category)
	assert.False(t, lunch.IsLocked)
	for _, a := range plan.Activities {
		assert.NotEqual(t, "18:00", a.StartTime)
	}

	for _, a := range plan.Activities {
		if a.ID != "keep-me" {
			assert.NotEqual(t, "邯郸博物馆", a.Name)
		}
	}
	for i := 1; i < len(plan.Activities); i++ {
		assert.LessOrEqual(t, plan.Activities[i-1].StartTime, plan.Activities[i].StartTime)
	}
}

func TestLockSlot(t *testing.T) {
	empty := func() []*decision { return make([]*decision, len(Template)) }
	lunchTaken := empty()
	lunchTaken[1] = &decision{}

	tests := []struct {
		name      string
		decisions []*decision
		activity  types.Activity
		want      int
	}{
		{name: "exact start", decisions: empty(), activity: types.Activity{StartTime: "14:00", Category: types.CategoryAttraction}, want: 2},
		{name: "inside dinner window", decisions: empty(), activity: types.Activity{StartTime: "18:30", Category: types.CategoryRestaurant}, want: 4},
		{name: "inside lunch window", decisions: empty(), activity: types.Activity{StartTime: "12:45", Category: types.CategoryRestaurant}, want: 1},
		{name: "nearest restaurant start", decisions: empty(), activity: types.Activity{StartTime: "17:45", Category: types.CategoryRestaurant}, want: 4},
		{name: "nearest free when own slot taken", decisions: lunchTaken, activity: types.Activity{StartTime: "12:30", Category: types.CategoryRestaurant}, want: 4},
		{name: "night window wraps midnight", decisions: empty(), activity: types.Activity{StartTime: "21:15", Category: types.CategoryHotel}, want: 5},
		{name: "unparsable start falls back to category", decisions: empty(), activity: types.Activity{StartTime: "晚上", Category: types.CategoryRestaurant}, want: 1},
		{name: "unknown category uses containing window", decisions: empty(), activity: types.Activity{StartTime: "16:45", Category: types.Category("other")}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lockSlot(tt.decisions, tt.activity))
		})
	}
}

func TestAllocateDay_ExtraLocksDropped(t *testing.T) {
	var locks []types.Activity
	for i := 0; i < len(Template)+2; i++ {
		locks = append(locks, types.Activity{
			ID: fmt.Sprintf("l%d", i), Name: fmt.Sprintf("锁定%d", i), Category: types.CategoryAttraction, StartTime: "09:00",
		})
	}
	s := newTestSession(fallbackPools("邯郸"), testInterests)
	plan := s.AllocateDay(context.Background(), DayRequest{Day: 1, Budget: dayBudget(600), Locked: locks})

	require.Len(t, plan.Activities, len(Template))
	for _, a := range plan.Activities {
		assert.True(t, a.IsLocked)
	}
}

func TestAllocateDay_EstimatesMissingCost(t *testing.T) {
	pools := fallbackPools("邯郸")
	pools[types.CategoryRestaurant] = []types.POICandidate{{Name: "无价小馆", Category: types.CategoryRestaurant}}
	s := newTestSession(pools, testInterests)

	plan := s.AllocateDay(context.Background(), DayRequest{Day: 1, Budget: dayBudget(600)})
	lunch := plan.Activities[1]
	assert.Equal(t, "无价小馆", lunch.Name)
	assert.Equal(t, fallback.New().EstimateCost(types.CategoryRestaurant, "无价小馆", types.TravelStyleComfort), lunch.Cost)
	assert.GreaterOrEqual(t, lunch.Cost, 20.0)
}
