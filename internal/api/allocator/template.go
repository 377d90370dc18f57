package allocator

import (
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Slot is one fixed time window of the daily template.
type Slot struct {
	Start    string
	End      string
	Category types.Category
	Label    string
}

// contains reports whether the clock minute falls inside the slot window. The night slot wraps past midnight.
func (s Slot) contains(minute int) bool {
	start, ok1 := clockMinutes(s.Start)
	end, ok2 := clockMinutes(s.End)
	if !ok1 || !ok2 {
		return false
	}
	if end <= start {
		return minute >= start || minute < end
	}
	return minute >= start && minute < end
}

// clockMinutes parses "HH:MM" into minutes since midnight.
func clockMinutes(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// Template is the daily schedule, in order. Every day plan fills all of it.
var Template = []Slot{
	{Start: "09:00", End: "11:30", Category: types.CategoryAttraction, Label: "上午"},
	{Start: "12:00", End: "13:30", Category: types.CategoryRestaurant, Label: "午餐"},
	{Start: "14:00", End: "16:00", Category: types.CategoryAttraction, Label: "下午"},
	{Start: "16:30", End: "17:30", Category: types.CategoryLeisure, Label: "傍晚"},
	{Start: "18:00", End: "19:30", Category: types.CategoryRestaurant, Label: "晚餐"},
	{Start: "20:00", End: "08:00", Category: types.CategoryHotel, Label: "夜间"},
}

const (
	hotelShareCap        = 0.40
	placeholderHotelRate = 0.35
	placeholderMealCap   = 80.0
)

var landmarkMarkers = []string{"博物馆", "中心", "广场", "商场"}
