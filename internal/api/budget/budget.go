// Package budget splits a trip budget into daily targets and reports actual spend against it.
package budget

import (
	"fmt"
	"math"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Soft per-day shares. They bias selection and are never enforced.
const (
	HotelShare      = 0.35
	FoodShare       = 0.30
	ActivitiesShare = 0.35
)

const lowUtilization = 60

var shoppingMarkers = []string{"购物", "商场", "步行街", "商业街", "夜市", "百货"}

// Allocate returns the per-day budget, floor(total/days), and its soft split.
func Allocate(total float64, days int) types.DayBudget {
	if days <= 0 || total <= 0 {
		return types.DayBudget{}
	}
	perDay := math.Floor(total / float64(days))
	return types.DayBudget{
		Total:      perDay,
		Hotel:      perDay * HotelShare,
		Food:       perDay * FoodShare,
		Activities: perDay * ActivitiesShare,
	}
}

// Reconcile is a read-only pass over a built itinerary. Over budget is reported, not corrected.
func Reconcile(it *types.Itinerary) (types.BudgetBreakdown, types.BudgetComparison) {
	var bd types.BudgetBreakdown
	daysTotal := 0.0
	for _, day := range it.Days {
		daysTotal += day.TotalBudget
		for _, a := range day.Activities {
			switch a.Category {
			case types.CategoryHotel:
				bd.Accommodation += a.Cost
			case types.CategoryRestaurant:
				bd.Food += a.Cost
			case types.CategoryAttraction:
				bd.Attractions += a.Cost
			case types.CategoryLeisure:
				if isShopping(a.Name) {
					bd.Shopping += a.Cost
				} else {
					bd.Other += a.Cost
				}
			default:
				bd.Other += a.Cost
			}
		}
	}
	bd.Transportation = it.Transportation.Cost
	bd.Total = daysTotal + it.Transportation.Cost

	cmp := types.BudgetComparison{
		PlannedBudget: it.TotalBudget,
		ActualExpense: bd.Total,
		Difference:    it.TotalBudget - bd.Total,
		IsOverBudget:  bd.Total > it.TotalBudget,
	}
	if it.TotalBudget > 0 {
		cmp.UtilizationRate = int(math.Round(bd.Total / it.TotalBudget * 100))
	}
	cmp.Advice = Advice(cmp)
	return bd, cmp
}

// Advice turns the comparison into the summary line shown to the traveller.
func Advice(cmp types.BudgetComparison) string {
	switch {
	case cmp.IsOverBudget:
		return fmt.Sprintf("预计超出预算约%.0f元，可考虑更换经济型住宿或减少付费项目。", -cmp.Difference)
	case cmp.UtilizationRate < lowUtilization:
		return fmt.Sprintf("预算较为充裕，剩余约%.0f元，可适当升级住宿或增加特色体验。", cmp.Difference)
	default:
		return fmt.Sprintf("预算分配合理，预计结余约%.0f元。", cmp.Difference)
	}
}

func isShopping(name string) bool {
	for _, m := range shoppingMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
