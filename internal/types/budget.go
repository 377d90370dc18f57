package types

// BudgetBreakdown maps spend categories to amounts.
type BudgetBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Attractions    float64 `json:"attractions"`
	Transportation float64 `json:"transportation"`
	Shopping       float64 `json:"shopping"`
	Other          float64 `json:"other"`
	Total          float64 `json:"total"`
}

// BudgetComparison reports planned vs actual spend. Over-budget is a reported fact, not an error.
type BudgetComparison struct {
	PlannedBudget   float64 `json:"plannedBudget"`
	ActualExpense   float64 `json:"actualExpense"`
	Difference      float64 `json:"difference"`
	IsOverBudget    bool    `json:"isOverBudget"`
	UtilizationRate int     `json:"utilizationRate"`
	Advice          string  `json:"advice,omitempty"`
}

// DayBudget is the soft per-day split used to bias candidate selection.
type DayBudget struct {
	Total      float64 `json:"total"`
	Hotel      float64 `json:"hotel"`
	Food       float64 `json:"food"`
	Activities float64 `json:"activities"`
}
