package types

// Category is the closed set of POI / activity kinds the allocator works with.
type Category string

const (
	CategoryAttraction Category = "attraction"
	CategoryRestaurant Category = "restaurant"
	CategoryHotel      Category = "hotel"
	CategoryLeisure    Category = "leisure"
)

// Categories lists every Category in fetch order.
var Categories = []Category{CategoryAttraction, CategoryRestaurant, CategoryLeisure, CategoryHotel}

func (c Category) Valid() bool {
	switch c {
	case CategoryAttraction, CategoryRestaurant, CategoryHotel, CategoryLeisure:
		return true
	}
	return false
}

// Label returns the display label used in generated text.
func (c Category) Label() string {
	switch c {
	case CategoryAttraction:
		return "景点"
	case CategoryRestaurant:
		return "餐厅"
	case CategoryHotel:
		return "酒店"
	case CategoryLeisure:
		return "休闲"
	}
	return string(c)
}

// TravelStyle selects the hotel tier the trip leans towards.
type TravelStyle string

const (
	TravelStyleBudget  TravelStyle = "budget"
	TravelStyleComfort TravelStyle = "comfort"
	TravelStyleLuxury  TravelStyle = "luxury"
)

func (s TravelStyle) Valid() bool {
	switch s {
	case TravelStyleBudget, TravelStyleComfort, TravelStyleLuxury:
		return true
	}
	return false
}

// Rank orders styles from cheapest to most expensive.
func (s TravelStyle) Rank() int {
	switch s {
	case TravelStyleBudget:
		return 0
	case TravelStyleLuxury:
		return 2
	}
	return 1
}
