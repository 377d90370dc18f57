// Package scoring ranks POI candidates by desirability for one traveller's interests.
package scoring

import (
	"sort"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	baseScore       = 50.0
	hintWeight      = 0.3
	ratingWeight    = 10.0
	scenicBonus     = 25.0
	culturalBonus   = 20.0
	diningBonus     = 15.0
	centralBonus    = 15.0
	historicBonus   = 20.0
	parkBonus       = 10.0
	interestBonus   = 20.0
	chainBrandScore = 40.0
)

var (
	centralMarkers  = []string{"中心", "CBD", "市中心", "商圈"}
	historicMarkers = []string{"博物馆", "纪念馆", "故居", "遗址", "古城", "古迹", "寺"}
	parkMarkers     = []string{"公园", "广场"}
	chainBrands     = []string{
		"麦当劳", "肯德基", "星巴克", "必胜客", "汉堡王", "德克士", "华莱士",
		"如家", "汉庭", "7天", "锦江之星", "格林豪泰",
	}
)

// Score computes the desirability of one candidate. Chain brands are capped so local venues rank first.
func Score(c types.POICandidate, interests []types.Interest) types.ScoredCandidate {
	score := baseScore
	if c.PopularityHint != nil {
		score += *c.PopularityHint * hintWeight
	}
	if c.Rating != nil {
		score += *c.Rating * ratingWeight
	}

	switch {
	case strings.Contains(c.TypeLabel, "风景名胜"):
		score += scenicBonus
	case c.TypeLabel == "" && c.Category == types.CategoryAttraction:
		score += scenicBonus
	}
	if strings.Contains(c.TypeLabel, "科教文化") {
		score += culturalBonus
	}
	switch {
	case strings.Contains(c.TypeLabel, "餐饮"):
		score += diningBonus
	case c.TypeLabel == "" && c.Category == types.CategoryRestaurant:
		score += diningBonus
	}
	if containsAny(c.BusinessArea, centralMarkers) {
		score += centralBonus
	}
	if containsAny(c.Name, historicMarkers) {
		score += historicBonus
	}
	if containsAny(c.Name, parkMarkers) {
		score += parkBonus
	}

	matched := MatchInterests(c, interests)
	score += interestBonus * float64(len(matched))

	if IsChainBrand(c.Name) && score > chainBrandScore {
		score = chainBrandScore
	}

	return types.ScoredCandidate{
		POICandidate:     c,
		Score:            score,
		MatchedInterests: matched,
	}
}

// MatchInterests returns, in request order, the tags whose keywords occur in the name or type label.
func MatchInterests(c types.POICandidate, interests []types.Interest) []types.Interest {
	matched := make([]types.Interest, 0, len(interests))
	for _, tag := range interests {
		if tag.Matches(c.Name, c.TypeLabel) {
			matched = append(matched, tag)
		}
	}
	return matched
}

// IsChainBrand reports whether the name belongs to a national chain.
func IsChainBrand(name string) bool {
	return containsAny(name, chainBrands)
}

// Rank scores every candidate and sorts descending. Ties keep input order.
func Rank(candidates []types.POICandidate, interests []types.Interest) []types.ScoredCandidate {
	ranked := make([]types.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = Score(c, interests)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func containsAny(s string, markers []string) bool {
	if s == "" {
		return false
	}
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
