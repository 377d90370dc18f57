package types

import "strings"

// Interest is a user-selected tag that biases scoring and per-day rotation.
type Interest string

const (
	InterestHistory   Interest = "历史文化"
	InterestFood      Interest = "美食体验"
	InterestNature    Interest = "自然风光"
	InterestShopping  Interest = "购物娱乐"
	InterestArt       Interest = "艺术展览"
	InterestLeisure   Interest = "休闲放松"
	InterestOutdoor   Interest = "户外运动"
	InterestFamily    Interest = "亲子游乐"
	InterestNightlife Interest = "夜生活"
)

// DefaultInterests is applied when a request carries no interest tags.
var DefaultInterests = []Interest{InterestHistory, InterestFood}

// KnownInterests lists every tag with a keyword table.
var KnownInterests = []Interest{
	InterestHistory, InterestFood, InterestNature, InterestShopping, InterestArt,
	InterestLeisure, InterestOutdoor, InterestFamily, InterestNightlife,
}

// Keywords returns the substrings that make a POI name or type label match the tag.
// Tags outside the known set have no keywords and never match.
func (i Interest) Keywords() []string {
	switch i {
	case InterestHistory:
		return []string{"博物馆", "纪念馆", "故居", "遗址", "古城", "古镇", "古迹", "历史", "文化", "寺", "庙", "祠", "塔", "陵", "书院", "宫"}
	case InterestFood:
		return []string{"餐厅", "美食", "小吃", "饭店", "菜馆", "饭庄", "酒楼", "火锅", "烧烤", "面馆", "餐饮", "食府"}
	case InterestNature:
		return []string{"公园", "山", "湖", "湿地", "森林", "植物园", "风景", "江", "河", "海", "瀑布", "峡谷"}
	case InterestShopping:
		return []string{"商场", "购物", "步行街", "商业街", "百货", "市场", "影城", "广场"}
	case InterestArt:
		return []string{"美术馆", "艺术", "画廊", "展览", "剧院", "音乐厅", "文创"}
	case InterestLeisure:
		return []string{"茶馆", "茶楼", "咖啡", "温泉", "书店", "休闲", "足浴", "水疗"}
	case InterestOutdoor:
		return []string{"登山", "徒步", "骑行", "体育", "运动", "滑雪", "漂流", "露营"}
	case InterestFamily:
		return []string{"动物园", "游乐园", "乐园", "海洋馆", "科技馆", "儿童"}
	case InterestNightlife:
		return []string{"酒吧", "夜市", "夜景", "演艺", "清吧", "livehouse"}
	}
	return nil
}

var interestAliases = map[string]Interest{
	"history":            InterestHistory,
	"history & culture":  InterestHistory,
	"culture":            InterestHistory,
	"food":               InterestFood,
	"nature":             InterestNature,
	"shopping":           InterestShopping,
	"art":                InterestArt,
	"relax":              InterestLeisure,
	"leisure":            InterestLeisure,
	"outdoor":            InterestOutdoor,
	"family":             InterestFamily,
	"nightlife":          InterestNightlife,
	"shopping & leisure": InterestShopping,
}

// ParseInterest normalises an incoming tag, mapping English aliases onto the canonical tags.
func ParseInterest(s string) Interest {
	s = strings.TrimSpace(s)
	if alias, ok := interestAliases[strings.ToLower(s)]; ok {
		return alias
	}
	return Interest(s)
}

// Matches reports whether any keyword of the tag occurs in one of the texts.
func (i Interest) Matches(texts ...string) bool {
	for _, kw := range i.Keywords() {
		for _, t := range texts {
			if t != "" && strings.Contains(strings.ToLower(t), kw) {
				return true
			}
		}
	}
	return false
}
