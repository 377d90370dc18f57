// Package fallback synthesizes plausible destination data without any network access.
// Output is a pure function of its arguments so the same request always degrades the same way.
package fallback

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type poiTemplate struct {
	suffix       string
	typeLabel    string
	cost         float64
	rating       float64
	businessArea string
}

var attractionTemplates = []poiTemplate{
	{"博物馆", "科教文化服务;博物馆;博物馆", 0, 4.7, "市中心"},
	{"古城", "风景名胜;风景名胜;国家级景点", 40, 4.5, ""},
	{"老街", "风景名胜;风景名胜相关;旅游景点", 0, 4.4, "老城区"},
	{"人民公园", "风景名胜;公园广场;公园", 0, 4.3, "市中心"},
	{"文化中心", "科教文化服务;文化宫;文化宫", 20, 4.2, "新区"},
	{"中心广场", "风景名胜;公园广场;城市广场", 0, 4.1, "市中心"},
	{"植物园", "风景名胜;公园广场;植物园", 30, 4.4, ""},
	{"美术馆", "科教文化服务;美术馆;美术馆", 0, 4.5, "新区"},
	{"历史文化街区", "风景名胜;风景名胜;省级景点", 0, 4.3, "老城区"},
	{"湿地公园", "风景名胜;公园广场;公园", 15, 4.4, ""},
	{"纪念馆", "科教文化服务;博物馆;纪念馆", 0, 4.5, ""},
	{"观景塔", "风景名胜;风景名胜;观景点", 65, 4.0, "市中心"},
}

var restaurantTemplates = []poiTemplate{
	{"老字号饭庄", "餐饮服务;中餐厅;特色/地方风味餐厅", 120, 4.6, "老城区"},
	{"特色小吃城", "餐饮服务;快餐厅;快餐厅", 45, 4.4, "市中心"},
	{"地方菜馆", "餐饮服务;中餐厅;中餐厅", 90, 4.5, ""},
	{"风味面馆", "餐饮服务;中餐厅;特色/地方风味餐厅", 30, 4.3, ""},
	{"家常菜馆", "餐饮服务;中餐厅;综合酒楼", 70, 4.2, "新区"},
	{"美食街", "餐饮服务;餐饮相关场所;餐饮相关", 60, 4.3, "市中心"},
	{"火锅店", "餐饮服务;中餐厅;火锅店", 110, 4.4, ""},
	{"宴宾酒楼", "餐饮服务;中餐厅;综合酒楼", 160, 4.3, "市中心"},
	{"素食餐厅", "餐饮服务;中餐厅;素菜馆", 80, 4.2, ""},
	{"夜市烧烤", "餐饮服务;中餐厅;特色/地方风味餐厅", 55, 4.1, "老城区"},
	{"茶餐厅", "餐饮服务;外国餐厅;港式茶餐厅", 65, 4.0, ""},
	{"私房菜馆", "餐饮服务;中餐厅;私房菜", 200, 4.6, ""},
}

var leisureTemplates = []poiTemplate{
	{"步行街", "购物服务;特色商业街;步行街", 0, 4.4, "市中心"},
	{"茶馆", "休闲娱乐;休闲场所;茶艺馆", 60, 4.5, "老城区"},
	{"购物中心", "购物服务;商场;购物中心", 0, 4.2, "市中心"},
	{"书店", "购物服务;文化用品店;书店", 30, 4.5, ""},
	{"夜市", "购物服务;特色商业街;特色商业街", 40, 4.3, "老城区"},
	{"咖啡馆", "餐饮服务;咖啡厅;咖啡厅", 35, 4.2, "新区"},
	{"温泉会馆", "休闲娱乐;度假疗养场所;度假村", 150, 4.3, ""},
	{"剧场", "休闲娱乐;剧场;剧场", 80, 4.4, "市中心"},
	{"滨河绿道", "风景名胜;公园广场;公园", 0, 4.3, ""},
	{"文创园", "休闲娱乐;休闲场所;文创园区", 0, 4.1, "新区"},
}

var hotelTemplates = map[types.TravelStyle][]poiTemplate{
	types.TravelStyleBudget: {
		{"悦居宾馆", "住宿服务;宾馆酒店;经济型酒店", 168, 4.2, "市中心"},
		{"老城客栈", "住宿服务;旅馆招待所;客栈", 198, 4.4, "老城区"},
		{"站前快捷酒店", "住宿服务;宾馆酒店;经济型酒店", 138, 4.0, ""},
		{"青年旅舍", "住宿服务;旅馆招待所;青年旅舍", 98, 4.3, ""},
		{"舒适宾馆", "住宿服务;宾馆酒店;经济型酒店", 218, 4.1, "新区"},
	},
	types.TravelStyleComfort: {
		{"花园酒店", "住宿服务;宾馆酒店;四星级宾馆", 288, 4.5, ""},
		{"精品酒店", "住宿服务;宾馆酒店;宾馆酒店", 328, 4.6, "市中心"},
		{"国际大酒店", "住宿服务;宾馆酒店;四星级宾馆", 368, 4.4, "市中心"},
		{"湖景酒店", "住宿服务;宾馆酒店;四星级宾馆", 418, 4.5, ""},
		{"商旅酒店", "住宿服务;宾馆酒店;三星级宾馆", 258, 4.3, "新区"},
	},
	types.TravelStyleLuxury: {
		{"大饭店", "住宿服务;宾馆酒店;五星级宾馆", 680, 4.7, "市中心"},
		{"江景豪华酒店", "住宿服务;宾馆酒店;五星级宾馆", 880, 4.8, ""},
		{"度假酒店", "住宿服务;宾馆酒店;五星级宾馆", 980, 4.7, ""},
		{"行政公寓酒店", "住宿服务;宾馆酒店;五星级宾馆", 1180, 4.6, "新区"},
	},
}

// Offsets applied to the estimated city center, in degrees.
var offsets = []types.Coordinates{
	{Lat: 0.012, Lng: 0.008}, {Lat: -0.009, Lng: 0.015}, {Lat: 0.004, Lng: -0.011},
	{Lat: -0.015, Lng: -0.006}, {Lat: 0.018, Lng: 0.003}, {Lat: -0.002, Lng: 0.021},
	{Lat: 0.007, Lng: -0.019}, {Lat: -0.021, Lng: 0.010}, {Lat: 0.025, Lng: -0.004},
	{Lat: -0.006, Lng: -0.024}, {Lat: 0.014, Lng: 0.027}, {Lat: -0.027, Lng: -0.015},
}

var districts = []string{"中心城区", "老城区", "新区", "开发区"}

// Cost ranges per category, used when a live candidate carries no price.
var costRanges = map[types.Category][2]float64{
	types.CategoryAttraction: {0, 65},
	types.CategoryRestaurant: {20, 200},
	types.CategoryLeisure:    {0, 100},
}

var hotelRanges = map[types.TravelStyle][2]float64{
	types.TravelStyleBudget:  {98, 228},
	types.TravelStyleComfort: {258, 480},
	types.TravelStyleLuxury:  {600, 1300},
}

// Synthesizer is stateless; the zero value is ready to use.
type Synthesizer struct{}

func New() *Synthesizer {
	return &Synthesizer{}
}

// ShortName drops a trailing administrative suffix so names read "邯郸博物馆" not "邯郸市博物馆".
func ShortName(destination string) string {
	name := strings.TrimSpace(destination)
	for _, suffix := range []string{"市", "县", "区"} {
		if trimmed := strings.TrimSuffix(name, suffix); trimmed != "" && trimmed != name {
			return trimmed
		}
	}
	return name
}

// Candidates returns the synthetic candidate pool for one destination and category.
// For hotels, level picks the tier; the next cheaper tier is appended so budget matching has options.
func (s *Synthesizer) Candidates(destination string, category types.Category, level types.TravelStyle) []types.POICandidate {
	var templates []poiTemplate
	switch category {
	case types.CategoryAttraction:
		templates = attractionTemplates
	case types.CategoryRestaurant:
		templates = restaurantTemplates
	case types.CategoryLeisure:
		templates = leisureTemplates
	case types.CategoryHotel:
		templates = hotelsFor(level)
	default:
		return nil
	}

	short := ShortName(destination)
	center := EstimateCenter(destination)
	out := make([]types.POICandidate, 0, len(templates))
	for i, t := range templates {
		off := offsets[i%len(offsets)]
		name := short + t.suffix
		out = append(out, types.POICandidate{
			ID:      syntheticID(destination, category, name),
			Name:    name,
			Address: fmt.Sprintf("%s%s%s附近", short, districts[i%len(districts)], t.suffix),
			Coordinates: types.Coordinates{
				Lat: round6(center.Lat + off.Lat),
				Lng: round6(center.Lng + off.Lng),
			},
			Category:       category,
			Rating:         types.Ptr(t.rating),
			Cost:           types.Ptr(t.cost),
			PopularityHint: types.Ptr(math.Max(0, 100-5*float64(i))),
			TypeLabel:      t.typeLabel,
			BusinessArea:   t.businessArea,
			Source:         types.SourceFallback,
		})
	}
	return out
}

func hotelsFor(level types.TravelStyle) []poiTemplate {
	switch level {
	case types.TravelStyleLuxury:
		return append(append([]poiTemplate{}, hotelTemplates[types.TravelStyleLuxury]...), hotelTemplates[types.TravelStyleComfort]...)
	case types.TravelStyleComfort:
		return append(append([]poiTemplate{}, hotelTemplates[types.TravelStyleComfort]...), hotelTemplates[types.TravelStyleBudget]...)
	default:
		return append([]poiTemplate{}, hotelTemplates[types.TravelStyleBudget]...)
	}
}

// HotelLevel matches the per-day accommodation budget against the hotel tiers,
// never exceeding the tier the traveller asked for.
func HotelLevel(accommodationBudget float64, style types.TravelStyle) types.TravelStyle {
	level := types.TravelStyleBudget
	switch {
	case accommodationBudget >= hotelRanges[types.TravelStyleLuxury][0]:
		level = types.TravelStyleLuxury
	case accommodationBudget >= hotelRanges[types.TravelStyleComfort][0]-40:
		level = types.TravelStyleComfort
	}
	if style.Valid() && style.Rank() < level.Rank() {
		return style
	}
	return level
}

// EstimateCost gives a deterministic price for a candidate that arrived without one.
func (s *Synthesizer) EstimateCost(category types.Category, name string, level types.TravelStyle) float64 {
	r, ok := costRanges[category]
	if category == types.CategoryHotel {
		if !level.Valid() {
			level = types.TravelStyleComfort
		}
		r, ok = hotelRanges[level]
	}
	if !ok {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	span := r[1] - r[0]
	return math.Round(r[0] + float64(h.Sum32()%1000)/1000*span)
}

// FreeTime builds the placeholder candidate used when a category pool is exhausted.
// The day and slot are part of the name so placeholders never collide with each other.
func (s *Synthesizer) FreeTime(destination string, category types.Category, day int, slotLabel string, cost float64) types.POICandidate {
	short := ShortName(destination)
	var name, typeLabel string
	switch category {
	case types.CategoryRestaurant:
		name = fmt.Sprintf("%s自选美食 · 第%d天%s", short, day, slotLabel)
		typeLabel = "餐饮服务;自选"
	case types.CategoryHotel:
		name = fmt.Sprintf("%s自选住宿 · 第%d天", short, day)
		typeLabel = "住宿服务;自选"
	case types.CategoryLeisure:
		name = fmt.Sprintf("%s自由活动 · 第%d天%s", short, day, slotLabel)
		typeLabel = "休闲娱乐;自由活动"
	default:
		name = fmt.Sprintf("%s城市漫步 · 第%d天%s", short, day, slotLabel)
		typeLabel = "风景名胜;自由活动"
	}
	center := EstimateCenter(destination)
	return types.POICandidate{
		ID:          syntheticID(destination, category, name),
		Name:        name,
		Address:     short + "市区",
		Coordinates: center,
		Category:    category,
		Cost:        types.Ptr(math.Round(cost)),
		TypeLabel:   typeLabel,
		Source:      types.SourceFallback,
	}
}

func syntheticID(destination string, category types.Category, name string) string {
	h := fnv.New64a()
	h.Write([]byte(destination))
	h.Write([]byte{0})
	h.Write([]byte(category))
	h.Write([]byte{0})
	h.Write([]byte(name))
	return fmt.Sprintf("fb-%016x", h.Sum64())
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
