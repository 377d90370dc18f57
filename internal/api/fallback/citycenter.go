package fallback

import (
	"math"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type cityCenter struct {
	key    string
	center types.Coordinates
}

// Cities are matched before provinces so "河北邯郸" resolves to 邯郸, not 石家庄.
var cityCenters = []cityCenter{
	{"北京", types.Coordinates{Lat: 39.9042, Lng: 116.4074}},
	{"上海", types.Coordinates{Lat: 31.2304, Lng: 121.4737}},
	{"广州", types.Coordinates{Lat: 23.1291, Lng: 113.2644}},
	{"深圳", types.Coordinates{Lat: 22.5431, Lng: 114.0579}},
	{"天津", types.Coordinates{Lat: 39.3434, Lng: 117.3616}},
	{"重庆", types.Coordinates{Lat: 29.5630, Lng: 106.5516}},
	{"杭州", types.Coordinates{Lat: 30.2741, Lng: 120.1551}},
	{"南京", types.Coordinates{Lat: 32.0603, Lng: 118.7969}},
	{"苏州", types.Coordinates{Lat: 31.2990, Lng: 120.5853}},
	{"成都", types.Coordinates{Lat: 30.5728, Lng: 104.0668}},
	{"西安", types.Coordinates{Lat: 34.3416, Lng: 108.9398}},
	{"武汉", types.Coordinates{Lat: 30.5928, Lng: 114.3055}},
	{"长沙", types.Coordinates{Lat: 28.2282, Lng: 112.9388}},
	{"郑州", types.Coordinates{Lat: 34.7466, Lng: 113.6254}},
	{"洛阳", types.Coordinates{Lat: 34.6197, Lng: 112.4540}},
	{"开封", types.Coordinates{Lat: 34.7972, Lng: 114.3076}},
	{"邯郸", types.Coordinates{Lat: 36.6256, Lng: 114.5391}},
	{"石家庄", types.Coordinates{Lat: 38.0428, Lng: 114.5149}},
	{"保定", types.Coordinates{Lat: 38.8739, Lng: 115.4646}},
	{"承德", types.Coordinates{Lat: 40.9515, Lng: 117.9634}},
	{"秦皇岛", types.Coordinates{Lat: 39.9354, Lng: 119.6005}},
	{"济南", types.Coordinates{Lat: 36.6512, Lng: 117.1201}},
	{"青岛", types.Coordinates{Lat: 36.0671, Lng: 120.3826}},
	{"太原", types.Coordinates{Lat: 37.8706, Lng: 112.5489}},
	{"大同", types.Coordinates{Lat: 40.0768, Lng: 113.3001}},
	{"厦门", types.Coordinates{Lat: 24.4798, Lng: 118.0894}},
	{"福州", types.Coordinates{Lat: 26.0745, Lng: 119.2965}},
	{"昆明", types.Coordinates{Lat: 25.0389, Lng: 102.7183}},
	{"大理", types.Coordinates{Lat: 25.6065, Lng: 100.2676}},
	{"丽江", types.Coordinates{Lat: 26.8721, Lng: 100.2299}},
	{"桂林", types.Coordinates{Lat: 25.2740, Lng: 110.2900}},
	{"三亚", types.Coordinates{Lat: 18.2528, Lng: 109.5119}},
	{"海口", types.Coordinates{Lat: 20.0444, Lng: 110.1999}},
	{"哈尔滨", types.Coordinates{Lat: 45.8038, Lng: 126.5350}},
	{"沈阳", types.Coordinates{Lat: 41.8057, Lng: 123.4315}},
	{"大连", types.Coordinates{Lat: 38.9140, Lng: 121.6147}},
	{"长春", types.Coordinates{Lat: 43.8171, Lng: 125.3235}},
	{"兰州", types.Coordinates{Lat: 36.0611, Lng: 103.8343}},
	{"拉萨", types.Coordinates{Lat: 29.6500, Lng: 91.1000}},
	{"乌鲁木齐", types.Coordinates{Lat: 43.8256, Lng: 87.6168}},
	{"贵阳", types.Coordinates{Lat: 26.6470, Lng: 106.6302}},
	{"南宁", types.Coordinates{Lat: 22.8170, Lng: 108.3665}},
	{"合肥", types.Coordinates{Lat: 31.8206, Lng: 117.2272}},
	{"南昌", types.Coordinates{Lat: 28.6820, Lng: 115.8579}},
	{"黄山", types.Coordinates{Lat: 29.7147, Lng: 118.3375}},
}

var provinceCenters = []cityCenter{
	{"河北", types.Coordinates{Lat: 38.0428, Lng: 114.5149}},
	{"河南", types.Coordinates{Lat: 34.7466, Lng: 113.6254}},
	{"山东", types.Coordinates{Lat: 36.6512, Lng: 117.1201}},
	{"山西", types.Coordinates{Lat: 37.8706, Lng: 112.5489}},
	{"江苏", types.Coordinates{Lat: 32.0603, Lng: 118.7969}},
	{"浙江", types.Coordinates{Lat: 30.2741, Lng: 120.1551}},
	{"安徽", types.Coordinates{Lat: 31.8206, Lng: 117.2272}},
	{"福建", types.Coordinates{Lat: 26.0745, Lng: 119.2965}},
	{"江西", types.Coordinates{Lat: 28.6820, Lng: 115.8579}},
	{"湖北", types.Coordinates{Lat: 30.5928, Lng: 114.3055}},
	{"湖南", types.Coordinates{Lat: 28.2282, Lng: 112.9388}},
	{"广东", types.Coordinates{Lat: 23.1291, Lng: 113.2644}},
	{"广西", types.Coordinates{Lat: 22.8170, Lng: 108.3665}},
	{"海南", types.Coordinates{Lat: 20.0444, Lng: 110.1999}},
	{"四川", types.Coordinates{Lat: 30.5728, Lng: 104.0668}},
	{"贵州", types.Coordinates{Lat: 26.6470, Lng: 106.6302}},
	{"云南", types.Coordinates{Lat: 25.0389, Lng: 102.7183}},
	{"陕西", types.Coordinates{Lat: 34.3416, Lng: 108.9398}},
	{"甘肃", types.Coordinates{Lat: 36.0611, Lng: 103.8343}},
	{"辽宁", types.Coordinates{Lat: 41.8057, Lng: 123.4315}},
	{"吉林", types.Coordinates{Lat: 43.8171, Lng: 125.3235}},
	{"黑龙江", types.Coordinates{Lat: 45.8038, Lng: 126.5350}},
	{"西藏", types.Coordinates{Lat: 29.6500, Lng: 91.1000}},
	{"新疆", types.Coordinates{Lat: 43.8256, Lng: 87.6168}},
	{"内蒙古", types.Coordinates{Lat: 40.8426, Lng: 111.7492}},
	{"宁夏", types.Coordinates{Lat: 38.4872, Lng: 106.2309}},
	{"青海", types.Coordinates{Lat: 36.6171, Lng: 101.7782}},
}

// DefaultCenter is used when the destination matches nothing in the tables.
var DefaultCenter = types.Coordinates{Lat: 39.9042, Lng: 116.4074}

// EstimateCenter guesses a city-center coordinate from the destination name.
func EstimateCenter(destination string) types.Coordinates {
	for _, table := range [][]cityCenter{cityCenters, provinceCenters} {
		for _, c := range table {
			if strings.Contains(destination, c.key) {
				return c.center
			}
		}
	}
	return DefaultCenter
}

// Distance calculates the great-circle distance in kilometers using the Haversine formula.
func Distance(a, b types.Coordinates) float64 {
	const R = 6371

	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlon := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return R * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
