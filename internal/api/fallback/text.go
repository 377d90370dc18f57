package fallback

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Describe writes the activity description shown when no drafting service filled it in.
func Describe(a types.Activity) string {
	switch a.Category {
	case types.CategoryRestaurant:
		if a.StartTime >= "17:00" {
			return fmt.Sprintf("在%s享用晚餐，品尝当地特色菜。", a.Name)
		}
		return fmt.Sprintf("在%s享用午餐，体验地道风味。", a.Name)
	case types.CategoryHotel:
		return fmt.Sprintf("入住%s，休息调整，为第二天的行程养精蓄锐。", a.Name)
	case types.CategoryLeisure:
		return fmt.Sprintf("前往%s放松休闲，感受城市的生活气息。", a.Name)
	default:
		if a.StartTime < "12:00" {
			return fmt.Sprintf("上午游览%s，了解当地历史与人文。", a.Name)
		}
		return fmt.Sprintf("下午参观%s，慢慢感受城市风貌。", a.Name)
	}
}

// Reason explains why the activity was picked.
func Reason(a types.Activity) string {
	if len(a.MatchedInterests) > 0 {
		tags := make([]string, len(a.MatchedInterests))
		for i, m := range a.MatchedInterests {
			tags[i] = "「" + string(m) + "」"
		}
		return fmt.Sprintf("契合您的%s兴趣", strings.Join(tags, ""))
	}
	switch a.Category {
	case types.CategoryRestaurant:
		return "当地口碑餐厅，评价较高"
	case types.CategoryHotel:
		return "价格在当日住宿预算之内，交通便利"
	case types.CategoryLeisure:
		return "适合午后放松的热门去处"
	}
	return "当地热门景点"
}

// ArrivalNote and ReturnNote annotate the first and last day plans.
func ArrivalNote(t types.Transportation, destination string) string {
	return fmt.Sprintf("乘%s抵达%s，前往酒店寄存行李", t.Mode, ShortName(destination))
}

func ReturnNote(t types.Transportation, departure string) string {
	if departure == "" {
		return "行程结束，整理行李返程"
	}
	return fmt.Sprintf("行程结束，乘%s返回%s", t.Mode, ShortName(departure))
}

// Title is the default itinerary title.
func Title(destination string, days int) string {
	return fmt.Sprintf("%s%d日游", ShortName(destination), days)
}
