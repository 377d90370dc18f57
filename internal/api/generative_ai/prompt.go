package generativeAI

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func activityDraftPrompt(destination string, interests []types.Interest, activities []types.Activity) string {
	var b strings.Builder
	tags := make([]string, len(interests))
	for i, in := range interests {
		tags[i] = string(in)
	}

	fmt.Fprintf(&b, "你是一名熟悉%s的旅行规划师。旅行者的兴趣是：%s。\n", destination, strings.Join(tags, "、"))
	b.WriteString("请为下列每个行程活动写一句简短的中文描述（不超过40字）和一句推荐理由（不超过30字）。\n")
	b.WriteString("不要修改活动名称、时间或费用，不要新增或删除活动。\n\n活动列表：\n")
	for _, a := range activities {
		fmt.Fprintf(&b, "- id=%s | %s | %s-%s | %s | 约%.0f元\n",
			a.ID, a.Name, a.StartTime, a.EndTime, a.Category.Label(), a.Cost)
	}
	b.WriteString(`
只返回如下 JSON，不要包含其他文字：
{"activities":[{"id":"<活动id>","description":"<描述>","recommendationReason":"<推荐理由>"}]}`)
	return b.String()
}
