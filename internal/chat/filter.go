package chat

import (
	"strings"

	"PaperChat/internal/models"
)

// Filter 对候选列表应用筛选条件，纯函数，不发起任何外部调用
// - 日期上下界含边界，YYYY-MM-DD 字符串的字典序即时间序
// - exclude_keywords 命中任意一个（标题+摘要的不区分大小写子串）即丢弃
// - include_keywords 不在这里过滤，只透传给 Ranker 作为偏好提示
// - categories 在 schema 中接受但刻意不生效，保持与既有行为一致
// 全部被滤掉时返回空列表，不报错
func Filter(papers []*models.Paper, criteria models.FilterCriteria) []*models.Paper {
	if criteria.IsZero() {
		return papers
	}

	filtered := make([]*models.Paper, 0, len(papers))
	for _, p := range papers {
		if criteria.DateFrom != "" && p.Published < criteria.DateFrom {
			continue
		}
		if criteria.DateTo != "" && p.Published > criteria.DateTo {
			continue
		}
		if matchesAnyKeyword(p, criteria.ExcludeKeywords) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesAnyKeyword(p *models.Paper, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	haystack := strings.ToLower(p.Title + p.Abstract)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
