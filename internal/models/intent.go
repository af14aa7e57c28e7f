package models

// IntentType 分类器给出的意图类型
type IntentType string

const (
	IntentNewSearch IntentType = "new_search" // 搜索新的论文主题
	IntentRefine    IntentType = "refine"     // 在当前列表基础上细化筛选
	IntentDetail    IntentType = "detail"     // 查看某篇论文的详细解读
	IntentGeneral   IntentType = "general"    // 闲聊或其他
)

// Intent 一轮对话的分类结果，每轮恰好一个
// Type 未在上面四种之内时按 general 处理（在编排层兜底，而非解析层）
type Intent struct {
	Type        IntentType
	ArxivQuery  string
	Filter      FilterCriteria
	PaperIndex  *int // detail 时用户提到的论文编号，从 1 开始
	Explanation string
}

// FilterCriteria 从用户意图中抽取的结构化筛选条件
// ExcludeKeywords 是硬过滤，IncludeKeywords 只作为排序时的偏好提示，
// 二者的不对称是刻意保留的行为
type FilterCriteria struct {
	DateFrom        string   `json:"date_from"` // YYYY-MM-DD，含边界
	DateTo          string   `json:"date_to"`   // YYYY-MM-DD，含边界
	Categories      []string `json:"categories"`
	ExcludeKeywords []string `json:"exclude_keywords"`
	IncludeKeywords []string `json:"include_keywords"`
}

// IsZero 判断是否没有任何筛选条件
func (c FilterCriteria) IsZero() bool {
	return c.DateFrom == "" && c.DateTo == "" &&
		len(c.Categories) == 0 && len(c.ExcludeKeywords) == 0 && len(c.IncludeKeywords) == 0
}
