package chat

import "fmt"

// IntentParseError 分类器返回了无法解析或缺字段的 JSON
// 这是整轮对话的致命错误：猜错意图比失败更危险，所以不做静默兜底，
// 与 Ranker 的宽松降级策略刻意相反
type IntentParseError struct {
	Raw string // 模型原始输出，便于排查
	Err error
}

func (e *IntentParseError) Error() string {
	return fmt.Sprintf("意图解析失败: %v", e.Err)
}

func (e *IntentParseError) Unwrap() error { return e.Err }
