package platform

import (
	"context"

	"PaperChat/internal/models"
)

// Query 平台检索参数，由编排层根据分类出的意图拼装
type Query struct {
	Query      string // 英文检索词，平台自行决定如何构造请求
	MaxResults int    // 0 时由平台取默认值
}

// Result 检索结果
type Result struct {
	Total  int
	Papers []*models.Paper
}

// Platform 论文检索平台接口，目前只有 arXiv 一个实现，
// 但保留接口方便以后接入 OpenReview / ACL 等平台
type Platform interface {
	Name() string

	// Search 执行一次检索，返回结果不保证按相关性排序，
	// 最终排序由 Ranker 负责
	Search(ctx context.Context, q Query) (Result, error)

	GetConfig() Config
}

type Config interface {
	Validate() error
}
