package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"PaperChat/internal/llm"
	"PaperChat/internal/models"
	"PaperChat/pkg/logger"

	"github.com/cloudwego/eino/schema"
)

const (
	// 排序后最多保留的论文数
	maxRankedPapers = 15
	// 单篇摘要送入模型的字符上限
	abstractDigestLimit = 500
)

// Ranker 把过滤后的候选列表交给 LLM 做相关性评分，
// 合并分数后稳定排序并截断
// 失败策略是宽松的：任何调用或解析失败都降级为未排序结果
// （分数/理由置 nil），绝不让这一步的失败打断整轮对话
type Ranker struct {
	llm llm.Client
}

func NewRanker(client llm.Client) *Ranker {
	return &Ranker{llm: client}
}

// rankEntry 模型约定返回的单条评分
type rankEntry struct {
	Index           int     `json:"index"`
	RelevanceScore  float64 `json:"relevance_score"`
	RelevanceReason string  `json:"relevance_reason"`
}

// Rank 对候选列表评分排序
// papers 应当是已经过 Filter 的列表；criteria 里的 include_keywords
// 作为排序偏好附在提示词里。输入不会被修改，返回的是新副本
func (r *Ranker) Rank(ctx context.Context, userNeed string, papers []*models.Paper, criteria models.FilterCriteria) []*models.Paper {
	if len(papers) == 0 {
		return []*models.Paper{}
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: llm.RankSystemPrompt},
		{Role: schema.User, Content: buildRankUserContent(userNeed, papers, criteria)},
	}

	content, err := r.llm.Complete(ctx, messages, llm.CompleteOptions{
		Temperature: 0,
		ExpectJSON:  true,
	})
	if err != nil {
		logger.Warn("排序调用失败，返回未排序结果: %v", err)
		return degradedResult(papers)
	}

	entries, err := parseRankResponse(content)
	if err != nil {
		logger.Warn("排序结果解析失败，返回未排序结果: %v", err)
		return degradedResult(papers)
	}

	scoreMap := make(map[int]rankEntry, len(entries))
	for _, e := range entries {
		scoreMap[e.Index] = e
	}

	// 模型漏掉的候选记 0 分而不是 nil，保证后面的排序是全序
	ranked := make([]*models.Paper, len(papers))
	for i, p := range papers {
		cp := *p
		if e, ok := scoreMap[i]; ok {
			score, reason := e.RelevanceScore, e.RelevanceReason
			cp.RelevanceScore = &score
			cp.RelevanceReason = &reason
		} else {
			zero, empty := 0.0, ""
			cp.RelevanceScore = &zero
			cp.RelevanceReason = &empty
		}
		ranked[i] = &cp
	}

	// 分数相同保持输入顺序，必须是稳定排序
	stableSortByScoreDesc(ranked)

	if len(ranked) > maxRankedPapers {
		ranked = ranked[:maxRankedPapers]
	}
	return ranked
}

// degradedResult 排序不可用时的降级路径：
// 顺序保持输入原样，分数和理由置 nil，截断到上限
func degradedResult(papers []*models.Paper) []*models.Paper {
	n := len(papers)
	if n > maxRankedPapers {
		n = maxRankedPapers
	}
	out := make([]*models.Paper, n)
	for i := 0; i < n; i++ {
		cp := *papers[i]
		cp.RelevanceScore = nil
		cp.RelevanceReason = nil
		out[i] = &cp
	}
	return out
}

func buildRankUserContent(userNeed string, papers []*models.Paper, criteria models.FilterCriteria) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "用户需求：%s\n", userNeed)
	if len(criteria.IncludeKeywords) > 0 {
		fmt.Fprintf(&sb, "偏好关键词（优先推荐包含这些方向的论文）：%s\n", strings.Join(criteria.IncludeKeywords, ", "))
	}
	sb.WriteString("\n候选论文：\n")
	for i, p := range papers {
		abstract := p.Abstract
		if len(abstract) > abstractDigestLimit {
			abstract = abstract[:abstractDigestLimit]
		}
		fmt.Fprintf(&sb, "[%d] Title: %s\nAbstract: %s\nDate: %s\nCategories: %s\n\n",
			i, p.Title, abstract, p.Published, p.CategoriesCSV())
	}
	return strings.TrimRight(sb.String(), "\n")
}

// parseRankResponse 兼容两种输出：纯数组，或用 papers/results 字段
// 包了一层的对象
func parseRankResponse(content string) ([]rankEntry, error) {
	cleaned := llm.StripMarkdownFence(content)

	var entries []rankEntry
	if err := json.Unmarshal([]byte(cleaned), &entries); err == nil {
		return entries, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err != nil {
		return nil, fmt.Errorf("既不是数组也不是对象: %w", err)
	}
	for _, key := range []string{"papers", "results"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("字段 %s 不是评分数组: %w", key, err)
		}
		return entries, nil
	}
	return nil, fmt.Errorf("对象中没有 papers/results 字段")
}

// stableSortByScoreDesc 按分数降序排序，分数相同保持原有相对顺序
func stableSortByScoreDesc(papers []*models.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return scoreOf(papers[i]) > scoreOf(papers[j])
	})
}

func scoreOf(p *models.Paper) float64 {
	if p.RelevanceScore == nil {
		return 0
	}
	return *p.RelevanceScore
}
