package chat

import (
	"context"
	"fmt"

	"PaperChat/internal/llm"
	"PaperChat/internal/models"
	"PaperChat/pkg/logger"

	"github.com/cloudwego/eino/schema"
)

// 闲聊回复携带的历史消息上限
const replyHistoryWindow = 6

// 论文解读与闲聊回复的生成温度
const (
	detailTemperature = 0.3
	replyTemperature  = 0.7
)

// Fetcher 候选论文获取接口，由 arXiv 平台适配器实现
type Fetcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]*models.Paper, error)
}

// TurnResult 一轮对话的完整结果，reply 和 papers 永远同时给出
type TurnResult struct {
	Reply       string
	Papers      []*models.Paper
	SearchQuery string // 本轮实际使用的检索词，没有则为空
}

// Orchestrator 对话编排器，按分类出的意图驱动 获取→过滤→排序→组装回复
// 轮与轮之间不保存任何状态，连续性完全由调用方回传的 currentPapers 承载，
// 因此可以被任意多轮并发调用
type Orchestrator struct {
	classifier *Classifier
	fetcher    Fetcher
	ranker     *Ranker
	llm        llm.Client
	maxResults int
}

func NewOrchestrator(classifier *Classifier, fetcher Fetcher, ranker *Ranker, client llm.Client, maxResults int) *Orchestrator {
	if maxResults <= 0 {
		maxResults = 25
	}
	return &Orchestrator{
		classifier: classifier,
		fetcher:    fetcher,
		ranker:     ranker,
		llm:        client,
		maxResults: maxResults,
	}
}

// ProcessTurn 处理一轮对话，核心的唯一入口
// 分类失败（IntentParseError）和检索失败原样上抛；排序失败走降级路径
func (o *Orchestrator) ProcessTurn(ctx context.Context, message string, history []models.ChatMessage, currentPapers []*models.Paper) (*TurnResult, error) {
	intent, err := o.classifier.Classify(ctx, message, history, currentPapers)
	if err != nil {
		return nil, err
	}

	logger.Info("本轮意图: %s, query=%q", intent.Type, intent.ArxivQuery)

	switch {
	case intent.Type == models.IntentNewSearch && intent.ArxivQuery != "":
		return o.handleNewSearch(ctx, message, intent)
	case intent.Type == models.IntentRefine:
		return o.handleRefine(ctx, message, intent, currentPapers)
	case intent.Type == models.IntentDetail && intent.PaperIndex != nil:
		return o.handleDetail(ctx, message, history, *intent.PaperIndex, currentPapers)
	default:
		// 未识别的意图值一律按闲聊处理
		return o.handleGeneral(ctx, message, history, currentPapers)
	}
}

func (o *Orchestrator) handleNewSearch(ctx context.Context, message string, intent *models.Intent) (*TurnResult, error) {
	candidates, err := o.fetcher.Search(ctx, intent.ArxivQuery, o.maxResults)
	if err != nil {
		return nil, fmt.Errorf("arXiv 检索失败: %w", err)
	}

	filtered := Filter(candidates, intent.Filter)
	ranked := o.ranker.Rank(ctx, message, filtered, intent.Filter)

	reply := fmt.Sprintf(
		"根据你的需求「%s」，我从arXiv搜索了相关论文（关键词: %s），为你推荐了 %d 篇最相关的论文，已按相关性排序。你可以继续描述需求来细化筛选。",
		intent.Explanation, intent.ArxivQuery, len(ranked))

	return &TurnResult{
		Reply:       reply,
		Papers:      ranked,
		SearchQuery: intent.ArxivQuery,
	}, nil
}

func (o *Orchestrator) handleRefine(ctx context.Context, message string, intent *models.Intent, currentPapers []*models.Paper) (*TurnResult, error) {
	papersToRank := currentPapers

	// 带新检索词时补一批候选，新批次排在前面，去重时占位优先
	if intent.ArxivQuery != "" {
		candidates, err := o.fetcher.Search(ctx, intent.ArxivQuery, o.maxResults)
		if err != nil {
			return nil, fmt.Errorf("arXiv 检索失败: %w", err)
		}
		papersToRank = dedupeByID(append(candidates, currentPapers...))
	}

	filtered := Filter(papersToRank, intent.Filter)
	ranked := o.ranker.Rank(ctx, message, filtered, intent.Filter)

	return &TurnResult{
		Reply:       fmt.Sprintf("已根据你的要求重新筛选，当前展示 %d 篇论文。", len(ranked)),
		Papers:      ranked,
		SearchQuery: intent.ArxivQuery,
	}, nil
}

func (o *Orchestrator) handleDetail(ctx context.Context, message string, history []models.ChatMessage, paperIndex int, currentPapers []*models.Paper) (*TurnResult, error) {
	// 编号从 1 开始；越界不报错，给出解释性回复，列表原样保留
	if paperIndex < 1 || paperIndex > len(currentPapers) {
		return &TurnResult{
			Reply:  fmt.Sprintf("没有找到第 %d 篇论文，当前列表共 %d 篇。", paperIndex, len(currentPapers)),
			Papers: currentPapers,
		}, nil
	}

	paper := currentPapers[paperIndex-1]

	// 用户研究兴趣取最近一条用户消息，历史里没有就用当前消息
	userNeed := message
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleUser {
			userNeed = history[i].Content
			break
		}
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: llm.DetailSystemPrompt},
		{
			Role: schema.User,
			Content: fmt.Sprintf("用户研究兴趣：%s\n\n论文标题：%s\n作者：%s\n摘要：%s",
				userNeed, paper.Title, paper.AuthorsCSV(), paper.Abstract),
		},
	}

	detail, err := o.llm.Complete(ctx, messages, llm.CompleteOptions{Temperature: detailTemperature})
	if err != nil {
		return nil, fmt.Errorf("生成论文解读失败: %w", err)
	}

	return &TurnResult{
		Reply:  detail,
		Papers: currentPapers,
	}, nil
}

func (o *Orchestrator) handleGeneral(ctx context.Context, message string, history []models.ChatMessage, currentPapers []*models.Paper) (*TurnResult, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: llm.ReplySystemPrompt},
	}
	for _, m := range lastTurns(history, replyHistoryWindow) {
		messages = append(messages, historyMessage(m))
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: message})

	reply, err := o.llm.Complete(ctx, messages, llm.CompleteOptions{Temperature: replyTemperature})
	if err != nil {
		return nil, fmt.Errorf("生成回复失败: %w", err)
	}

	return &TurnResult{
		Reply:  reply,
		Papers: currentPapers,
	}, nil
}

// dedupeByID 按 arxiv_id 去重，保留首次出现的位置
func dedupeByID(papers []*models.Paper) []*models.Paper {
	seen := make(map[string]struct{}, len(papers))
	unique := make([]*models.Paper, 0, len(papers))
	for _, p := range papers {
		if _, ok := seen[p.ArxivID]; ok {
			continue
		}
		seen[p.ArxivID] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
