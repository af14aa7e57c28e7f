package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"PaperChat/internal/llm"
	"PaperChat/internal/models"

	"github.com/cloudwego/eino/schema"
)

// 发给分类器的历史消息上限，避免请求无限膨胀
const intentHistoryWindow = 10

// Classifier 意图分类器，把一条用户消息连同上下文交给 LLM，
// 解析出本轮恰好一个 Intent
type Classifier struct {
	llm llm.Client
}

func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{llm: client}
}

// intentPayload 分类器约定的 JSON 输出结构
type intentPayload struct {
	Intent      string                `json:"intent"`
	ArxivQuery  string                `json:"arxiv_query"`
	Filter      models.FilterCriteria `json:"filter_criteria"`
	PaperIndex  *int                  `json:"paper_index"`
	Explanation string                `json:"explanation"`
}

// Classify 分类当前消息的意图
// 历史只取最后 10 条；当前论文列表非空时附带编号摘要，
// 让模型能解析"第三篇"这类序数指代
func (c *Classifier) Classify(ctx context.Context, message string, history []models.ChatMessage, currentPapers []*models.Paper) (*models.Intent, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: llm.IntentSystemPrompt},
	}
	for _, m := range lastTurns(history, intentHistoryWindow) {
		messages = append(messages, historyMessage(m))
	}
	messages = append(messages, &schema.Message{
		Role:    schema.User,
		Content: message + papersContext(currentPapers),
	})

	content, err := c.llm.Complete(ctx, messages, llm.CompleteOptions{
		Temperature: 0,
		ExpectJSON:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("意图分类调用失败: %w", err)
	}

	return parseIntent(content)
}

// parseIntent 严格解析分类器输出；JSON 非法或缺少 intent 字段时
// 返回 IntentParseError，不合成默认意图
func parseIntent(content string) (*models.Intent, error) {
	cleaned := llm.StripMarkdownFence(content)

	var payload intentPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &IntentParseError{Raw: content, Err: err}
	}
	if payload.Intent == "" {
		return nil, &IntentParseError{Raw: content, Err: fmt.Errorf("缺少 intent 字段")}
	}

	return &models.Intent{
		Type:        models.IntentType(payload.Intent),
		ArxivQuery:  strings.TrimSpace(payload.ArxivQuery),
		Filter:      payload.Filter,
		PaperIndex:  payload.PaperIndex,
		Explanation: payload.Explanation,
	}, nil
}

// papersContext 生成当前论文列表的编号摘要（1 开始，按展示顺序）
func papersContext(papers []*models.Paper) string {
	if len(papers) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n当前论文列表：\n")
	for i, p := range papers {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, p.Title, p.Published)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// lastTurns 取历史的末尾 n 条
func lastTurns(history []models.ChatMessage, n int) []models.ChatMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func historyMessage(m models.ChatMessage) *schema.Message {
	role := schema.User
	if m.Role == models.RoleAssistant {
		role = schema.Assistant
	}
	return &schema.Message{Role: role, Content: m.Content}
}
