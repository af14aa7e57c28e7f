package llm

import (
	"context"
	"fmt"
	"strings"

	"PaperChat/pkg/logger"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Config LLM 配置，显式传入构造器，不依赖全局状态
type Config struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"` // API 地址，支持 OpenAI 兼容的 API
	ModelName string `mapstructure:"model" yaml:"model"`       // 模型名称
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`   // API Key
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("llm api_key 不能为空")
	}
	if c.ModelName == "" {
		return fmt.Errorf("llm model 不能为空")
	}
	return nil
}

// CompleteOptions 单次调用的生成参数
type CompleteOptions struct {
	Temperature float32
	ExpectJSON  bool // 要求模型输出严格 JSON（response_format=json_object）
}

// Client 对外的 LLM 调用接口，意图分类、排序和回复生成都走这一个入口
type Client interface {
	Complete(ctx context.Context, messages []*schema.Message, opts CompleteOptions) (string, error)
}

type openaiClient struct {
	model *openai.ChatModel
}

// NewClient 创建 OpenAI 兼容的 LLM 客户端
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	temp := float32(0)
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		Model:       cfg.ModelName,
		BaseURL:     cfg.BaseURL,
		Temperature: &temp,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ChatModel 失败: %w", err)
	}

	return &openaiClient{model: cm}, nil
}

func (c *openaiClient) Complete(ctx context.Context, messages []*schema.Message, opts CompleteOptions) (string, error) {
	callOpts := []model.Option{
		model.WithTemperature(opts.Temperature),
	}
	if opts.ExpectJSON {
		callOpts = append(callOpts, openai.WithExtraFields(map[string]any{
			"response_format": map[string]any{"type": "json_object"},
		}))
	}

	resp, err := c.model.Generate(ctx, messages, callOpts...)
	if err != nil {
		logger.Error("LLM 生成失败: %v", err)
		return "", fmt.Errorf("LLM 生成失败: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("LLM 返回空响应")
	}
	return resp.Content, nil
}

// StripMarkdownFence 清理模型输出里可能带上的 markdown 代码块标记
func StripMarkdownFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
