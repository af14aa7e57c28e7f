package chat

import (
	"context"
	"fmt"

	"PaperChat/internal/llm"
	"PaperChat/internal/models"

	"github.com/cloudwego/eino/schema"
)

// fakeLLM 按顺序返回预设响应，并记录每次调用的入参
type fakeLLM struct {
	responses []string
	err       error
	calls     []fakeCall
}

type fakeCall struct {
	messages []*schema.Message
	opts     llm.CompleteOptions
}

func (f *fakeLLM) Complete(ctx context.Context, messages []*schema.Message, opts llm.CompleteOptions) (string, error) {
	f.calls = append(f.calls, fakeCall{messages: messages, opts: opts})
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("fakeLLM: no more responses")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

// fakeFetcher 固定返回一批论文
type fakeFetcher struct {
	papers []*models.Paper
	err    error
	calls  []fetchCall
}

type fetchCall struct {
	query      string
	maxResults int
}

func (f *fakeFetcher) Search(ctx context.Context, query string, maxResults int) ([]*models.Paper, error) {
	f.calls = append(f.calls, fetchCall{query: query, maxResults: maxResults})
	if f.err != nil {
		return nil, f.err
	}
	return f.papers, nil
}

func makePaper(id, title, published string) *models.Paper {
	return &models.Paper{
		ArxivID:    id,
		Title:      title,
		Authors:    []string{"Alice", "Bob"},
		Abstract:   "abstract of " + title,
		Published:  published,
		Categories: []string{"cs.LG"},
		PDFURL:     "https://arxiv.org/pdf/" + id,
	}
}
