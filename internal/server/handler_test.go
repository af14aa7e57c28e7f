package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"

	"PaperChat/internal/chat"
	"PaperChat/internal/llm"
	"PaperChat/internal/models"
	"PaperChat/pkg/download"
)

// scriptedLLM 按顺序返回预设响应
type scriptedLLM struct {
	responses []string
	err       error
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []*schema.Message, opts llm.CompleteOptions) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", fmt.Errorf("no more responses")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

type staticFetcher struct {
	papers []*models.Paper
}

func (f *staticFetcher) Search(ctx context.Context, query string, maxResults int) ([]*models.Paper, error) {
	return f.papers, nil
}

func newTestRouter(t *testing.T, client llm.Client, fetcher chat.Fetcher) http.Handler {
	t.Helper()
	orchestrator := chat.NewOrchestrator(
		chat.NewClassifier(client),
		fetcher,
		chat.NewRanker(client),
		client,
		25,
	)
	downloader := download.New(t.TempDir(), "", nil)
	return NewRouter(NewHandler(orchestrator, downloader), Options{Env: "prod"})
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{}, &staticFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}
}

func TestChatEndpoint(t *testing.T) {
	client := &scriptedLLM{responses: []string{
		`{"intent":"new_search","arxiv_query":"llm agents","explanation":"智能体论文"}`,
		`[{"index":0,"relevance_score":9,"relevance_reason":"on topic"}]`,
	}}
	fetcher := &staticFetcher{papers: []*models.Paper{{
		ArxivID:   "2408.12345",
		Title:     "LLM Agents",
		Published: "2024-08-01",
	}}}
	router := newTestRouter(t, client, fetcher)

	w := postJSON(t, router, "/api/chat", ChatRequest{Message: "找一些智能体的论文"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Papers) != 1 || resp.Papers[0].ArxivID != "2408.12345" {
		t.Errorf("unexpected papers: %+v", resp.Papers)
	}
	if resp.SearchQuery == nil || *resp.SearchQuery != "llm agents" {
		t.Errorf("search_query should be set, got %v", resp.SearchQuery)
	}
	if resp.Reply == "" {
		t.Error("reply should not be empty")
	}
}

func TestChatEndpoint_MissingMessage(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{}, &staticFetcher{})

	w := postJSON(t, router, "/api/chat", map[string]any{"history": []any{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChatEndpoint_IntentParseFailure(t *testing.T) {
	client := &scriptedLLM{responses: []string{"这不是 JSON"}}
	router := newTestRouter(t, client, &staticFetcher{})

	w := postJSON(t, router, "/api/chat", ChatRequest{Message: "找论文"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" {
		t.Error("error body should carry a message")
	}
}

func TestDownloadEndpoint(t *testing.T) {
	pdfSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4"))
	}))
	defer pdfSrv.Close()

	router := newTestRouter(t, &scriptedLLM{}, &staticFetcher{})

	w := postJSON(t, router, "/api/papers/download", DownloadRequest{
		ArxivID: "2408.12345",
		Title:   "Test Paper",
		PDFURL:  pdfSrv.URL,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp DownloadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.FilePath == nil {
		t.Errorf("unexpected download response: %+v", resp)
	}
}

func TestDownloadEndpoint_MissingFields(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{}, &staticFetcher{})

	w := postJSON(t, router, "/api/papers/download", map[string]any{"arxiv_id": "2408.12345"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListDownloadsEndpoint(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{}, &staticFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/downloads", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() == "null" {
		t.Error("empty list should serialize as [], not null")
	}
}
