package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"PaperChat/internal/models"
)

func TestRanker_EmptyInputSkipsCall(t *testing.T) {
	fake := &fakeLLM{}
	ranker := NewRanker(fake)

	got := ranker.Rank(context.Background(), "need", nil, models.FilterCriteria{})
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 papers, got %d", len(got))
	}
	if len(fake.calls) != 0 {
		t.Fatalf("LLM must not be called for empty input, got %d calls", len(fake.calls))
	}
}

func TestRanker_SortsByScoreDesc(t *testing.T) {
	fake := &fakeLLM{responses: []string{
		`[{"index":0,"relevance_score":3,"relevance_reason":"low"},
		  {"index":1,"relevance_score":9,"relevance_reason":"high"},
		  {"index":2,"relevance_score":6,"relevance_reason":"mid"}]`,
	}}
	ranker := NewRanker(fake)

	papers := []*models.Paper{
		makePaper("a", "A", "2024-01-01"),
		makePaper("b", "B", "2024-01-02"),
		makePaper("c", "C", "2024-01-03"),
	}

	got := ranker.Rank(context.Background(), "need", papers, models.FilterCriteria{})
	wantOrder := []string{"b", "c", "a"}
	for i, id := range wantOrder {
		if got[i].ArxivID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ArxivID)
		}
	}
	if got[0].RelevanceScore == nil || *got[0].RelevanceScore != 9 {
		t.Error("top paper should carry score 9")
	}
	if got[0].RelevanceReason == nil || *got[0].RelevanceReason != "high" {
		t.Error("top paper should carry its reason")
	}

	// 输入不应被修改
	if papers[0].RelevanceScore != nil {
		t.Error("input papers must not be mutated")
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(fake.calls))
	}
	if fake.calls[0].opts.Temperature != 0 || !fake.calls[0].opts.ExpectJSON {
		t.Error("rank call should use temperature 0 and JSON mode")
	}
}

func TestRanker_StableOnEqualScores(t *testing.T) {
	fake := &fakeLLM{responses: []string{
		`[{"index":0,"relevance_score":5,"relevance_reason":"r0"},
		  {"index":1,"relevance_score":5,"relevance_reason":"r1"},
		  {"index":2,"relevance_score":5,"relevance_reason":"r2"}]`,
	}}
	ranker := NewRanker(fake)

	papers := []*models.Paper{
		makePaper("a", "A", "2024-01-01"),
		makePaper("b", "B", "2024-01-02"),
		makePaper("c", "C", "2024-01-03"),
	}

	got := ranker.Rank(context.Background(), "need", papers, models.FilterCriteria{})
	for i, id := range []string{"a", "b", "c"} {
		if got[i].ArxivID != id {
			t.Errorf("equal scores must keep input order, position %d: got %s", i, got[i].ArxivID)
		}
	}
}

func TestRanker_MissingIndexGetsZeroScore(t *testing.T) {
	fake := &fakeLLM{responses: []string{
		`[{"index":1,"relevance_score":8,"relevance_reason":"good"}]`,
	}}
	ranker := NewRanker(fake)

	papers := []*models.Paper{
		makePaper("a", "A", "2024-01-01"),
		makePaper("b", "B", "2024-01-02"),
	}

	got := ranker.Rank(context.Background(), "need", papers, models.FilterCriteria{})
	if got[0].ArxivID != "b" {
		t.Fatalf("scored paper should rank first, got %s", got[0].ArxivID)
	}
	if got[1].RelevanceScore == nil || *got[1].RelevanceScore != 0 {
		t.Error("unscored paper should get explicit zero, not nil")
	}
}

func TestRanker_TruncatesToLimit(t *testing.T) {
	var papers []*models.Paper
	entries := "["
	for i := 0; i < 20; i++ {
		papers = append(papers, makePaper(fmt.Sprintf("id%d", i), fmt.Sprintf("P%d", i), "2024-01-01"))
		if i > 0 {
			entries += ","
		}
		entries += fmt.Sprintf(`{"index":%d,"relevance_score":%d,"relevance_reason":"r"}`, i, i)
	}
	entries += "]"

	fake := &fakeLLM{responses: []string{entries}}
	got := NewRanker(fake).Rank(context.Background(), "need", papers, models.FilterCriteria{})

	if len(got) != maxRankedPapers {
		t.Fatalf("expected %d papers after truncation, got %d", maxRankedPapers, len(got))
	}
	if got[0].ArxivID != "id19" {
		t.Errorf("highest score should survive truncation, got %s", got[0].ArxivID)
	}
}

func TestRanker_WrapperFormats(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"papers wrapper", `{"papers":[{"index":0,"relevance_score":7,"relevance_reason":"ok"}]}`},
		{"results wrapper", `{"results":[{"index":0,"relevance_score":7,"relevance_reason":"ok"}]}`},
		{"markdown fenced", "```json\n[{\"index\":0,\"relevance_score\":7,\"relevance_reason\":\"ok\"}]\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{responses: []string{tt.response}}
			papers := []*models.Paper{makePaper("a", "A", "2024-01-01")}

			got := NewRanker(fake).Rank(context.Background(), "need", papers, models.FilterCriteria{})
			if len(got) != 1 {
				t.Fatalf("expected 1 paper, got %d", len(got))
			}
			if got[0].RelevanceScore == nil || *got[0].RelevanceScore != 7 {
				t.Error("score should be parsed from wrapped response")
			}
		})
	}
}

func TestRanker_DegradesOnFailure(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeLLM
	}{
		{"call error", &fakeLLM{err: fmt.Errorf("network down")}},
		{"invalid json", &fakeLLM{responses: []string{"not json at all"}}},
		{"object without array field", &fakeLLM{responses: []string{`{"foo":"bar"}`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			papers := []*models.Paper{
				makePaper("a", "A", "2024-01-01"),
				makePaper("b", "B", "2024-01-02"),
			}
			got := NewRanker(tt.fake).Rank(context.Background(), "need", papers, models.FilterCriteria{})

			if len(got) != 2 {
				t.Fatalf("degraded result should keep all papers, got %d", len(got))
			}
			for i, p := range got {
				if p.ArxivID != papers[i].ArxivID {
					t.Errorf("degraded result must keep input order, position %d: got %s", i, p.ArxivID)
				}
				if p.RelevanceScore != nil || p.RelevanceReason != nil {
					t.Error("degraded papers must have nil score and reason")
				}
			}
		})
	}
}

func TestRanker_DegradedResultTruncates(t *testing.T) {
	var papers []*models.Paper
	for i := 0; i < 20; i++ {
		papers = append(papers, makePaper(fmt.Sprintf("id%d", i), "P", "2024-01-01"))
	}

	fake := &fakeLLM{err: fmt.Errorf("boom")}
	got := NewRanker(fake).Rank(context.Background(), "need", papers, models.FilterCriteria{})
	if len(got) != maxRankedPapers {
		t.Fatalf("degraded result should cap at %d, got %d", maxRankedPapers, len(got))
	}
	if got[0].ArxivID != "id0" {
		t.Error("degraded result should keep input order")
	}
}

func TestBuildRankUserContent(t *testing.T) {
	long := make([]byte, abstractDigestLimit+100)
	for i := range long {
		long[i] = 'x'
	}
	paper := makePaper("a", "A", "2024-01-01")
	paper.Abstract = string(long)

	content := buildRankUserContent("transformer efficiency", []*models.Paper{paper},
		models.FilterCriteria{IncludeKeywords: []string{"sparse", "moe"}})

	if len(content) > abstractDigestLimit+500 {
		t.Error("abstract should be truncated in rank prompt")
	}
	for _, want := range []string{"用户需求：transformer efficiency", "偏好关键词", "sparse, moe", "[0] Title: A"} {
		if !strings.Contains(content, want) {
			t.Errorf("rank prompt missing %q", want)
		}
	}
}
