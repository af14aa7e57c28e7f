package arxiv

import (
	"context"
	"testing"

	"PaperChat/internal/platform"
)

func TestBuildAPIQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single word", "transformer", "all:transformer"},
		{"multi word quoted", "large language models", `all:"large language models"`},
		{"surrounding spaces", "  diffusion  ", "all:diffusion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildAPIQuery(tt.input); got != tt.want {
				t.Errorf("buildAPIQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAdapter_SearchRejectsEmptyQuery(t *testing.T) {
	adapter, err := NewAdapter(DefaultConfig())
	if err != nil {
		t.Fatalf("NewAdapter() failed: %v", err)
	}

	_, err = adapter.Search(context.Background(), platform.Query{Query: "   "})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestNewAdapter_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Step = 0
	if _, err := NewAdapter(cfg); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestPDFUrl(t *testing.T) {
	if got := PDFUrl("2408.12345"); got != "https://arxiv.org/pdf/2408.12345" {
		t.Errorf("unexpected pdf url: %s", got)
	}
}
