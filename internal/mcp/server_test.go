package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/textlens/textlens/internal/db"
	"github.com/textlens/textlens/internal/detector/detectortest"
	"github.com/textlens/textlens/internal/history"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", result.Content[0])
	return ""
}

func newTestServer(t *testing.T) (*Server, *detectortest.Mock, *history.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	mock := detectortest.New()
	store := history.NewStore(database)
	return NewServer(mock, store, 0), mock, store
}

func TestNewServer(t *testing.T) {
	srv := NewServer(detectortest.New(), nil, 0)
	if srv == nil || srv.mcp == nil {
		t.Fatal("expected initialised server")
	}
}

func TestHandleDetectText(t *testing.T) {
	srv, mock, store := newTestServer(t)
	ctx := context.Background()

	t.Run("prediction", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"text": "This text is clearly fabricated.",
		}

		result, err := srv.handleDetectText(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		text := resultText(t, result)
		for _, want := range []string{
			"**Prediction:** AI-generated (82.0% confidence)",
			"- Human-written: 10.0%",
			"This text is **clearly**⁺ **fabricated**⁻.",
			"Saved as analysis",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("result missing %q:\n%s", want, text)
			}
		}

		items, _ := store.List(ctx, history.Filter{})
		if len(items) != 1 {
			t.Errorf("expected 1 saved analysis, got %d", len(items))
		}
	})

	t.Run("no save", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"text": "hello", "save": false}

		result, _ := srv.handleDetectText(ctx, req)
		if strings.Contains(resultText(t, result), "Saved as analysis") {
			t.Error("save=false should not store the analysis")
		}
	})

	t.Run("missing text", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleDetectText(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing text")
		}
	})

	t.Run("detector failure", func(t *testing.T) {
		mock.Err = errors.New("service down")
		defer func() { mock.Err = nil }()

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"text": "hello"}

		result, _ := srv.handleDetectText(ctx, req)
		if !result.IsError || !strings.Contains(resultText(t, result), "service down") {
			t.Errorf("expected detection error, got %+v", result)
		}
	})
}

func TestHandleHighlightText(t *testing.T) {
	srv, mock, _ := newTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"text":             "Good words, bad words.",
		"explanation_json": `[{"word":"good","weight":0.6},{"word":"bad","weight":-0.3},{"word":5}]`,
	}

	result, err := srv.handleHighlightText(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "**Good**⁺ words, **bad**⁻ words.") {
		t.Errorf("markdown missing:\n%s", text)
	}
	if !strings.Contains(text, `"sign": "negative"`) {
		t.Errorf("segment JSON missing:\n%s", text)
	}
	if mock.CallCount() != 0 {
		t.Error("highlight_text must not call the detector")
	}

	req.Params.Arguments = map[string]any{"text": "x", "explanation_json": "{broken"}
	result, _ = srv.handleHighlightText(ctx, req)
	if !result.IsError {
		t.Error("expected error for invalid JSON")
	}
}

func TestHistoryTools(t *testing.T) {
	srv, _, store := newTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}
	result, _ := srv.handleListHistory(ctx, req)
	if !strings.Contains(resultText(t, result), "No analyses") {
		t.Error("expected empty history message")
	}

	mockRes := detectortest.New().Result
	if _, err := store.Save(ctx, history.Analysis{Source: history.SourceText, Result: mockRes}); err != nil {
		t.Fatal(err)
	}

	result, _ = srv.handleListHistory(ctx, req)
	if !strings.Contains(resultText(t, result), "| AI-generated | 82.0% |") {
		t.Errorf("history table = %s", resultText(t, result))
	}

	result, _ = srv.handleGetTrends(ctx, req)
	if !strings.HasPrefix(resultText(t, result), "year,Human-written") {
		t.Errorf("trends = %s", resultText(t, result))
	}

	req.Params.Arguments = map[string]any{"from": 2030, "to": 2020}
	result, _ = srv.handleGetTrends(ctx, req)
	if !result.IsError {
		t.Error("expected error for inverted window")
	}
}
