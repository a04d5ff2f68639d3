package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/highlight"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/render"
	"github.com/textlens/textlens/internal/trends"
)

// handleDetectText sends text to the detector and returns a Markdown summary.
func (s *Server) handleDetectText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	text = detector.Truncate(text, s.maxTextLength)

	res, err := s.detector.Predict(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detection failed: %v", err)), nil
	}

	var id string
	if s.store != nil && request.GetBool("save", true) {
		saved, err := s.store.Save(ctx, history.Analysis{Source: history.SourceText, Text: text, Result: res})
		if err == nil {
			id = saved.ID
		}
	}

	segs := highlight.Annotate(text, res.Explanation)
	return mcp.NewToolResultText(formatDetection(res, segs, id)), nil
}

// handleHighlightText annotates text with a caller-supplied explanation.
func (s *Server) handleHighlightText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	raw, err := request.RequireString("explanation_json")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: explanation_json"), nil
	}

	var expl highlight.ExplanationSet
	if err := json.Unmarshal([]byte(raw), &expl); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid explanation_json: %v", err)), nil
	}

	segs := highlight.Annotate(text, expl)
	if segs == nil {
		segs = []highlight.Segment{}
	}
	segJSON, err := json.MarshalIndent(segs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding segments: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString(render.Markdown(segs))
	b.WriteString("\n\n```json\n")
	b.Write(segJSON)
	b.WriteString("\n```\n")
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	items, err := s.store.List(ctx, history.Filter{Label: request.GetString("label", ""), Limit: limit})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing history failed: %v", err)), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No analyses stored yet."), nil
	}

	var b strings.Builder
	b.WriteString("| ID | Date | Source | Prediction | Confidence |\n|---|---|---|---|---:|\n")
	for _, a := range items {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.1f%% |\n",
			a.ID, a.CreatedAt.Format("2006-01-02"), a.Source, a.Result.Prediction, a.Result.Confidence*100)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	win := trends.Window{From: request.GetInt("from", 0), To: request.GetInt("to", 0)}
	if err := win.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	records, err := s.store.CountByYear(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("counting analyses failed: %v", err)), nil
	}

	var b strings.Builder
	if err := trends.WriteCSV(&b, trends.Aggregate(records, win)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("writing csv: %v", err)), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

// formatDetection renders a prediction as Markdown.
func formatDetection(res *detector.Result, segs []highlight.Segment, id string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Prediction:** %s (%.1f%% confidence)\n\n", res.Prediction, res.Confidence*100)
	for _, p := range res.SortedProbabilities() {
		fmt.Fprintf(&b, "- %s: %.1f%%\n", p.Label, p.Value*100)
	}
	b.WriteString("\n**Highlighted text:**\n\n")
	b.WriteString(render.Markdown(segs))
	b.WriteString("\n")
	if id != "" {
		fmt.Fprintf(&b, "\nSaved as analysis `%s`.\n", id)
	}
	return b.String()
}
