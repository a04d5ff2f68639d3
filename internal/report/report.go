// Package report builds shareable Markdown, HTML and JSON reports for a
// stored analysis.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/highlight"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/render"
)

// Format names a report encoding.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// ParseFormat accepts md, markdown, html and json. Empty means Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Markdown renders the analysis with its highlighted text.
func Markdown(a history.Analysis, segs []highlight.Segment) string {
	res := a.Result
	if res == nil {
		res = detector.ErrorResult()
	}

	var b strings.Builder
	b.WriteString("# Text analysis report\n\n")
	if res.IsError() {
		b.WriteString("> The detector could not analyse this text.\n\n")
	}
	fmt.Fprintf(&b, "- **Prediction:** %s\n", render.EscapeMarkdown(res.Prediction))
	fmt.Fprintf(&b, "- **Confidence:** %.2f%%\n", res.Confidence*100)
	if a.Source != "" {
		fmt.Fprintf(&b, "- **Source:** %s\n", a.Source)
	}
	if a.Name != "" {
		fmt.Fprintf(&b, "- **Name:** %s\n", render.EscapeMarkdown(a.Name))
	}
	if !a.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Analysed:** %s\n", a.CreatedAt.UTC().Format(time.RFC3339))
	}

	if probs := res.SortedProbabilities(); len(probs) > 0 {
		b.WriteString("\n## Probabilities\n\n| Label | Probability |\n|---|---:|\n")
		for _, p := range probs {
			fmt.Fprintf(&b, "| %s | %.2f%% |\n", render.EscapeMarkdown(p.Label), p.Value*100)
		}
	}

	if text := highlight.Text(segs); strings.TrimSpace(text) != "" {
		b.WriteString("\n## Highlighted text\n\n")
		b.WriteString(render.Markdown(segs))
		b.WriteString("\n")
	}

	if expl := explanationRows(res.Explanation); len(expl) > 0 {
		b.WriteString("\n## Explanation\n\n| Word | Weight | Effect |\n|---|---:|---|\n")
		for _, w := range expl {
			fmt.Fprintf(&b, "| %s | %.3f | %s |\n",
				render.EscapeMarkdown(w.Word), w.Weight, highlight.SignOf(w.Weight))
		}
	}

	raw, err := JSON(res)
	if err == nil {
		b.WriteString("\n## Raw result\n\n```json\n")
		b.Write(raw)
		b.WriteString("\n```\n")
	}
	return b.String()
}

// explanationRows orders words by descending absolute weight.
func explanationRows(expl highlight.ExplanationSet) []highlight.ScoredWord {
	rows := append([]highlight.ScoredWord(nil), expl...)
	sort.SliceStable(rows, func(i, j int) bool {
		return abs(rows[i].Weight) > abs(rows[j].Weight)
	})
	return rows
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// HTML converts a Markdown report to an HTML fragment.
func HTML(markdown string) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("converting report: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON returns the indented result, as downloaded from the dashboard.
func JSON(res *detector.Result) ([]byte, error) {
	if res == nil {
		res = detector.ErrorResult()
	}
	return json.MarshalIndent(res, "", "  ")
}

var pageTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
table { border-collapse: collapse; } td, th { border: 1px solid #ddd; padding: 4px 8px; }
.highlighted { padding: 1rem; border: 1px solid #ddd; border-radius: 6px; white-space: pre-wrap; }
.hl { border-radius: 3px; padding: 0 2px; }
</style>
</head>
<body>
<div class="highlighted">{{.Highlighted}}</div>
{{.Body}}
</body>
</html>
`))

// Document renders a standalone HTML page: the coloured text followed by
// the Markdown report.
func Document(a history.Analysis, segs []highlight.Segment) ([]byte, error) {
	body, err := HTML(Markdown(a, segs))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Title       string
		Highlighted template.HTML
		Body        template.HTML
	}{
		Title:       "Text analysis report",
		Highlighted: render.HTML(segs),
		Body:        template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering report page: %w", err)
	}
	return buf.Bytes(), nil
}

// Build renders a in the requested format. Segments are recomputed from
// the stored text and explanation.
func Build(a history.Analysis, f Format) ([]byte, error) {
	var segs []highlight.Segment
	if a.Result != nil {
		segs = highlight.Annotate(a.Text, a.Result.Explanation)
	}
	switch f {
	case FormatHTML:
		return Document(a, segs)
	case FormatJSON:
		return JSON(a.Result)
	default:
		return []byte(Markdown(a, segs)), nil
	}
}
