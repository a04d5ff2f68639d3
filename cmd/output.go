package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/highlight"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/render"
	"github.com/textlens/textlens/internal/report"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc2626"))
)

// writeAnalysis prints an analysis in the requested output format.
func writeAnalysis(w io.Writer, a history.Analysis, format string) error {
	segs := highlight.Annotate(a.Text, a.Result.Explanation)

	switch format {
	case "", "terminal":
		printTerminal(w, a.Result, segs)
		return nil
	case "json":
		data, err := report.JSON(a.Result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "markdown", "md":
		_, err := io.WriteString(w, report.Markdown(a, segs))
		return err
	case "html":
		data, err := report.Document(a, segs)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (want terminal, json, markdown or html)", format)
	}
}

func printTerminal(w io.Writer, res *detector.Result, segs []highlight.Segment) {
	r := lipgloss.NewRenderer(os.Stdout)
	if res.IsError() {
		fmt.Fprintln(w, errorStyle.Render("Prediction: Error"))
		return
	}

	fmt.Fprintf(w, "%s %s (%.1f%%)\n", labelStyle.Render("Prediction:"), res.Prediction, res.Confidence*100)
	for _, p := range res.SortedProbabilities() {
		fmt.Fprintf(w, "  %-16s %6.1f%%\n", p.Label, p.Value*100)
	}
	if len(segs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, render.Terminal(segs, r))
	}
}

// writeJSONFile saves the raw result, the same artefact the dashboard
// offers as analysis_result.json.
func writeJSONFile(path string, res *detector.Result) error {
	data, err := report.JSON(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
