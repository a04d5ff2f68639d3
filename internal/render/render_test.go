package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/textlens/textlens/internal/highlight"
)

func scenario() []highlight.Segment {
	return highlight.Annotate("This <text> is clearly fabricated.", []highlight.ScoredWord{
		{Word: "clearly", Weight: 0.8},
		{Word: "fabricated", Weight: -0.4},
	})
}

func TestHTML(t *testing.T) {
	got := string(HTML(scenario()))

	want := []string{
		"This &lt;text&gt; is ",
		`<span class="hl hl-positive" style="background-color: rgba(34, 197, 94, 1.00)" title="Weight: 0.80">clearly</span>`,
		`<span class="hl hl-negative" style="background-color: rgba(239, 68, 68, 0.50)" title="Weight: -0.40">fabricated</span>`,
	}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("HTML output missing %q\ngot: %s", w, got)
		}
	}
	if strings.Contains(got, "<text>") {
		t.Error("plain text was not escaped")
	}
}

func TestHTMLPlainOnly(t *testing.T) {
	got := HTML([]highlight.Segment{{Text: "a & b"}})
	if string(got) != "a &amp; b" {
		t.Errorf("got %q", got)
	}
}

func TestCSSColorNeutral(t *testing.T) {
	got := CSSColor(highlight.Segment{Annotated: true, Sign: highlight.SignNeutral, Intensity: 0.25})
	if got != "rgba(255, 255, 0, 0.25)" {
		t.Errorf("got %q", got)
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		c     RGB
		alpha float64
		want  string
	}{
		{ColorPositive, 1, "#22c55e"},
		{ColorPositive, 0, "#ffffff"},
		{RGB{0, 0, 0}, 0.5, "#808080"},
	}
	for _, tt := range tests {
		if got := blend(tt.c, tt.alpha); got != tt.want {
			t.Errorf("blend(%v, %v) = %q, want %q", tt.c, tt.alpha, got, tt.want)
		}
	}
}

func TestTerminalKeepsText(t *testing.T) {
	// A renderer writing to a buffer has no colour profile, so output is
	// the plain text.
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	got := Terminal(scenario(), r)
	if got != "This <text> is clearly fabricated." {
		t.Errorf("got %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown(scenario())
	want := `This \<text\> is **clearly**⁺ **fabricated**⁻.`
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := EscapeMarkdown("a_b*c|d"); got != `a\_b\*c\|d` {
		t.Errorf("got %q", got)
	}
}
