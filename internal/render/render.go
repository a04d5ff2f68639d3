// Package render turns highlight segments into HTML, terminal and Markdown
// output.
package render

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/textlens/textlens/internal/highlight"
)

// RGB is an sRGB colour.
type RGB struct{ R, G, B uint8 }

// Highlight colours per sign.
var (
	ColorPositive = RGB{34, 197, 94}
	ColorNegative = RGB{239, 68, 68}
	ColorNeutral  = RGB{255, 255, 0}
)

// ColorFor returns the base colour of a sign.
func ColorFor(sign highlight.Sign) RGB {
	switch sign {
	case highlight.SignPositive:
		return ColorPositive
	case highlight.SignNegative:
		return ColorNegative
	default:
		return ColorNeutral
	}
}

// CSSColor renders the sign colour with the segment intensity as alpha.
func CSSColor(seg highlight.Segment) string {
	c := ColorFor(seg.Sign)
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, seg.Intensity)
}

// HTML renders segments as escaped text with <span> highlights.
func HTML(segs []highlight.Segment) template.HTML {
	var b strings.Builder
	for _, s := range segs {
		if !s.Annotated {
			b.WriteString(html.EscapeString(s.Text))
			continue
		}
		fmt.Fprintf(&b, `<span class="hl hl-%s" style="background-color: %s" title="Weight: %.2f">%s</span>`,
			s.Sign, CSSColor(s), s.Weight, html.EscapeString(s.Text))
	}
	return template.HTML(b.String())
}

// blend mixes c over white at the given opacity.
func blend(c RGB, alpha float64) string {
	mix := func(v uint8) uint8 {
		return uint8(255 + (float64(v)-255)*alpha + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(c.R), mix(c.G), mix(c.B))
}

// Terminal renders segments with background colours. A nil renderer uses
// lipgloss' default, which drops colour when stdout is not a terminal.
func Terminal(segs []highlight.Segment, r *lipgloss.Renderer) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	var b strings.Builder
	for _, s := range segs {
		if !s.Annotated {
			b.WriteString(s.Text)
			continue
		}
		style := r.NewStyle().
			Background(lipgloss.Color(blend(ColorFor(s.Sign), s.Intensity))).
			Foreground(lipgloss.Color("#000000"))
		b.WriteString(style.Render(s.Text))
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
)

// EscapeMarkdown escapes characters with inline Markdown meaning.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Markdown renders annotated words in bold followed by a sign marker, e.g.
// **clearly**⁺ and **fabricated**⁻.
func Markdown(segs []highlight.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if !s.Annotated {
			b.WriteString(EscapeMarkdown(s.Text))
			continue
		}
		b.WriteString("**")
		b.WriteString(EscapeMarkdown(s.Text))
		b.WriteString("**")
		b.WriteString(signMarker(s.Sign))
	}
	return b.String()
}

func signMarker(sign highlight.Sign) string {
	switch sign {
	case highlight.SignPositive:
		return "⁺"
	case highlight.SignNegative:
		return "⁻"
	default:
		return "⁰"
	}
}
