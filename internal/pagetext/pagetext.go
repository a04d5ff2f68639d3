// Package pagetext extracts the readable article text from an HTML page.
package pagetext

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/textlens/textlens/internal/detector"
)

// Page is the extracted content of a document.
type Page struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
	// Source is the element the text came from: article, main or body.
	Source string `json:"source"`
}

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Iframe:   true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Head:     true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Main: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Br: true, atom.Tr: true,
	atom.Table: true, atom.Figure: true, atom.Figcaption: true,
}

// Extract parses an HTML document and returns the text of its first
// <article>, falling back to <main> and then <body>. Each block element
// becomes one line with internal whitespace collapsed. The text is cut to
// maxLen runes; maxLen <= 0 keeps everything.
func Extract(r io.Reader, maxLen int) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("pagetext: parse: %w", err)
	}

	page := &Page{Title: title(doc)}
	root := findContent(doc, page)

	var lines []string
	var cur strings.Builder
	flush := func() {
		if line := strings.Join(strings.Fields(cur.String()), " "); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipped[n.DataAtom] {
				return
			}
			if blocks[n.DataAtom] {
				flush()
				defer flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	flush()

	page.Text = detector.Truncate(strings.Join(lines, "\n"), maxLen)
	return page, nil
}

// ExtractString is Extract over a string.
func ExtractString(doc string, maxLen int) (*Page, error) {
	return Extract(strings.NewReader(doc), maxLen)
}

// findContent returns the article, main or body element, in that order
// of preference, and records which one was used.
func findContent(doc *html.Node, page *Page) *html.Node {
	for _, a := range []atom.Atom{atom.Article, atom.Main, atom.Body} {
		if n := first(doc, a); n != nil {
			page.Source = a.String()
			return n
		}
	}
	page.Source = "document"
	return doc
}

func first(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := first(c, a); found != nil {
			return found
		}
	}
	return nil
}

func title(doc *html.Node) string {
	n := first(doc, atom.Title)
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

// Fetch downloads url and extracts its text. A nil client uses
// http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string, maxLen int) (*Page, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("pagetext: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pagetext: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pagetext: fetch %s: status %d", url, resp.StatusCode)
	}
	return Extract(io.LimitReader(resp.Body, 8<<20), maxLen)
}
