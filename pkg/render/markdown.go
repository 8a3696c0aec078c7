package render

import (
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown
)

func getMarkdownParser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownParser = goldmark.New()
	})
	return markdownParser
}

// Summary returns the text of the first heading or paragraph of a markdown
// document, or "" when it has none.
func Summary(src []byte) string {
	doc := getMarkdownParser().Parser().Parse(text.NewReader(src))
	var out string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading, ast.KindParagraph, ast.KindTextBlock:
			if s := strings.TrimSpace(inlineText(n, src)); s != "" {
				out = s
				return ast.WalkStop, nil
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}

// summarizeFile reads a linked markdown file for a one-line preview.
func summarizeFile(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	s := Summary(b)
	return s, s != ""
}

// highlight colors markdown source for a 256-color terminal, returning it
// unchanged when highlighting fails.
func highlight(src string) string {
	var sb strings.Builder
	if err := quick.Highlight(&sb, src, "markdown", "terminal256", "monokai"); err != nil {
		return src
	}
	return sb.String()
}
