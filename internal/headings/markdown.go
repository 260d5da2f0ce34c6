package headings

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// FromMarkdown returns the ATX and setext headings of a Markdown document up
// to maxLevel.
func FromMarkdown(content []byte, maxLevel int) []Heading {
	if len(content) == 0 {
		return nil
	}
	maxLevel = clampLevel(maxLevel)

	doc := markdown.Parser().Parse(text.NewReader(content))

	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level <= maxLevel {
			if t := clean(nodeText(heading, content)); t != "" {
				out = append(out, Heading{Level: heading.Level, Text: t})
			}
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
