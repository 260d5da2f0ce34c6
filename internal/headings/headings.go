// Package headings extracts the ordered section headings of a report page.
package headings

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLevel is the deepest heading level extracted when none is given.
const DefaultMaxLevel = 3

// Heading is one section heading in document order.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Texts returns the heading texts in order.
func Texts(hs []Heading) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Text
	}
	return out
}

// Format identifies how a document is encoded.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatHTML, FormatMarkdown, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q", name)
	}
}

// DetectFormat picks a format from a file name extension.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm", ".xhtml", ".xml":
		return FormatHTML
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Extract returns the headings of content encoded as format.
func Extract(format Format, content []byte, maxLevel int) ([]Heading, error) {
	switch format {
	case FormatHTML:
		return FromHTML(string(content), maxLevel)
	case FormatMarkdown:
		return FromMarkdown(content, maxLevel), nil
	case FormatText:
		return FromText(string(content)), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// FromText treats every non-empty line as a level 1 heading.
func FromText(content string) []Heading {
	var out []Heading
	for _, line := range strings.Split(content, "\n") {
		if t := clean(line); t != "" {
			out = append(out, Heading{Level: 1, Text: t})
		}
	}
	return out
}

func clampLevel(maxLevel int) int {
	if maxLevel <= 0 {
		return DefaultMaxLevel
	}
	if maxLevel > 6 {
		return 6
	}
	return maxLevel
}

// clean NFC-normalizes text and collapses its whitespace.
func clean(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
