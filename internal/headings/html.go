package headings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FromHTML returns the h1..hN headings of an HTML or Confluence storage
// document. Empty headings are dropped.
func FromHTML(content string, maxLevel int) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return FromSelection(doc.Selection, maxLevel), nil
}

// FromSelection returns the headings below sel in document order.
func FromSelection(sel *goquery.Selection, maxLevel int) []Heading {
	maxLevel = clampLevel(maxLevel)

	tags := make([]string, 0, maxLevel)
	for i := 1; i <= maxLevel; i++ {
		tags = append(tags, "h"+strconv.Itoa(i))
	}

	var out []Heading
	sel.Find(strings.Join(tags, ", ")).Each(func(_ int, s *goquery.Selection) {
		text := clean(s.Text())
		if text == "" {
			return
		}
		level, _ := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		out = append(out, Heading{Level: level, Text: text})
	})
	return out
}
