package linker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FindVariablesTable locates the variables table of a dataset page. It
// prefers a table whose headers name the variable columns, then the first
// table following a "Variables" heading, then the table with the most rows
// when that table has at least three header cells. It returns nil when no
// table qualifies.
func FindVariablesTable(doc *goquery.Document) *goquery.Selection {
	tables := doc.Find("table")

	var found *goquery.Selection
	tables.EachWithBreak(func(_ int, table *goquery.Selection) bool {
		headers := headerTexts(table.Find("th"))
		if len(headers) < 3 {
			return true
		}
		if (contains(headers, "erc variable") && contains(headers, "item name")) ||
			contains(headers, "utd-erc variable") || contains(headers, "variables") {
			found = table
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	doc.Find("h1, h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.ToLower(cellText(h)) != "variables" {
			return true
		}
		if next := h.NextAllFiltered("table").First(); next.Length() > 0 {
			found = next
		}
		return false
	})
	if found != nil {
		return found
	}

	var largest *goquery.Selection
	most := -1
	tables.Each(func(_ int, table *goquery.Selection) {
		if n := table.Find("tr").Length(); n > most {
			most = n
			largest = table
		}
	})
	if largest != nil && largest.Find("th").Length() >= 3 {
		return largest
	}
	return nil
}

// ExpandTableWidth lets table use the full page width.
func ExpandTableWidth(table *goquery.Selection) {
	table.SetAttr("data-table-width", "1200")
	if _, ok := table.Attr("data-layout"); !ok {
		table.SetAttr("data-layout", "default")
	}
	stripWidth(table)
	table.Find("colgroup col").Each(func(_ int, col *goquery.Selection) {
		stripWidth(col)
	})
}

func stripWidth(sel *goquery.Selection) {
	style, ok := sel.Attr("style")
	if !ok || !strings.Contains(style, "width") {
		return
	}
	var kept []string
	for _, part := range strings.Split(style, ";") {
		if strings.TrimSpace(part) != "" && !strings.Contains(part, "width") {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		sel.RemoveAttr("style")
		return
	}
	sel.SetAttr("style", strings.Join(kept, ";"))
}

// eachDataRow calls fn for every row of table except the header row.
func eachDataRow(table *goquery.Selection, fn func(row *goquery.Selection)) {
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i > 0 {
			fn(row)
		}
	})
}

func headerRow(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").First()
}

func headerTexts(headers *goquery.Selection) []string {
	texts := make([]string, 0, headers.Length())
	headers.Each(func(_ int, th *goquery.Selection) {
		texts = append(texts, strings.ToLower(cellText(th)))
	})
	return texts
}

// columnIndex returns the first header containing any of needles, or -1.
func columnIndex(headers []string, needles ...string) int {
	for i, h := range headers {
		for _, n := range needles {
			if strings.Contains(h, n) {
				return i
			}
		}
	}
	return -1
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// cellText returns the text of sel with whitespace collapsed.
func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// cells returns the direct th and td children of row.
func cells(row *goquery.Selection) *goquery.Selection {
	return row.ChildrenFiltered("th, td")
}

func newElement(a atom.Atom, text string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

// setLink replaces the content of cell with a single link.
func setLink(cell *goquery.Selection, href, text string) {
	a := newElement(atom.A, text)
	a.Attr = []html.Attribute{{Key: "href", Val: href}}
	cell.Empty()
	cell.AppendNodes(a)
}

// appendCell adds an empty td to row after its last cell.
func appendCell(row *goquery.Selection) {
	td := newElement(atom.Td, "")
	if last := cells(row).Last(); last.Length() > 0 {
		last.AfterNodes(td)
		return
	}
	row.AppendNodes(td)
}
