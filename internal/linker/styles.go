package linker

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"

	"erclink/internal/confluence"
)

var dashSplit = regexp.MustCompile(`[–—\-]\s*`)

// Anchor converts a heading into the fragment Confluence generates for it.
func Anchor(heading string) string {
	return confluence.Quote(strings.ReplaceAll(strings.ReplaceAll(heading, " ", "-"), "#", ""), "/")
}

func href(pageURL, heading string) string {
	return pageURL + "#" + Anchor(heading)
}

// displayHeading drops an identifier prefix such as "E0774 - " from heading.
func displayHeading(heading string) string {
	parts := dashSplit.Split(heading, 2)
	if len(parts) > 1 {
		return strings.TrimSpace(parts[1])
	}
	return heading
}

func (l *Linker) match(label string, headings []string) (string, bool) {
	return l.matcher.Match(label, headings, l.threshold)
}

func (l *Linker) linkTHECB(table *goquery.Selection, headings []string, pageURL string, report *Report) error {
	ExpandTableWidth(table)

	headers := headerTexts(headerRow(table).ChildrenFiltered("th"))
	itemCol := columnIndex(headers, "item name")
	if itemCol < 0 {
		itemCol = columnIndex(headers, "description")
	}
	if itemCol < 0 {
		if len(headers) <= 2 {
			return ErrTooFewColumns
		}
		itemCol = 2
	}

	eachDataRow(table, func(row *goquery.Selection) {
		all := cells(row)
		if all.Length() <= itemCol {
			report.Skipped++
			return
		}
		cell := all.Eq(itemCol)
		item := cellText(cell)
		if item == "" {
			report.Skipped++
			return
		}

		if heading, ok := l.match(item, headings); ok {
			setLink(cell, href(pageURL, heading), item)
			report.linked(item, heading)
			return
		}
		if name := cellText(all.First()); name != "" {
			if heading, ok := l.match(name, headings); ok {
				setLink(cell, href(pageURL, heading), item)
				report.linked(item, heading)
				return
			}
		}
		cell.SetText(item)
		report.unmatched(item)
	})
	return nil
}

func (l *Linker) linkSBEC(table *goquery.Selection, headings []string, pageURL string, report *Report) {
	eachDataRow(table, func(row *goquery.Selection) {
		tds := row.ChildrenFiltered("td")
		if tds.Length() < 3 {
			report.Skipped++
			return
		}
		cell := tds.Eq(1)
		item := cellText(cell)
		if item == "" {
			report.Skipped++
			return
		}

		if heading, ok := l.match(item, headings); ok {
			setLink(cell, href(pageURL, heading), item)
			report.linked(item, heading)
			return
		}
		cell.SetText(item)
		report.unmatched(item)
	})
}

func (l *Linker) linkTEA(table *goquery.Selection, headings []string, pageURL string, report *Report) error {
	ExpandTableWidth(table)

	header := headerRow(table)
	ths := header.ChildrenFiltered("th")
	if ths.Length() == 0 {
		return ErrTooFewColumns
	}

	itemCol := columnIndex(headerTexts(ths), "item name")
	if itemCol < 0 {
		utdCol := columnIndex(headerTexts(ths), "utd-erc", "utd erc")
		if utdCol < 0 {
			utdCol = 1
		}
		if utdCol >= ths.Length() {
			return ErrTooFewColumns
		}
		ths.Eq(utdCol).AfterNodes(newElement(atom.Th, "Item name"))
		itemCol = utdCol + 1

		eachDataRow(table, func(row *goquery.Selection) {
			rowTHs := row.ChildrenFiltered("th")
			tds := row.ChildrenFiltered("td")
			if idx := utdCol - rowTHs.Length(); idx >= 0 {
				if idx < tds.Length() {
					tds.Eq(idx).AfterNodes(newElement(atom.Td, ""))
				}
			} else {
				rowTHs.Last().AfterNodes(newElement(atom.Td, ""))
			}
		})
		ths = header.ChildrenFiltered("th")
	}

	headingCol := columnIndex(headerTexts(ths), "matched heading")
	if headingCol < 0 {
		ths.Last().AfterNodes(newElement(atom.Th, "Matched Heading"))
		headingCol = ths.Length()

		eachDataRow(table, func(row *goquery.Selection) {
			if tds := row.ChildrenFiltered("td"); tds.Length() > 0 {
				tds.Last().AfterNodes(newElement(atom.Td, ""))
			}
		})
	}

	eachDataRow(table, func(row *goquery.Selection) {
		rowTHs := row.ChildrenFiltered("th")
		if rowTHs.Length() == 0 {
			report.Skipped++
			return
		}
		label := cellText(rowTHs.First())
		itemIdx := itemCol - rowTHs.Length()
		headingIdx := headingCol - rowTHs.Length()
		if label == "" || itemIdx < 0 || headingIdx < 0 {
			report.Skipped++
			return
		}

		heading, ok := l.match(label, headings)
		tds := ensureCells(row, max(itemIdx, headingIdx)+1)
		if ok {
			setLink(tds.Eq(itemIdx), href(pageURL, heading), displayHeading(heading))
			tds.Eq(headingIdx).SetText(heading)
			report.linked(label, heading)
			return
		}
		tds.Eq(headingIdx).SetText("No match found")
		report.unmatched(label)
	})
	return nil
}

// ensureCells pads row with empty td cells until it has at least n.
func ensureCells(row *goquery.Selection, n int) *goquery.Selection {
	tds := row.ChildrenFiltered("td")
	for tds.Length() < n {
		appendCell(row)
		tds = row.ChildrenFiltered("td")
	}
	return tds
}
