package linker

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrMalformedTable is returned when the variables table cannot be located
// in the page source, usually because its table tags are unbalanced.
var ErrMalformedTable = errors.New("variables table markup is unbalanced")

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

var (
	// <ac:parameter ac:name="x" /> and friends. The HTML parser would treat
	// them as open tags and nest the following siblings inside.
	selfClosingNS = regexp.MustCompile(`<([A-Za-z][\w-]*:[\w.-]+)(\s[^<>]*?)?\s*/>`)
	emptyNSPair   = regexp.MustCompile(`<([A-Za-z][\w-]*:[\w.-]+)(\s[^<>]*)?></([A-Za-z][\w-]*:[\w.-]+)>`)
	cdataMarker   = regexp.MustCompile(`<!--erclink-cdata-(\d+)-->`)
)

// storageDoc is a dataset page in Confluence storage format. Only the bytes
// of the variables table are ever re-rendered; the rest of the page is
// written back exactly as it was read.
type storageDoc struct {
	source     string
	start, end int
	frag       *goquery.Document
	table      *goquery.Selection
	cdata      []string
}

func load(source string) (*storageDoc, error) {
	protected, _ := protect(source)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(protected))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	found := FindVariablesTable(doc)
	if found == nil {
		return nil, ErrTableNotFound
	}

	tables := doc.Find("table")
	spans := tableSpans(source)
	idx := tables.IndexOfSelection(found)
	if idx < 0 || len(spans) != tables.Length() || spans[idx][1] <= spans[idx][0] {
		return nil, ErrMalformedTable
	}

	sd := &storageDoc{source: source, start: spans[idx][0], end: spans[idx][1]}
	var fragSource string
	fragSource, sd.cdata = protect(source[sd.start:sd.end])
	sd.frag, err = goquery.NewDocumentFromReader(strings.NewReader(fragSource))
	if err != nil {
		return nil, fmt.Errorf("parse variables table: %w", err)
	}
	sd.table = sd.frag.Find("table").First()
	if sd.table.Length() == 0 {
		return nil, ErrMalformedTable
	}
	return sd, nil
}

func (sd *storageDoc) render() (string, error) {
	out, err := goquery.OuterHtml(sd.table)
	if err != nil {
		return "", fmt.Errorf("render variables table: %w", err)
	}
	return sd.source[:sd.start] + restore(out, sd.cdata) + sd.source[sd.end:], nil
}

// protect hides CDATA sections behind comment markers and expands
// namespaced self-closing tags, so the HTML parser keeps the structure of
// Confluence macros. restore undoes both.
func protect(s string) (string, []string) {
	var (
		b     strings.Builder
		cdata []string
	)
	for {
		i := strings.Index(s, cdataOpen)
		if i < 0 {
			break
		}
		j := strings.Index(s[i+len(cdataOpen):], cdataClose)
		if j < 0 {
			break
		}
		end := i + len(cdataOpen) + j + len(cdataClose)
		b.WriteString(expandSelfClosing(s[:i]))
		b.WriteString("<!--erclink-cdata-" + strconv.Itoa(len(cdata)) + "-->")
		cdata = append(cdata, s[i:end])
		s = s[end:]
	}
	b.WriteString(expandSelfClosing(s))
	return b.String(), cdata
}

func expandSelfClosing(s string) string {
	return selfClosingNS.ReplaceAllString(s, "<$1$2></$1>")
}

func restore(s string, cdata []string) string {
	s = emptyNSPair.ReplaceAllStringFunc(s, func(m string) string {
		sub := emptyNSPair.FindStringSubmatch(m)
		if sub[1] != sub[3] {
			return m
		}
		return "<" + sub[1] + sub[2] + " />"
	})
	return cdataMarker.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.Atoi(cdataMarker.FindStringSubmatch(m)[1])
		if err != nil || n >= len(cdata) {
			return m
		}
		return cdata[n]
	})
}

// tableSpans returns the byte range of every table element in source, in
// start tag order. An unclosed table gets an empty range.
func tableSpans(source string) [][2]int {
	masked := []byte(source)
	maskCDATA(masked)

	var (
		spans [][2]int
		open  []int
		pos   int
	)
	z := html.NewTokenizer(bytes.NewReader(masked))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := len(z.Raw())
		switch tt {
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "table" {
				open = append(open, len(spans))
				spans = append(spans, [2]int{pos, pos})
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "table" && len(open) > 0 {
				spans[open[len(open)-1]][1] = pos + raw
				open = open[:len(open)-1]
			}
		}
		pos += raw
	}
	return spans
}

// maskCDATA blanks CDATA bodies in place so their text is never tokenized
// as markup. Offsets are preserved.
func maskCDATA(b []byte) {
	open, end := []byte(cdataOpen), []byte(cdataClose)
	for off := 0; ; {
		i := bytes.Index(b[off:], open)
		if i < 0 {
			return
		}
		body := off + i + len(open)
		j := bytes.Index(b[body:], end)
		if j < 0 {
			return
		}
		for k := body; k < body+j; k++ {
			b[k] = ' '
		}
		off = body + j + len(end)
	}
}
