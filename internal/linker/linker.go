// Package linker rewrites the variables table of a dataset page so that each
// row label links to the matching heading of its report page.
package linker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"erclink/internal/matcher"
)

var (
	// ErrTableNotFound is returned when a page has no recognizable variables table.
	ErrTableNotFound = errors.New("variables table not found")
	// ErrTooFewColumns is returned when the variables table lacks a label column.
	ErrTooFewColumns = errors.New("variables table has too few columns")
)

// Matcher chooses a heading for a row label.
type Matcher interface {
	Match(label string, headings []string, threshold float64) (string, bool)
}

// Style selects the table layout a dataset page uses.
type Style string

const (
	// StyleTHECB links the item name column, falling back to the variable name.
	StyleTHECB Style = "thecb"
	// StyleSBEC links the second data cell of each row.
	StyleSBEC Style = "sbec"
	// StyleTEA links an item name column and records the matched heading.
	StyleTEA Style = "tea"
)

// Styles lists the supported styles.
func Styles() []Style {
	return []Style{StyleTHECB, StyleSBEC, StyleTEA}
}

// ParseStyle converts a style name into a Style.
func ParseStyle(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Styles() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown link style %q", name)
}

// Preset is the matcher preset tuned for the style.
func (s Style) Preset() string {
	switch s {
	case StyleSBEC:
		return matcher.PresetSBEC
	case StyleTEA:
		return matcher.PresetTEA
	default:
		return matcher.PresetTHECB
	}
}

// Threshold is the score threshold the style matches with.
func (s Style) Threshold() float64 {
	if s == StyleTEA {
		return 0.45
	}
	return 0.4
}

// Entry records the outcome for one table row.
type Entry struct {
	Label   string `json:"label"`
	Heading string `json:"heading,omitempty"`
	Matched bool   `json:"matched"`
}

// Report summarizes a link or reset pass.
type Report struct {
	// Rows is the number of data rows with a usable label.
	Rows int `json:"rows"`
	// Linked is the number of rows now pointing at a heading.
	Linked int `json:"linked"`
	// Unmatched is the number of rows with no qualifying heading.
	Unmatched int `json:"unmatched"`
	// Skipped is the number of data rows without a usable label.
	Skipped int     `json:"skipped"`
	Entries []Entry `json:"entries,omitempty"`
}

func (r *Report) linked(label, heading string) {
	r.Rows++
	r.Linked++
	r.Entries = append(r.Entries, Entry{Label: label, Heading: heading, Matched: true})
}

func (r *Report) unmatched(label string) {
	r.Rows++
	r.Unmatched++
	r.Entries = append(r.Entries, Entry{Label: label})
}

// Linker links dataset rows to report headings in one style.
type Linker struct {
	style     Style
	matcher   Matcher
	threshold float64
}

// New creates a Linker for style using m at threshold.
func New(style Style, m Matcher, threshold float64) (*Linker, error) {
	if _, err := ParseStyle(string(style)); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("matcher is required")
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold %v outside [0,1]", threshold)
	}
	return &Linker{style: style, matcher: m, threshold: threshold}, nil
}

// NewForStyle creates a Linker with the style's own preset and threshold.
func NewForStyle(style Style) (*Linker, error) {
	m, err := matcher.NewPreset(style.Preset())
	if err != nil {
		return nil, err
	}
	return New(style, m, style.Threshold())
}

// Style returns the linker's style.
func (l *Linker) Style() Style {
	return l.style
}

// Link returns source with its variables table linked to headings on the
// page at pageURL. Markup outside the table is returned unchanged.
func (l *Linker) Link(source string, headings []string, pageURL string) (string, Report, error) {
	sd, err := load(source)
	if err != nil {
		return "", Report{}, err
	}
	table := sd.table

	var report Report
	switch l.style {
	case StyleTHECB:
		err = l.linkTHECB(table, headings, pageURL, &report)
	case StyleSBEC:
		l.linkSBEC(table, headings, pageURL, &report)
	case StyleTEA:
		err = l.linkTEA(table, headings, pageURL, &report)
	}
	if err != nil {
		return "", Report{}, err
	}

	out, err := sd.render()
	if err != nil {
		return "", Report{}, err
	}
	return out, report, nil
}

// Reset turns the third data cell of every row back into plain text.
func Reset(source string) (string, Report, error) {
	sd, err := load(source)
	if err != nil {
		return "", Report{}, err
	}

	var report Report
	eachDataRow(sd.table, func(row *goquery.Selection) {
		tds := row.ChildrenFiltered("td")
		if tds.Length() < 3 {
			report.Skipped++
			return
		}
		cell := tds.Eq(2)
		label := cellText(cell)
		cell.SetText(label)
		report.Rows++
		report.Entries = append(report.Entries, Entry{Label: label})
	})

	out, err := sd.render()
	if err != nil {
		return "", Report{}, err
	}
	return out, report, nil
}
