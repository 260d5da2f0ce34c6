package linker

import (
	"errors"
	"strings"
	"testing"
)

func TestTableSpans(t *testing.T) {
	source := `<p>a</p><table><tr><td><table></table></td></tr></table><![CDATA[<table>]]>`

	spans := tableSpans(source)
	want := [][2]int{{8, 56}, {23, 38}}
	if len(spans) != len(want) {
		t.Fatalf("tableSpans() = %v, want %v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %v, want %v", i, spans[i], want[i])
		}
	}

	if spans := tableSpans(`<table><tr><td>open`); len(spans) != 1 || spans[0][1] != spans[0][0] {
		t.Errorf("unclosed table spans = %v, want one empty span", spans)
	}
}

func TestProtectRestore(t *testing.T) {
	source := `<ac:parameter ac:name="language" /><ac:parameter ac:name="title">T</ac:parameter>` +
		`<ac:plain-text-body><![CDATA[x < 1 && <ri:page />]]></ac:plain-text-body><br/>`

	protected, cdata := protect(source)
	if len(cdata) != 1 || cdata[0] != `<![CDATA[x < 1 && <ri:page />]]>` {
		t.Fatalf("cdata = %q", cdata)
	}
	if strings.Contains(protected, "CDATA") {
		t.Errorf("protected source still has CDATA: %s", protected)
	}
	if !strings.Contains(protected, `<ac:parameter ac:name="language"></ac:parameter>`) {
		t.Errorf("self-closing tag not expanded: %s", protected)
	}
	if !strings.Contains(protected, "<br/>") {
		t.Errorf("html void element should be left alone: %s", protected)
	}

	if got := restore(protected, cdata); got != source {
		t.Errorf("restore() = %s\nwant %s", got, source)
	}
}

const macroPage = `<ac:structured-macro ac:name="code"><ac:parameter ac:name="language" /><ac:parameter ac:name="title">T</ac:parameter><ac:plain-text-body><![CDATA[x < 1 && y > 0 <table>]]></ac:plain-text-body></ac:structured-macro>
<h2>Variables</h2>
<table><tbody>
<tr><th>ERC Variable</th><th>Type</th><th>Item name</th></tr>
<tr><td>FICE</td><td><ac:link><ri:page ri:content-title="Codes" /></ac:link></td><td>Institution code</td></tr>
<tr><td>NOTE</td><td><ac:structured-macro ac:name="code"><ac:plain-text-body><![CDATA[a && b]]></ac:plain-text-body></ac:structured-macro></td><td>Unknown</td></tr>
</tbody></table>
<p><ac:image><ri:attachment ri:filename="x.png" /></ac:image>&nbsp;</p>`

// outsideTable returns the page source before and after the variables table.
func outsideTable(page string) (string, string) {
	start := strings.Index(page, "<table><tbody>")
	end := strings.LastIndex(page, "</table>") + len("</table>")
	return page[:start], page[end:]
}

func assertMacrosKept(t *testing.T, out string) {
	t.Helper()

	before, after := outsideTable(macroPage)
	if !strings.HasPrefix(out, before) {
		t.Errorf("markup before the table changed:\n%s", out)
	}
	if !strings.HasSuffix(out, after) {
		t.Errorf("markup after the table changed:\n%s", out)
	}
	for _, want := range []string{
		`<td><ac:link><ri:page ri:content-title="Codes" /></ac:link></td>`,
		`<ac:plain-text-body><![CDATA[a && b]]></ac:plain-text-body>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table lost %s:\n%s", want, out)
		}
	}
}

func TestLink_KeepsStorageMarkup(t *testing.T) {
	stub := &stubMatcher{headings: map[string]string{"Institution code": "Institution Code"}}
	l, err := New(StyleTHECB, stub, 0.4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, report, err := l.Link(macroPage, nil, pageURL)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if report.Linked != 1 || report.Unmatched != 1 {
		t.Errorf("report = %+v", report)
	}
	assertMacrosKept(t, out)
	if !strings.Contains(out, `<a href="`+pageURL+`#Institution-Code">Institution code</a>`) {
		t.Errorf("row not linked:\n%s", out)
	}

	reset, _, err := Reset(out)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	assertMacrosKept(t, reset)
	if strings.Contains(reset, "<a href") {
		t.Errorf("Reset() left a link:\n%s", reset)
	}
}

func TestLink_UnbalancedTable(t *testing.T) {
	page := `<table><tr><th>ERC Variable</th><th>Type</th><th>Item name</th></tr><tr><td>A</td><td>B</td><td>C</td></tr>`

	if _, _, err := Reset(page); !errors.Is(err, ErrMalformedTable) {
		t.Errorf("Reset() error = %v, want ErrMalformedTable", err)
	}
}
