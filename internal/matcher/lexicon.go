package matcher

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Synonym maps a label code to phrases that headings about it are known to use.
// Phrases are tried in order.
type Synonym struct {
	Code    string   `yaml:"code" json:"code"`
	Phrases []string `yaml:"phrases" json:"phrases"`
}

// Keyword relates a label fragment to lowercase terms that may appear in a heading.
// The fragment is matched case-sensitively against the raw label.
type Keyword struct {
	Fragment string   `yaml:"fragment" json:"fragment"`
	Terms    []string `yaml:"terms" json:"terms"`
}

// Lexicon is the injected lookup table consulted by the synonym and keyword rules.
// Entries are slices rather than maps so that scanning order is stable.
type Lexicon struct {
	Synonyms []Synonym `yaml:"synonyms" json:"synonyms"`
	Keywords []Keyword `yaml:"keywords" json:"keywords"`
}

// ParseLexicon decodes a YAML lexicon document.
func ParseLexicon(data []byte) (Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("decode lexicon: %w", err)
	}
	if err := lex.Validate(); err != nil {
		return Lexicon{}, err
	}
	return lex, nil
}

// LoadLexicon reads and decodes a YAML lexicon file.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

// Validate checks that every entry has a key and at least one value.
func (l Lexicon) Validate() error {
	for i, s := range l.Synonyms {
		if strings.TrimSpace(s.Code) == "" {
			return fmt.Errorf("synonym %d: code is required", i)
		}
		if len(s.Phrases) == 0 {
			return fmt.Errorf("synonym %q: at least one phrase is required", s.Code)
		}
	}
	for i, k := range l.Keywords {
		if strings.TrimSpace(k.Fragment) == "" {
			return fmt.Errorf("keyword %d: fragment is required", i)
		}
		if len(k.Terms) == 0 {
			return fmt.Errorf("keyword %q: at least one term is required", k.Fragment)
		}
	}
	return nil
}

// Empty reports whether the lexicon has no entries.
func (l Lexicon) Empty() bool {
	return len(l.Synonyms) == 0 && len(l.Keywords) == 0
}

// Merge returns a new lexicon with other's entries added after l's.
// Phrases or terms for a code/fragment already present are appended to the
// existing entry, skipping duplicates.
func (l Lexicon) Merge(other Lexicon) Lexicon {
	out := Lexicon{
		Synonyms: make([]Synonym, 0, len(l.Synonyms)+len(other.Synonyms)),
		Keywords: make([]Keyword, 0, len(l.Keywords)+len(other.Keywords)),
	}
	for _, s := range l.Synonyms {
		out.Synonyms = append(out.Synonyms, Synonym{Code: s.Code, Phrases: append([]string(nil), s.Phrases...)})
	}
	for _, k := range l.Keywords {
		out.Keywords = append(out.Keywords, Keyword{Fragment: k.Fragment, Terms: append([]string(nil), k.Terms...)})
	}

	for _, s := range other.Synonyms {
		idx := -1
		for i := range out.Synonyms {
			if out.Synonyms[i].Code == s.Code {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Synonyms = append(out.Synonyms, Synonym{Code: s.Code, Phrases: append([]string(nil), s.Phrases...)})
			continue
		}
		out.Synonyms[idx].Phrases = appendMissing(out.Synonyms[idx].Phrases, s.Phrases)
	}

	for _, k := range other.Keywords {
		idx := -1
		for i := range out.Keywords {
			if out.Keywords[i].Fragment == k.Fragment {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Keywords = append(out.Keywords, Keyword{Fragment: k.Fragment, Terms: append([]string(nil), k.Terms...)})
			continue
		}
		out.Keywords[idx].Terms = appendMissing(out.Keywords[idx].Terms, k.Terms)
	}

	return out
}

func appendMissing(dst, src []string) []string {
	for _, v := range src {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// TEALexicon returns the element-name table used for Texas Education Agency
// financial data sets.
func TEALexicon() Lexicon {
	return Lexicon{
		Synonyms: []Synonym{
			{Code: "ACTAMT", Phrases: []string{"Actual Amount", "Amount", "E0774"}},
			{Code: "CS_NONPROF_ASSET", Phrases: []string{"Fund Code", "Asset", "E0316"}},
			{Code: "CS_NONPROF_FUNC", Phrases: []string{"Function Code", "Function", "E0317"}},
			{Code: "CS_NONPROF_OBJ", Phrases: []string{"Object Code", "Object", "E0318"}},
			{Code: "CS_NONPROF_PGMIN", Phrases: []string{"Program Intent Code", "Program Intent", "E0320"}},
			{Code: "DATE_UPDATE", Phrases: []string{"Date Update", "Update Date"}},
			{Code: "DISTRICT", Phrases: []string{"District ID", "District", "E0212"}},
			{Code: "DTUPDATE", Phrases: []string{"Date Update", "TEA Update"}},
			{Code: "FIN_UNIT", Phrases: []string{"Organization Code", "Org Code", "E0319"}},
			{Code: "FISCALYR", Phrases: []string{"Fiscal Year", "Year", "E0974"}},
		},
		Keywords: []Keyword{
			{Fragment: "DISTRICT", Terms: []string{"district", "id"}},
			{Fragment: "DATE", Terms: []string{"date", "update"}},
			{Fragment: "FUNC", Terms: []string{"function", "code"}},
			{Fragment: "OBJ", Terms: []string{"object", "code"}},
			{Fragment: "ASSET", Terms: []string{"fund", "code"}},
			{Fragment: "PGMIN", Terms: []string{"program", "intent"}},
			{Fragment: "AMT", Terms: []string{"amount", "actual"}},
			{Fragment: "FISCALYR", Terms: []string{"fiscal", "year"}},
			{Fragment: "FIN_UNIT", Terms: []string{"organization", "code", "org"}},
		},
	}
}
