// Package matcher links a short row label to the best heading of a document.
//
// Matching is a pure function of the label, the ordered headings, the
// threshold and the Options the Matcher was built with. A Matcher holds no
// mutable state and may be shared between goroutines.
package matcher

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Result describes the outcome of a match.
type Result struct {
	// Heading is the chosen heading, exactly as supplied by the caller.
	Heading string `json:"heading,omitempty"`
	// Rule is the rule that produced the heading.
	Rule Rule `json:"rule,omitempty"`
	// Score is 1 for rules that run before RuleScore. RuleScore and the rules
	// after it report the heading's weighted fallback score.
	Score float64 `json:"score"`
	// Matched is false when no heading was chosen.
	Matched bool `json:"matched"`
}

// Matcher matches labels against headings.
type Matcher struct {
	opts Options
}

// New creates a Matcher from opts.
func New(opts Options) (*Matcher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Rules = append([]Rule(nil), opts.Rules...)
	return &Matcher{opts: opts}, nil
}

// NewPreset creates a Matcher from a named preset.
func NewPreset(name string) (*Matcher, error) {
	opts, err := Preset(name)
	if err != nil {
		return nil, err
	}
	return New(opts)
}

// Options returns a copy of the matcher's options.
func (m *Matcher) Options() Options {
	opts := m.opts
	opts.Rules = append([]Rule(nil), m.opts.Rules...)
	return opts
}

// Match returns the best heading for label, or false if none qualifies.
func (m *Matcher) Match(label string, headings []string, threshold float64) (string, bool) {
	r := m.Explain(label, headings, threshold)
	return r.Heading, r.Matched
}

// Explain is Match with the firing rule and score attached.
func (m *Matcher) Explain(label string, headings []string, threshold float64) Result {
	if strings.TrimSpace(label) == "" || len(headings) == 0 {
		return Result{}
	}

	q := newQuery(label)
	cands := make([]candidate, len(headings))
	for i, h := range headings {
		cands[i] = newCandidate(h)
	}

	for _, rule := range m.opts.Rules {
		if r, ok := m.apply(rule, q, cands, threshold); ok {
			return r
		}
	}
	return Result{}
}

type query struct {
	raw    string
	norm   string
	code   string
	tokens map[string]struct{}
}

func newQuery(label string) query {
	return query{
		raw:    label,
		norm:   Normalize(label),
		code:   IdentifierCode(label),
		tokens: Tokenize(label),
	}
}

type candidate struct {
	raw    string
	norm   string
	lower  string
	tokens map[string]struct{}
}

func newCandidate(heading string) candidate {
	return candidate{
		raw:    heading,
		norm:   Normalize(heading),
		lower:  strings.ToLower(heading),
		tokens: Tokenize(heading),
	}
}

func found(rule Rule, heading string) (Result, bool) {
	return Result{Heading: heading, Rule: rule, Score: 1, Matched: true}, true
}

// fallback reports a match by a rule that runs after the score rule. It
// carries the heading's weighted score, so a lower threshold that lets the
// score rule fire never yields a lower-scoring heading.
func (m *Matcher) fallback(rule Rule, q query, c candidate) (Result, bool) {
	return Result{Heading: c.raw, Rule: rule, Score: m.candidateScore(q, c), Matched: true}, true
}

func (m *Matcher) apply(rule Rule, q query, cands []candidate, threshold float64) (Result, bool) {
	switch rule {
	case RuleContains:
		for _, c := range cands {
			if strings.Contains(c.norm, q.norm) {
				return found(rule, c.raw)
			}
		}

	case RuleSynonym:
		for _, syn := range m.opts.Lexicon.Synonyms {
			if syn.Code != q.raw {
				continue
			}
			for _, phrase := range syn.Phrases {
				p := strings.ToLower(phrase)
				for _, c := range cands {
					if strings.Contains(c.lower, p) {
						return found(rule, c.raw)
					}
				}
			}
		}

	case RuleIdentifier:
		if q.code == "" {
			break
		}
		for _, c := range cands {
			if strings.Contains(c.raw, q.code) {
				return found(rule, c.raw)
			}
		}

	case RuleDashSegment:
		for _, part := range segments(q.raw, m.opts.MinSegmentLength) {
			p := strings.ToLower(part)
			for _, c := range cands {
				tail, ok := dashTail(c.raw)
				if ok && strings.Contains(strings.ToLower(tail), p) {
					return found(rule, c.raw)
				}
			}
		}

	case RuleSegment:
		if !strings.Contains(q.raw, "_") {
			break
		}
		parts := segments(q.raw, m.opts.MinSegmentLength)
		for _, c := range cands {
			for _, part := range parts {
				if strings.Contains(c.norm, Normalize(part)) {
					return found(rule, c.raw)
				}
			}
		}

	case RuleKeyword:
		for _, kw := range m.opts.Lexicon.Keywords {
			if !strings.Contains(q.raw, kw.Fragment) {
				continue
			}
			for _, c := range cands {
				for _, term := range kw.Terms {
					if strings.Contains(c.norm, strings.ToLower(term)) {
						return found(rule, c.raw)
					}
				}
			}
		}

	case RuleScore:
		return m.bestScore(q, cands, threshold)

	case RuleAnyIdentifier:
		for _, c := range cands {
			if HasIdentifierCode(c.raw) {
				return m.fallback(rule, q, c)
			}
		}

	case RuleWord:
		ws := words(q.raw, m.opts.MinWordLength)
		for _, c := range cands {
			for _, w := range ws {
				if strings.Contains(c.lower, w) {
					return m.fallback(rule, q, c)
				}
			}
		}
	}

	return Result{}, false
}

// bestScore runs the weighted fallback. Ties keep the earliest heading.
func (m *Matcher) bestScore(q query, cands []candidate, threshold float64) (Result, bool) {
	if len(q.tokens) == 0 {
		return Result{}, false
	}

	best := -1
	bestScore := 0.0
	for i, c := range cands {
		if s := m.candidateScore(q, c); s > bestScore {
			bestScore = s
			best = i
		}
	}

	if best < 0 || bestScore < threshold {
		return Result{}, false
	}
	return Result{Heading: cands[best].raw, Rule: RuleScore, Score: bestScore, Matched: true}, true
}

// Score returns the weighted fallback score of heading for label, or 0 when
// the score rule would not consider the heading at all.
func (m *Matcher) Score(label, heading string) float64 {
	if strings.TrimSpace(label) == "" {
		return 0
	}
	return m.candidateScore(newQuery(label), newCandidate(heading))
}

func (m *Matcher) candidateScore(q query, c candidate) float64 {
	if len(q.tokens) == 0 || runeLen(c.norm) < m.opts.MinHeadingLength || len(c.tokens) == 0 {
		return 0
	}
	s, eligible := m.score(q, c)
	if !eligible {
		return 0
	}
	return s
}

func (m *Matcher) score(q query, c candidate) (float64, bool) {
	shared := 0
	for t := range q.tokens {
		if _, ok := c.tokens[t]; ok {
			shared++
		}
	}
	overlap := float64(shared) / float64(len(q.tokens))

	var containsBonus, identifierBonus float64
	if strings.Contains(c.norm, q.norm) {
		containsBonus = m.opts.ContainsBonus
	}
	if q.code != "" && strings.Contains(c.raw, q.code) {
		identifierBonus = m.opts.IdentifierBonus
	}

	if m.opts.RequireOverlap && shared == 0 && containsBonus == 0 && identifierBonus == 0 {
		return 0, false
	}

	ratio := Ratio(q.norm, c.norm)
	return overlap*m.opts.OverlapWeight + ratio*m.opts.RatioWeight + containsBonus + identifierBonus, true
}

// Key returns a stable memoization key for one match call.
func Key(preset, label string, headings []string, threshold float64) string {
	h := sha256.New()
	h.Write([]byte(preset))
	h.Write([]byte{0})
	h.Write([]byte(label))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(threshold, 'f', -1, 64)))
	for _, heading := range headings {
		h.Write([]byte{0x1f})
		h.Write([]byte(heading))
	}
	return hex.EncodeToString(h.Sum(nil))
}
