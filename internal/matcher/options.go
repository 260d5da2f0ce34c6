package matcher

import (
	"errors"
	"fmt"
	"sort"
)

// Rule names one matching strategy. Rules run in the order listed in Options
// and the first one that produces a heading wins.
type Rule string

const (
	// RuleContains accepts the first heading whose normalized text contains the normalized label.
	RuleContains Rule = "contains"
	// RuleSynonym accepts the first heading containing a lexicon phrase for the label.
	RuleSynonym Rule = "synonym"
	// RuleIdentifier accepts the first heading whose raw text contains the label's identifier code.
	RuleIdentifier Rule = "identifier"
	// RuleDashSegment accepts the first heading whose text after a dash contains a label segment.
	RuleDashSegment Rule = "dash-segment"
	// RuleSegment accepts the first heading containing an underscore-delimited label segment.
	RuleSegment Rule = "segment"
	// RuleKeyword accepts the first heading containing a term related to a lexicon fragment in the label.
	RuleKeyword Rule = "keyword"
	// RuleScore picks the best weighted-score heading at or above the threshold.
	RuleScore Rule = "score"
	// RuleAnyIdentifier accepts the first heading carrying any identifier code.
	RuleAnyIdentifier Rule = "any-identifier"
	// RuleWord accepts the first heading containing a long word of the label.
	RuleWord Rule = "word"
)

var knownRules = map[Rule]struct{}{
	RuleContains: {}, RuleSynonym: {}, RuleIdentifier: {}, RuleDashSegment: {},
	RuleSegment: {}, RuleKeyword: {}, RuleScore: {}, RuleAnyIdentifier: {}, RuleWord: {},
}

// ParseRule converts a rule name into a Rule.
func ParseRule(name string) (Rule, error) {
	r := Rule(name)
	if _, ok := knownRules[r]; !ok {
		return "", fmt.Errorf("unknown rule %q", name)
	}
	return r, nil
}

// Options configures a Matcher.
type Options struct {
	// Rules lists the strategies to try, in priority order.
	Rules []Rule
	// OverlapWeight scales the token overlap fraction in the score rule.
	OverlapWeight float64
	// RatioWeight scales the sequence similarity ratio in the score rule.
	RatioWeight float64
	// ContainsBonus is added when the heading contains the whole label.
	ContainsBonus float64
	// IdentifierBonus is added when label and heading share an identifier code.
	IdentifierBonus float64
	// MinHeadingLength excludes shorter normalized headings from the score rule.
	MinHeadingLength int
	// MinSegmentLength is the shortest underscore segment the segment rules consider.
	MinSegmentLength int
	// MinWordLength is the shortest label word the word rule considers.
	MinWordLength int
	// RequireOverlap drops score candidates that share no token with the label
	// and earn no bonus, so similarity ratio alone never produces a match.
	RequireOverlap bool
	// DefaultThreshold is the threshold callers use when none is given.
	DefaultThreshold float64
	// Lexicon backs the synonym and keyword rules.
	Lexicon Lexicon
}

// Validate checks the options for values the matcher cannot work with.
func (o Options) Validate() error {
	if len(o.Rules) == 0 {
		return errors.New("at least one rule is required")
	}
	for _, r := range o.Rules {
		if _, ok := knownRules[r]; !ok {
			return fmt.Errorf("unknown rule %q", r)
		}
	}
	if o.OverlapWeight < 0 || o.RatioWeight < 0 || o.ContainsBonus < 0 || o.IdentifierBonus < 0 {
		return errors.New("weights and bonuses must not be negative")
	}
	if o.DefaultThreshold < 0 || o.DefaultThreshold > 1 {
		return fmt.Errorf("default threshold %v outside [0,1]", o.DefaultThreshold)
	}
	return o.Lexicon.Validate()
}

// Preset names.
const (
	PresetDefault = "default"
	PresetTHECB   = "thecb"
	PresetSBEC    = "sbec"
	PresetTEA     = "tea"
	PresetStrict  = "strict"
)

// DefaultOptions returns the canonical rule set.
func DefaultOptions() Options {
	return Options{
		Rules:            []Rule{RuleContains, RuleSynonym, RuleIdentifier, RuleSegment, RuleScore},
		OverlapWeight:    0.4,
		RatioWeight:      0.4,
		ContainsBonus:    0.3,
		IdentifierBonus:  0.2,
		MinHeadingLength: 5,
		MinSegmentLength: 3,
		MinWordLength:    4,
		RequireOverlap:   true,
		DefaultThreshold: 0.4,
	}
}

// styleOptions is the rule flow every dataset page style runs: lexicon
// synonyms first, then the textual rules, the weighted score and finally the
// first heading carrying any identifier code.
func styleOptions() Options {
	o := DefaultOptions()
	o.Rules = []Rule{
		RuleSynonym, RuleContains, RuleIdentifier, RuleDashSegment, RuleSegment,
		RuleKeyword, RuleScore, RuleAnyIdentifier,
	}
	o.OverlapWeight = 0.3
	o.RatioWeight = 0.3
	o.Lexicon = TEALexicon()
	return o
}

var presets = map[string]func() Options{
	PresetDefault: DefaultOptions,
	PresetTHECB:   styleOptions,
	PresetSBEC:    styleOptions,
	PresetTEA: func() Options {
		o := styleOptions()
		// Only reached when every other rule has given up.
		o.Rules = append(o.Rules, RuleWord)
		o.DefaultThreshold = 0.45
		return o
	},
	PresetStrict: func() Options {
		o := DefaultOptions()
		o.Rules = []Rule{RuleContains, RuleIdentifier, RuleSegment, RuleScore}
		o.MinSegmentLength = 4
		o.DefaultThreshold = 0.6
		return o
	},
}

// Preset returns the options registered under name.
func Preset(name string) (Options, error) {
	build, ok := presets[name]
	if !ok {
		return Options{}, fmt.Errorf("unknown preset %q", name)
	}
	return build(), nil
}

// PresetNames lists the registered presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
