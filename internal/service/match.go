package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_match_cache.go -package=mocks erclink/internal/service MatchCache
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_match_service.go -package=mocks -mock_names=MatchService=MockMatchService erclink/internal/service MatchService

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"erclink/internal/contextutil"
	"erclink/internal/matcher"
	"erclink/internal/storage"
)

// MatchCache memoizes matcher decisions.
// This interface is defined from the service layer's perspective (consumer-first).
type MatchCache interface {
	// Get returns the record for key, or storage.ErrNotFound.
	Get(ctx context.Context, key string) (*storage.MatchRecord, error)
	// Put stores a record.
	Put(ctx context.Context, rec *storage.MatchRecord) error
}

// MatchRequest asks for the best heading for one label.
type MatchRequest struct {
	Label    string
	Headings []string
	// Threshold overrides the preset's default threshold when set.
	Threshold *float64
	// Preset selects a matcher preset; empty means the service default.
	Preset string
}

// MatchResponse is the matcher's decision for a MatchRequest.
type MatchResponse struct {
	matcher.Result
	Preset    string  `json:"preset"`
	Threshold float64 `json:"threshold"`
	Cached    bool    `json:"cached"`
}

// MatchService matches labels to headings.
type MatchService interface {
	// Match runs one match. A label with no qualifying heading is not an error.
	Match(ctx context.Context, req MatchRequest) (MatchResponse, error)
	// Presets lists the available preset names.
	Presets() []string
}

type matchService struct {
	matchers      map[string]*matcher.Matcher
	defaultPreset string
	lexiconTag    string
	cache         MatchCache
}

// NewMatchService builds a matcher for every preset. A non-empty lexicon is
// merged into each preset's own table. cache may be nil.
func NewMatchService(cache MatchCache, lexicon matcher.Lexicon, defaultPreset string) (MatchService, error) {
	if defaultPreset == "" {
		defaultPreset = matcher.PresetDefault
	}

	matchers, err := buildMatchers(lexicon)
	if err != nil {
		return nil, err
	}
	if _, ok := matchers[defaultPreset]; !ok {
		return nil, fmt.Errorf("unknown default preset %q", defaultPreset)
	}

	return &matchService{
		matchers:      matchers,
		defaultPreset: defaultPreset,
		lexiconTag:    lexiconFingerprint(lexicon),
		cache:         cache,
	}, nil
}

// Match runs one match, consulting the cache when one is configured.
func (s *matchService) Match(ctx context.Context, req MatchRequest) (MatchResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	preset := req.Preset
	if preset == "" {
		preset = s.defaultPreset
	}
	m, ok := s.matchers[preset]
	if !ok {
		logger.WarnContext(ctx, "unknown preset in match request", "preset", preset)
		return MatchResponse{}, &ValidationError{Field: "preset", Message: fmt.Sprintf("unknown preset %q", preset)}
	}

	threshold := m.Options().DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 || threshold > 1 {
		logger.WarnContext(ctx, "threshold out of range", "threshold", threshold)
		return MatchResponse{}, &ValidationError{Field: "threshold", Message: "must be between 0 and 1"}
	}

	resp := MatchResponse{Preset: preset, Threshold: threshold}
	key := matcher.Key(preset+"\x00"+s.lexiconTag, req.Label, req.Headings, threshold)

	if s.cache != nil {
		rec, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			resp.Result = matcher.Result{
				Heading: rec.Heading,
				Rule:    matcher.Rule(rec.Rule),
				Score:   rec.Score,
				Matched: rec.Matched,
			}
			resp.Cached = true
			logger.DebugContext(ctx, "match served from cache", "label", req.Label, "preset", preset)
			return resp, nil
		case !errors.Is(err, storage.ErrNotFound):
			logger.WarnContext(ctx, "match cache lookup failed", "error", err)
		}
	}

	resp.Result = m.Explain(req.Label, req.Headings, threshold)

	if s.cache != nil {
		rec := &storage.MatchRecord{
			Key:     key,
			Preset:  preset,
			Label:   req.Label,
			Heading: resp.Heading,
			Rule:    string(resp.Rule),
			Score:   resp.Score,
			Matched: resp.Matched,
		}
		if err := s.cache.Put(ctx, rec); err != nil {
			logger.WarnContext(ctx, "failed to cache match", "error", err)
		}
	}

	logger.InfoContext(ctx, "match processed",
		"label", req.Label,
		"preset", preset,
		"headings", len(req.Headings),
		"matched", resp.Matched,
		"rule", resp.Rule,
	)
	return resp, nil
}

// Presets lists the available preset names.
func (s *matchService) Presets() []string {
	return matcher.PresetNames()
}

// buildMatchers creates one matcher per preset with lexicon merged in.
func buildMatchers(lexicon matcher.Lexicon) (map[string]*matcher.Matcher, error) {
	matchers := make(map[string]*matcher.Matcher)
	for _, name := range matcher.PresetNames() {
		m, err := newPresetMatcher(name, lexicon)
		if err != nil {
			return nil, err
		}
		matchers[name] = m
	}
	return matchers, nil
}

func newPresetMatcher(preset string, lexicon matcher.Lexicon) (*matcher.Matcher, error) {
	opts, err := matcher.Preset(preset)
	if err != nil {
		return nil, err
	}
	if !lexicon.Empty() {
		opts.Lexicon = opts.Lexicon.Merge(lexicon)
	}
	m, err := matcher.New(opts)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", preset, err)
	}
	return m, nil
}

// lexiconFingerprint separates cache entries made under different lexicons.
func lexiconFingerprint(lexicon matcher.Lexicon) string {
	if lexicon.Empty() {
		return ""
	}
	data, _ := json.Marshal(lexicon)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
