package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"erclink/internal/matcher"
	"erclink/internal/service"
	"erclink/internal/service/mocks"
	"erclink/internal/storage"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testContext() context.Context {
	return context.Background()
}

func ptr(f float64) *float64 {
	return &f
}

var districtHeadings = []string{"District ID Field", "Unrelated Heading"}

func TestNewMatchService(t *testing.T) {
	svc, err := service.NewMatchService(nil, matcher.Lexicon{}, "")
	if err != nil {
		t.Fatalf("NewMatchService() error = %v", err)
	}
	if svc == nil {
		t.Fatal("NewMatchService() returned nil")
	}
	if len(svc.Presets()) != len(matcher.PresetNames()) {
		t.Errorf("Presets() = %v", svc.Presets())
	}

	if _, err := service.NewMatchService(nil, matcher.Lexicon{}, "nope"); err == nil {
		t.Error("NewMatchService() with unknown default preset should fail")
	}
}

func TestMatchService_Match(t *testing.T) {
	svc, err := service.NewMatchService(nil, matcher.Lexicon{}, matcher.PresetDefault)
	if err != nil {
		t.Fatalf("NewMatchService() error = %v", err)
	}

	tests := []struct {
		name        string
		req         service.MatchRequest
		wantErr     bool
		wantField   string
		wantMatched bool
		wantHeading string
		wantPreset  string
	}{
		{
			name:        "default preset and threshold",
			req:         service.MatchRequest{Label: "District Identifier", Headings: districtHeadings},
			wantMatched: true,
			wantHeading: "District ID Field",
			wantPreset:  matcher.PresetDefault,
		},
		{
			name:       "threshold override",
			req:        service.MatchRequest{Label: "District Identifier", Headings: districtHeadings, Threshold: ptr(0.9)},
			wantPreset: matcher.PresetDefault,
		},
		{
			name:        "explicit preset",
			req:         service.MatchRequest{Label: "ACTAMT", Headings: []string{"Intro", "E0774 - Actual Amount"}, Preset: matcher.PresetTEA},
			wantMatched: true,
			wantHeading: "E0774 - Actual Amount",
			wantPreset:  matcher.PresetTEA,
		},
		{
			name:       "empty label is no match",
			req:        service.MatchRequest{Label: "", Headings: districtHeadings},
			wantPreset: matcher.PresetDefault,
		},
		{
			name:      "threshold out of range",
			req:       service.MatchRequest{Label: "x", Headings: districtHeadings, Threshold: ptr(1.5)},
			wantErr:   true,
			wantField: "threshold",
		},
		{
			name:      "unknown preset",
			req:       service.MatchRequest{Label: "x", Preset: "fuzzy"},
			wantErr:   true,
			wantField: "preset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Match(testContext(), tt.req)
			if tt.wantErr {
				var validationErr *service.ValidationError
				if !errors.As(err, &validationErr) || validationErr.Field != tt.wantField {
					t.Errorf("Match() error = %v, want validation error on %s", err, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match() unexpected error: %v", err)
			}
			if resp.Matched != tt.wantMatched || resp.Heading != tt.wantHeading {
				t.Errorf("Match() = %+v, want matched=%v heading=%q", resp, tt.wantMatched, tt.wantHeading)
			}
			if resp.Preset != tt.wantPreset {
				t.Errorf("Match() preset = %q, want %q", resp.Preset, tt.wantPreset)
			}
		})
	}
}

func TestMatchService_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockMatchCache(ctrl)
	svc, err := service.NewMatchService(cache, matcher.Lexicon{}, "")
	if err != nil {
		t.Fatalf("NewMatchService() error = %v", err)
	}

	var stored *storage.MatchRecord
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)
	cache.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *storage.MatchRecord) error {
			stored = rec
			return nil
		})

	resp, err := svc.Match(testContext(), service.MatchRequest{Label: "District Identifier", Headings: districtHeadings})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if resp.Cached {
		t.Error("Match() on a miss should not report Cached")
	}
	if stored == nil || stored.Heading != "District ID Field" || stored.Rule != string(matcher.RuleScore) || !stored.Matched {
		t.Errorf("stored record = %+v", stored)
	}
	if stored.Key != matcher.Key(matcher.PresetDefault+"\x00", "District Identifier", districtHeadings, 0.4) {
		t.Error("stored record key does not match the memo key")
	}
}

func TestMatchService_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockMatchCache(ctrl)
	svc, err := service.NewMatchService(cache, matcher.Lexicon{}, "")
	if err != nil {
		t.Fatalf("NewMatchService() error = %v", err)
	}

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&storage.MatchRecord{
		Heading: "Cached Heading",
		Rule:    string(matcher.RuleContains),
		Score:   1,
		Matched: true,
	}, nil)

	resp, err := svc.Match(testContext(), service.MatchRequest{Label: "District Identifier", Headings: districtHeadings})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if !resp.Cached || resp.Heading != "Cached Heading" || resp.Rule != matcher.RuleContains {
		t.Errorf("Match() = %+v, want cached record", resp)
	}
}

func TestMatchService_CacheFailureFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockMatchCache(ctrl)
	svc, err := service.NewMatchService(cache, matcher.Lexicon{}, "")
	if err != nil {
		t.Fatalf("NewMatchService() error = %v", err)
	}

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("database is locked"))
	cache.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("database is locked"))

	resp, err := svc.Match(testContext(), service.MatchRequest{Label: "District Identifier", Headings: districtHeadings})
	if err != nil {
		t.Fatalf("Match() error = %v, cache failures should not fail the match", err)
	}
	if !resp.Matched {
		t.Error("Match() should still compute the result")
	}
}

func TestMatchService_Lexicon(t *testing.T) {
	lex := matcher.Lexicon{Synonyms: []matcher.Synonym{{Code: "ENRL", Phrases: []string{"Enrollment Count"}}}}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockMatchCache(ctrl)
	var keys []string
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, key string) (*storage.MatchRecord, error) {
			keys = append(keys, key)
			return nil, storage.ErrNotFound
		}).Times(2)
	cache.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	plain, err := service.NewMatchService(cache, matcher.Lexicon{}, "")
	if err != nil {
		t.Fatalf("NewMatchService() error = %v", err)
	}
	withLex, err := service.NewMatchService(cache, lex, "")
	if err != nil {
		t.Fatalf("NewMatchService() error = %v", err)
	}

	req := service.MatchRequest{Label: "ENRL", Headings: []string{"Staff", "Fall Enrollment Count"}}
	if resp, _ := plain.Match(testContext(), req); resp.Matched {
		t.Errorf("without lexicon Match() = %+v, want no match", resp)
	}
	resp, err := withLex.Match(testContext(), req)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if !resp.Matched || resp.Rule != matcher.RuleSynonym {
		t.Errorf("with lexicon Match() = %+v, want synonym match", resp)
	}

	if len(keys) != 2 || keys[0] == keys[1] {
		t.Errorf("cache keys should differ between lexicons: %v", keys)
	}
}
