package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_page_client.go -package=mocks erclink/internal/service PageClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_recorder.go -package=mocks erclink/internal/service RunRecorder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_link_service.go -package=mocks -mock_names=LinkService=MockLinkService erclink/internal/service LinkService

import (
	"context"
	"fmt"
	"strings"

	"erclink/internal/confluence"
	"erclink/internal/contextutil"
	"erclink/internal/headings"
	"erclink/internal/linker"
	"erclink/internal/matcher"
	"erclink/internal/storage"
)

// DatasetTitlePrefix starts the title of every dataset page.
const DatasetTitlePrefix = "Datasets: "

// Version comments written with each page update.
const (
	ResetComment = "Reset hyperlinks to plain text"
	linkComment  = "Updated %s links"
)

// PageClient reads and writes wiki pages.
// This interface is defined from the service layer's perspective (consumer-first).
type PageClient interface {
	GetPage(ctx context.Context, id string) (*confluence.Page, error)
	UpdatePage(ctx context.Context, u confluence.PageUpdate) error
	PageURL(p *confluence.Page) string
}

// RunRecorder stores the history of link passes.
type RunRecorder interface {
	Create(ctx context.Context, run *storage.LinkRun) error
	ListRecent(ctx context.Context, limit int) ([]storage.LinkRun, error)
}

// LinkRequest asks for one link or reset pass over a dataset page.
type LinkRequest struct {
	DatasetPageID string
	ReportPageID  string
	Style         linker.Style
	// Reset turns existing links back into text instead of linking.
	Reset bool
	// DryRun computes the new content without writing it.
	DryRun bool
	// MaxLevel is the deepest report heading considered; 0 means h1-h3.
	MaxLevel int
}

// LinkResult describes a completed pass.
type LinkResult struct {
	RunID   string `json:"run_id,omitempty"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
	// Before is the dataset page body as fetched; Content is the rewritten body.
	Before  string        `json:"-"`
	Content string        `json:"content,omitempty"`
	Updated bool          `json:"updated"`
	Report  linker.Report `json:"report"`
}

// LinkService links dataset pages to their report pages.
type LinkService interface {
	// UpdateLinks runs one pass and writes the dataset page unless DryRun is set.
	UpdateLinks(ctx context.Context, req LinkRequest) (LinkResult, error)
	// RecentRuns lists the latest passes, newest first.
	RecentRuns(ctx context.Context, limit int) ([]storage.LinkRun, error)
}

type linkService struct {
	pages   PageClient
	runs    RunRecorder
	linkers map[linker.Style]*linker.Linker
}

// NewLinkService creates a LinkService. runs may be nil to skip run history.
func NewLinkService(pages PageClient, runs RunRecorder, lexicon matcher.Lexicon) (LinkService, error) {
	linkers := make(map[linker.Style]*linker.Linker)
	for _, style := range linker.Styles() {
		m, err := newPresetMatcher(style.Preset(), lexicon)
		if err != nil {
			return nil, err
		}
		l, err := linker.New(style, m, style.Threshold())
		if err != nil {
			return nil, err
		}
		linkers[style] = l
	}
	return &linkService{pages: pages, runs: runs, linkers: linkers}, nil
}

// ExpectedReportTitle returns the report title that belongs to a dataset title.
func ExpectedReportTitle(datasetTitle string) string {
	return strings.TrimSpace(strings.TrimPrefix(datasetTitle, DatasetTitlePrefix))
}

// ValidateTitles checks that the report page belongs to the dataset page.
func ValidateTitles(datasetTitle, reportTitle string) error {
	if want := ExpectedReportTitle(datasetTitle); reportTitle != want {
		return fmt.Errorf("%w: dataset %q expects report %q, got %q", ErrTitleMismatch, datasetTitle, want, reportTitle)
	}
	return nil
}

// UpdateLinks runs one link or reset pass.
func (s *linkService) UpdateLinks(ctx context.Context, req LinkRequest) (LinkResult, error) {
	logger := contextutil.LoggerFromContext(ctx).With(
		"dataset_page_id", req.DatasetPageID,
		"report_page_id", req.ReportPageID,
	)

	style, err := validateLinkRequest(req)
	if err != nil {
		logger.WarnContext(ctx, "invalid link request", "error", err)
		return LinkResult{}, err
	}
	req.Style = style

	dataset, err := s.pages.GetPage(ctx, req.DatasetPageID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch dataset page", "error", err)
		return LinkResult{}, externalError(err, "failed to fetch dataset page")
	}
	report, err := s.pages.GetPage(ctx, req.ReportPageID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch report page", "error", err)
		return LinkResult{}, externalError(err, "failed to fetch report page")
	}

	if err := ValidateTitles(dataset.Title, report.Title); err != nil {
		logger.WarnContext(ctx, "operation aborted", "error", err)
		return LinkResult{}, err
	}

	var (
		content string
		rep     linker.Report
		comment string
	)
	if req.Reset {
		content, rep, err = linker.Reset(dataset.Content())
		comment = ResetComment
	} else {
		hs, herr := headings.FromHTML(report.Content(), req.MaxLevel)
		if herr != nil {
			return LinkResult{}, WrapError(herr, "failed to read report headings")
		}
		content, rep, err = s.linkers[req.Style].Link(dataset.Content(), headings.Texts(hs), s.pages.PageURL(report))
		comment = fmt.Sprintf(linkComment, strings.ToUpper(string(req.Style)))
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to rewrite dataset page", "error", err)
		return LinkResult{}, WrapError(err, "failed to rewrite dataset page")
	}

	result := LinkResult{
		Title:   dataset.Title,
		Comment: comment,
		Before:  dataset.Content(),
		Content: content,
		Report:  rep,
	}

	if !req.DryRun {
		update := confluence.PageUpdate{
			ID:        req.DatasetPageID,
			Title:     dataset.Title,
			Content:   content,
			Version:   dataset.Version.Number,
			MinorEdit: true,
			Message:   comment,
			FullWidth: true,
		}
		if err := s.pages.UpdatePage(ctx, update); err != nil {
			logger.ErrorContext(ctx, "failed to update dataset page", "error", err)
			return LinkResult{}, externalError(err, "failed to update dataset page")
		}
		result.Updated = true
	}

	if s.runs != nil {
		run := &storage.LinkRun{
			DatasetPageID: req.DatasetPageID,
			ReportPageID:  req.ReportPageID,
			Style:         string(req.Style),
			Reset:         req.Reset,
			DryRun:        req.DryRun,
			Rows:          rep.Rows,
			Linked:        rep.Linked,
			Unmatched:     rep.Unmatched,
			Skipped:       rep.Skipped,
		}
		if err := s.runs.Create(ctx, run); err != nil {
			logger.WarnContext(ctx, "failed to record link run", "error", err)
		} else {
			result.RunID = run.ID
		}
	}

	logger.InfoContext(ctx, "dataset page processed",
		"title", dataset.Title,
		"style", req.Style,
		"reset", req.Reset,
		"updated", result.Updated,
		"rows", rep.Rows,
		"linked", rep.Linked,
		"unmatched", rep.Unmatched,
	)
	return result, nil
}

// RecentRuns lists the latest passes.
func (s *linkService) RecentRuns(ctx context.Context, limit int) ([]storage.LinkRun, error) {
	if s.runs == nil {
		return []storage.LinkRun{}, nil
	}
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, WrapError(err, "failed to list link runs")
	}
	return runs, nil
}

// validateLinkRequest checks req and returns its normalized style.
func validateLinkRequest(req LinkRequest) (linker.Style, error) {
	if strings.TrimSpace(req.DatasetPageID) == "" {
		return "", &ValidationError{Field: "dataset_page_id", Message: "cannot be empty"}
	}
	if strings.TrimSpace(req.ReportPageID) == "" {
		return "", &ValidationError{Field: "report_page_id", Message: "cannot be empty"}
	}
	if req.MaxLevel < 0 || req.MaxLevel > 6 {
		return "", &ValidationError{Field: "max_level", Message: "must be between 0 and 6"}
	}
	if req.Reset && req.Style == "" {
		return "", nil
	}
	style, err := linker.ParseStyle(string(req.Style))
	if err != nil {
		return "", &ValidationError{Field: "style", Message: err.Error()}
	}
	return style, nil
}
