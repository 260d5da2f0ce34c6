package handlers

import (
	"net/http"
	"strconv"
	"time"

	"erclink/internal/contextutil"
	"erclink/internal/linker"
	"erclink/internal/service"
)

// LinksHandler runs link and reset passes over dataset pages.
type LinksHandler struct {
	linkService service.LinkService
}

// NewLinksHandler creates a new LinksHandler.
func NewLinksHandler(linkService service.LinkService) *LinksHandler {
	return &LinksHandler{linkService: linkService}
}

// LinkRequest represents the HTTP request payload for a link pass.
//
// swagger:model LinkRequest
type LinkRequest struct {
	DatasetPageID string `json:"dataset_page_id"`
	ReportPageID  string `json:"report_page_id"`
	// thecb, sbec or tea
	LinkType string `json:"link_type"`
	Reset    bool   `json:"reset,omitempty"`
	DryRun   bool   `json:"dry_run,omitempty"`
	MaxLevel int    `json:"max_level,omitempty"`
}

// LinkResponse summarizes a link pass.
//
// swagger:model LinkResponse
type LinkResponse struct {
	RunID   string        `json:"run_id,omitempty"`
	Title   string        `json:"title"`
	Comment string        `json:"comment"`
	Updated bool          `json:"updated"`
	Report  linker.Report `json:"report"`
	// Rewritten page body, only returned for dry runs
	Content string `json:"content,omitempty"`
}

// ServeHTTP handles POST /api/links.
func (h *LinksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.linkService.UpdateLinks(ctx, service.LinkRequest{
		DatasetPageID: req.DatasetPageID,
		ReportPageID:  req.ReportPageID,
		Style:         linker.Style(req.LinkType),
		Reset:         req.Reset,
		DryRun:        req.DryRun,
		MaxLevel:      req.MaxLevel,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update links")
		return
	}

	resp := LinkResponse{
		RunID:   res.RunID,
		Title:   res.Title,
		Comment: res.Comment,
		Updated: res.Updated,
		Report:  res.Report,
	}
	if req.DryRun {
		resp.Content = res.Content
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// RunResponse is one entry of the run history.
//
// swagger:model RunResponse
type RunResponse struct {
	ID            string `json:"id"`
	DatasetPageID string `json:"dataset_page_id"`
	ReportPageID  string `json:"report_page_id"`
	LinkType      string `json:"link_type"`
	Reset         bool   `json:"reset"`
	DryRun        bool   `json:"dry_run"`
	Rows          int    `json:"rows"`
	Linked        int    `json:"linked"`
	Unmatched     int    `json:"unmatched"`
	Skipped       int    `json:"skipped"`
	CreatedAt     string `json:"created_at"`
}

// RunsResponse lists recent link passes.
//
// swagger:model RunsResponse
type RunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

// RunsHandler serves GET /api/runs?limit=N.
type RunsHandler struct {
	linkService service.LinkService
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(linkService service.LinkService) *RunsHandler {
	return &RunsHandler{linkService: linkService}
}

func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Validation error: limit: must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := h.linkService.RecentRuns(ctx, limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list runs")
		return
	}

	resp := RunsResponse{Runs: make([]RunResponse, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, RunResponse{
			ID:            run.ID,
			DatasetPageID: run.DatasetPageID,
			ReportPageID:  run.ReportPageID,
			LinkType:      run.Style,
			Reset:         run.Reset,
			DryRun:        run.DryRun,
			Rows:          run.Rows,
			Linked:        run.Linked,
			Unmatched:     run.Unmatched,
			Skipped:       run.Skipped,
			CreatedAt:     run.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
