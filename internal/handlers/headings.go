package handlers

import (
	"net/http"

	"erclink/internal/contextutil"
	"erclink/internal/headings"
)

// HeadingsHandler extracts headings from a posted document.
type HeadingsHandler struct{}

// NewHeadingsHandler creates a new HeadingsHandler.
func NewHeadingsHandler() *HeadingsHandler {
	return &HeadingsHandler{}
}

// HeadingsRequest represents the HTTP request payload for heading extraction.
//
// swagger:model HeadingsRequest
type HeadingsRequest struct {
	// Document body
	Content string `json:"content"`
	// html (default), markdown or text
	Format string `json:"format,omitempty"`
	// Deepest heading level, 1-6; 0 means 3
	MaxLevel int `json:"max_level,omitempty"`
}

// HeadingsResponse represents the extracted headings.
//
// swagger:model HeadingsResponse
type HeadingsResponse struct {
	Headings []headings.Heading `json:"headings"`
}

// ServeHTTP handles HTTP requests for heading extraction.
//
// swagger:route POST /api/headings headings
//
// # Extract headings in document order
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  schema:
//	    "$ref": "#/definitions/HeadingsResponse"
//	'400':
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *HeadingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req HeadingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	format, err := headings.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation error: format: "+err.Error())
		return
	}
	if req.MaxLevel < 0 || req.MaxLevel > 6 {
		writeError(w, http.StatusBadRequest, "Validation error: max_level: must be between 0 and 6")
		return
	}

	hs, err := headings.Extract(format, []byte(req.Content), req.MaxLevel)
	if err != nil {
		logger.WarnContext(ctx, "heading extraction failed", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to parse content")
		return
	}
	if hs == nil {
		hs = []headings.Heading{}
	}

	logger.DebugContext(ctx, "headings extracted", "format", format, "count", len(hs))
	writeJSON(ctx, w, http.StatusOK, HeadingsResponse{Headings: hs})
}
