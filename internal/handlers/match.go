package handlers

import (
	"net/http"

	"erclink/internal/contextutil"
	"erclink/internal/matcher"
	"erclink/internal/service"
)

// MatchHandler handles HTTP requests for single label matches.
type MatchHandler struct {
	matchService service.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchService service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// MatchRequest represents the HTTP request payload for a match.
//
// swagger:model MatchRequest
type MatchRequest struct {
	// Row label to match
	Label string `json:"label"`
	// Candidate headings in document order
	Headings []string `json:"headings"`
	// Optional score threshold in [0,1]
	Threshold *float64 `json:"threshold,omitempty"`
	// Optional matcher preset
	Preset string `json:"preset,omitempty"`
}

// MatchResponse represents the HTTP response payload for a match.
//
// swagger:model MatchResponse
type MatchResponse struct {
	Matched   bool         `json:"matched"`
	Heading   string       `json:"heading,omitempty"`
	Rule      matcher.Rule `json:"rule,omitempty"`
	Score     float64      `json:"score"`
	Preset    string       `json:"preset"`
	Threshold float64      `json:"threshold"`
	Cached    bool         `json:"cached"`
}

// ServeHTTP handles HTTP requests for matches.
//
// swagger:route POST /api/match match
//
// # Match a label to a heading
//
// A label with no qualifying heading returns 200 with matched=false.
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
//	    "$ref": "#/definitions/MatchResponse"
//	'400':
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *MatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req MatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.matchService.Match(ctx, service.MatchRequest{
		Label:     req.Label,
		Headings:  req.Headings,
		Threshold: req.Threshold,
		Preset:    req.Preset,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to match label")
		return
	}

	writeJSON(ctx, w, http.StatusOK, MatchResponse{
		Matched:   svcResp.Matched,
		Heading:   svcResp.Heading,
		Rule:      svcResp.Rule,
		Score:     svcResp.Score,
		Preset:    svcResp.Preset,
		Threshold: svcResp.Threshold,
		Cached:    svcResp.Cached,
	})
}
