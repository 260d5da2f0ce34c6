package handlers

import (
	"net/http"

	"erclink/internal/service"
)

// PresetsResponse lists the matcher presets.
//
// swagger:model PresetsResponse
type PresetsResponse struct {
	Presets []string `json:"presets"`
}

// PresetsHandler serves GET /api/presets.
type PresetsHandler struct {
	matchService service.MatchService
}

// NewPresetsHandler creates a new PresetsHandler.
func NewPresetsHandler(matchService service.MatchService) *PresetsHandler {
	return &PresetsHandler{matchService: matchService}
}

func (h *PresetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, PresetsResponse{Presets: h.matchService.Presets()})
}
