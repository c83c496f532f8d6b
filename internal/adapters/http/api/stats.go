package api

import (
	"net/http"
)

// StatsProvider reports service state for GET /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the provider's snapshot together with the API's own
// limits, so clients can size their list requests.
type StatsHandler struct {
	provider   StatsProvider
	maxResults int
}

// NewStatsHandler creates a stats handler. A nil provider serves only the API
// settings.
func NewStatsHandler(provider StatsProvider, maxResults int) *StatsHandler {
	return &StatsHandler{provider: provider, maxResults: maxResults}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	out := map[string]interface{}{}
	if h.provider != nil {
		// Copied so the provider's map is never written to.
		for k, v := range h.provider.GetStats() {
			out[k] = v
		}
	}
	out["maxResults"] = h.maxResults
	writeJSON(w, http.StatusOK, out)
}
