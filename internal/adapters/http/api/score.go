package api

import (
	"context"
	"net/http"

	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/internal/domain/scoring"
)

// ScoreDependencies defines the interface for scoring ad-hoc combinations.
type ScoreDependencies interface {
	Score(ctx context.Context, c model.Combination) scoring.Breakdown
}

// ScoreHandler handles score requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleScore handles POST /score requests. The body is a combination.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var c model.Combination
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	b := h.deps.Score(r.Context(), c)
	writeJSON(w, http.StatusOK, scoreResponse{Breakdown: b, Percentage: b.Percentage()})
}
