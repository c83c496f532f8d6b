package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
)

// CombinationDependencies defines the interface for reading the ranked index.
type CombinationDependencies interface {
	All(ctx context.Context, limit int) []compat.ScoredCombination
	// ForAnchor returns an empty list for ids missing from the catalog.
	ForAnchor(ctx context.Context, cat model.Category, id string) ([]compat.ScoredCombination, error)
	Random(ctx context.Context) (compat.ScoredCombination, bool)
}

// CombinationsHandler handles index reads.
type CombinationsHandler struct {
	deps       CombinationDependencies
	maxResults int
}

// NewCombinationsHandler creates a new combinations handler.
func NewCombinationsHandler(deps CombinationDependencies, maxResults int) *CombinationsHandler {
	return &CombinationsHandler{
		deps:       deps,
		maxResults: maxResults,
	}
}

// HandleList handles GET /combinations?limit=N requests. Without a limit the
// configured maximum applies.
func (h *CombinationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_combinations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.maxResults
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxResults {
			writeError(w, http.StatusBadRequest, codeLimitExceeded, NewKind(op, ErrBadRequest))
			return
		}
	}
	writeJSON(w, http.StatusOK, newListResponse(h.deps.All(r.Context(), n)))
}

// HandleAnchor handles GET /combinations/anchor/{category}/{id} requests.
func (h *CombinationsHandler) HandleAnchor(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_anchor"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cat, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrBadRequest))
		return
	}
	scs, err := h.deps.ForAnchor(r.Context(), cat, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(scs))
}

// HandleRandom handles GET /random requests.
func (h *CombinationsHandler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_random"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sc, ok := h.deps.Random(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, codeNoMatch, NewKind(op, ErrNoMatch))
		return
	}
	writeJSON(w, http.StatusOK, sc)
}
