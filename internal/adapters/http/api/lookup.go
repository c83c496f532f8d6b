package api

import (
	"context"
	"net/http"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
)

// LookupDependencies defines the interface for partial-combination queries.
type LookupDependencies interface {
	CompatibleItems(ctx context.Context, cat model.Category, partial model.Combination) []*model.Garment
	Filtered(ctx context.Context, partial model.Combination) []compat.ScoredCombination
	ValidatePartial(ctx context.Context, partial model.Combination) bool
	Sample(ctx context.Context, partial model.Combination) (compat.ScoredCombination, bool)
	Complete(ctx context.Context, partial model.Combination) (compat.ScoredCombination, bool)
}

// LookupHandler handles queries keyed by a partial combination.
type LookupHandler struct {
	deps LookupDependencies
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(deps LookupDependencies) *LookupHandler {
	return &LookupHandler{deps: deps}
}

// HandleCompatible handles POST /compatible requests.
func (h *LookupHandler) HandleCompatible(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_compatible"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req compatibleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	if !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, model.ErrUnknownCategory))
		return
	}
	items := h.deps.CompatibleItems(r.Context(), req.Category, req.Partial)
	writeJSON(w, http.StatusOK, garmentsResponse{Category: req.Category, Count: len(items), Garments: items})
}

// HandleFilter handles POST /filter requests.
func (h *LookupHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePartial(w, r, "api.post_filter")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(h.deps.Filtered(r.Context(), req.Partial)))
}

// HandleValidate handles POST /validate requests. Garments are checked as
// sent, so they must carry id, name and category.
func (h *LookupHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePartial(w, r, "api.post_validate")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: h.deps.ValidatePartial(r.Context(), req.Partial)})
}

// HandleSample handles POST /sample requests.
func (h *LookupHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_sample"
	req, ok := decodePartial(w, r, op)
	if !ok {
		return
	}
	sc, found := h.deps.Sample(r.Context(), req.Partial)
	if !found {
		writeError(w, http.StatusNotFound, codeNoMatch, NewKind(op, ErrNoMatch))
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// HandleComplete handles POST /complete requests.
func (h *LookupHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_complete"
	req, ok := decodePartial(w, r, op)
	if !ok {
		return
	}
	sc, found := h.deps.Complete(r.Context(), req.Partial)
	if !found {
		writeError(w, http.StatusNotFound, codeNoMatch, NewKind(op, ErrNoMatch))
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// decodePartial enforces POST and decodes a partialRequest, writing the error
// response itself when it fails.
func decodePartial(w http.ResponseWriter, r *http.Request, op string) (partialRequest, bool) {
	var req partialRequest
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return req, false
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return req, false
	}
	return req, true
}
