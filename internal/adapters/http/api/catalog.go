package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/outfit/internal/adapters/catalog"
	"github.com/okian/outfit/internal/domain/model"
)

// CatalogDependencies defines the interface for replacing the catalog.
type CatalogDependencies interface {
	ReplaceCatalog(ctx context.Context, c *model.Catalog) (bool, error)
	Revision() string
}

// CatalogHandler handles catalog uploads.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type catalogResponse struct {
	Status   string `json:"status"`
	Revision string `json:"revision"`
}

// HandlePutCatalog handles PUT /catalog requests. The body is a full catalog
// snapshot; the index is rebuilt and swapped before the response is written.
func (h *CatalogHandler) HandlePutCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_catalog"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	c, err := catalog.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	rebuilt, err := h.deps.ReplaceCatalog(r.Context(), c)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidCatalog) {
			writeError(w, http.StatusBadRequest, codeInvalidCatalog, WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternalError, Wrap(op, err))
		return
	}
	status := "unchanged"
	if rebuilt {
		status = "replaced"
	}
	writeJSON(w, http.StatusOK, catalogResponse{Status: status, Revision: h.deps.Revision()})
}
