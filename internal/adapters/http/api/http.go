// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/internal/domain/scoring"
)

// maxBodyBytes bounds request bodies, catalog uploads included.
const maxBodyBytes = 8 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScoreDependencies
	CombinationDependencies
	LookupDependencies
	CatalogDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	scoreHandler        *ScoreHandler
	combinationsHandler *CombinationsHandler
	lookupHandler       *LookupHandler
	catalogHandler      *CatalogHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxResults int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider, maxResults),
		scoreHandler:        NewScoreHandler(deps),
		combinationsHandler: NewCombinationsHandler(deps, maxResults),
		lookupHandler:       NewLookupHandler(deps),
		catalogHandler:      NewCatalogHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/combinations", MetricsMiddleware(s.combinationsHandler.HandleList, "combinations"))
	mux.HandleFunc("/combinations/anchor/{category}/{id}", MetricsMiddleware(s.combinationsHandler.HandleAnchor, "anchor"))
	mux.HandleFunc("/random", MetricsMiddleware(s.combinationsHandler.HandleRandom, "random"))
	mux.HandleFunc("/compatible", MetricsMiddleware(s.lookupHandler.HandleCompatible, "compatible"))
	mux.HandleFunc("/filter", MetricsMiddleware(s.lookupHandler.HandleFilter, "filter"))
	mux.HandleFunc("/validate", MetricsMiddleware(s.lookupHandler.HandleValidate, "validate"))
	mux.HandleFunc("/sample", MetricsMiddleware(s.lookupHandler.HandleSample, "sample"))
	mux.HandleFunc("/complete", MetricsMiddleware(s.lookupHandler.HandleComplete, "complete"))
	mux.HandleFunc("/catalog", MetricsMiddleware(s.catalogHandler.HandlePutCatalog, "catalog"))
}

// partialRequest carries a partial combination. Garments may be given by id only.
type partialRequest struct {
	Partial model.Combination `json:"partial"`
}

type compatibleRequest struct {
	Category model.Category    `json:"category"`
	Partial  model.Combination `json:"partial"`
}

type scoreResponse struct {
	scoring.Breakdown
	Percentage int `json:"percentage"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

type listResponse struct {
	Count        int                        `json:"count"`
	Combinations []compat.ScoredCombination `json:"combinations"`
}

type garmentsResponse struct {
	Category model.Category   `json:"category"`
	Count    int              `json:"count"`
	Garments []*model.Garment `json:"garments"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newListResponse(scs []compat.ScoredCombination) listResponse {
	return listResponse{Count: len(scs), Combinations: scs}
}

// decodeJSON reads one JSON value from the request body, rejecting unknown
// fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	if rec, ok := w.(codeRecorder); ok {
		rec.recordErrorCode(code)
	}
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
