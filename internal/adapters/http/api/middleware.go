package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/outfit/pkg/metrics"
)

// Error codes written in errorResponse bodies. They double as the
// error_type label on error metrics.
const (
	codeBadRequest     = "bad_request"
	codeLimitExceeded  = "limit_exceeded"
	codeInvalidCatalog = "invalid_catalog"
	codeNoMatch        = "no_match"
	codeInternalError  = "internal_error"

	// Set when a route answers with http.NotFound (wrong method).
	codeRouteNotFound = "route_not_found"
)

var errorSeverity = map[string]string{
	codeBadRequest:     "low",
	codeLimitExceeded:  "low",
	codeNoMatch:        "low",
	codeRouteNotFound:  "low",
	codeInvalidCatalog: "medium",
	codeInternalError:  "high",
}

// MetricsMiddleware records request count and latency for endpoint, plus
// error metrics labelled with the code the handler answered with.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		durationMs := float64(time.Since(start).Milliseconds())
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if rec.status < http.StatusBadRequest {
			return
		}
		code := errorCode(rec)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, code)
		metrics.RecordErrorByType(code, severityOf(code))
		metrics.RecordErrorLatency("http", code, durationMs)
	}
}

// errorCode returns the code a handler wrote through writeError, or one
// derived from the status for responses written by net/http itself.
func errorCode(rec *statusRecorder) string {
	if rec.code != "" {
		return rec.code
	}
	switch {
	case rec.status == http.StatusNotFound:
		return codeRouteNotFound
	case rec.status >= http.StatusInternalServerError:
		return codeInternalError
	default:
		return codeBadRequest
	}
}

func severityOf(code string) string {
	if s, ok := errorSeverity[code]; ok {
		return s
	}
	return "medium"
}

// codeRecorder is implemented by writers that want the error code of the
// response; writeError reports to it.
type codeRecorder interface {
	recordErrorCode(code string)
}

// statusRecorder captures the status and error code of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (rw *statusRecorder) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *statusRecorder) recordErrorCode(code string) {
	rw.code = code
}
