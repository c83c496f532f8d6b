package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given handlers wrapped by the metrics middleware", t, func() {
		var seen *statusRecorder
		wrap := func(h http.HandlerFunc) http.HandlerFunc {
			return MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = w.(*statusRecorder)
				h(w, r)
			}, "test")
		}
		serve := func(h http.HandlerFunc) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			wrap(h)(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
			return w
		}

		Convey("When a handler answers with an API error", func() {
			w := serve(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusBadRequest, codeInvalidCatalog, errors.New("bad"))
			})

			Convey("Then the error code is recorded with the status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(seen, ShouldNotBeNil)
				So(seen.status, ShouldEqual, http.StatusBadRequest)
				So(errorCode(seen), ShouldEqual, codeInvalidCatalog)
				So(severityOf(errorCode(seen)), ShouldEqual, "medium")
			})
		})

		Convey("When net/http answers a wrong method", func() {
			w := serve(http.NotFound)

			Convey("Then the response is classified by status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorCode(seen), ShouldEqual, codeRouteNotFound)
				So(severityOf(codeRouteNotFound), ShouldEqual, "low")
			})
		})

		Convey("When a handler succeeds", func() {
			w := serve(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]int{"count": 0})
			})

			Convey("Then no error code is recorded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(seen.code, ShouldBeEmpty)
			})
		})
	})

	Convey("Given responses without a handler code", t, func() {
		So(errorCode(&statusRecorder{status: http.StatusInternalServerError}), ShouldEqual, codeInternalError)
		So(errorCode(&statusRecorder{status: http.StatusRequestEntityTooLarge}), ShouldEqual, codeBadRequest)
		So(severityOf(codeInternalError), ShouldEqual, "high")
		So(severityOf("something_else"), ShouldEqual, "medium")
	})
}
