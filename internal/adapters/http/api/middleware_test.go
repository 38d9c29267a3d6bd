package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/learnboard/pkg/logger"
)

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with metrics", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			responder{log: logger.Nop()}.writeError(w, r, http.StatusBadGateway, codeUpstream, nil)
		}, "test")

		Convey("When it fails", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest("GET", "/", http.NoBody))

			Convey("Then the status passes through", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
			})
		})
	})
}

func TestErrorClassification(t *testing.T) {
	Convey("Given HTTP status codes", t, func() {
		Convey("Then each maps onto an error type and severity", func() {
			cases := []struct {
				status   int
				kind     string
				severity string
			}{
				{400, "client_error", "medium"},
				{401, "unauthorized", "medium"},
				{404, "not_found", "medium"},
				{422, "malformed_record", "medium"},
				{429, "rate_limit", "medium"},
				{500, "server_error", "high"},
				{502, "upstream_error", "high"},
				{200, "unknown", "low"},
			}
			for _, c := range cases {
				So(getErrorType(c.status), ShouldEqual, c.kind)
				So(getErrorSeverity(c.status), ShouldEqual, c.severity)
			}
		})
	})
}

func TestResponderEncodeFailure(t *testing.T) {
	Convey("Given a responder writing to a JSON logger", t, func() {
		var buf bytes.Buffer
		So(logger.InitWith(&buf, "json"), ShouldBeNil)
		defer func() { _ = logger.Init() }()
		rs := responder{log: logger.Get()}

		Convey("When the body holds a value JSON cannot carry", func() {
			w := httptest.NewRecorder()
			rs.writeJSON(w, httptest.NewRequest("GET", "/stats", http.NoBody), http.StatusOK, map[string]float64{"x": math.NaN()})

			Convey("Then the client gets a 500 error body instead of an empty 200", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				var body errorResponse
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, codeInternal)
			})

			Convey("And the failure is logged", func() {
				So(buf.String(), ShouldContainSubstring, "encode response failed")
				So(buf.String(), ShouldContainSubstring, "/stats")
			})
		})

		Convey("When the body encodes", func() {
			w := httptest.NewRecorder()
			rs.writeJSON(w, httptest.NewRequest("GET", "/", http.NoBody), http.StatusCreated, map[string]int{"n": 1})

			Convey("Then it is written with the requested status", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Body.String(), ShouldEqual, "{\"n\":1}\n")
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}
