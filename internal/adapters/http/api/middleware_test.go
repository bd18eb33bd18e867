package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/outgoing/pkg/metrics"
)

// requestCount returns outgoing_session_http_requests_total for the labels.
func requestCount(route, method, code string) float64 {
	families, err := metrics.GetRegistry().Gather()
	So(err, ShouldBeNil)
	for _, mf := range families {
		if mf.GetName() != "outgoing_session_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabels(m, map[string]string{"endpoint": route, "method": method, "status_code": code}) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabels(m *dto.Metric, want map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if v, ok := want[lp.GetName()]; ok && v == lp.GetValue() {
			found++
		}
	}
	return found == len(want)
}

func TestMetrics(t *testing.T) {
	Convey("Given a router with a parameterized route", t, func() {
		r := NewRouter()
		r.Post("/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte("{}"))
		})
		r.Get("/quiet", func(http.ResponseWriter, *http.Request) {})

		Convey("When requests hit different ids of the same route", func() {
			before := requestCount("/things/{id}", http.MethodPost, "409")
			for _, id := range []string{"a", "b"} {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things/"+id, nil))
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(w.Body.String(), ShouldEqual, "{}")
			}

			Convey("Then both are counted under the route pattern", func() {
				So(requestCount("/things/{id}", http.MethodPost, "409")-before, ShouldEqual, 2)
			})
		})

		Convey("When a handler writes nothing", func() {
			before := requestCount("/quiet", http.MethodGet, "200")
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/quiet", nil))

			Convey("Then it is counted as 200", func() {
				So(requestCount("/quiet", http.MethodGet, "200")-before, ShouldEqual, 1)
			})
		})

		Convey("When no route matches", func() {
			before := requestCount(unmatchedRoute, http.MethodGet, "404")
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing/42", nil))

			Convey("Then the path does not leak into the labels", func() {
				So(requestCount(unmatchedRoute, http.MethodGet, "404")-before, ShouldEqual, 1)
				So(requestCount("/missing/42", http.MethodGet, "404"), ShouldEqual, 0)
			})
		})
	})
}

func TestErrorClassification(t *testing.T) {
	Convey("Given HTTP status codes", t, func() {
		So(errorClass(http.StatusInternalServerError), ShouldEqual, "server_error")
		So(errorClass(http.StatusConflict), ShouldEqual, "conflict")
		So(errorClass(http.StatusNotFound), ShouldEqual, "not_found")
		So(errorClass(http.StatusBadRequest), ShouldEqual, "client_error")
		So(errorClass(http.StatusOK), ShouldEqual, "unknown")

		So(errorSeverity(http.StatusBadGateway), ShouldEqual, "high")
		So(errorSeverity(http.StatusBadRequest), ShouldEqual, "medium")
		So(errorSeverity(http.StatusOK), ShouldEqual, "low")
	})
}
