package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/batch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerRecordsBatch(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := NewManager()

		Convey("When a batch run is observed", func() {
			m.ObserveUser(batch.OutcomeProcessed)
			m.ObserveUser(batch.OutcomeProcessed)
			m.ObserveUser(batch.OutcomeSkipped)
			m.ObserveUser(batch.OutcomeError)
			m.ObserveRun(2*time.Second, batch.Result{Processed: 2, Skipped: 1, Errors: 1, Total: 4})

			Convey("Then the outcome counters are incremented", func() {
				So(testutil.ToFloat64(m.batchUsers.WithLabelValues("processed")), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.batchUsers.WithLabelValues("skipped")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.batchUsers.WithLabelValues("error")), ShouldEqual, 1.0)
			})

			Convey("And the run is recorded", func() {
				So(testutil.ToFloat64(m.batchRuns), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.batchLastErrors), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.batchLastRunUnix), ShouldBeGreaterThan, 0.0)
			})
		})
	})
}

func TestManagerRecordsScoresAndRPCs(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := NewManager(WithNamespace("test"))

		m.ObserveScore(domain.HealthScoreResult{Score: 940, Rating: domain.RatingExcellent})
		m.ObserveScore(domain.HealthScoreResult{Score: 150, Rating: domain.RatingPoor})
		m.ObserveRPC("/insights.v1.InsightsService/GetHealthScore", "OK", 20*time.Millisecond)

		Convey("Then scores are counted by rating", func() {
			So(testutil.ToFloat64(m.scoresComputed.WithLabelValues("Excellent")), ShouldEqual, 1.0)
			So(testutil.ToFloat64(m.scoresComputed.WithLabelValues("Poor")), ShouldEqual, 1.0)
			So(testutil.CollectAndCount(m.scoreValues), ShouldEqual, 1)
		})

		Convey("And the exposition endpoint serves them under the namespace", func() {
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			body := rec.Body.String()
			So(body, ShouldContainSubstring, "test_health_scores_total")
			So(body, ShouldContainSubstring, `test_grpc_requests_total{code="OK",method="/insights.v1.InsightsService/GetHealthScore"} 1`)
			So(strings.Contains(body, "go_goroutines"), ShouldBeFalse)
		})
	})
}

func TestManagerRuntimeCollectors(t *testing.T) {
	Convey("Given runtime collectors are enabled", t, func() {
		m := NewManager(WithRuntimeCollectors())

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		So(rec.Body.String(), ShouldContainSubstring, "go_goroutines")
	})
}
