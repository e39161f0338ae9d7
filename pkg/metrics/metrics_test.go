package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			bucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			enabledOpt := WithMetricsEnabled(true)
			refreshOpt := WithRefreshInterval(5 * time.Second)
			labelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(bucketsOpt, ShouldNotBeNil)
				So(enabledOpt, ShouldNotBeNil)
				So(refreshOpt, ShouldNotBeNil)
				So(labelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording record lifecycle metrics", func() {
			So(func() {
				RecordCreation()
				RecordReveal()
				RecordAccuracyCorrection()
				RecordDuplicateSubmission()
				RecordRevealLatency(12.5)
			}, ShouldNotPanic)
		})

		Convey("When recording leaderboard metrics", func() {
			So(func() {
				RecordBoardInsert()
				RecordBoardReinsert()
				UpdateBoardSize(42)
				UpdateRecordsTotal(100)
				RecordQueryLatency(0.5)
			}, ShouldNotPanic)
		})

		Convey("When recording notification metrics", func() {
			So(func() {
				RecordNotifyPublished("record.created")
				RecordNotifyDropped("record.revealed")
				UpdateNotifyQueueSize(3)
				UpdateNotifyQueueCapacity(1024)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("records", "POST", "201")
				RecordHTTPRequestDuration("records", "POST", "201", 3.0)
			}, ShouldNotPanic)
		})

		Convey("When recording error metrics", func() {
			So(func() {
				RecordScoringError()
				RecordErrorByComponent("board", "duplicate_entry")
				RecordErrorByType("validation", "medium")
				RecordErrorByEndpoint("records", "POST", "client_error")
			}, ShouldNotPanic)
		})

		Convey("When updating system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(10)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the metrics registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should be gatherable", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})
	})
}
