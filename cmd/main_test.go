package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/benitoschiffler/nba-props-lab/internal/config"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
	"github.com/benitoschiffler/nba-props-lab/pkg/metrics"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("PROPSLAB_ADDR", ":8080")
			_ = os.Setenv("PROPSLAB_ROSTER_LIMIT", "6")
			_ = os.Setenv("PROPSLAB_WARM_SCHEDULE", "@every 5m")
			defer func() {
				_ = os.Unsetenv("PROPSLAB_ADDR")
				_ = os.Unsetenv("PROPSLAB_ROSTER_LIMIT")
				_ = os.Unsetenv("PROPSLAB_WARM_SCHEDULE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RosterLimit, convey.ShouldEqual, 6)
				convey.So(cfg.WarmSchedule, convey.ShouldEqual, "@every 5m")
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("PROPSLAB_ADDR", "")
			defer func() { _ = os.Unsetenv("PROPSLAB_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestWiring(t *testing.T) {
	convey.Convey("Given a service wired from defaults", t, func() {
		svc := newService(config.New(), logger.Nop())
		convey.So(svc, convey.ShouldNotBeNil)

		mux := newMux(context.Background(), svc)

		convey.Convey("The root route reports the season", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, svc.Season())
		})

		convey.Convey("Stats are served before the service starts", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"started":false`)
		})

		convey.Convey("The API reference is mounted", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Service metrics update without panicking", func() {
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When creating a metrics manager on a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
			convey.So(manager, convey.ShouldNotBeNil)
		})
	})
}
