package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/outgoing/internal/app"
	"github.com/okian/outgoing/internal/config"
	"github.com/okian/outgoing/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const catalogTOML = `
[[days]]
day = 1
task = "a"
points = 1
[[days]]
day = 2
task = "b"
points = 2
[[days]]
day = 3
task = "c"
points = 3
[[days]]
day = 4
task = "d"
points = 4
[[days]]
day = 5
task = "e"
points = 5
[[days]]
day = 6
task = "f"
points = 6
[[days]]
day = 7
task = "g"
points = 7

[[categories]]
name = "Only"
  [[categories.actions]]
  id = "wave"
  name = "Wave at a neighbour"
  points = 2
`

func TestNewService(t *testing.T) {
	convey.Convey("Given a loaded configuration", t, func() {
		cfg := config.New()

		convey.Convey("When the defaults are used", func() {
			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then the built-in catalog is served", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Actions(context.Background()), convey.ShouldHaveLength, 3)
			})
		})

		convey.Convey("When a catalog file is configured", func() {
			cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.toml")
			convey.So(os.WriteFile(cfg.CatalogPath, []byte(catalogTOML), 0o600), convey.ShouldBeNil)
			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then its actions are served", func() {
				convey.So(err, convey.ShouldBeNil)
				cats := svc.Actions(context.Background())
				convey.So(cats, convey.ShouldHaveLength, 1)
				convey.So(cats[0].Actions[0].ID, convey.ShouldEqual, "wave")
			})
		})

		convey.Convey("When the catalog file is missing", func() {
			cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.toml")
			_, err := newService(cfg, logger.Get())

			convey.Convey("Then startup fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the day boundary is unknown", func() {
			cfg.DayBoundary = "weekly"
			_, err := newService(cfg, logger.Get())

			convey.Convey("Then startup fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled handler", t, func() {
		ctx := context.Background()
		svc := app.New()
		h := newHandler(ctx, svc)

		for _, path := range []string{"/healthz", "/api-docs", "/openapi.yaml", "/challenge", "/totals", "/metrics"} {
			convey.Convey("Then GET "+path+" is served", func() {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		}
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metrics updaters", t, func() {
		svc := app.New()

		convey.Convey("Then single updates do not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("And the loops return when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("metrics updaters did not stop")
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a free port", t, func() {
		_ = os.Setenv("OUTGOING_ADDR", "127.0.0.1:0")
		defer func() { _ = os.Unsetenv("OUTGOING_ADDR") }()

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				convey.So(run(ctx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		_ = os.Setenv("OUTGOING_DAY_BOUNDARY", "weekly")
		defer func() { _ = os.Unsetenv("OUTGOING_DAY_BOUNDARY") }()

		convey.Convey("Then run fails before serving", func() {
			convey.So(run(context.Background()), convey.ShouldNotBeNil)
		})
	})
}
