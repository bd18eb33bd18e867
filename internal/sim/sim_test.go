package sim_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/outgoing/internal/adapters/http/api"
	service "github.com/okian/outgoing/internal/app"
	"github.com/okian/outgoing/internal/domain/session"
	"github.com/okian/outgoing/internal/sim"
	"github.com/okian/outgoing/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	svc := service.New(
		service.WithClock(session.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))),
		service.WithLocation(time.UTC),
		service.WithDayPolicy(session.PolicyManual),
	)
	r := api.NewRouter()
	api.NewServer(svc, svc).Register(context.Background(), r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func testConfig(url string) *sim.Config {
	cfg := sim.DefaultConfig()
	cfg.BaseURL = url
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestRunWeek(t *testing.T) {
	Convey("Given a fresh server", t, func() {
		srv, svc := newServer(t)
		ctx := context.Background()

		Convey("When the week is simulated", func() {
			rep, err := sim.RunWeek(ctx, testConfig(srv.URL))

			Convey("Then every day is completed for 406 points", func() {
				So(err, ShouldBeNil)
				So(rep.Days, ShouldEqual, 7)
				So(rep.UnlockedDay, ShouldEqual, 7)
				So(rep.Finished, ShouldBeTrue)
				So(rep.PointsDelta, ShouldEqual, 406)
				So(svc.Totals(ctx).TotalPoints, ShouldEqual, 406)
			})

			Convey("And a second run refuses the finished challenge", func() {
				_, err := sim.RunWeek(ctx, testConfig(srv.URL))
				So(errors.Is(err, sim.ErrNotFresh), ShouldBeTrue)
			})
		})

		Convey("When a different week total is expected", func() {
			cfg := testConfig(srv.URL)
			cfg.WeekPoints = 400
			_, err := sim.RunWeek(ctx, cfg)

			Convey("Then verification fails", func() {
				So(errors.Is(err, sim.ErrVerification), ShouldBeTrue)
			})
		})
	})

	Convey("Given a server that is down", t, func() {
		srv, _ := newServer(t)
		url := srv.URL
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := sim.RunWeek(context.Background(), testConfig(url))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRunActions(t *testing.T) {
	Convey("Given a fresh server", t, func() {
		srv, svc := newServer(t)
		ctx := context.Background()

		Convey("When 40 actions are logged with every 10th replayed", func() {
			cfg := testConfig(srv.URL)
			cfg.Actions = 40
			cfg.ReplayEvery = 10
			rep, err := sim.RunActions(ctx, cfg)

			Convey("Then replays are acknowledged and totals match the new entries", func() {
				So(err, ShouldBeNil)
				So(rep.Submitted, ShouldEqual, 44)
				So(rep.Created, ShouldEqual, 40)
				So(rep.Duplicates, ShouldEqual, 4)
				So(rep.Failed, ShouldEqual, 0)
				So(svc.Totals(ctx).TotalPoints, ShouldEqual, rep.PointsDelta)
				So(svc.GetStats()["logEntries"], ShouldEqual, 40)
			})
		})

		Convey("When replays are disabled and one worker is used", func() {
			cfg := testConfig(srv.URL)
			cfg.Actions = 5
			cfg.Workers = 1
			cfg.ReplayEvery = 0
			rep, err := sim.RunActions(ctx, cfg)

			Convey("Then only new entries are created", func() {
				So(err, ShouldBeNil)
				So(rep.Created, ShouldEqual, 5)
				So(rep.Duplicates, ShouldEqual, 0)
			})
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a client for a fresh server", t, func() {
		srv, _ := newServer(t)
		c := sim.NewClient(testConfig(srv.URL + "/"))
		ctx := context.Background()

		Convey("Then an unknown action is an unexpected status", func() {
			_, err := c.LogAction(ctx, "juggling", "")
			So(errors.Is(err, sim.ErrUnexpectedStatus), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "invalid_action")
		})

		Convey("And a replayed request id returns the original entry", func() {
			first, err := c.LogAction(ctx, "say-hello", "abc")
			So(err, ShouldBeNil)
			again, err := c.LogAction(ctx, "say-hello", "abc")
			So(err, ShouldBeNil)
			So(again.Duplicate, ShouldBeTrue)
			So(again.Entry.ID, ShouldEqual, first.Entry.ID)
		})

		Convey("And the log limit is enforced by the server", func() {
			_, err := c.Log(ctx, 0)
			So(errors.Is(err, sim.ErrUnexpectedStatus), ShouldBeTrue)
		})
	})
}
