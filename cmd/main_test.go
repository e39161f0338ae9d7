package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/veilcast/veilcast/internal/adapters/http/api"
	"github.com/veilcast/veilcast/internal/adapters/http/swagger"
	"github.com/veilcast/veilcast/internal/app"
	"github.com/veilcast/veilcast/internal/config"
)

func TestMainWiring(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("VEILCAST_ADDR", ":8081")
			_ = os.Setenv("VEILCAST_MAX_LEADERBOARD_LIMIT", "50")
			defer func() {
				_ = os.Unsetenv("VEILCAST_ADDR")
				_ = os.Unsetenv("VEILCAST_MAX_LEADERBOARD_LIMIT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When building the HTTP server", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			svc := app.New(app.WithMaxLeaderboardLimit(10))
			svc.Start(ctx)
			defer svc.Stop(ctx)

			mux := http.NewServeMux()
			swagger.Register(ctx, mux)
			api.NewServer(svc, svc, 10).Register(ctx, mux)

			srv := &http.Server{
				Addr:              ":0",
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			convey.Convey("Then the server carries the configured timeouts", func() {
				convey.So(srv.ReadTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(srv.IdleTimeout, convey.ShouldEqual, 60*time.Second)
				convey.So(srv.Handler, convey.ShouldNotBeNil)
			})
		})
	})
}
