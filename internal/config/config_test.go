package config_test

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/veilcast/veilcast/internal/config"
)

func TestConfigDefaults(t *testing.T) {
	convey.Convey("Given a fresh config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then defaults are sane", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.NotifyQueueSize, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.DedupeSize, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.BaselineAccuracy, convey.ShouldEqual, 5000)
		})
	})
}
