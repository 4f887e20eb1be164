package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/westcairo/scoreboard/internal/config"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		t.Setenv("SCOREBOARD_CONFIG", "")
		t.Setenv("SCOREBOARD_ADDR", "")
		t.Setenv("SCOREBOARD_STORE", "")
		t.Setenv("SCOREBOARD_MAX_LEADERBOARD_LIMIT", "")
		os.Unsetenv("SCOREBOARD_CONFIG")
		os.Unsetenv("SCOREBOARD_ADDR")
		os.Unsetenv("SCOREBOARD_STORE")
		os.Unsetenv("SCOREBOARD_MAX_LEADERBOARD_LIMIT")

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.Store, ShouldEqual, "memory")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.MaxLeaderboardLimit, ShouldEqual, 100)
				So(cfg.StrictSubTeamScope, ShouldBeFalse)
			})
		})

		Convey("When environment variables override defaults", func() {
			t.Setenv("SCOREBOARD_ADDR", ":7070")
			t.Setenv("SCOREBOARD_STORE", "sqlite")
			t.Setenv("SCOREBOARD_STRICT_SUBTEAM_SCOPE", "true")

			cfg, err := config.Load(context.Background())

			Convey("Then the env values win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.Store, ShouldEqual, "sqlite")
				So(cfg.StrictSubTeamScope, ShouldBeTrue)
			})
		})

		Convey("When a YAML file is provided", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			So(os.WriteFile(path, []byte("addr: \":6060\"\nlog_level: debug\n"), 0o600), ShouldBeNil)
			t.Setenv("SCOREBOARD_CONFIG", path)

			cfg, err := config.Load(context.Background())

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.Store, ShouldEqual, "memory")
			})

			Convey("And env still outranks the file", func() {
				t.Setenv("SCOREBOARD_ADDR", ":5050")
				cfg, err := config.Load(context.Background())
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
			})
		})

		Convey("When the config file is missing", func() {
			t.Setenv("SCOREBOARD_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

			_, err := config.Load(context.Background())

			Convey("Then loading fails with the load sentinel", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When validation fails", func() {
			Convey("Then an unknown store is rejected", func() {
				t.Setenv("SCOREBOARD_STORE", "mongodb")
				_, err := config.Load(context.Background())
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})

			Convey("Then a non-positive limit is rejected", func() {
				t.Setenv("SCOREBOARD_MAX_LEADERBOARD_LIMIT", "0")
				_, err := config.Load(context.Background())
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
