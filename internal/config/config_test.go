package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/benitoschiffler/nba-props-lab/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.Pace, convey.ShouldEqual, 600*time.Millisecond)
			convey.So(cfg.Attempts, convey.ShouldEqual, 3)
			convey.So(cfg.ScheduleTTL, convey.ShouldEqual, 2*time.Minute)
			convey.So(cfg.HistoryTTL, convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.ProfileTTL, convey.ShouldEqual, 10*time.Minute)
			convey.So(cfg.RosterTTL, convey.ShouldEqual, time.Hour)
			convey.So(cfg.ScheduleSources, convey.ShouldResemble, []string{"live", "stats"})
			convey.So(cfg.HistorySources, convey.ShouldResemble, []string{"stats"})
			convey.So(cfg.HTMLGameLogURL, convey.ShouldBeEmpty)
			convey.So(cfg.RosterLimit, convey.ShouldEqual, 8)
			convey.So(cfg.Windows, convey.ShouldResemble, []int{5, 7, 10})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When pace is zero", func() {
			cfg.Pace = 0
			err := cfg.Validate()

			convey.Convey("Then validation reports an invalid config", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "pace")
			})
		})

		convey.Convey("When a fallback chain names an unknown source", func() {
			cfg.HistorySources = []string{"stats", "carrier-pigeon"}
			err := cfg.Validate()

			convey.Convey("Then the source is named in the error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "carrier-pigeon")
			})
		})

		convey.Convey("When the schedule chain lists the html source", func() {
			cfg.ScheduleSources = []string{"html"}

			convey.Convey("Then it is rejected because html only serves game logs", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the history depth cannot cover the baseline", func() {
			cfg.HistoryDepth = 5

			convey.Convey("Then it is rejected", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the band is inverted", func() {
			cfg.BandLow, cfg.BandHigh = 0.9, 0.1

			convey.Convey("Then it is rejected", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the rank key is unknown", func() {
			cfg.RankKey = "height"

			convey.Convey("Then it is rejected", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the html source is listed without a page template", func() {
			cfg.HistorySources = []string{"stats", "html"}

			convey.Convey("Then it is rejected", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "html_gamelog_url")
			})

			convey.Convey("Then a template makes it valid", func() {
				cfg.HTMLGameLogURL = "https://example.test/players/{id}/gamelog/{season}"
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When a trend stat is not a tracked stat", func() {
			cfg.TrendStats = []string{"pts", "dunks"}

			convey.Convey("Then the stat is named in the error", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "dunks")
			})
		})
	})
}
