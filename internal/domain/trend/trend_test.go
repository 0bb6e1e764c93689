package trend_test

import (
	"testing"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/trend"
	. "github.com/smartystreets/goconvey/convey"
)

func history(points ...float64) []model.EventRecord {
	out := make([]model.EventRecord, len(points))
	for i, p := range points {
		out[i] = model.EventRecord{Points: p}.Finalize()
	}
	return out
}

func lines(rates []model.HitRate) []float64 {
	out := make([]float64, len(rates))
	for i, r := range rates {
		out[i] = r.Line
	}
	return out
}

func TestAnalyzeClassification(t *testing.T) {
	Convey("Given a default analyzer", t, func() {
		a := trend.New()

		Convey("When history has fewer than three records", func() {
			for _, h := range [][]model.EventRecord{nil, history(40), history(0, 60)} {
				res := a.Analyze(h, model.StatPoints)
				So(res.Trend, ShouldEqual, model.TrendNeutral)
				So(res.Note, ShouldEqual, trend.NoteInsufficient)
				So(res.AvgBaseline, ShouldEqual, 0.0)
				So(res.HitRates, ShouldBeEmpty)
			}
		})

		Convey("When every record holds the same value", func() {
			res := a.Analyze(history(12, 12, 12, 12, 12, 12, 12, 12, 12, 12), model.StatPoints)

			Convey("Then the trend is stable with no streak", func() {
				So(res.Trend, ShouldEqual, model.TrendStable)
				So(res.PctDiff, ShouldEqual, 0.0)
				So(res.Streak.Length, ShouldEqual, 0)
				So(res.Streak.Direction, ShouldEqual, model.Direction(""))
				So(res.Note, ShouldEqual, "")
			})
		})

		Convey("When the last three are 50% above a baseline of 10", func() {
			res := a.Analyze(history(15, 15, 15, 8, 8, 8, 8, 8, 8, 7), model.StatPoints)

			Convey("Then it is hot with the supporting figures", func() {
				So(res.Trend, ShouldEqual, model.TrendHot)
				So(res.AvgBaseline, ShouldEqual, 10.0)
				So(res.AvgRecent, ShouldEqual, 15.0)
				So(res.PctDiff, ShouldAlmostEqual, 50, 0.001)
				So(res.AvgLast5, ShouldEqual, 12.2)
				So(res.Max, ShouldEqual, 15.0)
				So(res.Min, ShouldEqual, 7.0)
				So(res.Games, ShouldEqual, 10)
			})

			Convey("Then the streak runs over the three recent values", func() {
				So(res.Streak, ShouldResemble, model.Streak{Length: 3, Direction: model.Over})
			})
		})

		Convey("When the last three are well below the baseline", func() {
			res := a.Analyze(history(4, 5, 6, 12, 12, 12, 12, 12, 12, 13), model.StatPoints)

			Convey("Then it is cold with an under streak", func() {
				So(res.Trend, ShouldEqual, model.TrendCold)
				So(res.PctDiff, ShouldBeLessThan, -15.0)
				So(res.Streak, ShouldResemble, model.Streak{Length: 3, Direction: model.Under})
			})
		})

		Convey("When the baseline average is zero", func() {
			res := a.Analyze(history(0, 0, 0, 0), model.StatPoints)

			Convey("Then it is neutral with zero averages", func() {
				So(res.Trend, ShouldEqual, model.TrendNeutral)
				So(res.AvgRecent, ShouldEqual, 0.0)
				So(res.AvgBaseline, ShouldEqual, 0.0)
				So(res.Note, ShouldEqual, "")
			})
		})

		Convey("When history is longer than the baseline window", func() {
			short := a.Analyze(history(15, 15, 15, 8, 8, 8, 8, 8, 8, 7), model.StatPoints)
			long := a.Analyze(history(15, 15, 15, 8, 8, 8, 8, 8, 8, 7, 90, 90), model.StatPoints)

			Convey("Then older records do not affect the result", func() {
				So(long, ShouldResemble, short)
			})
		})
	})
}

func TestAnalyzeStreak(t *testing.T) {
	Convey("Given a baseline averaging 10", t, func() {
		a := trend.New()

		Convey("When the newest value is inside the threshold", func() {
			res := a.Analyze(history(10.5, 13, 12, 9, 9, 9, 9, 9, 9.5, 10), model.StatPoints)

			Convey("Then the streak is seeded by the first value that clears it", func() {
				So(res.AvgBaseline, ShouldEqual, 10.0)
				So(res.Streak, ShouldResemble, model.Streak{Length: 2, Direction: model.Over})
			})
		})

		Convey("When a seeded streak meets a value on the other side", func() {
			res := a.Analyze(history(5, 9, 11, 10, 10, 11, 11, 11, 11, 11), model.StatPoints)

			Convey("Then it stops there", func() {
				So(res.Streak, ShouldResemble, model.Streak{Length: 2, Direction: model.Under})
			})
		})

		Convey("When the streak threshold is raised", func() {
			strict := trend.New(trend.WithStreakThreshold(60))
			res := strict.Analyze(history(15, 15, 15, 8, 8, 8, 8, 8, 8, 7), model.StatPoints)

			Convey("Then nothing seeds it", func() {
				So(res.Streak.Length, ShouldEqual, 0)
			})
		})
	})
}

func TestHitRates(t *testing.T) {
	Convey("Given a ten record baseline", t, func() {
		a := trend.New()
		res := a.Analyze(history(20, 22, 18, 25, 19, 21, 17, 23, 20, 24), model.StatPoints)

		Convey("Then line 19.5 has 7 overs and 3 unders", func() {
			var found *model.HitRate
			for i := range res.HitRates {
				if res.HitRates[i].Line == 19.5 {
					found = &res.HitRates[i]
				}
			}
			So(found, ShouldNotBeNil)
			So(found.Over, ShouldEqual, 7)
			So(found.Under, ShouldEqual, 3)
			So(found.Games, ShouldEqual, 10)
			So(found.Pct, ShouldEqual, 70.0)
		})

		Convey("Then only lines with 2 to 8 overs are kept", func() {
			So(lines(res.HitRates), ShouldResemble, []float64{18.5, 19.5, 20.5, 21.5, 22.5, 23.5})
			for _, hr := range res.HitRates {
				So(hr.Over, ShouldBeBetweenOrEqual, 2, 8)
			}
		})

		Convey("Then a narrower band drops the outer lines", func() {
			narrow := trend.New(trend.WithRelevantBand(0.4, 0.6))
			r := narrow.Analyze(history(20, 22, 18, 25, 19, 21, 17, 23, 20, 24), model.StatPoints)
			So(lines(r.HitRates), ShouldResemble, []float64{20.5, 21.5})
		})
	})

	Convey("Given the over counter", t, func() {
		So(trend.CountOver([]float64{19.5, 20, 19}, 19.5), ShouldEqual, 1)
		So(trend.CountOver(nil, 0.5), ShouldEqual, 0)
	})
}

func TestThresholdOptions(t *testing.T) {
	Convey("Given a raised hot threshold", t, func() {
		a := trend.New(trend.WithHotThreshold(60))

		Convey("Then a 50% rise is stable", func() {
			res := a.Analyze(history(15, 15, 15, 8, 8, 8, 8, 8, 8, 7), model.StatPoints)
			So(res.Trend, ShouldEqual, model.TrendStable)
		})
	})

	Convey("Given several stats", t, func() {
		a := trend.New()
		h := []model.EventRecord{
			model.EventRecord{Points: 30, Rebounds: 5, Assists: 5}.Finalize(),
			model.EventRecord{Points: 30, Rebounds: 5, Assists: 5}.Finalize(),
			model.EventRecord{Points: 30, Rebounds: 5, Assists: 5}.Finalize(),
		}
		all := a.AnalyzeAll(h, []model.StatKey{model.StatPoints, model.StatPRA})

		Convey("Then each is analyzed on its own values", func() {
			So(all, ShouldHaveLength, 2)
			So(all[model.StatPRA].AvgBaseline, ShouldEqual, 40.0)
			So(all[model.StatPoints].Trend, ShouldEqual, model.TrendStable)
		})
	})
}
