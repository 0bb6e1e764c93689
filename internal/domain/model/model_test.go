package model_test

import (
	"testing"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFinalize(t *testing.T) {
	Convey("Given a box score", t, func() {
		r := model.EventRecord{Points: 20, OffReb: 2, DefReb: 5, Assists: 6, Steals: 2, Blocks: 1}

		Convey("When it is finalized", func() {
			f := r.Finalize()

			Convey("Then missing rebounds are rebuilt from the split", func() {
				So(f.Rebounds, ShouldEqual, 7.0)
			})

			Convey("Then composites are stored", func() {
				So(f.PRA, ShouldEqual, 33.0)
				So(f.PR, ShouldEqual, 27.0)
				So(f.PA, ShouldEqual, 26.0)
				So(f.RA, ShouldEqual, 13.0)
				So(f.Stocks, ShouldEqual, 3.0)
			})

			Convey("Then the original value is untouched", func() {
				So(r.PRA, ShouldEqual, 0.0)
			})

			Convey("Then every tracked key is readable", func() {
				So(f.Value(model.StatPRA), ShouldEqual, 33.0)
				So(f.Value(model.StatKey("bogus")), ShouldEqual, 0.0)
				for _, k := range model.TrackedStats {
					So(k.IsKnown(), ShouldBeTrue)
				}
			})
		})

		Convey("A reported total is kept over the split", func() {
			r.Rebounds = 9
			So(r.Finalize().Rebounds, ShouldEqual, 9.0)
		})
	})

	Convey("Values keeps history order", t, func() {
		h := []model.EventRecord{{Points: 3}, {Points: 1}, {Points: 2}}
		So(model.Values(h, model.StatPoints), ShouldResemble, []float64{3, 1, 2})
	})
}

func TestStatusAndTeams(t *testing.T) {
	Convey("Status codes map to lifecycle states", t, func() {
		So(model.StatusFromCode(1), ShouldEqual, model.StatusScheduled)
		So(model.StatusFromCode(2), ShouldEqual, model.StatusLive)
		So(model.StatusFromCode(3), ShouldEqual, model.StatusFinal)
		So(model.StatusFromCode(0), ShouldEqual, model.StatusScheduled)
	})

	Convey("Team names are filled only when missing", t, func() {
		e := model.ScheduledEvent{HomeTeamID: "1610612747", AwayTeamID: "1610612744", AwayTeam: "XXX"}.WithTeamNames()
		So(e.HomeTeam, ShouldEqual, "LAL")
		So(e.AwayTeam, ShouldEqual, "XXX")

		teams := model.Teams()
		So(teams, ShouldHaveLength, 30)
		So(teams[0].Abbr, ShouldEqual, "ATL")
		_, ok := model.TeamByID("1")
		So(ok, ShouldBeFalse)
	})
}

func TestDerivedTracking(t *testing.T) {
	Convey("Derived tracking scales season rates", t, func() {
		p := &model.SeasonProfile{Rates: model.Rates{Minutes: 30, Assists: 5, Rebounds: 10}}
		tr := model.DerivedTracking("7", p)
		So(tr.Derived, ShouldBeTrue)
		So(tr.Touches, ShouldEqual, 60.0)
		So(tr.Passes, ShouldEqual, 40.0)
		So(tr.PotentialAst, ShouldEqual, 11.0)
		So(tr.RebChances, ShouldEqual, 14.0)
		So(tr.ContestedShots, ShouldEqual, 3.0)
		So(tr.AvgSpeed, ShouldEqual, 4.0)
	})

	Convey("Derived tracking without a profile keeps the floors", t, func() {
		tr := model.DerivedTracking("7", nil)
		So(tr.Touches, ShouldEqual, 0.0)
		So(tr.ContestedShots, ShouldEqual, 3.0)
	})
}
