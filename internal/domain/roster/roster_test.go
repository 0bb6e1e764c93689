package roster_test

import (
	"testing"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func candidate(id string, minutes, points float64) roster.Candidate {
	return roster.Candidate{
		Ref:     model.EntityRef{ID: id, Name: "Player " + id, TeamID: "1610612747"},
		Profile: &model.SeasonProfile{EntityID: id, Rates: model.Rates{Minutes: minutes, Points: points}},
	}
}

func ids(refs []model.EntityRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	return out
}

func TestSelect(t *testing.T) {
	Convey("Given roster candidates", t, func() {
		Convey("When one candidate averages below the minutes floor", func() {
			got := roster.Select([]roster.Candidate{candidate("a", 20, 10), candidate("b", 10, 30)}, 8, 15, roster.ByMinutes)

			Convey("Then only the qualifying one is selected", func() {
				So(ids(got), ShouldResemble, []string{"a"})
			})
		})

		Convey("When a candidate has no profile", func() {
			c := candidate("x", 40, 40)
			c.Profile = nil
			got := roster.Select([]roster.Candidate{c, candidate("a", 20, 10)}, 8, 0, roster.ByMinutes)

			Convey("Then it fails the filter", func() {
				So(ids(got), ShouldResemble, []string{"a"})
			})
		})

		Convey("When the limit is one and two qualify", func() {
			in := []roster.Candidate{candidate("a", 25, 30), candidate("b", 34, 12)}

			Convey("Then the top candidate by the configured key wins", func() {
				So(ids(roster.Select(in, 1, 15, roster.ByMinutes)), ShouldResemble, []string{"b"})
				So(ids(roster.Select(in, 1, 15, roster.ByPoints)), ShouldResemble, []string{"a"})
			})

			Convey("Then repeated calls agree", func() {
				first := roster.Select(in, 1, 15, roster.ByMinutes)
				for i := 0; i < 20; i++ {
					So(roster.Select(in, 1, 15, roster.ByMinutes), ShouldResemble, first)
				}
			})
		})

		Convey("When candidates tie on the key", func() {
			in := []roster.Candidate{candidate("c", 30, 1), candidate("a", 30, 2), candidate("b", 30, 3)}

			Convey("Then input order breaks the tie", func() {
				So(ids(roster.Select(in, 2, 15, roster.ByMinutes)), ShouldResemble, []string{"c", "a"})
			})
		})

		Convey("When the limit is not positive", func() {
			in := []roster.Candidate{candidate("a", 20, 1), candidate("b", 30, 1)}

			Convey("Then everyone qualifying is kept in rank order", func() {
				So(ids(roster.Select(in, 0, 15, roster.ByMinutes)), ShouldResemble, []string{"b", "a"})
			})
		})

		Convey("When there are no candidates", func() {
			Convey("Then the result is empty, not nil", func() {
				got := roster.Select(nil, 8, 15, roster.ByMinutes)
				So(got, ShouldNotBeNil)
				So(got, ShouldBeEmpty)
			})
		})
	})
}
