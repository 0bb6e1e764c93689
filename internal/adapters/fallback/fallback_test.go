package fallback_test

import (
	"context"
	"errors"
	"testing"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/fallback"
	"github.com/benitoschiffler/nba-props-lab/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func strategy(name string, calls *[]string, v []int, err error) fallback.Strategy[[]int] {
	return fallback.Strategy[[]int]{Name: name, Fetch: func(context.Context) ([]int, error) {
		*calls = append(*calls, name)
		return v, err
	}}
}

func TestResolve(t *testing.T) {
	Convey("Given a resolver for slice results", t, func() {
		r := fallback.New("schedule", fallback.NonEmpty[int], logger.Nop())
		ctx := context.Background()
		var calls []string

		Convey("When the first strategy fails and the second answers", func() {
			v, src, ok := r.Resolve(ctx,
				strategy("live", &calls, nil, errors.New("boom")),
				strategy("stats", &calls, []int{1, 2}, nil),
				strategy("html", &calls, []int{9}, nil),
			)

			Convey("Then the second answer wins and the third is never called", func() {
				So(ok, ShouldBeTrue)
				So(src, ShouldEqual, "stats")
				So(v, ShouldResemble, []int{1, 2})
				So(calls, ShouldResemble, []string{"live", "stats"})
			})
		})

		Convey("When a strategy returns an empty result", func() {
			_, src, ok := r.Resolve(ctx,
				strategy("live", &calls, []int{}, nil),
				strategy("stats", &calls, []int{3}, nil),
			)
			So(ok, ShouldBeTrue)
			So(src, ShouldEqual, "stats")
		})

		Convey("When every strategy fails", func() {
			v, src, ok := r.Resolve(ctx,
				strategy("live", &calls, nil, errors.New("a")),
				strategy("stats", &calls, nil, nil),
			)
			So(ok, ShouldBeFalse)
			So(src, ShouldEqual, "")
			So(v, ShouldBeNil)
			So(calls, ShouldHaveLength, 2)
		})

		Convey("When a strategy panics", func() {
			boom := fallback.Strategy[[]int]{Name: "bad", Fetch: func(context.Context) ([]int, error) {
				panic("nil map")
			}}
			So(func() {
				_, src, ok := r.Resolve(ctx, boom, strategy("stats", &calls, []int{4}, nil))
				So(ok, ShouldBeTrue)
				So(src, ShouldEqual, "stats")
			}, ShouldNotPanic)
		})

		Convey("When no strategies are given", func() {
			_, _, ok := r.Resolve(ctx)
			So(ok, ShouldBeFalse)
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, _, ok := r.Resolve(cctx, strategy("live", &calls, []int{1}, nil))
			So(ok, ShouldBeFalse)
			So(calls, ShouldBeEmpty)
		})
	})

	Convey("A pointer resolver treats nil as absent", t, func() {
		type profile struct{ pts float64 }
		r := fallback.New("profile", fallback.NonNil[profile], nil)
		v, src, ok := r.Resolve(context.Background(),
			fallback.Strategy[*profile]{Name: "stats", Fetch: func(context.Context) (*profile, error) { return nil, nil }},
			fallback.Strategy[*profile]{Name: "derived", Fetch: func(context.Context) (*profile, error) { return &profile{pts: 12}, nil }},
		)
		So(ok, ShouldBeTrue)
		So(src, ShouldEqual, "derived")
		So(v.pts, ShouldEqual, 12.0)
	})
}
