// Package props derives placeholder prop lines and game odds. Nothing here is
// sourced from a real book.
package props

import (
	"math"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/rounding"
)

const (
	leanMargin   = 0.5
	favoredPrice = -130
	dogPrice     = 110
	evenPrice    = -110

	threesShare = 0.2 // share of minutes spent as three point attempts
	minLine     = 0.5
)

// Fallback season rates for an entity without a profile.
var fallback = model.Rates{Minutes: 25, Points: 15, Rebounds: 5, Assists: 3, FG3Pct: 0.33}

// Lines returns points, rebounds, assists and threes lines for a profile.
// Lines and prices both come from season rates. A recent average, when given,
// is reported alongside but does not move the price.
func Lines(p *model.SeasonProfile, recent map[model.StatKey]float64) map[model.StatKey]model.PropLine {
	r := fallback
	if p != nil {
		r = p.Rates
	}

	threes := r.Minutes * threesShare * r.FG3Pct
	seasons := map[model.StatKey]float64{
		model.StatPoints:   r.Points,
		model.StatRebounds: r.Rebounds,
		model.StatAssists:  r.Assists,
		model.StatFG3M:     threes,
	}

	out := make(map[model.StatKey]model.PropLine, len(seasons))
	for k, avg := range seasons {
		l := rounding.ToHalf(avg)
		if k == model.StatFG3M {
			l = math.Max(minLine, l)
		}
		form := avg
		if v, ok := recent[k]; ok {
			form = v
		}
		over, under := prices(avg - l)
		out[k] = model.PropLine{
			Stat:      k,
			Line:      l,
			Average:   rounding.OneDecimal(avg),
			Recent:    rounding.OneDecimal(form),
			OverOdds:  over,
			UnderOdds: under,
		}
	}
	return out
}

// prices leans the juice toward the side the average sits on.
func prices(diff float64) (over, under int) {
	switch {
	case diff > leanMargin:
		return favoredPrice, dogPrice
	case diff < -leanMargin:
		return dogPrice, favoredPrice
	default:
		return evenPrice, evenPrice
	}
}

// GameOdds returns the fixed placeholder prices attached to every event.
func GameOdds() model.GameOdds {
	return model.GameOdds{
		HomeSpread:    -5.5,
		AwaySpread:    5.5,
		Total:         220.5,
		HomeMoneyline: -200,
		AwayMoneyline: 170,
		Placeholder:   true,
	}
}
