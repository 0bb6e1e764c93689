// Package trend classifies recent form against a baseline window, detects
// streaks and builds hit-rate tables over candidate lines.
package trend

import (
	"math"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/rounding"
)

// Defaults for an Analyzer built without options.
const (
	DefaultHotPct    = 15.0
	DefaultColdPct   = 15.0
	DefaultStreakPct = 15.0
	DefaultBandLow   = 0.2
	DefaultBandHigh  = 0.8

	minRecords     = 3
	recentWindow   = 3
	last5Window    = 5
	baselineWindow = 10
)

// NoteInsufficient marks a neutral result produced by a short history.
const NoteInsufficient = "insufficient data"

// Analyzer turns a newest-first history into a TrendResult per stat.
type Analyzer struct {
	hotPct    float64
	coldPct   float64
	streakPct float64
	bandLow   float64
	bandHigh  float64
	ceilings  map[model.StatKey]float64
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		hotPct:    DefaultHotPct,
		coldPct:   DefaultColdPct,
		streakPct: DefaultStreakPct,
		bandLow:   DefaultBandLow,
		bandHigh:  DefaultBandHigh,
		ceilings:  defaultCeilings(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies one stat of history.
func (a *Analyzer) Analyze(history []model.EventRecord, key model.StatKey) model.TrendResult {
	if len(history) < minRecords {
		return model.TrendResult{Stat: key, Trend: model.TrendNeutral, Note: NoteInsufficient}
	}

	values := model.Values(history, key)
	recent := values[:recentWindow]
	baseline := values[:min(baselineWindow, len(values))]

	avgRecent := rounding.Mean(recent)
	avgBaseline := rounding.Mean(baseline)
	if avgBaseline == 0 {
		return model.TrendResult{Stat: key, Trend: model.TrendNeutral, Games: len(baseline)}
	}

	pctDiff := (avgRecent - avgBaseline) / avgBaseline * 100

	res := model.TrendResult{
		Stat:        key,
		Trend:       a.classify(pctDiff),
		AvgRecent:   rounding.OneDecimal(avgRecent),
		AvgLast5:    rounding.OneDecimal(rounding.Mean(values[:min(last5Window, len(values))])),
		AvgBaseline: rounding.OneDecimal(avgBaseline),
		PctDiff:     rounding.OneDecimal(pctDiff),
		Streak:      a.streak(baseline, avgBaseline),
		Games:       len(baseline),
		HitRates:    a.hitRates(baseline, key),
	}
	res.Max, res.Min = bounds(baseline)
	return res
}

// AnalyzeAll runs Analyze for each key.
func (a *Analyzer) AnalyzeAll(history []model.EventRecord, keys []model.StatKey) map[model.StatKey]model.TrendResult {
	out := make(map[model.StatKey]model.TrendResult, len(keys))
	for _, k := range keys {
		out[k] = a.Analyze(history, k)
	}
	return out
}

func (a *Analyzer) classify(pctDiff float64) model.Trend {
	switch {
	case pctDiff > a.hotPct:
		return model.TrendHot
	case pctDiff < -a.coldPct:
		return model.TrendCold
	default:
		return model.TrendStable
	}
}

// streak seeds a direction from the first value clearing avg by streakPct,
// then extends while values stay strictly on that side of avg itself.
func (a *Analyzer) streak(baseline []float64, avg float64) model.Streak {
	upper := avg * (1 + a.streakPct/100)
	lower := avg * (1 - a.streakPct/100)

	start := -1
	var dir model.Direction
	for i, v := range baseline {
		if v > upper {
			start, dir = i, model.Over
			break
		}
		if v < lower {
			start, dir = i, model.Under
			break
		}
	}
	if start < 0 {
		return model.Streak{}
	}

	length := 1
	for _, v := range baseline[start+1:] {
		if (dir == model.Over && v > avg) || (dir == model.Under && v < avg) {
			length++
			continue
		}
		break
	}
	return model.Streak{Length: length, Direction: dir}
}

// hitRates lists half-integer lines whose over count sits inside the band.
func (a *Analyzer) hitRates(baseline []float64, key model.StatKey) []model.HitRate {
	n := len(baseline)
	lo := int(math.Ceil(a.bandLow*float64(n) - 1e-9))
	hi := int(math.Floor(a.bandHigh*float64(n) + 1e-9))

	ceiling := a.ceilingFor(key)
	var out []model.HitRate
	for line := 0.5; line <= ceiling; line++ {
		over := CountOver(baseline, line)
		if over < lo || over > hi {
			continue
		}
		out = append(out, model.HitRate{
			Line:  line,
			Over:  over,
			Under: n - over,
			Games: n,
			Pct:   rounding.OneDecimal(float64(over) / float64(n) * 100),
		})
	}
	return out
}

func (a *Analyzer) ceilingFor(key model.StatKey) float64 {
	if c, ok := a.ceilings[key]; ok {
		return c
	}
	return defaultCeiling
}

// CountOver counts values strictly greater than line.
func CountOver(values []float64, line float64) int {
	n := 0
	for _, v := range values {
		if v > line {
			n++
		}
	}
	return n
}

func bounds(values []float64) (hi, lo float64) {
	hi, lo = values[0], values[0]
	for _, v := range values[1:] {
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)
	}
	return hi, lo
}
