package trend

import "github.com/benitoschiffler/nba-props-lab/internal/domain/model"

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithHotThreshold sets the percent above baseline that classifies as hot.
func WithHotThreshold(pct float64) Option {
	return func(a *Analyzer) {
		if pct > 0 {
			a.hotPct = pct
		}
	}
}

// WithColdThreshold sets the percent below baseline that classifies as cold.
func WithColdThreshold(pct float64) Option {
	return func(a *Analyzer) {
		if pct > 0 {
			a.coldPct = pct
		}
	}
}

// WithStreakThreshold sets the percent off baseline a value needs to seed a streak.
func WithStreakThreshold(pct float64) Option {
	return func(a *Analyzer) {
		if pct >= 0 {
			a.streakPct = pct
		}
	}
}

// WithRelevantBand sets the fractions of the baseline window bounding the
// over count of a reported line.
func WithRelevantBand(low, high float64) Option {
	return func(a *Analyzer) {
		if low >= 0 && high <= 1 && low <= high {
			a.bandLow, a.bandHigh = low, high
		}
	}
}

// WithLineCeiling overrides the highest candidate line for a stat.
func WithLineCeiling(key model.StatKey, ceiling float64) Option {
	return func(a *Analyzer) {
		if ceiling >= 0.5 {
			a.ceilings[key] = ceiling
		}
	}
}
