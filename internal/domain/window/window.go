// Package window computes fixed-window averages over an entity's history.
package window

import (
	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/rounding"
)

// DefaultSizes are the windows reported on the dashboard.
var DefaultSizes = []int{5, 7, 10}

// Summarize averages every tracked stat over the newest min(n, len(history))
// records. It returns nil when there is nothing to average.
func Summarize(history []model.EventRecord, n int) *model.WindowSummary {
	if len(history) == 0 || n <= 0 {
		return nil
	}
	used := history
	if len(used) > n {
		used = used[:n]
	}

	sums := make(map[model.StatKey]float64, len(model.TrackedStats))
	for i := range used {
		for _, k := range model.TrackedStats {
			sums[k] += used[i].Value(k)
		}
	}

	avgs := make(map[model.StatKey]float64, len(sums))
	for k, s := range sums {
		avgs[k] = rounding.OneDecimal(s / float64(len(used)))
	}
	return &model.WindowSummary{Window: n, Games: len(used), Averages: avgs}
}

// SummarizeAll returns one summary per window size. Sizes with no data are
// left out of the map.
func SummarizeAll(history []model.EventRecord, sizes ...int) map[int]*model.WindowSummary {
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	out := make(map[int]*model.WindowSummary, len(sizes))
	for _, n := range sizes {
		if s := Summarize(history, n); s != nil {
			out[n] = s
		}
	}
	return out
}
