package model

// WindowSummary averages each tracked stat over the newest Games records.
type WindowSummary struct {
	Window   int                 `json:"window"`
	Games    int                 `json:"games"`
	Averages map[StatKey]float64 `json:"averages"`
}

// Trend classifies recent form against the baseline.
type Trend string

const (
	TrendHot     Trend = "hot"
	TrendCold    Trend = "cold"
	TrendStable  Trend = "stable"
	TrendNeutral Trend = "neutral"
)

// Direction of a streak relative to the baseline average.
type Direction string

const (
	Over  Direction = "over"
	Under Direction = "under"
)

// Streak is a run of consecutive records on one side of the baseline average.
type Streak struct {
	Length    int       `json:"length"`
	Direction Direction `json:"direction,omitempty"`
}

// HitRate counts baseline records above and at-or-below a line.
type HitRate struct {
	Line  float64 `json:"line"`
	Over  int     `json:"over"`
	Under int     `json:"under"`
	Games int     `json:"games"`
	Pct   float64 `json:"pct"`
}

// TrendResult is the analysis of one stat. A neutral result with a Note
// carries no other figures.
type TrendResult struct {
	Stat        StatKey   `json:"stat"`
	Trend       Trend     `json:"trend"`
	Note        string    `json:"note,omitempty"`
	AvgRecent   float64   `json:"avgRecent"`
	AvgLast5    float64   `json:"avgLast5"`
	AvgBaseline float64   `json:"avgBaseline"`
	PctDiff     float64   `json:"pctDiff"`
	Streak      Streak    `json:"streak"`
	Max         float64   `json:"max"`
	Min         float64   `json:"min"`
	Games       int       `json:"games"`
	HitRates    []HitRate `json:"hitRates,omitempty"`
}
