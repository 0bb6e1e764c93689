// Package model contains domain models passed between layers.
package model

import "time"

// StatKey names one tracked statistic of an EventRecord.
type StatKey string

// Counting stats.
const (
	StatMinutes  StatKey = "min"
	StatPoints   StatKey = "pts"
	StatRebounds StatKey = "reb"
	StatOffReb   StatKey = "oreb"
	StatDefReb   StatKey = "dreb"
	StatAssists  StatKey = "ast"
	StatSteals   StatKey = "stl"
	StatBlocks   StatKey = "blk"
	StatTurnover StatKey = "tov"
	StatFouls    StatKey = "pf"
	StatFGM      StatKey = "fgm"
	StatFGA      StatKey = "fga"
	StatFG3M     StatKey = "fg3m"
	StatFG3A     StatKey = "fg3a"
	StatFTM      StatKey = "ftm"
	StatFTA      StatKey = "fta"
)

// Composite stats, stored on the record once it is finalized.
const (
	StatPRA    StatKey = "pra"
	StatPR     StatKey = "pr"
	StatPA     StatKey = "pa"
	StatRA     StatKey = "ra"
	StatStocks StatKey = "stocks"
)

// TrackedStats is the stat set averaged by window summaries, in display order.
var TrackedStats = []StatKey{
	StatMinutes, StatPoints, StatRebounds, StatOffReb, StatDefReb, StatAssists,
	StatSteals, StatBlocks, StatTurnover, StatFouls,
	StatFGM, StatFGA, StatFG3M, StatFG3A, StatFTM, StatFTA,
	StatPRA, StatPR, StatPA, StatRA, StatStocks,
}

// IsKnown reports whether k names a stat an EventRecord carries.
func (k StatKey) IsKnown() bool {
	for _, s := range TrackedStats {
		if s == k {
			return true
		}
	}
	return false
}

// Outcome of a completed event from the entity's side.
type Outcome string

const (
	Win  Outcome = "W"
	Loss Outcome = "L"
)

// EventRecord is one entity's box score for one completed event.
// Records are immutable after Finalize; histories are newest-first.
type EventRecord struct {
	Date     time.Time `json:"date"`
	Matchup  string    `json:"matchup"`
	Opponent string    `json:"opponent,omitempty"`
	Home     bool      `json:"home"`
	Result   Outcome   `json:"result,omitempty"`

	Minutes   float64 `json:"min"`
	Points    float64 `json:"pts"`
	OffReb    float64 `json:"oreb"`
	DefReb    float64 `json:"dreb"`
	Rebounds  float64 `json:"reb"`
	Assists   float64 `json:"ast"`
	Steals    float64 `json:"stl"`
	Blocks    float64 `json:"blk"`
	Turnovers float64 `json:"tov"`
	Fouls     float64 `json:"pf"`
	FGM       float64 `json:"fgm"`
	FGA       float64 `json:"fga"`
	FG3M      float64 `json:"fg3m"`
	FG3A      float64 `json:"fg3a"`
	FTM       float64 `json:"ftm"`
	FTA       float64 `json:"fta"`

	PRA    float64 `json:"pra"`
	PR     float64 `json:"pr"`
	PA     float64 `json:"pa"`
	RA     float64 `json:"ra"`
	Stocks float64 `json:"stocks"`
}

// Finalize fills composite stats from the counting stats and returns the record.
// A zero total rebound count is rebuilt from the offensive/defensive split.
func (r EventRecord) Finalize() EventRecord {
	if r.Rebounds == 0 && (r.OffReb != 0 || r.DefReb != 0) {
		r.Rebounds = r.OffReb + r.DefReb
	}
	r.PRA = r.Points + r.Rebounds + r.Assists
	r.PR = r.Points + r.Rebounds
	r.PA = r.Points + r.Assists
	r.RA = r.Rebounds + r.Assists
	r.Stocks = r.Steals + r.Blocks
	return r
}

// Value returns the stat named by k, or 0 for an unknown key.
func (r *EventRecord) Value(k StatKey) float64 {
	switch k {
	case StatMinutes:
		return r.Minutes
	case StatPoints:
		return r.Points
	case StatRebounds:
		return r.Rebounds
	case StatOffReb:
		return r.OffReb
	case StatDefReb:
		return r.DefReb
	case StatAssists:
		return r.Assists
	case StatSteals:
		return r.Steals
	case StatBlocks:
		return r.Blocks
	case StatTurnover:
		return r.Turnovers
	case StatFouls:
		return r.Fouls
	case StatFGM:
		return r.FGM
	case StatFGA:
		return r.FGA
	case StatFG3M:
		return r.FG3M
	case StatFG3A:
		return r.FG3A
	case StatFTM:
		return r.FTM
	case StatFTA:
		return r.FTA
	case StatPRA:
		return r.PRA
	case StatPR:
		return r.PR
	case StatPA:
		return r.PA
	case StatRA:
		return r.RA
	case StatStocks:
		return r.Stocks
	}
	return 0
}

// Values extracts k from each record, preserving order.
func Values(history []EventRecord, k StatKey) []float64 {
	out := make([]float64, len(history))
	for i := range history {
		out[i] = history[i].Value(k)
	}
	return out
}
