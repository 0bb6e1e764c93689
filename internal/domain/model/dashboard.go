package model

import "time"

// PropLine is a placeholder over/under line with placeholder prices.
type PropLine struct {
	Stat      StatKey `json:"stat"`
	Line      float64 `json:"line"`
	Average   float64 `json:"average"`
	Recent    float64 `json:"recent"`
	OverOdds  int     `json:"overOdds"`
	UnderOdds int     `json:"underOdds"`
}

// GameOdds holds placeholder game prices.
type GameOdds struct {
	HomeSpread    float64 `json:"homeSpread"`
	AwaySpread    float64 `json:"awaySpread"`
	Total         float64 `json:"total"`
	HomeMoneyline int     `json:"homeMoneyline"`
	AwayMoneyline int     `json:"awayMoneyline"`
	Placeholder   bool    `json:"placeholder"`
}

// EventView is a scheduled event with its odds.
type EventView struct {
	ScheduledEvent
	Odds GameOdds `json:"odds"`
}

// EntityView is the full analysis for one selected entity.
type EntityView struct {
	Ref             EntityRef               `json:"ref"`
	SeasonProfile   *SeasonProfile          `json:"seasonProfile,omitempty"`
	RecentHistory   []EventRecord           `json:"recentHistory"`
	WindowSummaries map[int]*WindowSummary  `json:"windowSummaries"`
	Trends          map[StatKey]TrendResult `json:"trends"`
	Props           map[StatKey]PropLine    `json:"props,omitempty"`
	Tracking        *Tracking               `json:"tracking,omitempty"`
}

// Dashboard is the aggregate served to the display layer.
type Dashboard struct {
	Season      string       `json:"season"`
	Events      []EventView  `json:"events"`
	Entities    []EntityView `json:"entities"`
	GeneratedAt time.Time    `json:"generatedAt"`
}
