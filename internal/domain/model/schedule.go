package model

// EventStatus is the lifecycle state of a scheduled event.
type EventStatus string

const (
	StatusScheduled EventStatus = "scheduled"
	StatusLive      EventStatus = "live"
	StatusFinal     EventStatus = "final"
)

// StatusFromCode maps the upstream's numeric game status (1, 2, 3).
func StatusFromCode(code int) EventStatus {
	switch code {
	case 2:
		return StatusLive
	case 3:
		return StatusFinal
	default:
		return StatusScheduled
	}
}

// ScheduledEvent is a game on today's schedule.
type ScheduledEvent struct {
	ID         string      `json:"id"`
	HomeTeamID string      `json:"homeTeamId"`
	AwayTeamID string      `json:"awayTeamId"`
	HomeTeam   string      `json:"homeTeam,omitempty"`
	AwayTeam   string      `json:"awayTeam,omitempty"`
	Status     EventStatus `json:"status"`
	StatusText string      `json:"statusText,omitempty"`
	HomeScore  int         `json:"homeScore"`
	AwayScore  int         `json:"awayScore"`
}

// HasTeams reports whether both participants are identified.
func (e ScheduledEvent) HasTeams() bool {
	return e.HomeTeamID != "" && e.AwayTeamID != ""
}
