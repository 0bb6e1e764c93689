package cache

import "strconv"

// The prefix before ':' in every key is its metrics class.

// ScheduleKey is the key of the events listed for date (YYYY-MM-DD).
func ScheduleKey(date string) string { return "schedule:" + date }

// RosterKey is the key of a team's roster.
func RosterKey(teamID string) string { return "roster:" + teamID }

// ProfileKey is the key of an entity's season profile.
func ProfileKey(entityID string) string { return "profile:" + entityID }

// TrackingKey is the key of the merged league tracking tables for season.
func TrackingKey(season string) string { return "tracking:" + season }

// DashboardKey is the key of the assembled dashboard.
func DashboardKey() string { return "dashboard" }

// HistoryKey is the key of an entity's event history capped at maxRecords.
// Each cap is cached separately.
func HistoryKey(entityID string, maxRecords int) string {
	return "history:" + entityID + ":" + strconv.Itoa(maxRecords)
}
