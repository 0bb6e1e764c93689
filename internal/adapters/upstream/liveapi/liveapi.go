// Package liveapi reads the live scoreboard feed.
package liveapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
)

// Source names this adapter for pacing, breakers and metrics.
const Source = "live"

const scoreboardPath = "/scoreboard/todaysScoreboard_00.json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Getter issues a GET against an upstream source.
type Getter interface {
	Get(ctx context.Context, source, rawURL string, query url.Values) ([]byte, error)
}

type team struct {
	TeamID      int    `json:"teamId"`
	TeamTricode string `json:"teamTricode"`
	Score       int    `json:"score"`
}

type game struct {
	GameID         string `json:"gameId"`
	GameStatus     int    `json:"gameStatus"`
	GameStatusText string `json:"gameStatusText"`
	HomeTeam       team   `json:"homeTeam"`
	AwayTeam       team   `json:"awayTeam"`
}

type payload struct {
	Scoreboard *struct {
		GameDate string `json:"gameDate"`
		Games    []game `json:"games"`
	} `json:"scoreboard"`
}

// Client reads the live feed.
type Client struct {
	get  Getter
	base string
}

// New creates a Client rooted at baseURL, e.g. https://cdn.nba.com/static/json/liveData.
func New(get Getter, baseURL string) *Client {
	return &Client{get: get, base: strings.TrimRight(baseURL, "/")}
}

// TodayScoreboard lists today's games in feed order.
func (c *Client) TodayScoreboard(ctx context.Context) ([]model.ScheduledEvent, error) {
	body, err := c.get.Get(ctx, Source, c.base+scoreboardPath, nil)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, upstream.Malformed(Source, "decode: %v", err)
	}
	if p.Scoreboard == nil {
		return nil, upstream.Malformed(Source, "missing scoreboard")
	}

	events := make([]model.ScheduledEvent, 0, len(p.Scoreboard.Games))
	for _, g := range p.Scoreboard.Games {
		events = append(events, model.ScheduledEvent{
			ID:         g.GameID,
			HomeTeamID: teamID(g.HomeTeam.TeamID),
			AwayTeamID: teamID(g.AwayTeam.TeamID),
			HomeTeam:   g.HomeTeam.TeamTricode,
			AwayTeam:   g.AwayTeam.TeamTricode,
			Status:     model.StatusFromCode(g.GameStatus),
			StatusText: strings.TrimSpace(g.GameStatusText),
			HomeScore:  g.HomeTeam.Score,
			AwayScore:  g.AwayTeam.Score,
		})
	}
	return events, nil
}

func teamID(id int) string {
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}
