// Package statsapi adapts the tabular stats endpoints to domain records.
// Upstream column names stay inside this package.
package statsapi

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
)

// Source names this adapter for pacing, breakers and metrics.
const Source = "stats"

const (
	leagueID   = "00"
	seasonType = "Regular Season"
)

// Tracking measures merged into one tracking view.
const (
	MeasurePassing       = "Passing"
	MeasureRebounding    = "Rebounding"
	MeasureSpeedDistance = "SpeedDistance"
	MeasurePossessions   = "Possessions"
)

// Measures lists every tracking measure in fetch order.
var Measures = []string{MeasurePassing, MeasureRebounding, MeasureSpeedDistance, MeasurePossessions}

// Getter issues a GET against an upstream source.
type Getter interface {
	Get(ctx context.Context, source, rawURL string, query url.Values) ([]byte, error)
}

// Client reads the stats endpoints.
type Client struct {
	get  Getter
	base string
}

// New creates a Client rooted at baseURL, e.g. https://stats.nba.com/stats.
func New(get Getter, baseURL string) *Client {
	return &Client{get: get, base: strings.TrimRight(baseURL, "/")}
}

func (c *Client) tables(ctx context.Context, endpoint string, q url.Values) (map[string]*Table, error) {
	body, err := c.get.Get(ctx, Source, c.base+"/"+endpoint, q)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

func require(ts map[string]*Table, name string) (*Table, error) {
	t, ok := ts[name]
	if !ok {
		return nil, upstream.Malformed(Source, "missing result set %s", name)
	}
	return t, nil
}

// Scoreboard lists the games on date.
func (c *Client) Scoreboard(ctx context.Context, date time.Time) ([]model.ScheduledEvent, error) {
	ts, err := c.tables(ctx, "scoreboardv2", url.Values{
		"GameDate":  {date.Format("2006-01-02")},
		"LeagueID":  {leagueID},
		"DayOffset": {"0"},
	})
	if err != nil {
		return nil, err
	}
	header, err := require(ts, "GameHeader")
	if err != nil {
		return nil, err
	}

	// LineScore is optional; it carries team abbreviations and points.
	type line struct {
		abbr string
		pts  int
	}
	lines := map[string]line{}
	if ls, ok := ts["LineScore"]; ok {
		for _, r := range ls.Rows() {
			lines[r.String("GAME_ID")+"/"+r.String("TEAM_ID")] = line{abbr: r.String("TEAM_ABBREVIATION"), pts: r.Int("PTS")}
		}
	}

	events := make([]model.ScheduledEvent, 0, header.Len())
	for _, r := range header.Rows() {
		id := r.String("GAME_ID")
		home, away := r.String("HOME_TEAM_ID"), r.String("VISITOR_TEAM_ID")
		hl, al := lines[id+"/"+home], lines[id+"/"+away]
		events = append(events, model.ScheduledEvent{
			ID:         id,
			HomeTeamID: nonZeroID(home),
			AwayTeamID: nonZeroID(away),
			HomeTeam:   hl.abbr,
			AwayTeam:   al.abbr,
			Status:     model.StatusFromCode(r.Int("GAME_STATUS_ID")),
			StatusText: strings.TrimSpace(r.String("GAME_STATUS_TEXT")),
			HomeScore:  hl.pts,
			AwayScore:  al.pts,
		})
	}
	return events, nil
}

// Roster lists a team's players for season.
func (c *Client) Roster(ctx context.Context, teamID, season string) ([]model.EntityRef, error) {
	ts, err := c.tables(ctx, "commonteamroster", url.Values{
		"TeamID":   {teamID},
		"Season":   {season},
		"LeagueID": {leagueID},
	})
	if err != nil {
		return nil, err
	}
	t, err := require(ts, "CommonTeamRoster")
	if err != nil {
		return nil, err
	}

	refs := make([]model.EntityRef, 0, t.Len())
	for _, r := range t.Rows() {
		id := nonZeroID(r.String("PLAYER_ID"))
		if id == "" {
			continue
		}
		refs = append(refs, model.EntityRef{
			ID:         id,
			Name:       r.String("PLAYER"),
			TeamID:     teamID,
			Position:   r.String("POSITION"),
			Number:     r.String("NUM"),
			Height:     r.String("HEIGHT"),
			Weight:     r.String("WEIGHT"),
			Experience: r.String("EXP"),
		})
	}
	return refs, nil
}

// PlayerDashboard returns season rates and, when the payload carries them,
// home/road and conference splits.
func (c *Client) PlayerDashboard(ctx context.Context, entityID, season string) (*model.SeasonProfile, error) {
	ts, err := c.tables(ctx, "playerdashboardbygeneralsplits", url.Values{
		"PlayerID":       {entityID},
		"Season":         {season},
		"SeasonType":     {seasonType},
		"PerMode":        {"PerGame"},
		"MeasureType":    {"Base"},
		"LeagueID":       {leagueID},
		"LastNGames":     {"0"},
		"Month":          {"0"},
		"OpponentTeamID": {"0"},
		"PaceAdjust":     {"N"},
		"Period":         {"0"},
		"PlusMinus":      {"N"},
		"Rank":           {"N"},
	})
	if err != nil {
		return nil, err
	}
	overall, err := require(ts, "OverallPlayerDashboard")
	if err != nil {
		return nil, err
	}
	if overall.Len() == 0 {
		return nil, nil
	}

	p := &model.SeasonProfile{
		EntityID: entityID,
		Season:   season,
		Rates:    rates(overall.Row(0)),
	}
	p.Splits = splits(ts)
	return p, nil
}

// splits collects the optional split sections; nil when none are present.
func splits(ts map[string]*Table) *model.Splits {
	s := &model.Splits{}
	found := false
	if loc, ok := ts["LocationPlayerDashboard"]; ok {
		for _, r := range loc.Rows() {
			rr := rates(r)
			switch r.String("GROUP_VALUE") {
			case "Home":
				s.Home, found = &rr, true
			case "Road":
				s.Away, found = &rr, true
			}
		}
	}
	if conf, ok := ts["ConferencePlayerDashboard"]; ok && conf.Len() > 0 {
		rr := rates(conf.Row(0))
		s.VsConference, found = &rr, true
	}
	if div, ok := ts["DivisionPlayerDashboard"]; ok && div.Len() > 0 {
		rr := rates(div.Row(0))
		s.VsDivision, found = &rr, true
	}
	if !found {
		return nil
	}
	return s
}

func rates(r Row) model.Rates {
	return model.Rates{
		GamesPlayed: r.Int("GP"),
		Minutes:     r.Float("MIN"),
		Points:      r.Float("PTS"),
		Rebounds:    r.Float("REB"),
		OffReb:      r.Float("OREB"),
		DefReb:      r.Float("DREB"),
		Assists:     r.Float("AST"),
		Steals:      r.Float("STL"),
		Blocks:      r.Float("BLK"),
		Turnovers:   r.Float("TOV"),
		Fouls:       r.Float("PF"),
		FG3M:        r.Float("FG3M"),
		FGPct:       r.Float("FG_PCT"),
		FG3Pct:      r.Float("FG3_PCT"),
		FTPct:       r.Float("FT_PCT"),
		PlusMinus:   r.Float("PLUS_MINUS"),
	}
}

// GameLog returns the season's game log, newest first.
func (c *Client) GameLog(ctx context.Context, entityID, season string) ([]model.EventRecord, error) {
	ts, err := c.tables(ctx, "playergamelog", url.Values{
		"PlayerID":   {entityID},
		"Season":     {season},
		"SeasonType": {seasonType},
		"LeagueID":   {leagueID},
	})
	if err != nil {
		return nil, err
	}
	t, err := require(ts, "PlayerGameLog")
	if err != nil {
		return nil, err
	}

	out := make([]model.EventRecord, 0, t.Len())
	for _, r := range t.Rows() {
		matchup := r.String("MATCHUP")
		out = append(out, model.EventRecord{
			Date:      ParseGameDate(r.String("GAME_DATE")),
			Matchup:   matchup,
			Opponent:  Opponent(matchup),
			Home:      strings.Contains(matchup, "vs."),
			Result:    model.Outcome(r.String("WL")),
			Minutes:   r.Float("MIN"),
			Points:    r.Float("PTS"),
			OffReb:    r.Float("OREB"),
			DefReb:    r.Float("DREB"),
			Rebounds:  r.Float("REB"),
			Assists:   r.Float("AST"),
			Steals:    r.Float("STL"),
			Blocks:    r.Float("BLK"),
			Turnovers: r.Float("TOV"),
			Fouls:     r.Float("PF"),
			FGM:       r.Float("FGM"),
			FGA:       r.Float("FGA"),
			FG3M:      r.Float("FG3M"),
			FG3A:      r.Float("FG3A"),
			FTM:       r.Float("FTM"),
			FTA:       r.Float("FTA"),
		}.Finalize())
	}
	return out, nil
}

// LeagueTracking returns one tracking measure for every player, keyed by id.
// Only the fields that measure covers are set.
func (c *Client) LeagueTracking(ctx context.Context, season, measure string) (map[string]model.Tracking, error) {
	ts, err := c.tables(ctx, "leaguedashptstats", url.Values{
		"Season":        {season},
		"SeasonType":    {seasonType},
		"PtMeasureType": {measure},
		"PlayerOrTeam":  {"Player"},
		"PerMode":       {"PerGame"},
		"LeagueID":      {leagueID},
	})
	if err != nil {
		return nil, err
	}
	return byPlayer(ts, func(tr *model.Tracking, r Row) { applyMeasure(tr, measure, r) })
}

// LeagueHustle returns hustle measures for every player, keyed by id.
func (c *Client) LeagueHustle(ctx context.Context, season string) (map[string]model.Tracking, error) {
	ts, err := c.tables(ctx, "leaguehustlestatsplayer", url.Values{
		"Season":     {season},
		"SeasonType": {seasonType},
		"PerMode":    {"PerGame"},
		"LeagueID":   {leagueID},
	})
	if err != nil {
		return nil, err
	}
	return byPlayer(ts, func(tr *model.Tracking, r Row) {
		tr.ContestedShots = r.Float("CONTESTED_SHOTS")
		tr.Deflections = r.Float("DEFLECTIONS")
	})
}

// byPlayer reads the first table keyed by PLAYER_ID into partial tracking rows.
func byPlayer(ts map[string]*Table, apply func(*model.Tracking, Row)) (map[string]model.Tracking, error) {
	var t *Table
	for _, candidate := range ts {
		if candidate.Has("PLAYER_ID") {
			t = candidate
			break
		}
	}
	if t == nil {
		return nil, upstream.Malformed(Source, "no table keyed by PLAYER_ID")
	}
	out := make(map[string]model.Tracking, t.Len())
	for _, r := range t.Rows() {
		id := nonZeroID(r.String("PLAYER_ID"))
		if id == "" {
			continue
		}
		tr := model.Tracking{EntityID: id}
		apply(&tr, r)
		out[id] = tr
	}
	return out, nil
}

func applyMeasure(tr *model.Tracking, measure string, r Row) {
	switch measure {
	case MeasurePassing:
		tr.Passes = r.Float("PASSES_MADE")
		tr.PotentialAst = r.Float("POTENTIAL_AST")
	case MeasureRebounding:
		tr.RebChances = r.Float("REB_CHANCES")
	case MeasureSpeedDistance:
		tr.AvgSpeed = r.Float("AVG_SPEED")
		tr.DistanceMiles = r.Float("DIST_MILES")
	case MeasurePossessions:
		tr.Touches = r.Float("TOUCHES")
		tr.TimeOfPoss = r.Float("TIME_OF_POSS")
	}
}

var gameDateLayouts = []string{"Jan 02, 2006", "2006-01-02T15:04:05", "2006-01-02"}

// ParseGameDate accepts the layouts the game log has used. Zero if none match.
func ParseGameDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Opponent extracts the opponent abbreviation from "LAL vs. GSW" or "LAL @ GSW".
func Opponent(matchup string) string {
	fields := strings.Fields(matchup)
	if len(fields) < 3 {
		return ""
	}
	return fields[len(fields)-1]
}

func nonZeroID(id string) string {
	if id == "0" {
		return ""
	}
	return id
}
