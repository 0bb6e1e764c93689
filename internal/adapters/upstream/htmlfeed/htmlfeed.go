// Package htmlfeed scrapes a game-log table from an HTML page.
// It is the last resort for event history when the tabular endpoints fail.
package htmlfeed

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
)

// Source names this adapter for pacing, breakers and metrics.
const Source = "html"

// Getter issues a GET against an upstream source.
type Getter interface {
	Get(ctx context.Context, source, rawURL string, query url.Values) ([]byte, error)
}

// Client fetches game-log pages from a URL template carrying {id} and {season}.
type Client struct {
	get      Getter
	template string
}

// New creates a Client.
func New(get Getter, urlTemplate string) *Client {
	return &Client{get: get, template: urlTemplate}
}

// URL expands the template for one entity and season.
func (c *Client) URL(entityID, season string) string {
	return strings.NewReplacer(
		"{id}", url.PathEscape(entityID),
		"{season}", url.QueryEscape(season),
	).Replace(c.template)
}

// GameLog returns the entity's records newest first.
func (c *Client) GameLog(ctx context.Context, entityID, season string) ([]model.EventRecord, error) {
	body, err := c.get.Get(ctx, Source, c.URL(entityID, season), nil)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

// Parse reads the first table whose rows carry data-stat cells.
func Parse(body []byte) ([]model.EventRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, upstream.Malformed(Source, "parse html: %v", err)
	}

	rows := doc.Find("table tbody tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return !s.HasClass("thead") && s.Find("td[data-stat]").Length() > 0
	})
	if rows.Length() == 0 {
		return nil, upstream.Malformed(Source, "no game-log rows")
	}

	var out []model.EventRecord
	rows.Each(func(_ int, s *goquery.Selection) {
		cells := map[string]string{}
		s.Find("th[data-stat], td[data-stat]").Each(func(_ int, cell *goquery.Selection) {
			name, _ := cell.Attr("data-stat")
			cells[name] = strings.TrimSpace(cell.Text())
		})
		// inactive games have no minutes cell
		if first(cells, "mp", "min") == "" {
			return
		}
		out = append(out, record(cells))
	})
	if len(out) == 0 {
		return nil, upstream.Malformed(Source, "no played games")
	}

	// the page lists oldest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func record(cells map[string]string) model.EventRecord {
	away := first(cells, "game_location") == "@"
	opp := first(cells, "opp_id", "opp_name_abbr", "opp")
	matchup := first(cells, "team_id", "team_name_abbr")
	if away {
		matchup += " @ " + opp
	} else {
		matchup += " vs. " + opp
	}

	r := model.EventRecord{
		Date:      parseDate(first(cells, "date_game", "date")),
		Matchup:   strings.TrimSpace(matchup),
		Opponent:  opp,
		Home:      !away,
		Minutes:   Minutes(first(cells, "mp", "min")),
		Points:    num(cells, "pts"),
		OffReb:    num(cells, "orb", "oreb"),
		DefReb:    num(cells, "drb", "dreb"),
		Rebounds:  num(cells, "trb", "reb"),
		Assists:   num(cells, "ast"),
		Steals:    num(cells, "stl"),
		Blocks:    num(cells, "blk"),
		Turnovers: num(cells, "tov"),
		Fouls:     num(cells, "pf"),
		FGM:       num(cells, "fg", "fgm"),
		FGA:       num(cells, "fga"),
		FG3M:      num(cells, "fg3", "fg3m"),
		FG3A:      num(cells, "fg3a"),
		FTM:       num(cells, "ft", "ftm"),
		FTA:       num(cells, "fta"),
	}
	if res := first(cells, "game_result", "wl"); res != "" {
		r.Result = model.Outcome(res[:1])
	}
	return r.Finalize()
}

// Minutes converts "34:12" or "34" to fractional minutes.
func Minutes(s string) float64 {
	mm, ss, found := strings.Cut(s, ":")
	m, err := strconv.ParseFloat(mm, 64)
	if err != nil {
		return 0
	}
	if !found {
		return m
	}
	sec, err := strconv.ParseFloat(ss, 64)
	if err != nil {
		return m
	}
	return m + sec/60
}

func first(cells map[string]string, names ...string) string {
	for _, n := range names {
		if v, ok := cells[n]; ok && v != "" {
			return v
		}
	}
	return ""
}

func num(cells map[string]string, names ...string) float64 {
	f, err := strconv.ParseFloat(first(cells, names...), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", "Jan 2, 2006", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
