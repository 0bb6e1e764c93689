package model

import "sort"

// Team is a static league franchise entry.
type Team struct {
	ID    string `json:"id"`
	Abbr  string `json:"abbr"`
	City  string `json:"city"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var teams = map[string]Team{
	"1610612737": {ID: "1610612737", Abbr: "ATL", City: "Atlanta", Name: "Hawks", Color: "#E03A3E"},
	"1610612738": {ID: "1610612738", Abbr: "BOS", City: "Boston", Name: "Celtics", Color: "#007A33"},
	"1610612751": {ID: "1610612751", Abbr: "BKN", City: "Brooklyn", Name: "Nets", Color: "#000000"},
	"1610612766": {ID: "1610612766", Abbr: "CHA", City: "Charlotte", Name: "Hornets", Color: "#1D1160"},
	"1610612741": {ID: "1610612741", Abbr: "CHI", City: "Chicago", Name: "Bulls", Color: "#CE1141"},
	"1610612739": {ID: "1610612739", Abbr: "CLE", City: "Cleveland", Name: "Cavaliers", Color: "#860038"},
	"1610612742": {ID: "1610612742", Abbr: "DAL", City: "Dallas", Name: "Mavericks", Color: "#00538C"},
	"1610612743": {ID: "1610612743", Abbr: "DEN", City: "Denver", Name: "Nuggets", Color: "#0E2240"},
	"1610612765": {ID: "1610612765", Abbr: "DET", City: "Detroit", Name: "Pistons", Color: "#C8102E"},
	"1610612744": {ID: "1610612744", Abbr: "GSW", City: "Golden State", Name: "Warriors", Color: "#1D428A"},
	"1610612745": {ID: "1610612745", Abbr: "HOU", City: "Houston", Name: "Rockets", Color: "#CE1141"},
	"1610612754": {ID: "1610612754", Abbr: "IND", City: "Indiana", Name: "Pacers", Color: "#002D62"},
	"1610612746": {ID: "1610612746", Abbr: "LAC", City: "LA", Name: "Clippers", Color: "#C8102E"},
	"1610612747": {ID: "1610612747", Abbr: "LAL", City: "Los Angeles", Name: "Lakers", Color: "#552583"},
	"1610612763": {ID: "1610612763", Abbr: "MEM", City: "Memphis", Name: "Grizzlies", Color: "#5D76A9"},
	"1610612748": {ID: "1610612748", Abbr: "MIA", City: "Miami", Name: "Heat", Color: "#98002E"},
	"1610612749": {ID: "1610612749", Abbr: "MIL", City: "Milwaukee", Name: "Bucks", Color: "#00471B"},
	"1610612750": {ID: "1610612750", Abbr: "MIN", City: "Minnesota", Name: "Timberwolves", Color: "#0C2340"},
	"1610612740": {ID: "1610612740", Abbr: "NOP", City: "New Orleans", Name: "Pelicans", Color: "#0C2340"},
	"1610612752": {ID: "1610612752", Abbr: "NYK", City: "New York", Name: "Knicks", Color: "#006BB6"},
	"1610612760": {ID: "1610612760", Abbr: "OKC", City: "Oklahoma City", Name: "Thunder", Color: "#007AC1"},
	"1610612753": {ID: "1610612753", Abbr: "ORL", City: "Orlando", Name: "Magic", Color: "#0077C0"},
	"1610612755": {ID: "1610612755", Abbr: "PHI", City: "Philadelphia", Name: "Sixers", Color: "#006BB6"},
	"1610612756": {ID: "1610612756", Abbr: "PHX", City: "Phoenix", Name: "Suns", Color: "#1D1160"},
	"1610612757": {ID: "1610612757", Abbr: "POR", City: "Portland", Name: "Trail Blazers", Color: "#E03A3E"},
	"1610612758": {ID: "1610612758", Abbr: "SAC", City: "Sacramento", Name: "Kings", Color: "#5A2D81"},
	"1610612759": {ID: "1610612759", Abbr: "SAS", City: "San Antonio", Name: "Spurs", Color: "#C4CED4"},
	"1610612761": {ID: "1610612761", Abbr: "TOR", City: "Toronto", Name: "Raptors", Color: "#CE1141"},
	"1610612762": {ID: "1610612762", Abbr: "UTA", City: "Utah", Name: "Jazz", Color: "#002B5C"},
	"1610612764": {ID: "1610612764", Abbr: "WAS", City: "Washington", Name: "Wizards", Color: "#002B5C"},
}

// TeamByID looks up a franchise.
func TeamByID(id string) (Team, bool) {
	t, ok := teams[id]
	return t, ok
}

// Teams returns every franchise ordered by abbreviation.
func Teams() []Team {
	out := make([]Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbr < out[j].Abbr })
	return out
}

// WithTeamNames fills missing abbreviations from the static table.
func (e ScheduledEvent) WithTeamNames() ScheduledEvent {
	if e.HomeTeam == "" {
		if t, ok := teams[e.HomeTeamID]; ok {
			e.HomeTeam = t.Abbr
		}
	}
	if e.AwayTeam == "" {
		if t, ok := teams[e.AwayTeamID]; ok {
			e.AwayTeam = t.Abbr
		}
	}
	return e
}
