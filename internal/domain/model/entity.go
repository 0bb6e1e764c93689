package model

// EntityRef identifies a roster member. Analytics never mutate it.
type EntityRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TeamID     string `json:"teamId"`
	Position   string `json:"position,omitempty"`
	Number     string `json:"number,omitempty"`
	Height     string `json:"height,omitempty"`
	Weight     string `json:"weight,omitempty"`
	Experience string `json:"experience,omitempty"`
}

// Rates are per-game season averages and shooting percentages.
type Rates struct {
	GamesPlayed int     `json:"gp"`
	Minutes     float64 `json:"min"`
	Points      float64 `json:"pts"`
	Rebounds    float64 `json:"reb"`
	OffReb      float64 `json:"oreb"`
	DefReb      float64 `json:"dreb"`
	Assists     float64 `json:"ast"`
	Steals      float64 `json:"stl"`
	Blocks      float64 `json:"blk"`
	Turnovers   float64 `json:"tov"`
	Fouls       float64 `json:"pf"`
	FG3M        float64 `json:"fg3m"`
	FGPct       float64 `json:"fgPct"`
	FG3Pct      float64 `json:"fg3Pct"`
	FTPct       float64 `json:"ftPct"`
	PlusMinus   float64 `json:"plusMinus"`
}

// Splits is an optional sub-result of a season profile.
// Each part is nil when the upstream omitted it.
type Splits struct {
	Home         *Rates `json:"home,omitempty"`
	Away         *Rates `json:"away,omitempty"`
	VsConference *Rates `json:"vsConference,omitempty"`
	VsDivision   *Rates `json:"vsDivision,omitempty"`
}

// SeasonProfile holds season-to-date rates for one entity.
type SeasonProfile struct {
	EntityID string `json:"entityId"`
	Name     string `json:"name,omitempty"`
	Season   string `json:"season"`
	Rates
	Splits *Splits `json:"splits,omitempty"`
}

// Tracking holds league tracking measures for one entity.
type Tracking struct {
	EntityID       string  `json:"entityId"`
	Touches        float64 `json:"touches"`
	Passes         float64 `json:"passes"`
	PotentialAst   float64 `json:"potentialAst"`
	RebChances     float64 `json:"rebChances"`
	ContestedShots float64 `json:"contestedShots"`
	Deflections    float64 `json:"deflections"`
	AvgSpeed       float64 `json:"avgSpeed"`
	DistanceMiles  float64 `json:"distMiles"`
	TimeOfPoss     float64 `json:"timeOfPoss"`
	Derived        bool    `json:"derived"`
}

// DerivedTracking estimates tracking measures from a season profile when the
// league tables do not cover the entity.
func DerivedTracking(entityID string, p *SeasonProfile) Tracking {
	t := Tracking{EntityID: entityID, ContestedShots: 3, AvgSpeed: 4.0, Derived: true}
	if p == nil {
		return t
	}
	t.Touches = p.Minutes * 2
	t.Passes = p.Assists * 8
	t.PotentialAst = p.Assists * 2.2
	t.RebChances = p.Rebounds * 1.4
	return t
}
