// Package roster narrows a team roster to the entities worth analyzing.
package roster

import (
	"sort"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
)

// RankKey is the single field candidates are ordered by.
type RankKey string

const (
	ByMinutes RankKey = "minutes"
	ByPoints  RankKey = "points"
)

// Candidate is a roster member and its season profile, if one was fetched.
type Candidate struct {
	Ref     model.EntityRef
	Profile *model.SeasonProfile
}

// Select keeps candidates averaging at least minMinutes, orders them by key
// descending and returns the first limit. A candidate without a profile never
// qualifies. Equal keys keep input order. limit <= 0 keeps everyone.
func Select(candidates []Candidate, limit int, minMinutes float64, key RankKey) []model.EntityRef {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Profile == nil || c.Profile.Minutes < minMinutes {
			continue
		}
		kept = append(kept, c)
	}

	rank := rankFunc(key)
	sort.SliceStable(kept, func(i, j int) bool {
		return rank(kept[i].Profile) > rank(kept[j].Profile)
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]model.EntityRef, len(kept))
	for i, c := range kept {
		out[i] = c.Ref
	}
	return out
}

func rankFunc(key RankKey) func(*model.SeasonProfile) float64 {
	if key == ByPoints {
		return func(p *model.SeasonProfile) float64 { return p.Points }
	}
	return func(p *model.SeasonProfile) float64 { return p.Minutes }
}
