package trend

import "github.com/benitoschiffler/nba-props-lab/internal/domain/model"

const defaultCeiling = 45.5

// defaultCeilings caps the candidate lines per stat.
func defaultCeilings() map[model.StatKey]float64 {
	return map[model.StatKey]float64{
		model.StatPoints:   45.5,
		model.StatRebounds: 20.5,
		model.StatOffReb:   8.5,
		model.StatDefReb:   15.5,
		model.StatAssists:  15.5,
		model.StatSteals:   5.5,
		model.StatBlocks:   5.5,
		model.StatStocks:   8.5,
		model.StatTurnover: 8.5,
		model.StatFouls:    6.5,
		model.StatFG3M:     8.5,
		model.StatFG3A:     15.5,
		model.StatFGM:      20.5,
		model.StatFGA:      35.5,
		model.StatFTM:      15.5,
		model.StatFTA:      18.5,
		model.StatMinutes:  48.5,
		model.StatPRA:      60.5,
		model.StatPR:       50.5,
		model.StatPA:       50.5,
		model.StatRA:       30.5,
	}
}
