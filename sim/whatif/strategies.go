package whatif

import (
	"sort"

	"github.com/prodsim/prodsim/sim"
	"github.com/prodsim/prodsim/sim/montecarlo"
)

// Strategies that cause long cure-to-cut wait times; never auto-recommended.
var excludedFromRecommendation = map[string]bool{
	"wb_first": true,
	"bb_first": true,
}

// bothMetBonus rewards strategies that clear both targets.
const bothMetBonus = 50.0

// StrategyResult scores one priority strategy over a Monte Carlo batch.
type StrategyResult struct {
	Strategy string

	AvgWB    float64
	AvgBB    float64
	AvgTotal float64
	WBPct    float64
	BBPct    float64
	MinPct   float64

	// Score is 200 minus the summed distances of both products from 100%
	// of target, plus a bonus when both targets are met. Higher is better.
	Score float64

	BothMet          bool
	ExcludedFromAuto bool
}

// CompareStrategies Monte-Carlos every priority strategy against cfg and
// ranks them by closeness to both targets. Returns the ranked results and
// the recommended strategy name (best non-excluded).
func CompareStrategies(cfg sim.Config, runs int, harness montecarlo.Harness) ([]StrategyResult, string, error) {
	var results []StrategyResult
	for _, name := range sim.StrategyNames() {
		test := cfg
		test.Strategy = name
		agg, err := harness.Run(test, runs)
		if err != nil {
			return nil, "", err
		}

		wbDist := abs(100 - agg.AvgWBPct)
		bbDist := abs(100 - agg.AvgBBPct)
		r := StrategyResult{
			Strategy:         name,
			AvgWB:            agg.AvgWB,
			AvgBB:            agg.AvgBB,
			AvgTotal:         agg.AvgTotal,
			WBPct:            agg.AvgWBPct,
			BBPct:            agg.AvgBBPct,
			MinPct:           min(agg.AvgWBPct, agg.AvgBBPct),
			Score:            200 - (wbDist + bbDist),
			BothMet:          agg.AvgWBPct >= 100 && agg.AvgBBPct >= 100,
			ExcludedFromAuto: excludedFromRecommendation[name],
		}
		if r.BothMet {
			r.Score += bothMetBonus
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	recommendation := results[0].Strategy
	for _, r := range results {
		if !r.ExcludedFromAuto {
			recommendation = r.Strategy
			break
		}
	}
	return results, recommendation, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
