// Package whatif compares resource configurations and priority strategies by
// re-invoking the simulation core with perturbed inputs and diffing outputs.
// No new scheduling logic lives here.
package whatif

import (
	"fmt"
	"sort"

	"github.com/prodsim/prodsim/sim"
)

// Score thresholds for bottleneck severity classification.
const highSeverityImprovement = 500.0

// Perturbation caps: what-if never explores beyond these.
const (
	maxOvens  = 20
	maxSheets = 10
)

// Change describes one tested configuration perturbation and its effect.
type Change struct {
	Label string
	Kind  string // "oven", "team", "wb_sheet", "bb_sheet"

	// ScoreImprovement is the drop in squared distance from 100% of both
	// targets. Positive means the change helps.
	ScoreImprovement float64

	WBChange float64 // percentage-point delta for WB
	BBChange float64
	NewWBPct float64
	NewBBPct float64

	MeetsTargets bool
}

// Bottleneck names the resource most limiting production.
type Bottleneck struct {
	Kind     string
	Severity string // "high" or "medium"
	Message  string
	Detail   string
}

// Report is the outcome of a bottleneck analysis.
type Report struct {
	Status      string // "targets_met", "bottleneck_found", "analysis_complete"
	Primary     *Bottleneck
	Changes     []Change
	Suggestions []string
}

// score is the squared distance of both products from 100% of target.
// Lower is better; zero means both targets exactly met.
func score(wbPct, bbPct float64) float64 {
	return (100-wbPct)*(100-wbPct) + (100-bbPct)*(100-bbPct)
}

// teamUpgrade maps each topology to its next step up, if any.
func teamUpgrade(t sim.CrewTopology) (sim.CrewTopology, bool) {
	switch t {
	case sim.OneCrew:
		return sim.TwoCrewDayShift, true
	case sim.TwoCrewDayShift:
		return sim.TwoCrewContinuous, true
	default:
		return "", false
	}
}

// runOnce executes a single deterministic run of cfg.
func runOnce(cfg sim.Config, key sim.SimulationKey) (sim.Result, error) {
	s, err := sim.NewSimulator(cfg, key)
	if err != nil {
		return sim.Result{}, err
	}
	return s.Run(), nil
}

// AnalyzeBottleneck tests single-step resource upgrades against a baseline
// result and ranks them by how much closer they bring both products to 100%
// of target. Each what-if run uses a key derived from the baseline key so the
// analysis is reproducible.
func AnalyzeBottleneck(cfg sim.Config, base sim.Result, key sim.SimulationKey) (*Report, error) {
	if base.WBPct >= 100 && base.BBPct >= 100 {
		return &Report{
			Status:      "targets_met",
			Suggestions: []string{"All production targets have been met."},
		}, nil
	}

	baseScore := score(base.WBPct, base.BBPct)
	var changes []Change

	test := func(label, kind string, mutate func(*sim.Config)) error {
		test := cfg
		mutate(&test)
		res, err := runOnce(test, key+sim.SimulationKey(len(changes)+1))
		if err != nil {
			return err
		}
		changes = append(changes, Change{
			Label:            label,
			Kind:             kind,
			ScoreImprovement: baseScore - score(res.WBPct, res.BBPct),
			WBChange:         res.WBPct - base.WBPct,
			BBChange:         res.BBPct - base.BBPct,
			NewWBPct:         res.WBPct,
			NewBBPct:         res.BBPct,
			MeetsTargets:     res.WBPct >= 100 && res.BBPct >= 100,
		})
		return nil
	}

	if cfg.NumOvens < maxOvens {
		label := fmt.Sprintf("Add 1 oven (%d -> %d)", cfg.NumOvens, cfg.NumOvens+1)
		if err := test(label, "oven", func(c *sim.Config) { c.NumOvens++ }); err != nil {
			return nil, err
		}
	}
	if next, ok := teamUpgrade(cfg.Crews); ok {
		label := fmt.Sprintf("Upgrade crews (%s -> %s)", cfg.Crews, next)
		if err := test(label, "team", func(c *sim.Config) { c.Crews = next }); err != nil {
			return nil, err
		}
	}
	if cfg.WBSheets < maxSheets {
		label := fmt.Sprintf("Add 1 WB sheet (%d -> %d)", cfg.WBSheets, cfg.WBSheets+1)
		if err := test(label, "wb_sheet", func(c *sim.Config) { c.WBSheets++ }); err != nil {
			return nil, err
		}
	}
	if cfg.BBSheets < maxSheets {
		label := fmt.Sprintf("Add 1 BB sheet (%d -> %d)", cfg.BBSheets, cfg.BBSheets+1)
		if err := test(label, "bb_sheet", func(c *sim.Config) { c.BBSheets++ }); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].ScoreImprovement > changes[j].ScoreImprovement
	})

	report := &Report{Status: "analysis_complete", Changes: changes}

	if len(changes) > 0 && changes[0].ScoreImprovement > 0 {
		best := changes[0]
		report.Status = "bottleneck_found"
		report.Primary = primaryBottleneck(best)
		report.Suggestions = append(report.Suggestions,
			fmt.Sprintf("%s: WB %+.1f%%, BB %+.1f%%", best.Label, best.WBChange, best.BBChange))
		for _, c := range changes[1:] {
			if c.ScoreImprovement > 0 {
				report.Suggestions = append(report.Suggestions,
					fmt.Sprintf("%s: WB %+.1f%%, BB %+.1f%%", c.Label, c.WBChange, c.BBChange))
			}
		}
		for _, c := range changes {
			if c.MeetsTargets {
				report.Suggestions = append([]string{
					fmt.Sprintf("%q would meet both targets", c.Label),
				}, report.Suggestions...)
				break
			}
		}
	} else {
		report.Suggestions = append(report.Suggestions,
			"Try different priority strategies to optimize the production balance")
		if base.WBPct < base.BBPct {
			report.Suggestions = append(report.Suggestions,
				"WB is lagging: try wb_first, cure_aware, or balanced_goal")
		} else {
			report.Suggestions = append(report.Suggestions,
				"BB is lagging: try bb_first or ratio_batches")
		}
	}

	if len(report.Suggestions) > 5 {
		report.Suggestions = report.Suggestions[:5]
	}
	return report, nil
}

func primaryBottleneck(best Change) *Bottleneck {
	severity := "medium"
	if best.ScoreImprovement > highSeverityImprovement {
		severity = "high"
	}
	messages := map[string]string{
		"oven":     "Oven capacity is limiting production",
		"team":     "Worker capacity is limiting production",
		"wb_sheet": "The WB sheet limit is constraining production",
		"bb_sheet": "The BB sheet limit is constraining production",
	}
	return &Bottleneck{
		Kind:     best.Kind,
		Severity: severity,
		Message:  messages[best.Kind],
		Detail:   fmt.Sprintf("%s: WB %+.1f%%, BB %+.1f%%", best.Label, best.WBChange, best.BBChange),
	}
}
