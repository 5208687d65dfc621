package whatif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodsim/prodsim/sim"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 0.0, score(100, 100))
	assert.Equal(t, 200.0, score(90, 90))
	// Overshoot is penalized like undershoot.
	assert.Equal(t, 100.0, score(110, 100))
}

func TestTeamUpgrade(t *testing.T) {
	next, ok := teamUpgrade(sim.OneCrew)
	require.True(t, ok)
	assert.Equal(t, sim.TwoCrewDayShift, next)

	next, ok = teamUpgrade(sim.TwoCrewDayShift)
	require.True(t, ok)
	assert.Equal(t, sim.TwoCrewContinuous, next)

	_, ok = teamUpgrade(sim.TwoCrewContinuous)
	assert.False(t, ok)
}

func TestAnalyzeBottleneck_TargetsMetShortCircuits(t *testing.T) {
	base := sim.Result{WBPct: 105, BBPct: 100}
	report, err := AnalyzeBottleneck(sim.DefaultConfig(), base, 1)
	require.NoError(t, err)
	assert.Equal(t, "targets_met", report.Status)
	assert.Nil(t, report.Primary)
	assert.Empty(t, report.Changes)
}

func TestAnalyzeBottleneck_TestsEveryUpgrade(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.NumWeeks = 1

	base, err := runOnce(cfg, 1)
	require.NoError(t, err)
	require.Less(t, base.WBPct, 100.0, "one week cannot meet an annual target")

	report, err := AnalyzeBottleneck(cfg, base, 1)
	require.NoError(t, err)

	// One oven step, one team step, one sheet step per product.
	require.Len(t, report.Changes, 4)
	kinds := map[string]bool{}
	for _, c := range report.Changes {
		kinds[c.Kind] = true
	}
	assert.Equal(t, map[string]bool{"oven": true, "team": true, "wb_sheet": true, "bb_sheet": true}, kinds)

	for i := 1; i < len(report.Changes); i++ {
		assert.GreaterOrEqual(t, report.Changes[i-1].ScoreImprovement, report.Changes[i].ScoreImprovement,
			"changes not ranked by improvement")
	}

	assert.Contains(t, []string{"bottleneck_found", "analysis_complete"}, report.Status)
	if report.Status == "bottleneck_found" {
		require.NotNil(t, report.Primary)
		assert.Contains(t, []string{"high", "medium"}, report.Primary.Severity)
		assert.Equal(t, report.Changes[0].Kind, report.Primary.Kind)
	}
	assert.NotEmpty(t, report.Suggestions)
	assert.LessOrEqual(t, len(report.Suggestions), 5)
}

func TestAnalyzeBottleneck_RespectsCaps(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.NumWeeks = 1
	cfg.NumOvens = maxOvens
	cfg.Crews = sim.TwoCrewContinuous
	cfg.WBSheets = maxSheets
	cfg.BBSheets = maxSheets

	base, err := runOnce(cfg, 1)
	require.NoError(t, err)
	report, err := AnalyzeBottleneck(cfg, base, 1)
	require.NoError(t, err)

	// Nothing left to upgrade: no changes, strategy advice instead.
	assert.Empty(t, report.Changes)
	assert.Equal(t, "analysis_complete", report.Status)
	assert.NotEmpty(t, report.Suggestions)
}

func TestAnalyzeBottleneck_Reproducible(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.NumWeeks = 1
	base, err := runOnce(cfg, 2)
	require.NoError(t, err)

	a, err := AnalyzeBottleneck(cfg, base, 2)
	require.NoError(t, err)
	b, err := AnalyzeBottleneck(cfg, base, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
