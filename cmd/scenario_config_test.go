package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodsim/prodsim/sim"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarioFile_Parses(t *testing.T) {
	path := writeScenarioFile(t, `
version: "1"
scenarios:
  heavy:
    ovens: 10
    crews: 2team_24/7
    oven_sets: 2
    wb_sheets: 5
    strategy: cure_aware
  light:
    weeks: 4
`)
	f, err := LoadScenarioFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Scenarios, 2)

	heavy := f.Scenarios["heavy"]
	require.NotNil(t, heavy.NumOvens)
	assert.Equal(t, 10, *heavy.NumOvens)
	require.NotNil(t, heavy.Crews)
	assert.Equal(t, "2team_24/7", *heavy.Crews)
	assert.Nil(t, heavy.NumWeeks)

	light := f.Scenarios["light"]
	require.NotNil(t, light.NumWeeks)
	assert.Equal(t, 4, *light.NumWeeks)
}

func TestLoadScenarioFile_RejectsUnknownFields(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios:
  typo:
    ovnes: 10
`)
	_, err := LoadScenarioFile(path)
	assert.Error(t, err)
}

func TestLoadScenarioFile_MissingFile(t *testing.T) {
	_, err := LoadScenarioFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyScenario_OverlaysOntoDefaults(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios:
  buildout:
    ovens: 8
    oven_sets: 2
    crews: 2team_6-6
    bb_sheets: 4
    cleaning: false
    stop_at_target: true
`)
	cfg := sim.DefaultConfig()
	name, err := ApplyScenario(&cfg, path, "buildout")
	require.NoError(t, err)
	assert.Equal(t, "buildout", name)

	// Overridden fields.
	assert.Equal(t, 8, cfg.NumOvens)
	assert.Equal(t, 2, cfg.NumOvenSets)
	assert.Equal(t, sim.TwoCrewDayShift, cfg.Crews)
	assert.Equal(t, 4, cfg.BBSheets)
	assert.False(t, cfg.CleaningEnabled)
	assert.True(t, cfg.StopAtTarget)

	// Untouched fields keep their defaults.
	def := sim.DefaultConfig()
	assert.Equal(t, def.FormTime, cfg.FormTime)
	assert.Equal(t, def.WBSheets, cfg.WBSheets)
	assert.Equal(t, def.Strategy, cfg.Strategy)
	assert.Equal(t, def.NumWeeks, cfg.NumWeeks)
}

func TestApplyScenario_EmptyNamePicksSoleScenario(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios:
  only:
    weeks: 8
`)
	cfg := sim.DefaultConfig()
	name, err := ApplyScenario(&cfg, path, "")
	require.NoError(t, err)
	assert.Equal(t, "only", name)
	assert.Equal(t, 8, cfg.NumWeeks)
}

func TestApplyScenario_EmptyNameAmbiguous(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios:
  a: {weeks: 1}
  b: {weeks: 2}
`)
	cfg := sim.DefaultConfig()
	_, err := ApplyScenario(&cfg, path, "")
	assert.Error(t, err)
}

func TestShippedScenarioFile_Valid(t *testing.T) {
	f, err := LoadScenarioFile("../scenarios.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, f.Scenarios)

	for name := range f.Scenarios {
		cfg := sim.DefaultConfig()
		_, err := ApplyScenario(&cfg, "../scenarios.yaml", name)
		require.NoError(t, err, name)
		_, err = sim.NewSimulator(cfg, 0)
		assert.NoError(t, err, "shipped scenario %q does not validate", name)
	}
}

func TestApplyScenario_UnknownName(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios:
  a: {weeks: 1}
`)
	cfg := sim.DefaultConfig()
	_, err := ApplyScenario(&cfg, path, "missing")
	assert.Error(t, err)
}
