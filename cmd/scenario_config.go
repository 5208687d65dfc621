package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prodsim/prodsim/sim"
)

// Scenario is a named partial line configuration in a scenario file. Only
// fields present in the YAML override the defaults; absent fields keep them.
type Scenario struct {
	NumOvens    *int     `yaml:"ovens"`
	NumOvenSets *int     `yaml:"oven_sets"`
	FormTime    *float64 `yaml:"form_time"`
	CutTime     *float64 `yaml:"cut_time"`
	WBPerBatch  *int     `yaml:"wb_per_batch"`
	BBPerBatch  *int     `yaml:"bb_per_batch"`

	WBCookTimes   []float64 `yaml:"wb_cook_times"`
	WBCookWeights []float64 `yaml:"wb_cook_weights"`
	BBCookTimes   []float64 `yaml:"bb_cook_times"`
	BBCookWeights []float64 `yaml:"bb_cook_weights"`

	CureMin     *float64  `yaml:"cure_min"`
	CureMax     *float64  `yaml:"cure_max"`
	CureWeights []float64 `yaml:"cure_weights"`

	Cleaning         *bool     `yaml:"cleaning"`
	FormCleanTime    *float64  `yaml:"form_clean_time"`
	OvenCleanMin     *float64  `yaml:"oven_clean_min"`
	OvenCleanMax     *float64  `yaml:"oven_clean_max"`
	OvenCleanWeights []float64 `yaml:"oven_clean_weights"`

	WBSheets *int `yaml:"wb_sheets"`
	BBSheets *int `yaml:"bb_sheets"`
	WBTarget *int `yaml:"wb_target"`
	BBTarget *int `yaml:"bb_target"`
	NumWeeks *int `yaml:"weeks"`

	Crews       *string  `yaml:"crews"`
	Shift2Start *float64 `yaml:"shift2_start"`
	Shift2End   *float64 `yaml:"shift2_end"`

	StopAtTarget *bool   `yaml:"stop_at_target"`
	Strategy     *string `yaml:"strategy"`
}

// ScenarioFile is the full structure of a scenario YAML file.
type ScenarioFile struct {
	Version   string              `yaml:"version"`
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// LoadScenarioFile parses a scenario file with strict field checking, so a
// typo in a scenario key is an error rather than a silently ignored field.
func LoadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	var f ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	return &f, nil
}

// ApplyScenario overlays the named scenario from path onto cfg. An empty
// name selects the file's sole scenario, erroring when the file holds more
// than one. Returns the applied scenario's name.
func ApplyScenario(cfg *sim.Config, path, name string) (string, error) {
	f, err := LoadScenarioFile(path)
	if err != nil {
		return "", err
	}
	if name == "" {
		if len(f.Scenarios) != 1 {
			return "", fmt.Errorf("scenario file %s has %d scenarios, pass --scenario to pick one", path, len(f.Scenarios))
		}
		for n := range f.Scenarios {
			name = n
		}
	}
	sc, ok := f.Scenarios[name]
	if !ok {
		return "", fmt.Errorf("scenario %q not found in %s", name, path)
	}
	sc.apply(cfg)
	return name, nil
}

func (s Scenario) apply(cfg *sim.Config) {
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	setInt(&cfg.NumOvens, s.NumOvens)
	setInt(&cfg.NumOvenSets, s.NumOvenSets)
	setFloat(&cfg.FormTime, s.FormTime)
	setFloat(&cfg.CutTime, s.CutTime)
	setInt(&cfg.WBPerBatch, s.WBPerBatch)
	setInt(&cfg.BBPerBatch, s.BBPerBatch)

	if len(s.WBCookTimes) > 0 {
		cfg.WBCookTimes = s.WBCookTimes
	}
	if len(s.WBCookWeights) > 0 {
		cfg.WBCookWeights = s.WBCookWeights
	}
	if len(s.BBCookTimes) > 0 {
		cfg.BBCookTimes = s.BBCookTimes
	}
	if len(s.BBCookWeights) > 0 {
		cfg.BBCookWeights = s.BBCookWeights
	}

	setFloat(&cfg.CureWBMin, s.CureMin)
	setFloat(&cfg.CureWBMax, s.CureMax)
	if len(s.CureWeights) > 0 {
		cfg.CureWeights = s.CureWeights
	}

	setBool(&cfg.CleaningEnabled, s.Cleaning)
	setFloat(&cfg.FormCleanTime, s.FormCleanTime)
	setFloat(&cfg.OvenCleanMin, s.OvenCleanMin)
	setFloat(&cfg.OvenCleanMax, s.OvenCleanMax)
	if len(s.OvenCleanWeights) > 0 {
		cfg.OvenCleanWeights = s.OvenCleanWeights
	}

	setInt(&cfg.WBSheets, s.WBSheets)
	setInt(&cfg.BBSheets, s.BBSheets)
	setInt(&cfg.WBTarget, s.WBTarget)
	setInt(&cfg.BBTarget, s.BBTarget)
	setInt(&cfg.NumWeeks, s.NumWeeks)

	if s.Crews != nil {
		cfg.Crews = sim.CrewTopology(*s.Crews)
	}
	setFloat(&cfg.Shift2Start, s.Shift2Start)
	setFloat(&cfg.Shift2End, s.Shift2End)

	setBool(&cfg.StopAtTarget, s.StopAtTarget)
	if s.Strategy != nil {
		cfg.Strategy = *s.Strategy
	}
}
