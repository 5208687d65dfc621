package sim

import "fmt"

// baseOvens is the oven count the base cycle times and per-batch yields are
// calibrated for. Other oven counts scale forming/cutting time and yield
// linearly (more ovens = bigger batches = longer handling).
const baseOvens = 5

// Config is the immutable configuration record for one simulation run.
// It is read once at run construction and has no lifecycle beyond the run.
type Config struct {
	NumOvens    int // ovens per set; scales form/cut time and per-batch yield
	NumOvenSets int // independently scheduled cooking resources (1 or 2)

	FormTime float64 // hours to form one batch, at baseOvens
	CutTime  float64 // hours to cut one batch, at baseOvens

	WBPerBatch int // WB units yielded per batch, at baseOvens
	BBPerBatch int // BB units yielded per batch, at baseOvens

	WBCookTimes   []float64 // candidate cook durations for WB
	WBCookWeights []float64
	BBCookTimes   []float64 // candidate cook durations for BB
	BBCookWeights []float64

	CureWBMin   float64 // WB cure window lower bound (hours)
	CureWBMax   float64 // WB cure window upper bound (hours)
	CureWeights []float64

	CleaningEnabled  bool
	FormCleanTime    float64 // fixed form-area cleaning duration
	OvenCleanMin     float64
	OvenCleanMax     float64
	OvenCleanWeights []float64

	WBSheets int // WIP capacity: max WB batches in flight
	BBSheets int // WIP capacity: max BB batches in flight

	WBTarget int // annual output target, units
	BBTarget int

	NumWeeks int // simulation horizon in weeks

	Crews       CrewTopology
	Shift2Start float64 // crew-2 shift start hour (day-shift mode)
	Shift2End   float64 // crew-2 shift end hour (day-shift mode)

	StopAtTarget bool // saturate a product's sheets once its target is met

	Strategy string // priority-policy name, see ResolvePolicy
}

// DefaultConfig returns the standard line configuration.
func DefaultConfig() Config {
	return Config{
		NumOvens:        5,
		NumOvenSets:     1,
		FormTime:        6,
		CutTime:         8,
		WBPerBatch:      3000,
		BBPerBatch:      6000,
		WBCookTimes:     []float64{9.25, 16.0, 6.5, 12.167, 10.75, 11.167, 8.5, 6.33},
		BBCookTimes:     []float64{8.333, 10.0},
		CureWBMin:       24,
		CureWBMax:       36,
		CleaningEnabled: true,
		FormCleanTime:   1.0,
		OvenCleanMin:    1.0,
		OvenCleanMax:    1.0,
		WBSheets:        3,
		BBSheets:        2,
		WBTarget:        1_500_000,
		BBTarget:        2_500_000,
		NumWeeks:        52,
		Crews:           OneCrew,
		Shift2Start:     6,
		Shift2End:       18,
		Strategy:        "ratio_batches",
	}
}

// uniformWeights returns a table of n ones.
func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0
	}
	return w
}

// cureBuckets is the number of per-hour cure buckets for the configured range.
func (c *Config) cureBuckets() int {
	return int(c.CureWBMax-c.CureWBMin) + 1
}

// ovenCleanBuckets is the number of per-hour oven-clean buckets.
func (c *Config) ovenCleanBuckets() int {
	n := int(c.OvenCleanMax - c.OvenCleanMin)
	if n < 1 {
		return 1
	}
	return n
}

// normalize repairs weight tables in place: a table whose length does not
// match its time/level table is replaced by uniform weights of the correct
// length. Missing cook tables get the defaults. Silent by contract — a
// malformed table must degrade, not error.
func (c *Config) normalize() {
	def := DefaultConfig()
	if len(c.WBCookTimes) == 0 {
		c.WBCookTimes = def.WBCookTimes
	}
	if len(c.BBCookTimes) == 0 {
		c.BBCookTimes = def.BBCookTimes
	}
	if len(c.WBCookWeights) != len(c.WBCookTimes) {
		c.WBCookWeights = uniformWeights(len(c.WBCookTimes))
	}
	if len(c.BBCookWeights) != len(c.BBCookTimes) {
		c.BBCookWeights = uniformWeights(len(c.BBCookTimes))
	}
	if len(c.CureWeights) != c.cureBuckets() {
		c.CureWeights = uniformWeights(c.cureBuckets())
	}
	if len(c.OvenCleanWeights) != c.ovenCleanBuckets() {
		c.OvenCleanWeights = uniformWeights(c.ovenCleanBuckets())
	}
}

// Validate fails fast on an un-normalizable configuration, before any
// simulation work is done.
func (c Config) Validate() error {
	if c.NumOvens <= 0 {
		return fmt.Errorf("config: num ovens must be positive, got %d", c.NumOvens)
	}
	if c.NumOvenSets != 1 && c.NumOvenSets != 2 {
		return fmt.Errorf("config: num oven sets must be 1 or 2, got %d", c.NumOvenSets)
	}
	if c.FormTime <= 0 {
		return fmt.Errorf("config: form time must be positive, got %v", c.FormTime)
	}
	if c.CutTime <= 0 {
		return fmt.Errorf("config: cut time must be positive, got %v", c.CutTime)
	}
	if c.WBPerBatch <= 0 || c.BBPerBatch <= 0 {
		return fmt.Errorf("config: per-batch yields must be positive, got WB=%d BB=%d", c.WBPerBatch, c.BBPerBatch)
	}
	if c.WBSheets < 0 || c.BBSheets < 0 {
		return fmt.Errorf("config: sheet capacities must be non-negative, got WB=%d BB=%d", c.WBSheets, c.BBSheets)
	}
	if c.WBTarget < 0 || c.BBTarget < 0 {
		return fmt.Errorf("config: targets must be non-negative, got WB=%d BB=%d", c.WBTarget, c.BBTarget)
	}
	if c.CureWBMin < 0 || c.CureWBMax < c.CureWBMin {
		return fmt.Errorf("config: cure window [%v, %v] is invalid", c.CureWBMin, c.CureWBMax)
	}
	if c.CleaningEnabled {
		if c.FormCleanTime <= 0 {
			return fmt.Errorf("config: form clean time must be positive, got %v", c.FormCleanTime)
		}
		if c.OvenCleanMin <= 0 || c.OvenCleanMax < c.OvenCleanMin {
			return fmt.Errorf("config: oven clean window [%v, %v] is invalid", c.OvenCleanMin, c.OvenCleanMax)
		}
	}
	if c.NumWeeks <= 0 {
		return fmt.Errorf("config: num weeks must be positive, got %d", c.NumWeeks)
	}
	switch c.Crews {
	case OneCrew, TwoCrewDayShift, TwoCrewContinuous:
	default:
		return fmt.Errorf("config: unknown crew topology %q", c.Crews)
	}
	if c.Crews == TwoCrewDayShift {
		if c.Shift2Start < 0 || c.Shift2Start >= 24 || c.Shift2End <= c.Shift2Start || c.Shift2End > 24 {
			return fmt.Errorf("config: shift window [%v, %v) is invalid", c.Shift2Start, c.Shift2End)
		}
	}
	if _, err := ResolvePolicy(c.Strategy); err != nil {
		return err
	}
	return nil
}

// scale is the linear factor applied to cycle times and yields.
func (c Config) scale() float64 {
	return float64(c.NumOvens) / baseOvens
}
