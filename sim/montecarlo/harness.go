// Package montecarlo fans independent simulation runs over a bounded worker
// pool and reduces their results in run-index order, so the aggregate does
// not depend on scheduling. Runs share no mutable state; each owns its own
// RNG streams via a derived SimulationKey.
package montecarlo

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/prodsim/prodsim/sim"
)

// Aggregate is the reduction over N run results.
type Aggregate struct {
	Runs int

	AvgWB    float64
	AvgBB    float64
	AvgTotal float64

	AvgWBPct float64
	AvgBBPct float64

	MinTotal int
	MaxTotal int

	StdDevTotal float64

	// StallEvents sums anti-stall triggers across all runs; nonzero means
	// some run hit the fallback and should be investigated.
	StallEvents int
}

// Harness runs repeated independent simulations of one configuration.
type Harness struct {
	// Workers bounds the number of concurrent runs. Zero means GOMAXPROCS.
	Workers int

	// Seeded derives every run's key deterministically from BaseKey, making
	// the whole batch reproducible (used for chart generation). Unseeded,
	// each run draws a fresh key.
	Seeded  bool
	BaseKey sim.SimulationKey
}

// runKeys materializes the per-run keys up front so that worker scheduling
// order cannot influence which run gets which stream.
func (h Harness) runKeys(runs int) []sim.SimulationKey {
	keys := make([]sim.SimulationKey, runs)
	for i := range keys {
		if h.Seeded {
			keys[i] = h.BaseKey + sim.SimulationKey(i)
		} else {
			keys[i] = sim.SimulationKey(rand.Int63())
		}
	}
	return keys
}

// Run executes runs independent simulations of cfg and aggregates them.
func (h Harness) Run(cfg sim.Config, runs int) (Aggregate, error) {
	if runs <= 0 {
		return Aggregate{}, fmt.Errorf("montecarlo: runs must be positive, got %d", runs)
	}
	// Validate once up front so the pool never sees a bad configuration.
	if _, err := sim.NewSimulator(cfg, 0); err != nil {
		return Aggregate{}, err
	}

	workers := h.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > runs {
		workers = runs
	}

	keys := h.runKeys(runs)
	jobs := make(chan int, runs)
	// Results land at their run index, not in completion order, so the
	// floating-point reduction below is identical for any worker count.
	results := make([]sim.Result, runs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s, err := sim.NewSimulator(cfg, keys[i])
				if err != nil {
					// Unreachable: cfg validated above and keys cannot
					// invalidate it. Surface loudly if it ever happens.
					logrus.Errorf("montecarlo: run %d construction failed: %v", i, err)
					continue
				}
				results[i] = s.Run()
			}
		}()
	}
	for i := 0; i < runs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return reduce(results), nil
}

// reduce folds run results into an Aggregate in run-index order.
func reduce(results []sim.Result) Aggregate {
	agg := Aggregate{Runs: len(results)}
	if len(results) == 0 {
		return agg
	}

	totals := make([]float64, len(results))
	agg.MinTotal = results[0].Total
	agg.MaxTotal = results[0].Total
	for i, r := range results {
		totals[i] = float64(r.Total)
		agg.AvgWB += float64(r.TotalWB)
		agg.AvgBB += float64(r.TotalBB)
		agg.AvgWBPct += r.WBPct
		agg.AvgBBPct += r.BBPct
		agg.StallEvents += r.StallEvents
		if r.Total < agg.MinTotal {
			agg.MinTotal = r.Total
		}
		if r.Total > agg.MaxTotal {
			agg.MaxTotal = r.Total
		}
	}
	n := float64(len(results))
	agg.AvgWB /= n
	agg.AvgBB /= n
	agg.AvgWBPct /= n
	agg.AvgBBPct /= n
	agg.AvgTotal = stat.Mean(totals, nil)
	if len(totals) > 1 {
		agg.StdDevTotal = stat.StdDev(totals, nil)
	}
	return agg
}
