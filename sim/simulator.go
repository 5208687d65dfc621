// sim/simulator.go
package sim

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/prodsim/prodsim/sim/trace"
)

const (
	weekHours = 168.0

	// Cleaning due-clocks: a resource must be cleaned within cleanDueHours of
	// its last clean; at cleanUrgentHours a crew starts arranging for it.
	cleanDueHours    = 24.0
	cleanUrgentHours = 22.0

	// cutDoneEpsilon is the tolerance on the cut-completion test
	// (progress >= cutTime - cutDoneEpsilon). It guards against floating
	// accumulation drift across many partial sessions; it is a numerical
	// tolerance, not a business rule.
	cutDoneEpsilon = 0.01

	// antiStallStep advances the clock when no event candidate exceeds the
	// current time. This is a safety net against floating-point equality, not
	// a sanctioned control path: it must never fire under a correct event
	// enumeration, so every trigger is counted and logged.
	antiStallStep = 0.1

	// nearDoneHours: an own cut with less than this much work remaining is
	// finished before anything else, preventing handoff thrashing.
	nearDoneHours = 1.0

	// minShiftEndCutWindow: a day-shift crew does not start a fresh cut with
	// less than this long before the shift boundary.
	minShiftEndCutWindow = 0.5

	// formLeadSlack: minimum oven lead time worth filling with cutting while
	// waiting to start forming.
	formLeadSlack = 0.5
)

// Simulator is the core object that holds simulation time, the resource
// state, the active batch set, and the wake-round loop.
type Simulator struct {
	Config    Config
	Policy    PriorityPolicy
	Resources *ResourceState

	Clock   float64 // current simulation time, hours
	Horizon float64 // end of the run, hours

	// CollectTrace enables per-batch trace and cleaning-event recording for
	// external chart rendering and wait-time analysis. Set before Run.
	CollectTrace bool

	// StallEvents counts anti-stall fallback triggers. Nonzero is a bug
	// signal, not an operating mode.
	StallEvents int

	// Scaled cycle parameters (Config values adjusted for oven count).
	formTime   float64
	cutTime    float64
	wbPerBatch int
	bbPerBatch int

	shift ShiftWindow

	rng         *PartitionedRNG
	active      []*Batch
	nextBatchID int

	allBatches []*Batch
	cleanings  []trace.CleaningRecord
}

// NewSimulator normalizes and validates cfg and builds a run keyed by key.
// The returned Simulator is single-use: call Run exactly once.
func NewSimulator(cfg Config, key SimulationKey) (*Simulator, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := ResolvePolicy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	scale := cfg.scale()
	return &Simulator{
		Config:     cfg,
		Policy:     policy,
		Resources:  NewResourceState(),
		Horizon:    weekHours * float64(cfg.NumWeeks),
		formTime:   cfg.FormTime * scale,
		cutTime:    cfg.CutTime * scale,
		wbPerBatch: int(float64(cfg.WBPerBatch) * scale),
		bbPerBatch: int(float64(cfg.BBPerBatch) * scale),
		shift:      ShiftWindow{Start: cfg.Shift2Start, End: cfg.Shift2End},
		rng:        NewPartitionedRNG(key),
	}, nil
}

// Run executes the wake-round loop to the horizon and returns the Result.
//
// Each iteration: prune finished batches, reset per-round sheet claims,
// dispatch crew 1 then crew 2 (the ordering is load-bearing: crew 2 observes
// crew 1's claims), then advance the clock to the earliest future event.
func (s *Simulator) Run() Result {
	logrus.Debugf("starting run: horizon=%.0fh crews=%s ovenSets=%d strategy=%s",
		s.Horizon, s.Config.Crews, s.Config.NumOvenSets, s.Policy.Name())

	for s.Clock < s.Horizon {
		s.pruneFinished()
		s.Resources.ResetRoundClaims()

		if s.Resources.CrewFree[0] <= s.Clock {
			s.dispatch(1)
		}
		if s.Config.Crews != OneCrew {
			if s.Config.Crews == TwoCrewDayShift && !s.shift.On(s.Clock) {
				s.Resources.CrewFree[1] = s.shift.NextStart(s.Clock)
			} else if s.Resources.CrewFree[1] <= s.Clock {
				s.dispatch(2)
			}
		}

		next := s.nextEventTime()
		if next > s.Clock {
			s.Clock = next
		} else {
			s.StallEvents++
			logrus.Warnf("[%.2fh] no event candidate beyond current time, advancing by anti-stall step", s.Clock)
			s.Clock += antiStallStep
		}
	}

	logrus.Debugf("run ended at %.2fh: WB=%d BB=%d stalls=%d",
		s.Clock, s.Resources.TotalWB, s.Resources.TotalBB, s.StallEvents)
	return s.result()
}

// pruneFinished drops batches whose cut has fully passed. A finished batch
// keeps occupying its sheet until the clock moves past its cut end.
func (s *Simulator) pruneFinished() {
	kept := s.active[:0]
	for _, b := range s.active {
		if b.Active(s.Clock) {
			kept = append(kept, b)
		}
	}
	s.active = kept
}

// nextEventTime computes the earliest candidate time strictly after the
// current clock. Candidates: horizon end, crew free times, oven free times,
// oven lead times (the instant forming must start so the batch is ready when
// the oven frees), form-area free time, cleaning due times, uncut batches'
// cure ends, and crew-2 shift boundaries.
func (s *Simulator) nextEventTime() float64 {
	r := s.Resources
	candidates := []float64{
		s.Horizon,
		r.CrewFree[0],
		r.OvenFree[0],
		r.OvenFree[0] - s.formTime,
		r.FormAreaFree,
	}
	if s.Config.NumOvenSets == 2 {
		candidates = append(candidates, r.OvenFree[1], r.OvenFree[1]-s.formTime)
	}
	if s.Config.Crews != OneCrew {
		candidates = append(candidates, r.CrewFree[1])
		if s.Config.Crews == TwoCrewDayShift {
			if s.shift.On(s.Clock) {
				candidates = append(candidates, s.shift.EndOf(s.Clock))
			} else {
				candidates = append(candidates, s.shift.NextStart(s.Clock))
			}
		}
	}
	if s.Config.CleaningEnabled {
		candidates = append(candidates, r.LastFormClean+cleanDueHours)
		for _, set := range s.ovenOrder(1) {
			candidates = append(candidates, r.LastOvenClean[set-1]+cleanDueHours)
		}
	}
	for _, b := range s.active {
		if !b.CutFinished && b.CureEnd > s.Clock {
			candidates = append(candidates, b.CureEnd)
		}
	}

	next := math.Inf(1)
	for _, c := range candidates {
		if c > s.Clock && c < next {
			next = c
		}
	}
	if math.IsInf(next, 1) {
		return s.Clock
	}
	return next
}

// activeCount counts batches of a product formed in earlier rounds that
// still occupy a sheet. Batches formed in the current round are accounted
// separately by the per-round sheet claims.
func (s *Simulator) activeCount(p Product) int {
	n := 0
	for _, b := range s.active {
		if b.Product == p && b.FormStart < s.Clock && b.Active(s.Clock) {
			n++
		}
	}
	return n
}

// sheetsAvailable reports how many sheets a product has left this round.
// With StopAtTarget set, a product that has met its target reports zero so
// no further batches are formed while in-flight ones finish normally.
func (s *Simulator) sheetsAvailable(p Product) int {
	sheets, target := s.Config.WBSheets, s.Config.WBTarget
	if p == BB {
		sheets, target = s.Config.BBSheets, s.Config.BBTarget
	}
	if s.Config.StopAtTarget && s.Resources.Total(p) >= target {
		return 0
	}
	avail := sheets - s.activeCount(p) - s.Resources.Claimed(p)
	if avail < 0 {
		return 0
	}
	return avail
}

// curingWB counts WB batches formed but not yet cut whose cure is unfinished.
func (s *Simulator) curingWB() int {
	n := 0
	for _, b := range s.active {
		if b.Product == WB && !b.CutFinished && b.CureEnd > s.Clock {
			n++
		}
	}
	return n
}

// preferWB evaluates the priority policy against a fresh view of state.
func (s *Simulator) preferWB() bool {
	return s.Policy.PreferWB(PolicyView{
		TotalWB:    s.Resources.TotalWB,
		TotalBB:    s.Resources.TotalBB,
		WBTarget:   s.Config.WBTarget,
		BBTarget:   s.Config.BBTarget,
		WBPerBatch: s.wbPerBatch,
		BBPerBatch: s.bbPerBatch,
		CuringWB:   s.curingWB(),
	})
}

// bbInProgress returns the single BB batch currently holding the BB cutting
// machine: first a mid-session one, otherwise a paused one. Nil when free.
func (s *Simulator) bbInProgress() *Batch {
	for _, b := range s.active {
		if b.Product == BB && b.MidSession(s.Clock) {
			return b
		}
	}
	for _, b := range s.active {
		if b.Product == BB && !b.CutFinished && b.CutProgress > 0 {
			return b
		}
	}
	return nil
}

// readyToCut returns the schedulable batches in cutting-priority order:
// an in-progress BB outranks everything (the BB machine must drain), any
// in-progress batch outranks fresh ones (most progress first), the rest are
// FIFO by cure end. Mid-session batches and BB batches locked out by the
// single-cutter rule are excluded.
func (s *Simulator) readyToCut() []*Batch {
	now := s.Clock
	bbBusy := s.bbInProgress()

	var ready []*Batch
	for _, b := range s.active {
		if b.CutFinished || b.CureEnd > now || b.MidSession(now) {
			continue
		}
		if b.Product == BB && bbBusy != nil && bbBusy != b {
			continue
		}
		ready = append(ready, b)
	}

	group := func(b *Batch) int {
		if b.Product == BB && b.CutProgress > 0 {
			return 0
		}
		if b.CutProgress > 0 {
			return 1
		}
		return 2
	}
	sort.SliceStable(ready, func(i, j int) bool {
		bi, bj := ready[i], ready[j]
		gi, gj := group(bi), group(bj)
		if gi != gj {
			return gi < gj
		}
		if bi.CutProgress != bj.CutProgress {
			return bi.CutProgress > bj.CutProgress
		}
		return bi.CureEnd < bj.CureEnd
	})
	return ready
}
