// The per-crew dispatch decision. Run once per crew whose free-time has
// passed, crew 1 strictly before crew 2 within a wake round. Ordered
// branches, first match wins: forced cleaning, urgent-wait cleaning, finish
// near-complete own cut, form, cut, idle.

package sim

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/prodsim/prodsim/sim/trace"
)

// dispatch routes a crew wake to the right decision procedure.
func (s *Simulator) dispatch(crew int) {
	if crew == 2 && s.Config.Crews == TwoCrewDayShift {
		s.dispatchDayShift()
		return
	}
	s.dispatchFull(crew)
}

// dispatchFull is the decision procedure for a full-capability crew
// (crew 1 always; crew 2 in continuous mode).
func (s *Simulator) dispatchFull(crew int) {
	now := s.Clock
	r := s.Resources

	// Forced cleaning: clean clock expired and the resource is free now.
	if s.formCleanDue(now) && r.FormAreaFree <= now {
		s.doFormClean(crew)
		return
	}
	for _, set := range s.ovenOrder(crew) {
		if s.ovenCleanDue(set, now) && r.OvenFree[set-1] <= now {
			s.doOvenClean(crew, set)
			return
		}
	}

	// Urgent-wait cleaning: an oven is overdue-soon but still cooking. Cut
	// opportunistically for up to the wait window, otherwise block until the
	// oven frees (the forced branch cleans it on the next wake).
	for _, set := range s.ovenOrder(crew) {
		if s.ovenCleanUrgent(set, now) && r.OvenFree[set-1] > now {
			wait := r.OvenFree[set-1] - now
			if ready := s.readyToCut(); len(ready) > 0 {
				b := ready[0]
				s.cut(b, crew, math.Min(wait, s.cutTime-b.CutProgress))
			} else {
				r.CrewFree[crew-1] = r.OvenFree[set-1]
			}
			return
		}
	}

	ready := s.readyToCut()

	// Finish an own cut with under an hour remaining before anything else.
	for _, b := range ready {
		if b.CutProgress > 0 && b.CutBy == crew && s.cutTime-b.CutProgress < nearDoneHours {
			s.cut(b, crew, s.cutTime-b.CutProgress)
			return
		}
	}

	// Forming is permitted only when the form area is free, some sheet
	// capacity remains, and the target oven will be free no later than the
	// moment forming finishes.
	set, ovenFreeAt := s.bestOven(crew)
	sheetsAvail := s.sheetsAvailable(WB) > 0 || s.sheetsAvailable(BB) > 0
	canForm := r.FormAreaFree <= now && sheetsAvail && ovenFreeAt <= now+s.formTime
	lead := math.Max(0, ovenFreeAt-s.formTime-now)

	if canForm {
		first := BB
		if s.preferWB() {
			first = WB
		}
		second := first.Other()
		switch {
		case s.sheetsAvailable(first) > 0:
			s.form(first, set, crew)
		case s.sheetsAvailable(second) > 0:
			s.form(second, set, crew)
		case len(ready) > 0:
			b := ready[0]
			s.cut(b, crew, s.cutTime-b.CutProgress)
		default:
			s.idleUntil(crew, s.ovenWaitCandidates())
		}
		return
	}

	if len(ready) > 0 {
		b := ready[0]
		remaining := s.cutTime - b.CutProgress
		if lead > formLeadSlack && lead < remaining {
			// Pause the cut in time to start forming when the oven lead hits.
			s.cut(b, crew, lead)
		} else {
			s.cut(b, crew, remaining)
		}
		return
	}

	extra := []float64{s.Horizon, r.FormAreaFree}
	if sheetsAvail {
		extra = append(extra, ovenFreeAt-s.formTime)
	}
	s.idleUntil(crew, extra)
}

// dispatchDayShift is the cutting-only decision procedure for crew 2 in
// day-shift mode. It never forms or cleans, must not start a fresh cut just
// before the shift boundary, and persists a partial session when the shift
// ends mid-cut so the remainder is picked up by whichever crew wakes next.
func (s *Simulator) dispatchDayShift() {
	const crew = 2
	now := s.Clock
	r := s.Resources

	shiftEnd := s.shift.EndOf(now)
	ready := s.readyToCut()
	if len(ready) == 0 {
		s.idleUntil(crew, []float64{s.Horizon, shiftEnd})
		return
	}

	b := ready[0]
	remaining := s.cutTime - b.CutProgress
	until := shiftEnd - now
	switch {
	case until < minShiftEndCutWindow && b.CutProgress == 0:
		r.CrewFree[crew-1] = s.shift.NextStart(shiftEnd)
	case until < remaining:
		s.cut(b, crew, until)
		r.CrewFree[crew-1] = s.shift.NextStart(shiftEnd)
	default:
		s.cut(b, crew, remaining)
	}
}

// form creates a new batch at the current clock, stamps its form/cook/cure
// schedule from the sampled durations, and books the form area, the chosen
// oven set, the crew, and a sheet claim.
func (s *Simulator) form(p Product, set, crew int) {
	now := s.Clock
	r := s.Resources

	b := &Batch{
		ID:       s.nextBatchID,
		Product:  p,
		FormedBy: crew,
		OvenSet:  set,
	}
	s.nextBatchID++

	b.FormStart = now
	b.FormEnd = now + s.formTime
	r.FormAreaFree = b.FormEnd

	times, weights := s.Config.WBCookTimes, s.Config.WBCookWeights
	if p == BB {
		times, weights = s.Config.BBCookTimes, s.Config.BBCookWeights
	}
	cookTime := sampleCookTime(s.rng.ForSubsystem(SubsystemCook), times, weights)

	// The batch goes straight into the oven after forming; the caller has
	// already checked the oven frees by form end.
	b.CookStart = b.FormEnd
	b.CookEnd = b.CookStart + cookTime

	if p == WB {
		b.CureTime = sampleCureTime(s.rng.ForSubsystem(SubsystemCure),
			s.Config.CureWBMin, s.Config.CureWBMax, s.Config.CureWeights)
	}
	b.CureStart = b.CookEnd
	b.CureEnd = b.CureStart + b.CureTime

	r.OvenFree[set-1] = b.CookEnd
	r.CountFormed(p)
	r.ClaimSheet(p)
	r.CrewFree[crew-1] = b.FormEnd

	s.active = append(s.active, b)
	if s.CollectTrace {
		s.allBatches = append(s.allBatches, b)
	}

	logrus.Debugf("[%.2fh] crew %d forms %s batch %d on oven set %d (cook %.2fh, cure %.2fh)",
		now, crew, p, b.ID, set, cookTime, b.CureTime)
}

// cut commits work hours of cutting on b as one session starting now. The
// first crew to touch a batch owns it (sticky CutBy); resuming later does
// not change that. When accumulated progress reaches the cut time within
// tolerance the batch finishes and its yield is credited.
func (s *Simulator) cut(b *Batch, crew int, work float64) {
	now := s.Clock
	r := s.Resources

	if !b.CutStarted {
		b.CutStarted = true
		b.CutStart = now
	}
	if b.CutBy == 0 {
		b.CutBy = crew
	}

	end := now + work
	b.CutProgress += work
	b.CutSessions = append(b.CutSessions, CutSession{Start: now, End: end, Crew: crew})
	b.cutUntil = end
	r.CrewFree[crew-1] = end

	if b.CutProgress >= s.cutTime-cutDoneEpsilon {
		b.CutFinished = true
		b.CutEnd = end
		yield := s.wbPerBatch
		if b.Product == BB {
			yield = s.bbPerBatch
		}
		r.AddOutput(b.Product, yield)
		logrus.Debugf("[%.2fh] crew %d finishes %s batch %d (+%d units)", now, crew, b.Product, b.ID, yield)
	} else {
		logrus.Debugf("[%.2fh] crew %d cuts %s batch %d for %.2fh (progress %.2f/%.2f)",
			now, crew, b.Product, b.ID, work, b.CutProgress, s.cutTime)
	}
}

// idleUntil parks a crew at the earliest relevant future event among the
// supplied candidates, upcoming cleaning due times, and the cure ends of
// uncut batches.
func (s *Simulator) idleUntil(crew int, extra []float64) {
	now := s.Clock
	if s.Config.CleaningEnabled {
		extra = append(extra, s.Resources.LastFormClean+cleanDueHours)
		for _, set := range s.ovenOrder(crew) {
			extra = append(extra, s.Resources.LastOvenClean[set-1]+cleanDueHours)
		}
	}
	wake := math.Inf(1)
	for _, c := range extra {
		if c > now && c < wake {
			wake = c
		}
	}
	for _, b := range s.active {
		if !b.CutFinished && b.CureEnd > now && b.CureEnd < wake {
			wake = b.CureEnd
		}
	}
	if math.IsInf(wake, 1) {
		wake = s.Horizon
	}
	s.Resources.CrewFree[crew-1] = wake
}

// ovenWaitCandidates are the idle candidates when forming is blocked on
// exhausted sheets: the crew waits on an oven or the form area freeing.
func (s *Simulator) ovenWaitCandidates() []float64 {
	r := s.Resources
	extra := []float64{s.Horizon, r.FormAreaFree, r.OvenFree[0]}
	if s.Config.NumOvenSets == 2 {
		extra = append(extra, r.OvenFree[1])
	}
	return extra
}

// ovenOrder yields the existing oven sets in the crew's preference order.
func (s *Simulator) ovenOrder(crew int) []int {
	if s.Config.NumOvenSets == 2 {
		if crew == 2 {
			return []int{2, 1}
		}
		return []int{1, 2}
	}
	return []int{1}
}

// bestOven returns the oven set the crew should target and its free time.
// Crew 2 prefers its own set 2 when one exists, unless set 1 frees sooner.
func (s *Simulator) bestOven(crew int) (int, float64) {
	r := s.Resources
	if s.Config.NumOvenSets != 2 {
		return 1, r.OvenFree[0]
	}
	if crew == 2 {
		if r.OvenFree[0] < r.OvenFree[1] {
			return 1, r.OvenFree[0]
		}
		return 2, r.OvenFree[1]
	}
	if r.OvenFree[0] <= r.OvenFree[1] {
		return 1, r.OvenFree[0]
	}
	return 2, r.OvenFree[1]
}

func (s *Simulator) formCleanDue(now float64) bool {
	return s.Config.CleaningEnabled && s.Resources.HoursSinceFormClean(now) >= cleanDueHours
}

func (s *Simulator) ovenCleanDue(set int, now float64) bool {
	return s.Config.CleaningEnabled && s.Resources.HoursSinceOvenClean(set, now) >= cleanDueHours
}

func (s *Simulator) ovenCleanUrgent(set int, now float64) bool {
	return s.Config.CleaningEnabled && s.Resources.HoursSinceOvenClean(set, now) >= cleanUrgentHours
}

// doFormClean occupies the crew and the form area for the fixed duration.
func (s *Simulator) doFormClean(crew int) {
	now := s.Clock
	r := s.Resources
	end := now + s.Config.FormCleanTime
	r.LastFormClean = now
	r.FormAreaFree = end
	r.CrewFree[crew-1] = end
	if s.CollectTrace {
		s.cleanings = append(s.cleanings, trace.CleaningRecord{
			Kind: trace.FormClean, Crew: crew, Start: now, End: end,
		})
	}
	logrus.Debugf("[%.2fh] crew %d cleans the form area until %.2fh", now, crew, end)
}

// doOvenClean occupies the crew and the oven set for a sampled duration.
func (s *Simulator) doOvenClean(crew, set int) {
	now := s.Clock
	r := s.Resources
	dur := sampleOvenCleanTime(s.rng.ForSubsystem(SubsystemClean),
		s.Config.OvenCleanMin, s.Config.OvenCleanMax, s.Config.OvenCleanWeights)
	end := now + dur
	r.LastOvenClean[set-1] = now
	r.OvenFree[set-1] = end
	r.CrewFree[crew-1] = end
	if s.CollectTrace {
		s.cleanings = append(s.cleanings, trace.CleaningRecord{
			Kind: trace.OvenClean, Crew: crew, OvenSet: set, Start: now, End: end,
		})
	}
	logrus.Debugf("[%.2fh] crew %d cleans oven set %d until %.2fh", now, crew, set, end)
}
