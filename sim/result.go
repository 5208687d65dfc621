package sim

import "github.com/prodsim/prodsim/sim/trace"

// Result is the aggregate outcome of one simulation run.
type Result struct {
	TotalWB int // cumulative WB units produced
	TotalBB int // cumulative BB units produced
	Total   int

	WBPct float64 // percentage of the WB target reached
	BBPct float64 // percentage of the BB target reached

	WBBatches int // WB batches formed
	BBBatches int // BB batches formed

	// StallEvents counts anti-stall fallback triggers during the run.
	// Expected to be zero; see Simulator.
	StallEvents int

	// Trace holds the full per-batch and cleaning history when the run was
	// built with CollectTrace. Nil otherwise.
	Trace *trace.SimulationTrace
}

func pctOfTarget(total, target int) float64 {
	if target <= 0 {
		return 0
	}
	return 100 * float64(total) / float64(target)
}

// result assembles the Result from the final simulator state.
func (s *Simulator) result() Result {
	r := s.Resources
	res := Result{
		TotalWB:     r.TotalWB,
		TotalBB:     r.TotalBB,
		Total:       r.TotalWB + r.TotalBB,
		WBPct:       pctOfTarget(r.TotalWB, s.Config.WBTarget),
		BBPct:       pctOfTarget(r.TotalBB, s.Config.BBTarget),
		WBBatches:   r.WBBatchesFormed,
		BBBatches:   r.BBBatchesFormed,
		StallEvents: s.StallEvents,
	}
	if s.CollectTrace {
		res.Trace = s.buildTrace()
	}
	return res
}

// buildTrace converts the retained batches and cleaning events into the
// pure-data trace consumed by external renderers and analyzers.
func (s *Simulator) buildTrace() *trace.SimulationTrace {
	st := &trace.SimulationTrace{
		Cleanings: s.cleanings,
	}
	for _, b := range s.allBatches {
		rec := trace.BatchRecord{
			ID:          b.ID,
			Product:     string(b.Product),
			FormStart:   b.FormStart,
			FormEnd:     b.FormEnd,
			CookStart:   b.CookStart,
			CookEnd:     b.CookEnd,
			CureStart:   b.CureStart,
			CureEnd:     b.CureEnd,
			CutStarted:  b.CutStarted,
			CutStart:    b.CutStart,
			CutFinished: b.CutFinished,
			CutEnd:      b.CutEnd,
			CutProgress: b.CutProgress,
			FormedBy:    b.FormedBy,
			CutBy:       b.CutBy,
			OvenSet:     b.OvenSet,
		}
		for _, sess := range b.CutSessions {
			rec.Sessions = append(rec.Sessions, trace.CutSession{
				Start: sess.Start, End: sess.End, Crew: sess.Crew,
			})
		}
		st.Batches = append(st.Batches, rec)
	}
	return st
}
