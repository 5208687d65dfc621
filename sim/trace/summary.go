package trace

import "gonum.org/v1/gonum/stat"

// WaitStats summarizes cure-to-cut wait times for one product.
type WaitStats struct {
	Count int
	Mean  float64
	Max   float64
}

// Summary aggregates wait-time and pause statistics from a SimulationTrace.
type Summary struct {
	WaitWB WaitStats // wait between cure end and first cut for WB batches
	WaitBB WaitStats
	// PauseCount is the number of cut interruptions (sessions beyond the
	// first, across all batches).
	PauseCount int
	// CleaningCount is the number of recorded cleaning events.
	CleaningCount int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *Summary {
	summary := &Summary{}
	if st == nil {
		return summary
	}

	var waitsWB, waitsBB []float64
	for _, b := range st.Batches {
		if len(b.Sessions) > 1 {
			summary.PauseCount += len(b.Sessions) - 1
		}
		if !b.CutStarted {
			continue
		}
		wait := b.CutStart - b.CureEnd
		if wait < 0 {
			wait = 0
		}
		if b.Product == "WB" {
			waitsWB = append(waitsWB, wait)
		} else {
			waitsBB = append(waitsBB, wait)
		}
	}

	summary.WaitWB = waitStats(waitsWB)
	summary.WaitBB = waitStats(waitsBB)
	summary.CleaningCount = len(st.Cleanings)
	return summary
}

func waitStats(waits []float64) WaitStats {
	ws := WaitStats{Count: len(waits)}
	if len(waits) == 0 {
		return ws
	}
	ws.Mean = stat.Mean(waits, nil)
	for _, w := range waits {
		if w > ws.Max {
			ws.Max = w
		}
	}
	return ws
}
