// Defines the Batch struct that models one unit of work moving through the
// Form → Cook → Cure → Cut lifecycle, including the explicit cutting state
// used for pause/resume across crews.

package sim

import "fmt"

// CutStatus represents the cutting state of a batch.
type CutStatus string

const (
	CutIdle    CutStatus = "idle"    // never touched by a cutter
	CutActive  CutStatus = "cutting" // a committed cut session extends past the current clock
	CutPaused  CutStatus = "paused"  // partial progress, no session in flight
	CutDone    CutStatus = "done"    // cut complete, batch leaves the active set
)

// CutSession records one contiguous interval during which a crew cut a batch.
// A batch may accumulate several sessions when cutting is paused and resumed.
type CutSession struct {
	Start float64
	End   float64
	Crew  int
}

// Batch models a single batch's lifecycle in the simulation.
// Form/Cook/Cure timestamps are all stamped at forming time because cook and
// cure durations are sampled up front; only the cutting fields evolve later.
type Batch struct {
	ID      int
	Product Product

	FormStart float64
	FormEnd   float64
	CookStart float64
	CookEnd   float64
	CureTime  float64 // WB only, 0 for BB
	CureStart float64
	CureEnd   float64

	CutStarted  bool
	CutStart    float64
	CutFinished bool
	CutEnd      float64
	CutProgress float64 // accumulated cutting hours, monotonically non-decreasing
	CutSessions []CutSession

	FormedBy int // crew that formed the batch
	CutBy    int // first crew to cut it (sticky), 0 until touched
	OvenSet  int

	// cutUntil is the end of the most recently committed cut session. While
	// the clock is before cutUntil the batch is mid-session and excluded from
	// the ready set.
	cutUntil float64
}

// State reports the batch's cutting state at the given clock time.
func (b *Batch) State(now float64) CutStatus {
	switch {
	case b.CutFinished:
		return CutDone
	case b.CutProgress > 0 && now < b.cutUntil:
		return CutActive
	case b.CutProgress > 0:
		return CutPaused
	default:
		return CutIdle
	}
}

// MidSession reports whether a committed cut session extends past now.
// Mid-session batches are not schedulable by another crew in the same round.
func (b *Batch) MidSession(now float64) bool {
	return !b.CutFinished && b.CutProgress > 0 && now < b.cutUntil
}

// Active reports whether the batch still occupies a sheet at the given time.
func (b *Batch) Active(now float64) bool {
	return !b.CutFinished || b.CutEnd > now
}

func (b *Batch) String() string {
	return fmt.Sprintf("Batch(ID: %d, Product: %s, FormStart: %.2f, CureEnd: %.2f, CutProgress: %.2f, State: %s)",
		b.ID, b.Product, b.FormStart, b.CureEnd, b.CutProgress, b.State(b.cutUntil))
}
