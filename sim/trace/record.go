// Package trace provides per-run trace recording for chart rendering and
// wait-time analysis. This package has no dependencies on sim/ — it stores
// pure data types.
package trace

// CleaningKind distinguishes the two cleaning event types.
type CleaningKind string

const (
	FormClean CleaningKind = "form_clean"
	OvenClean CleaningKind = "oven_clean"
)

// CutSession captures one contiguous cutting interval by one crew.
type CutSession struct {
	Start float64
	End   float64
	Crew  int
}

// BatchRecord captures the full lifecycle of one batch.
type BatchRecord struct {
	ID      int
	Product string // "WB" or "BB"

	FormStart float64
	FormEnd   float64
	CookStart float64
	CookEnd   float64
	CureStart float64
	CureEnd   float64

	CutStarted  bool
	CutStart    float64
	CutFinished bool
	CutEnd      float64
	CutProgress float64
	Sessions    []CutSession

	FormedBy int
	CutBy    int
	OvenSet  int
}

// CleaningRecord captures a single cleaning event. OvenSet is zero for
// form-area cleans.
type CleaningRecord struct {
	Kind    CleaningKind
	Crew    int
	OvenSet int
	Start   float64
	End     float64
}

// SimulationTrace is the complete recorded history of one run.
type SimulationTrace struct {
	Batches   []BatchRecord
	Cleanings []CleaningRecord
}
