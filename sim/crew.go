package sim

// CrewTopology selects how many crews staff the line and how crew 2 operates.
type CrewTopology string

const (
	// OneCrew runs crew 1 alone, around the clock.
	OneCrew CrewTopology = "1team"
	// TwoCrewDayShift adds a cutting-only crew 2 inside a daily shift window.
	TwoCrewDayShift CrewTopology = "2team_6-6"
	// TwoCrewContinuous adds a full-capability crew 2 around the clock,
	// using its own oven set when a second exists.
	TwoCrewContinuous CrewTopology = "2team_24/7"
)

// CrewTopologies lists the valid topology names, in upgrade order.
func CrewTopologies() []CrewTopology {
	return []CrewTopology{OneCrew, TwoCrewDayShift, TwoCrewContinuous}
}

// ShiftWindow is a daily [Start, End) window in hours since midnight.
type ShiftWindow struct {
	Start float64
	End   float64
}

// On reports whether t falls inside the window's daily cycle.
func (w ShiftWindow) On(t float64) bool {
	h := hourOfDay(t)
	return h >= w.Start && h < w.End
}

// NextStart returns the next time at or after t at which the window opens.
// If t is already inside the window it returns t.
func (w ShiftWindow) NextStart(t float64) float64 {
	h := hourOfDay(t)
	switch {
	case h < w.Start:
		return t + (w.Start - h)
	case h >= w.End:
		return t + (24 - h) + w.Start
	default:
		return t
	}
}

// EndOf returns the end of the current shift. Call only while On(t) is true.
func (w ShiftWindow) EndOf(t float64) float64 {
	return t + (w.End - hourOfDay(t))
}

func hourOfDay(t float64) float64 {
	h := t - 24*float64(int(t/24))
	if h < 0 {
		h += 24
	}
	return h
}
