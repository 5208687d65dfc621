// ResourceState is the explicit, mutable record of resource availability and
// cumulative production owned by a Simulator. All mutation happens inside the
// dispatch step; nothing captures it in closures.

package sim

// ResourceState tracks next-free timestamps for every shared resource, the
// cleaning due-clocks, and the running production counters.
//
// Crews and oven sets are indexed 0-based internally; crew/oven numbers in
// the public trace output are 1-based.
type ResourceState struct {
	CrewFree     [2]float64 // next time each crew becomes available
	OvenFree     [2]float64 // next time each oven set becomes available
	FormAreaFree float64    // single shared forming resource across crews

	LastFormClean float64    // timestamp of the last form-area clean
	LastOvenClean [2]float64 // timestamp of the last clean per oven set

	TotalWB int // cumulative WB units produced
	TotalBB int // cumulative BB units produced

	WBBatchesFormed int
	BBBatchesFormed int

	// Per-round sheet claims. Reset at the start of every wake round; they
	// make crew 1's just-made forming decisions visible to crew 2 before the
	// new batch ages into the active count.
	SheetsClaimedWB int
	SheetsClaimedBB int
}

// NewResourceState returns the state of a freshly cleaned, idle line at t=0.
func NewResourceState() *ResourceState {
	return &ResourceState{}
}

// ResetRoundClaims clears the per-round sheet claims.
func (r *ResourceState) ResetRoundClaims() {
	r.SheetsClaimedWB = 0
	r.SheetsClaimedBB = 0
}

// ClaimSheet records a forming decision for this round.
func (r *ResourceState) ClaimSheet(p Product) {
	if p == WB {
		r.SheetsClaimedWB++
	} else {
		r.SheetsClaimedBB++
	}
}

// Claimed returns this round's claim count for a product.
func (r *ResourceState) Claimed(p Product) int {
	if p == WB {
		return r.SheetsClaimedWB
	}
	return r.SheetsClaimedBB
}

// Total returns the cumulative units produced for a product.
func (r *ResourceState) Total(p Product) int {
	if p == WB {
		return r.TotalWB
	}
	return r.TotalBB
}

// AddOutput credits a finished batch's yield to the product's total.
func (r *ResourceState) AddOutput(p Product, units int) {
	if p == WB {
		r.TotalWB += units
	} else {
		r.TotalBB += units
	}
}

// CountFormed increments the formed-batch counter for a product.
func (r *ResourceState) CountFormed(p Product) {
	if p == WB {
		r.WBBatchesFormed++
	} else {
		r.BBBatchesFormed++
	}
}

// HoursSinceFormClean reports the form-area clean-clock age at time t.
func (r *ResourceState) HoursSinceFormClean(t float64) float64 {
	return t - r.LastFormClean
}

// HoursSinceOvenClean reports oven set (1-based) clean-clock age at time t.
func (r *ResourceState) HoursSinceOvenClean(set int, t float64) float64 {
	return t - r.LastOvenClean[set-1]
}
