package sim

// Product identifies one of the line's two product classes.
type Product string

const (
	// WB requires a post-cook cure before it may be cut.
	WB Product = "WB"
	// BB cures for zero hours and is cut on a dedicated single-occupancy machine.
	BB Product = "BB"
)

// Other returns the opposite product class.
func (p Product) Other() Product {
	if p == WB {
		return BB
	}
	return WB
}
