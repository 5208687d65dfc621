package sim

import "fmt"

// PolicyView is the cumulative production state a priority policy may consult.
// It is rebuilt fresh at every dispatch; policies MUST NOT retain it.
type PolicyView struct {
	TotalWB    int // cumulative WB units produced
	TotalBB    int // cumulative BB units produced
	WBTarget   int
	BBTarget   int
	WBPerBatch int
	BBPerBatch int
	CuringWB   int // formed-but-not-yet-cut WB batches still curing
}

// wbNeeded is the number of WB batches still required to hit the target.
func (v PolicyView) wbNeeded() float64 {
	return batchesNeeded(v.WBTarget, v.TotalWB, v.WBPerBatch)
}

// bbNeeded is the number of BB batches still required to hit the target.
func (v PolicyView) bbNeeded() float64 {
	return batchesNeeded(v.BBTarget, v.TotalBB, v.BBPerBatch)
}

func batchesNeeded(target, total, perBatch int) float64 {
	n := float64(target-total) / float64(perBatch)
	if n < 0 {
		return 0
	}
	return n
}

// progress is total/target, or 1 when the target is zero (treated as met).
func progress(total, target int) float64 {
	if target <= 0 {
		return 1
	}
	return float64(total) / float64(target)
}

// PriorityPolicy decides, at each forming opportunity, whether the next
// batch should be WB (true) or BB (false). Implementations are pure
// functions of the view — no retained state, no mutation.
type PriorityPolicy interface {
	PreferWB(v PolicyView) bool
	Name() string
}

// RatioPolicy keeps the WB share of cumulative output below the target share.
// Prefers WB when nothing has been produced yet.
type RatioPolicy struct{}

func (RatioPolicy) Name() string { return "ratio" }

func (RatioPolicy) PreferWB(v PolicyView) bool {
	total := v.TotalWB + v.TotalBB
	if total == 0 {
		return true
	}
	targetTotal := v.WBTarget + v.BBTarget
	wbRatio := 0.5
	if targetTotal > 0 {
		wbRatio = float64(v.WBTarget) / float64(targetTotal)
	}
	return float64(v.TotalWB)/float64(total) < wbRatio
}

// RatioBatchesPolicy compares remaining batch counts per product.
type RatioBatchesPolicy struct{}

func (RatioBatchesPolicy) Name() string { return "ratio_batches" }

func (RatioBatchesPolicy) PreferWB(v PolicyView) bool {
	return v.wbNeeded() >= v.bbNeeded()
}

// WBFirstPolicy always prefers WB.
type WBFirstPolicy struct{}

func (WBFirstPolicy) Name() string { return "wb_first" }

func (WBFirstPolicy) PreferWB(PolicyView) bool { return true }

// BBFirstPolicy always prefers BB.
type BBFirstPolicy struct{}

func (BBFirstPolicy) Name() string { return "bb_first" }

func (BBFirstPolicy) PreferWB(PolicyView) bool { return false }

// AdaptivePolicy prefers whichever product is proportionally further behind
// its own target.
type AdaptivePolicy struct{}

func (AdaptivePolicy) Name() string { return "adaptive" }

func (AdaptivePolicy) PreferWB(v PolicyView) bool {
	return progress(v.TotalWB, v.WBTarget) < progress(v.TotalBB, v.BBTarget)
}

// CureAwarePolicy is RatioBatchesPolicy with the WB need reduced by batches
// already in the cure pipeline, so WB is not over-formed while cures drain.
type CureAwarePolicy struct{}

func (CureAwarePolicy) Name() string { return "cure_aware" }

func (CureAwarePolicy) PreferWB(v PolicyView) bool {
	effectiveWB := v.TotalWB + v.CuringWB*v.WBPerBatch
	wbNeeded := batchesNeeded(v.WBTarget, effectiveWB, v.WBPerBatch)
	return wbNeeded >= v.bbNeeded()
}

// GoalFocusedPolicy prefers the product further from 100% of its target;
// once both targets are met it prefers WB.
type GoalFocusedPolicy struct{}

func (GoalFocusedPolicy) Name() string { return "goal_focused" }

func (GoalFocusedPolicy) PreferWB(v PolicyView) bool {
	wbPct := progress(v.TotalWB, v.WBTarget)
	bbPct := progress(v.TotalBB, v.BBTarget)
	if wbPct >= 1 && bbPct >= 1 {
		return true
	}
	return wbPct < bbPct
}

// WBUntilDonePolicy prefers WB until its target is met, then BB forever.
// A zero WB target means BB immediately and permanently.
type WBUntilDonePolicy struct{}

func (WBUntilDonePolicy) Name() string { return "wb_until_done" }

func (WBUntilDonePolicy) PreferWB(v PolicyView) bool {
	return v.TotalWB < v.WBTarget
}

// BalancedGoalPolicy is GoalFocusedPolicy with WB progress counting in-cure
// batches; once both targets are met it prefers BB.
type BalancedGoalPolicy struct{}

func (BalancedGoalPolicy) Name() string { return "balanced_goal" }

func (BalancedGoalPolicy) PreferWB(v PolicyView) bool {
	effectiveWB := v.TotalWB + v.CuringWB*v.WBPerBatch
	wbPct := progress(effectiveWB, v.WBTarget)
	bbPct := progress(v.TotalBB, v.BBTarget)
	if wbPct >= 1 && bbPct >= 1 {
		return false
	}
	return wbPct < bbPct
}

// StrategyNames lists all resolvable policy names.
func StrategyNames() []string {
	return []string{
		"ratio", "ratio_batches", "wb_first", "bb_first", "adaptive",
		"cure_aware", "goal_focused", "wb_until_done", "balanced_goal",
	}
}

// ResolvePolicy maps a strategy name to its policy. Unknown names error at
// construction time so a bad name can never reach the dispatch loop.
func ResolvePolicy(name string) (PriorityPolicy, error) {
	switch name {
	case "ratio":
		return RatioPolicy{}, nil
	case "ratio_batches":
		return RatioBatchesPolicy{}, nil
	case "wb_first":
		return WBFirstPolicy{}, nil
	case "bb_first":
		return BBFirstPolicy{}, nil
	case "adaptive":
		return AdaptivePolicy{}, nil
	case "cure_aware":
		return CureAwarePolicy{}, nil
	case "goal_focused":
		return GoalFocusedPolicy{}, nil
	case "wb_until_done":
		return WBUntilDonePolicy{}, nil
	case "balanced_goal":
		return BalancedGoalPolicy{}, nil
	default:
		return nil, fmt.Errorf("config: unknown priority strategy %q", name)
	}
}
