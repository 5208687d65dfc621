package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func view(totalWB, totalBB int) PolicyView {
	return PolicyView{
		TotalWB:    totalWB,
		TotalBB:    totalBB,
		WBTarget:   1_500_000,
		BBTarget:   2_500_000,
		WBPerBatch: 3000,
		BBPerBatch: 6000,
	}
}

func TestResolvePolicy_AllNamesResolve(t *testing.T) {
	for _, name := range StrategyNames() {
		p, err := ResolvePolicy(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}
}

func TestResolvePolicy_UnknownName_Errors(t *testing.T) {
	_, err := ResolvePolicy("round_robin")
	assert.Error(t, err)
}

func TestRatioPolicy(t *testing.T) {
	p := RatioPolicy{}
	// No output yet: prefer WB.
	assert.True(t, p.PreferWB(view(0, 0)))
	// WB share below the 37.5% target share: prefer WB.
	assert.True(t, p.PreferWB(view(100_000, 900_000)))
	// WB share above target share: prefer BB.
	assert.False(t, p.PreferWB(view(900_000, 100_000)))
}

func TestRatioBatchesPolicy(t *testing.T) {
	p := RatioBatchesPolicy{}
	// 500 WB batches needed vs ~417 BB batches: prefer WB.
	assert.True(t, p.PreferWB(view(0, 0)))
	// WB done, BB still needed: prefer BB.
	assert.False(t, p.PreferWB(view(1_500_000, 0)))
	// Both done: needs are both zero, WB wins the tie.
	assert.True(t, p.PreferWB(view(1_500_000, 2_500_000)))
}

func TestFixedPolicies(t *testing.T) {
	assert.True(t, WBFirstPolicy{}.PreferWB(view(0, 0)))
	assert.True(t, WBFirstPolicy{}.PreferWB(view(9_999_999, 0)))
	assert.False(t, BBFirstPolicy{}.PreferWB(view(0, 0)))
	assert.False(t, BBFirstPolicy{}.PreferWB(view(0, 9_999_999)))
}

func TestAdaptivePolicy(t *testing.T) {
	p := AdaptivePolicy{}
	// WB at 10%, BB at 20%: WB is behind.
	assert.True(t, p.PreferWB(view(150_000, 500_000)))
	// WB at 50%, BB at 10%: BB is behind.
	assert.False(t, p.PreferWB(view(750_000, 250_000)))
}

func TestCureAwarePolicy_CuringBatchesReduceWBNeed(t *testing.T) {
	// GIVEN equal batch needs where plain ratio_batches prefers WB
	v := view(1_200_000, 1_900_000) // 100 WB batches vs 100 BB batches needed
	assert.True(t, RatioBatchesPolicy{}.PreferWB(v))

	// WHEN WB batches are already in the cure pipeline
	v.CuringWB = 10

	// THEN the effective WB need drops below the BB need
	assert.False(t, CureAwarePolicy{}.PreferWB(v))
}

func TestGoalFocusedPolicy(t *testing.T) {
	p := GoalFocusedPolicy{}
	// WB further from 100%: prefer WB.
	assert.True(t, p.PreferWB(view(150_000, 2_000_000)))
	// BB further from 100%: prefer BB.
	assert.False(t, p.PreferWB(view(1_400_000, 250_000)))
	// Both met: prefer WB.
	assert.True(t, p.PreferWB(view(1_500_000, 2_500_000)))
}

func TestWBUntilDonePolicy(t *testing.T) {
	p := WBUntilDonePolicy{}
	assert.True(t, p.PreferWB(view(0, 0)))
	assert.True(t, p.PreferWB(view(1_499_999, 0)))
	assert.False(t, p.PreferWB(view(1_500_000, 0)))
}

func TestWBUntilDonePolicy_ZeroTarget_PrefersBBImmediately(t *testing.T) {
	// A zero WB target must mean BB immediately and permanently.
	p := WBUntilDonePolicy{}
	v := view(0, 0)
	v.WBTarget = 0
	assert.False(t, p.PreferWB(v))
	v.TotalBB = 9_999_999
	assert.False(t, p.PreferWB(v))
}

func TestBalancedGoalPolicy(t *testing.T) {
	p := BalancedGoalPolicy{}
	// WB behind including cure pipeline: prefer WB.
	assert.True(t, p.PreferWB(view(150_000, 2_000_000)))
	// Cure pipeline pushes effective WB ahead of BB: prefer BB.
	v := view(1_200_000, 1_000_000)
	v.CuringWB = 100
	assert.False(t, p.PreferWB(v))
	// Both met: prefer BB (unlike goal_focused).
	assert.False(t, p.PreferWB(view(1_500_000, 2_500_000)))
}

func TestZeroTargets_NoDivisionBlowups(t *testing.T) {
	v := PolicyView{WBPerBatch: 3000, BBPerBatch: 6000}
	for _, name := range StrategyNames() {
		p, err := ResolvePolicy(name)
		require.NoError(t, err)
		// Must not panic and must return a defined answer.
		_ = p.PreferWB(v)
	}
}
