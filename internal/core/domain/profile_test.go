package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhase(t *testing.T) {
	assert.True(t, ValidPhase(PhaseLocked))
	assert.True(t, ValidPhase(PhaseAwake))
	assert.True(t, ValidPhase(PhaseActive))
	assert.False(t, ValidPhase(Phase(3)))
	assert.False(t, ValidPhase(Phase(-1)))
}

func TestValidMACPolicy(t *testing.T) {
	assert.True(t, ValidMACPolicy(MACPermanent))
	assert.True(t, ValidMACPolicy(MACDedicated))
	assert.False(t, ValidMACPolicy(MACPolicy(-1)))
	assert.False(t, ValidMACPolicy(MACPolicy(4)))
}

func TestIsSendingProbeLockedIsSilent(t *testing.T) {
	locked := BehaviorProfile{Phase: PhaseLocked}
	assert.False(t, locked.IsSendingProbe())

	awake := BehaviorProfile{Phase: PhaseAwake}
	assert.True(t, awake.IsSendingProbe())

	active := BehaviorProfile{Phase: PhaseActive}
	assert.True(t, active.IsSendingProbe())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "locked", PhaseLocked.String())
	assert.Equal(t, "awake", PhaseAwake.String())
	assert.Equal(t, "active", PhaseActive.String())
}

func TestMACPolicyString(t *testing.T) {
	assert.Equal(t, "permanent", MACPermanent.String())
	assert.Equal(t, "fully_random", MACFullyRandom.String())
	assert.Equal(t, "preserve_oui", MACPreserveOUI.String())
	assert.Equal(t, "dedicated", MACDedicated.String())
}
