package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFSPLClampsDistanceToOneMeter(t *testing.T) {
	atZero := FSPL(0, 2400)
	atOne := FSPL(1, 2400)
	assert.Equal(t, atOne, atZero)

	atNegative := FSPL(-5, 2400)
	assert.Equal(t, atOne, atNegative)
}

func TestFSPLIncreasesWithDistance(t *testing.T) {
	near := FSPL(10, 2400)
	far := FSPL(100, 2400)
	assert.Greater(t, far, near)
}

func TestNewFillsZeroFieldsWithDefaults(t *testing.T) {
	f := New(Params{})
	assert.Equal(t, DefaultParams().TxPowerDBm, f.p.TxPowerDBm)
	assert.Equal(t, DefaultParams().NoiseFloorDBm, f.p.NoiseFloorDBm)
}

func TestNewKeepsExplicitOverrides(t *testing.T) {
	f := New(Params{TxPowerDBm: 30, NoiseFloorDBm: -80})
	assert.Equal(t, 30.0, f.p.TxPowerDBm)
	assert.Equal(t, -80.0, f.p.NoiseFloorDBm)
}

func TestEvaluateSurvivesAtShortRangeNoFadeOrShadow(t *testing.T) {
	f := New(DefaultParams())
	noFade := func(float64) float64 { return 0 }
	noShadow := func() float64 { return 0 }
	u01 := func() float64 { return 0.5 }

	outcome := f.Evaluate(5, 1.0, u01, noShadow, noFade)
	assert.True(t, outcome.Survived)
	assert.GreaterOrEqual(t, outcome.RSSI, -90)
	assert.LessOrEqual(t, outcome.RSSI, -40)
}

func TestEvaluateDropsAtLongRange(t *testing.T) {
	f := New(DefaultParams())
	noFade := func(float64) float64 { return 0 }
	noShadow := func() float64 { return 0 }
	u01 := func() float64 { return 0.5 }

	outcome := f.Evaluate(100000, 1.0, u01, noShadow, noFade)
	assert.False(t, outcome.Survived)
}
