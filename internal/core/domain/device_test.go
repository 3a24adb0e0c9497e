package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestDevice(policy MACPolicy, rotation RotationMode) *Device {
	return &Device{
		ID:           1,
		Hardware:     &HardwareProfile{MACPolicy: policy},
		RotationMode: rotation,
		VendorOUI:    [3]byte{0x01, 0x02, 0x03},
	}
}

func TestRecordMACDedupesConsecutive(t *testing.T) {
	d := newTestDevice(MACFullyRandom, RotationPerBurst)
	mac := [6]byte{0x02, 1, 2, 3, 4, 5}
	d.RecordMAC(mac)
	d.RecordMAC(mac)
	assert.Len(t, d.MACHistory, 1)
	assert.Equal(t, 1, d.DistinctMACCount())

	other := [6]byte{0x02, 9, 9, 9, 9, 9}
	d.RecordMAC(other)
	assert.Len(t, d.MACHistory, 2)
	assert.Equal(t, 2, d.DistinctMACCount())
	assert.Equal(t, other, d.CurrentMAC)
}

func TestSeedInitialMACPermanent(t *testing.T) {
	d := newTestDevice(MACPermanent, RotationPerBurst)
	d.SeedInitialMAC(16, u01From(10))
	assert.Len(t, d.MACHistory, 1)
	assert.False(t, HasLocallyAdministeredBit(d.CurrentMAC))
}

func TestSeedInitialMACPreserveOUI(t *testing.T) {
	d := newTestDevice(MACPreserveOUI, RotationPerBurst)
	d.SeedInitialMAC(16, u01From(11))
	assert.Equal(t, d.VendorOUI[0], d.CurrentMAC[0])
	assert.Equal(t, d.VendorOUI[1], d.CurrentMAC[1])
	assert.Equal(t, d.VendorOUI[2], d.CurrentMAC[2])
}

func TestSeedInitialMACDedicatedPool(t *testing.T) {
	d := newTestDevice(MACDedicated, RotationPerBurst)
	d.SeedInitialMAC(4, u01From(12))
	assert.Len(t, d.dedicatedPool, 4)
	assert.Equal(t, d.dedicatedPool[0], d.CurrentMAC)
}

func TestShouldRotatePermanentNeverRotates(t *testing.T) {
	d := newTestDevice(MACPermanent, RotationPerBurst)
	assert.False(t, d.ShouldRotate(time.Hour))
}

func TestShouldRotatePerBurstAlwaysTrue(t *testing.T) {
	d := newTestDevice(MACFullyRandom, RotationPerBurst)
	assert.True(t, d.ShouldRotate(0))
}

func TestShouldRotatePerPhaseOnlyWhenForced(t *testing.T) {
	d := newTestDevice(MACFullyRandom, RotationPerPhase)
	assert.False(t, d.ShouldRotate(0))
	d.SetPhase(PhaseActive, time.Second)
	assert.True(t, d.ShouldRotate(time.Second))
	d.MarkRotated(time.Second)
	assert.False(t, d.ShouldRotate(time.Second))
}

func TestShouldRotateIntervalElapsed(t *testing.T) {
	d := newTestDevice(MACFullyRandom, RotationInterval)
	d.RotationInterval = 5 * time.Second
	assert.False(t, d.ShouldRotate(4*time.Second))
	assert.True(t, d.ShouldRotate(5*time.Second))
}

func TestRotateDedicatedCyclesPool(t *testing.T) {
	d := newTestDevice(MACDedicated, RotationPerBurst)
	d.SeedInitialMAC(2, u01From(13))
	first := d.CurrentMAC
	d.Rotate(u01From(14))
	second := d.CurrentMAC
	d.Rotate(u01From(15))
	third := d.CurrentMAC
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, third)
}

func TestIntegratePositionReflectsAtBounds(t *testing.T) {
	d := newTestDevice(MACFullyRandom, RotationPerBurst)
	d.PositionX = 199
	d.PositionY = 100
	d.Speed = 50
	d.HeadingDegrees = 0

	d.IntegratePosition(time.Second, 200, 200, 0, func() float64 { return 0.5 })
	assert.GreaterOrEqual(t, d.PositionX, 0.0)
	assert.LessOrEqual(t, d.PositionX, 200.0)
}
