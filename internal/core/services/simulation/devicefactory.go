package simulation

import (
	"fmt"
	"time"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/ports"
	"github.com/lcalzada-xor/probegen/internal/randgen"
)

// ssidAlphabet is the alphanumeric alphabet spec.md §3 specifies for a
// device's 1-10 synthetic SSIDs of length 32.
const ssidAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const dedicatedPoolSize = 16 // size of a Dedicated-policy device's private MAC pool

// CreateDevice builds a fully initialized Device: looks up its hardware
// and behavior profiles, resolves its vendor OUI, seeds its first MAC,
// and samples its SSID list and radio/mobility parameters (spec.md §3,
// §4.3).
func CreateDevice(id domain.DeviceID, vendor, model string, store ports.DeviceStore, registry ports.VendorRegistry, rotationMode domain.RotationMode, rotationInterval time.Duration, arenaWidth, arenaHeight, mobilitySpeedMultiplier float64, now time.Duration, rng *randgen.Source) (*domain.Device, error) {
	hw, err := store.Hardware(model)
	if err != nil {
		return nil, err
	}

	behaviors := make(map[domain.Phase]*domain.BehaviorProfile, 3)
	for _, p := range []domain.Phase{domain.PhaseLocked, domain.PhaseAwake, domain.PhaseActive} {
		bp, err := store.Behavior(model, p)
		if err != nil {
			return nil, err
		}
		behaviors[p] = bp
	}

	var vendorOUI [3]byte
	if oui, _, ok := registry.Lookup(vendor); ok {
		vendorOUI = oui
	}

	d := &domain.Device{
		ID:               id,
		Vendor:           vendor,
		Model:            model,
		Hardware:         hw,
		Phase:            domain.PhaseAwake,
		RotationMode:     rotationMode,
		RotationInterval: rotationInterval,
		VendorOUI:        vendorOUI,
		PositionX:        rng.Uniform(0, arenaWidth),
		PositionY:        rng.Uniform(0, arenaHeight),
		Speed:            rng.Uniform(0.5, 1.5) * mobilitySpeedMultiplier,
		HeadingDegrees:   rng.Uniform(0, 360),
		QueueLength:      rng.UniformInt(1, 10),
		ProcessingDelay:  time.Duration(rng.Uniform(1, 5) * float64(time.Millisecond)),
		TxPowerDBm:       20,
		CreatedAt:        now,
		PhaseChangedAt:   now,
	}
	d.SetBehaviors(behaviors)

	ssidCount := rng.UniformInt(1, 10)
	d.SSIDs = make([]string, ssidCount)
	for i := range d.SSIDs {
		d.SSIDs[i] = randomSSID(rng)
	}

	d.SeedInitialMAC(dedicatedPoolSize, rng.Float64)

	// The first burst must not wrap its sequence numbers modulo 4096
	// (spec.md §4.4), so the starting sequence is drawn from
	// 0..4095-burst_length rather than the full 0..4095 range. The
	// largest value the hardware profile's burst-length distribution can
	// draw is used as the worst case, since the actual first burst's
	// length is not sampled until its EventCreateBurst fires.
	maxBurst := int(maxValue(hw.BurstLengths))
	if maxBurst < 1 {
		maxBurst = 1
	}
	upperSeq := 4095 - maxBurst
	if upperSeq < 0 {
		upperSeq = 0
	}
	startSeq := rng.UniformInt(0, upperSeq)
	d.SequenceCounter = uint16(startSeq)

	return d, nil
}

func maxValue(d domain.DiscreteDistribution) float64 {
	values, _ := d.Entries()
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

func randomSSID(rng *randgen.Source) string {
	b := make([]byte, 32)
	for i := range b {
		b[i] = ssidAlphabet[rng.Intn(len(ssidAlphabet))]
	}
	return string(b)
}

// validateModel returns an InvalidConfig-wrapping error when model is not
// known to store, used by single-device scenarios before scheduling any
// events.
func validateModel(store ports.DeviceStore, model string) error {
	if _, err := store.Hardware(model); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}
