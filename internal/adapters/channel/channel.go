// Package channel implements the stochastic physical-channel filter
// (spec.md §4.5): free-space path loss plus Rayleigh fast-fade plus
// log-normal shadowing decide whether each composed frame survives to the
// capture, and assign its RSSI. Grounded on the pack's radio-model
// examples (other_examples' openthread-ot-ns radiomodel/ber_model.go,
// gherlein-gocat yardstick radio.go) for the general shape of a
// link-budget simulation in Go — reworked from bit-error-rate and signal
// strength to this spec's survive/drop decision and RSSI assignment.
package channel

import (
	"math"

	"github.com/lcalzada-xor/probegen/internal/core/ports"
)

// Environment selects the shadowing sigma and noise floor used for a run
// (spec.md §4.5: "environment class (indoor/urban/rural)").
type Environment int

const (
	EnvIndoor Environment = iota
	EnvUrban
	EnvRural
)

// Params configures the Filter.
type Params struct {
	TxPowerDBm      float64 // default 20
	FrequencyMHz    float64 // default 2400
	Environment     Environment
	ShadowSigmaDB   float64 // default 3
	NoiseFloorDBm   float64 // default -90
	SNRMarginDB     float64 // default 10
	RayleighScale   float64 // default 2.0
}

// DefaultParams returns the spec.md §4.5 default parameter set.
func DefaultParams() Params {
	return Params{
		TxPowerDBm:    20,
		FrequencyMHz:  2400,
		Environment:   EnvIndoor,
		ShadowSigmaDB: 3,
		NoiseFloorDBm: -90,
		SNRMarginDB:   10,
		RayleighScale: 2.0,
	}
}

// Filter is a stateless evaluator of the per-frame channel model.
type Filter struct {
	p Params
}

var _ ports.ChannelFilter = Filter{}

// New returns a Filter configured with p; zero-valued fields are replaced
// by DefaultParams()' values.
func New(p Params) Filter {
	d := DefaultParams()
	if p.TxPowerDBm != 0 {
		d.TxPowerDBm = p.TxPowerDBm
	}
	if p.FrequencyMHz != 0 {
		d.FrequencyMHz = p.FrequencyMHz
	}
	d.Environment = p.Environment
	if p.ShadowSigmaDB != 0 {
		d.ShadowSigmaDB = p.ShadowSigmaDB
	}
	if p.NoiseFloorDBm != 0 {
		d.NoiseFloorDBm = p.NoiseFloorDBm
	}
	if p.SNRMarginDB != 0 {
		d.SNRMarginDB = p.SNRMarginDB
	}
	if p.RayleighScale != 0 {
		d.RayleighScale = p.RayleighScale
	}
	return Filter{p: d}
}

// FSPL computes free-space path loss in dB for distance d (meters) and
// frequency f (MHz): 20*log10(d) + 20*log10(f) - 27.55 (spec.md §4.5).
// Distance is clamped to a 1 m minimum to avoid log(0) (spec.md §7/§8:
// "Distance d=0 in the channel model is clamped to 1 m").
func FSPL(distanceMeters, freqMHz float64) float64 {
	if distanceMeters < 1 {
		distanceMeters = 1
	}
	return 20*math.Log10(distanceMeters) + 20*math.Log10(freqMHz) - 27.55
}

// Evaluate implements ports.ChannelFilter: decides frame survival and
// assigns RSSI.
func (f Filter) Evaluate(distanceMeters, envFactor float64, u01 func() float64, gaussian func() float64, rayleigh func(sigma float64) float64) ports.FilterOutcome {
	fspl := FSPL(distanceMeters, f.p.FrequencyMHz)
	fade := rayleigh(f.p.RayleighScale)
	shadow := gaussian() * f.p.ShadowSigmaDB

	prx := (f.p.TxPowerDBm - fspl - fade + shadow) * envFactor

	survived := prx > f.p.NoiseFloorDBm+f.p.SNRMarginDB

	rssi := -90 + int(u01()*50) // uniform in -90..-40 dBm for capture realism
	return ports.FilterOutcome{Survived: survived, RSSI: rssi}
}
