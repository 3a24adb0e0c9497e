// Package ports defines the small, capability-named interfaces that
// internal/core/services depends on, following the teacher repository's
// hexagonal-architecture convention (internal/core/ports in wmap): the
// domain layer never imports an adapter package directly.
package ports

import (
	"time"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
)

// DeviceStore resolves hardware and behavior profiles by model, and
// applies the scaling operators used by scenarios and the auto-tuner
// (spec.md §4.1).
type DeviceStore interface {
	Hardware(model string) (*domain.HardwareProfile, error)
	Behavior(model string, phase domain.Phase) (*domain.BehaviorProfile, error)
	RandomModel(u01 func() float64) (vendor, model string)
	Models() []string

	// WithScaling returns a store whose distributions have been passed
	// through the named operators, leaving the receiver untouched
	// (spec.md §4.1: "pure functions over DiscreteDistributions").
	WithScaling(scaleBetween, spreadBetween, burstGamma, dwellMultiplier, mobilitySpeedMultiplier float64) DeviceStore
}

// VendorRegistry resolves a vendor name to its IEEE OUI (spec.md §4.2).
type VendorRegistry interface {
	Lookup(vendor string) (oui [3]byte, canonical string, ok bool)
}

// FrameComposer assembles RadioTap + 802.11 + IE frames for a burst
// (spec.md §4.4).
type FrameComposer interface {
	ComposeBurst(req BurstRequest) (BurstResult, error)
	Parse(frame []byte) (ParsedFrame, error)
}

// BurstRequest carries everything the composer needs to build one burst
// of frames without touching device state itself — the caller (device
// model / engine) decides sequence continuation and passes it in.
type BurstRequest struct {
	Device        *domain.Device
	Hardware      *domain.HardwareProfile
	Channel       int
	BurstLength   int
	StartSeq      uint16
	IntraInterval time.Duration
	JitterDist    domain.DiscreteDistribution
	U01           func() float64
}

// BurstResult is the composer's output: the ordered frames (with intended
// wire timestamps relative to burst start) and the sequence number to
// continue from on the device's next burst.
type BurstResult struct {
	Frames  []ComposedFrame
	NextSeq uint16
}

// ComposedFrame is one frame before the channel filter has decided its
// fate.
type ComposedFrame struct {
	Bytes        []byte
	RelativeTime time.Duration
}

// ParsedFrame is what Parse extracts back out of a composed frame, used
// for the round-trip law in spec.md §8 and the engine's optional QA dump.
type ParsedFrame struct {
	SourceMAC  [6]byte
	Sequence   uint16
	Channel    int
	SSID       string
	HasHT      bool
	HasVHT     bool
	HasExtCap  bool
	VendorOUIs [][3]byte
	IEOrder    []int
}

// ChannelFilter decides whether a frame survives to the capture and
// assigns its RSSI (spec.md §4.5).
type ChannelFilter interface {
	Evaluate(distanceMeters float64, envFactor float64, u01 func() float64, gaussian func() float64, rayleigh func(sigma float64) float64) FilterOutcome
}

// FilterOutcome is the channel filter's per-frame decision.
type FilterOutcome struct {
	Survived bool
	RSSI     int
}

// CaptureWriter appends surviving frames to the output capture
// (spec.md §6: PCAP, DLT 127).
type CaptureWriter interface {
	WriteFrame(timestamp time.Duration, data []byte) error
	Close() error
}

// LogWriter appends a human-readable summary line per surviving frame
// (spec.md §4.6 SendPacket).
type LogWriter interface {
	WriteLine(line string) error
	Close() error
}

// MetricsExtractor computes MCR/NUMR/MCIV/MAE/T from a sequence of
// (timestamp, MAC) observations (spec.md §4.7).
type MetricsExtractor interface {
	Extract(samples []MACSample, segmentSeconds float64) domain.RunStats
}

// MACSample is one (timestamp, source MAC) observation fed to the
// metrics extractor.
type MACSample struct {
	Timestamp time.Duration
	MAC       [6]byte
}
