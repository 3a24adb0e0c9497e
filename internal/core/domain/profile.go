package domain

// Phase is a device's coarse behavioral state, used to select a timing
// profile. The three phases and their integer encodings are fixed by the
// wire/config format (behavior file's phase column is 0/1/2).
type Phase int

const (
	PhaseLocked Phase = 0
	PhaseAwake  Phase = 1
	PhaseActive Phase = 2
)

func (p Phase) String() string {
	switch p {
	case PhaseLocked:
		return "locked"
	case PhaseAwake:
		return "awake"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// ValidPhase reports whether p is one of the three defined phases.
func ValidPhase(p Phase) bool {
	return p == PhaseLocked || p == PhaseAwake || p == PhaseActive
}

// MACPolicy governs how a device's source MAC is chosen and rotated.
type MACPolicy int

const (
	MACPermanent   MACPolicy = 0
	MACFullyRandom MACPolicy = 1
	MACPreserveOUI MACPolicy = 2
	MACDedicated   MACPolicy = 3
)

func (m MACPolicy) String() string {
	switch m {
	case MACPermanent:
		return "permanent"
	case MACFullyRandom:
		return "fully_random"
	case MACPreserveOUI:
		return "preserve_oui"
	case MACDedicated:
		return "dedicated"
	default:
		return "unknown"
	}
}

// ValidMACPolicy reports whether p is one of the four defined policies
// (spec.md §4.1: "MAC policy is outside 0..3" is an InvalidConfig).
func ValidMACPolicy(p MACPolicy) bool {
	return p >= MACPermanent && p <= MACDedicated
}

// RotationMode governs when a device rotates its current MAC during a run.
type RotationMode string

const (
	RotationPerBurst RotationMode = "per_burst"
	RotationPerPhase RotationMode = "per_phase"
	RotationInterval RotationMode = "interval"
)

// HardwareProfile holds the per-model hardware parameters loaded from the
// hardware parameter file (spec.md §4.1, §6).
type HardwareProfile struct {
	Vendor       string
	Model        string
	BurstLengths DiscreteDistribution // values are positive integers
	MACPolicy    MACPolicy

	HasVHT    bool // absence encoded in config as "?"
	VHTCap    []byte
	ExtCap    []byte
	HTCap     []byte
	Rates     []int // 500 kbps units, parsed from "r1:p1/r2:p2/..."; probabilities discarded
	ExtRates  []int
}

// BehaviorProfile holds the per-(model, phase) timing parameters loaded
// from the behavior parameter file (spec.md §4.1, §6). All four fields are
// required for every phase a hardware profile's model declares.
type BehaviorProfile struct {
	Model string
	Phase Phase

	IntraBurst DiscreteDistribution // seconds between frames inside a burst
	InterBurst DiscreteDistribution // seconds between bursts
	Dwell      DiscreteDistribution // seconds spent in this phase
	Jitter     DiscreteDistribution // seconds of per-packet jitter
}

// IsSendingProbe reports whether a device in this phase emits any Probe
// Requests at all. Per spec.md §4.6, a phase with is_sending_probe=false is
// silent for its entire dwell; only PhaseLocked is silent by default, since
// the source models locked screens as not actively scanning.
func (b BehaviorProfile) IsSendingProbe() bool {
	return b.Phase != PhaseLocked
}
