package domain

import "time"

// DeviceID identifies a simulated device within a single run's arena.
// Events reference devices by id rather than by pointer, so the priority
// queue never entangles with device lifetime (spec.md §9).
type DeviceID int64

// Device is a simulated station's full runtime state: identity, current
// phase/MAC, mobility, radio parameters, and its probed SSID list
// (spec.md §3).
type Device struct {
	ID     DeviceID
	Vendor string
	Model  string

	Hardware *HardwareProfile // immutable, shared across devices of the same model
	behavior map[Phase]*BehaviorProfile

	Phase Phase

	CurrentMAC        [6]byte
	MACHistory        [][6]byte
	RotationMode      RotationMode
	ForceMACChange    bool
	LastMACChangeTime time.Duration // simulation time of last rotation
	RotationInterval  time.Duration

	VendorOUI      [3]byte // looked up once at creation for PreserveOUI
	dedicatedPool  [][6]byte
	dedicatedIndex int

	PositionX, PositionY float64 // meters, bounded arena
	Speed                float64 // m/s
	HeadingDegrees       float64

	QueueLength     int           // 1..10
	ProcessingDelay time.Duration // 1-5 ms
	TxPowerDBm      float64

	SSIDs []string

	SequenceCounter uint16 // next sequence number to use, for burst continuity across phases
	CreatedAt       time.Duration
	PhaseChangedAt  time.Duration

	FramesSent        int64         // frames composed for this device over the run, surviving or not
	PositionUpdatedAt time.Duration // simulation time position/heading were last integrated
}

// Behavior returns the behavior profile for the device's current phase, or
// nil if none was loaded (a load-time error should have already prevented
// this; kept as a defensive accessor for runtime code paths).
func (d *Device) Behavior() *BehaviorProfile {
	return d.behavior[d.Phase]
}

// BehaviorFor returns the behavior profile for an arbitrary phase.
func (d *Device) BehaviorFor(p Phase) *BehaviorProfile {
	return d.behavior[p]
}

// SetBehaviors installs the complete {phase: profile} map for the device's
// model. Called once at construction by the device factory.
func (d *Device) SetBehaviors(m map[Phase]*BehaviorProfile) {
	d.behavior = m
}

// RecordMAC appends mac to history if it differs from the most recently
// recorded MAC, and sets it current. Exactly one MAC is current at any
// instant (spec.md §3 invariant).
func (d *Device) RecordMAC(mac [6]byte) {
	d.CurrentMAC = mac
	if len(d.MACHistory) == 0 || d.MACHistory[len(d.MACHistory)-1] != mac {
		d.MACHistory = append(d.MACHistory, mac)
	}
}

// DistinctMACCount returns how many distinct MACs this device has used.
func (d *Device) DistinctMACCount() int {
	seen := make(map[[6]byte]struct{}, len(d.MACHistory))
	for _, m := range d.MACHistory {
		seen[m] = struct{}{}
	}
	return len(seen)
}

// SetPhase transitions the device to a new phase, recording the transition
// time and — for per_phase rotation — arming ForceMACChange (spec.md §4.3
// "Phase change"). The caller is responsible for sampling the new dwell
// time from the behavior profile.
func (d *Device) SetPhase(p Phase, now time.Duration) {
	d.Phase = p
	d.PhaseChangedAt = now
	if d.RotationMode == RotationPerPhase {
		d.ForceMACChange = true
	}
}

// ShouldRotate decides whether the device should rotate its MAC before
// emitting the next burst, per spec.md §4.3. Permanent policy never
// rotates regardless of rotation mode.
func (d *Device) ShouldRotate(now time.Duration) bool {
	if d.Hardware.MACPolicy == MACPermanent {
		return false
	}
	switch d.RotationMode {
	case RotationPerBurst:
		return true
	case RotationPerPhase:
		if d.ForceMACChange {
			return true
		}
		return false
	case RotationInterval:
		return now-d.LastMACChangeTime >= d.RotationInterval
	default:
		return false
	}
}

// MarkRotated clears the per-phase force flag and records the rotation
// time, called immediately after a rotation decided by ShouldRotate is
// carried out.
func (d *Device) MarkRotated(now time.Duration) {
	d.ForceMACChange = false
	d.LastMACChangeTime = now
}

// SeedInitialMAC assigns the device's first MAC according to its
// hardware profile's policy (spec.md §4.3 "On construction: seed MAC per
// policy"). PreserveOUI uses d.VendorOUI; Dedicated first generates a pool
// of dedicatedPoolSize MACs. u01 supplies the randomness.
func (d *Device) SeedInitialMAC(dedicatedPoolSize int, u01 func() float64) {
	switch d.Hardware.MACPolicy {
	case MACPermanent:
		d.RecordMAC(GeneratePermanentMAC(u01))
	case MACPreserveOUI:
		d.RecordMAC(GeneratePreserveOUIMAC(d.VendorOUI, u01))
	case MACDedicated:
		d.dedicatedPool = NewDedicatedPool(dedicatedPoolSize, u01)
		d.dedicatedIndex = 0
		d.RecordMAC(d.dedicatedPool[0])
	default: // MACFullyRandom
		d.RecordMAC(GenerateFullyRandomMAC(u01))
	}
}

// Rotate assigns the device's next MAC per its policy, called when
// ShouldRotate reports true. Permanent devices never reach here (ShouldRotate
// always returns false for them).
func (d *Device) Rotate(u01 func() float64) {
	switch d.Hardware.MACPolicy {
	case MACPreserveOUI:
		d.RecordMAC(GeneratePreserveOUIMAC(d.VendorOUI, u01))
	case MACDedicated:
		if len(d.dedicatedPool) == 0 {
			d.dedicatedPool = NewDedicatedPool(1, u01)
		}
		d.dedicatedIndex = (d.dedicatedIndex + 1) % len(d.dedicatedPool)
		d.RecordMAC(d.dedicatedPool[d.dedicatedIndex])
	default: // MACFullyRandom
		d.RecordMAC(GenerateFullyRandomMAC(u01))
	}
}

// IntegratePosition advances the device's 2-D position linearly over dt,
// perturbs heading by a small uniform amount, and reflects at the arena
// bounds (spec.md §4.3 "Position update").
func (d *Device) IntegratePosition(dt time.Duration, arenaWidth, arenaHeight float64, headingJitterDeg float64, u01 func() float64) {
	d.HeadingDegrees += (u01()*2 - 1) * headingJitterDeg

	seconds := dt.Seconds()
	dx := d.Speed * seconds * cosDeg(d.HeadingDegrees)
	dy := d.Speed * seconds * sinDeg(d.HeadingDegrees)

	d.PositionX, d.HeadingDegrees = reflect1D(d.PositionX+dx, arenaWidth, d.HeadingDegrees, true)
	d.PositionY, d.HeadingDegrees = reflect1D(d.PositionY+dy, arenaHeight, d.HeadingDegrees, false)
}
