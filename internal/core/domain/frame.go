package domain

import "time"

// CapturedFrame is a fully composed frame plus its channel-model outcome:
// bytes, RSSI in dBm, and the final wire timestamp in seconds since the
// simulation epoch (spec.md §3).
type CapturedFrame struct {
	Bytes     []byte
	RSSI      int
	Timestamp time.Duration
	DeviceID  DeviceID
	MAC       [6]byte
	Channel   int
}

// Scenario selects which bootstrapping strategy the engine uses
// (spec.md §4.6).
type Scenario string

const (
	ScenarioMultiDevice   Scenario = "multi_device"
	ScenarioSingleSwitch  Scenario = "single_switch"
	ScenarioSingleStatic  Scenario = "single_static"
)

// ScenarioParams is the configuration record consumed by the engine
// (spec.md §6).
type ScenarioParams struct {
	Scenario Scenario

	Duration       time.Duration
	CreationCount  int
	PermanenceMean time.Duration // mean of the permanence-time (device lifetime) distribution

	CreationIntervalMean       time.Duration
	CreationIntervalMultiplier float64
	BurstIntervalMultiplier    float64
	DwellMultiplier            float64
	EnvFactor                  float64
	InterferenceProb           float64
	QASampleRate               float64
	MACRotationMode            RotationMode
	RotationInterval           time.Duration // used when MACRotationMode == RotationInterval
	MobilitySpeedMultiplier    float64

	// single_switch / single_static only
	SingleVendor     string
	SingleModel      string
	SinglePhase      Phase
	AllowStateSwitch bool

	// Tunables consumed by the store's scaling operators.
	ScaleBetween  float64
	SpreadBetween float64
	BurstGamma    float64

	RealTime bool
	Seed     int64

	// SegmentSeconds is the metrics segment length; <= 0 treats the whole
	// run as one segment.
	SegmentSeconds float64

	ArenaWidth, ArenaHeight float64
}

// DefaultScenarioParams returns a ScenarioParams with every multiplier at
// its spec.md §6 default (1.0, or 0.0 for probabilities/rates).
func DefaultScenarioParams() ScenarioParams {
	return ScenarioParams{
		Scenario:                   ScenarioMultiDevice,
		CreationIntervalMultiplier: 1.0,
		BurstIntervalMultiplier:    1.0,
		DwellMultiplier:            1.0,
		EnvFactor:                  1.0,
		InterferenceProb:           0.0,
		QASampleRate:               0.0,
		MACRotationMode:            RotationPerBurst,
		RotationInterval:           5 * time.Second,
		MobilitySpeedMultiplier:    1.0,
		ScaleBetween:               1.0,
		SpreadBetween:              1.0,
		BurstGamma:                 1.0,
		ArenaWidth:                 200,
		ArenaHeight:                200,
	}
}

// RunStats is the structured summary the engine writes at the end of a
// run (spec.md §4.7/§7: "JSON summary on clean completion... per-metric
// values and device counts"), and the preferred source for the metrics
// extractor's robust-parsing chain (spec.md §4.8).
type RunStats struct {
	RunID string `json:"run_id,omitempty"`

	MCR   float64 `json:"mcr"`
	NUMR  float64 `json:"numr"`
	MCIV  float64 `json:"mciv"`
	MAE   float64 `json:"mae"`
	MeanT float64 `json:"mean_update_cycle"`

	FrameCount  int `json:"frame_count"`
	DeviceCount int `json:"device_count"`
	DroppedCount int `json:"dropped_count"`

	DurationSeconds float64 `json:"duration_seconds"`
}
