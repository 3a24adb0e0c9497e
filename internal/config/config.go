// Package config loads command-line flags and PROBEGEN_*-prefixed
// environment variables into a Config, flags taking precedence, matching
// the teacher's WMAP_*-prefixed getEnv/flag.Parse layering in
// internal/config/config.go.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
)

// Config holds the parameters a probegen run or auto-tune iteration needs.
type Config struct {
	HardwareFile string
	BehaviorFile string
	OUIFile      string

	OutputDir string // capture.pcap, run.log, stats.json, devices.csv, mapping.txt written here

	Scenario domain.Scenario

	DurationSeconds int
	CreationCount   int
	PermanenceMean  float64 // seconds

	CreationIntervalMean       float64
	CreationIntervalMultiplier float64
	BurstIntervalMultiplier    float64
	DwellMultiplier            float64
	EnvFactor                  float64
	InterferenceProb           float64
	QASampleRate               float64
	MACRotationMode            string

	MobilitySpeedMultiplier float64

	SingleVendor     string
	SingleModel      string
	SinglePhase      int
	AllowStateSwitch bool

	ScaleBetween  float64
	SpreadBetween float64
	BurstGamma    float64

	RealTime bool
	Seed     int64

	SegmentSeconds float64

	Debug bool
}

// Load parses flags and environment variables into a Config.
func Load() *Config {
	cfg := &Config{}

	cfg.HardwareFile = getEnv("PROBEGEN_HARDWARE_FILE", "testdata/hardware.csv")
	cfg.BehaviorFile = getEnv("PROBEGEN_BEHAVIOR_FILE", "testdata/behavior.csv")
	cfg.OUIFile = getEnv("PROBEGEN_OUI_FILE", "testdata/oui.txt")
	cfg.OutputDir = getEnv("PROBEGEN_OUTPUT_DIR", "out")

	cfg.DurationSeconds = int(getEnvFloat("PROBEGEN_DURATION_SEC", 60))
	cfg.CreationCount = int(getEnvFloat("PROBEGEN_CREATION_COUNT", 20))
	cfg.PermanenceMean = getEnvFloat("PROBEGEN_PERMANENCE_MEAN_SEC", 60)
	cfg.CreationIntervalMean = getEnvFloat("PROBEGEN_CREATION_INTERVAL_MEAN_SEC", 5)
	cfg.CreationIntervalMultiplier = getEnvFloat("PROBEGEN_CREATION_INTERVAL_MULT", 1.0)
	cfg.BurstIntervalMultiplier = getEnvFloat("PROBEGEN_BURST_INTERVAL_MULT", 1.0)
	cfg.DwellMultiplier = getEnvFloat("PROBEGEN_DWELL_MULT", 1.0)
	cfg.EnvFactor = getEnvFloat("PROBEGEN_ENV_FACTOR", 1.0)
	cfg.InterferenceProb = getEnvFloat("PROBEGEN_INTERFERENCE_PROB", 0.0)
	cfg.QASampleRate = getEnvFloat("PROBEGEN_QA_SAMPLE_RATE", 0.0)
	cfg.MACRotationMode = getEnv("PROBEGEN_MAC_ROTATION_MODE", string(domain.RotationPerBurst))
	cfg.MobilitySpeedMultiplier = getEnvFloat("PROBEGEN_MOBILITY_SPEED_MULT", 1.0)

	cfg.ScaleBetween = getEnvFloat("PROBEGEN_SCALE_BETWEEN", 1.0)
	cfg.SpreadBetween = getEnvFloat("PROBEGEN_SPREAD_BETWEEN", 1.0)
	cfg.BurstGamma = getEnvFloat("PROBEGEN_BURST_GAMMA", 1.0)

	cfg.Seed = int64(getEnvFloat("PROBEGEN_SEED", 1))
	cfg.SegmentSeconds = getEnvFloat("PROBEGEN_SEGMENT_SEC", 10)
	cfg.RealTime = getEnvBool("PROBEGEN_REALTIME", false)
	cfg.Debug = getEnvBool("PROBEGEN_DEBUG", false)

	scenarioStr := "multi_device"

	flag.StringVar(&cfg.HardwareFile, "hardware-file", cfg.HardwareFile, "path to the hardware parameter file")
	flag.StringVar(&cfg.BehaviorFile, "behavior-file", cfg.BehaviorFile, "path to the behavior parameter file")
	flag.StringVar(&cfg.OUIFile, "oui-file", cfg.OUIFile, "path to the IEEE OUI database text file")
	flag.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory for capture/log/stats/csv/mapping outputs")
	flag.StringVar(&scenarioStr, "scenario", scenarioStr, "multi_device | single_switch | single_static")
	flag.IntVar(&cfg.DurationSeconds, "duration-sec", cfg.DurationSeconds, "simulated run duration in seconds")
	flag.IntVar(&cfg.CreationCount, "creation-count", cfg.CreationCount, "number of devices to create (multi_device)")
	flag.Float64Var(&cfg.PermanenceMean, "permanence-mean-sec", cfg.PermanenceMean, "mean device lifetime in seconds")
	flag.Float64Var(&cfg.CreationIntervalMean, "creation-interval-mean-sec", cfg.CreationIntervalMean, "mean seconds between device creations")
	flag.Float64Var(&cfg.CreationIntervalMultiplier, "creation-interval-multiplier", cfg.CreationIntervalMultiplier, "")
	flag.Float64Var(&cfg.BurstIntervalMultiplier, "burst-interval-multiplier", cfg.BurstIntervalMultiplier, "")
	flag.Float64Var(&cfg.DwellMultiplier, "dwell-multiplier", cfg.DwellMultiplier, "")
	flag.Float64Var(&cfg.EnvFactor, "env-factor", cfg.EnvFactor, "")
	flag.Float64Var(&cfg.InterferenceProb, "interference-prob", cfg.InterferenceProb, "")
	flag.Float64Var(&cfg.QASampleRate, "qa-sample-rate", cfg.QASampleRate, "fraction of frames to self-parse as a QA check")
	flag.StringVar(&cfg.MACRotationMode, "mac-rotation-mode", cfg.MACRotationMode, "per_burst | per_phase | interval")
	flag.Float64Var(&cfg.MobilitySpeedMultiplier, "mobility-speed-multiplier", cfg.MobilitySpeedMultiplier, "")
	flag.StringVar(&cfg.SingleVendor, "single-vendor", cfg.SingleVendor, "vendor for single_switch/single_static")
	flag.StringVar(&cfg.SingleModel, "single-model", cfg.SingleModel, "model for single_switch/single_static")
	flag.IntVar(&cfg.SinglePhase, "single-phase", cfg.SinglePhase, "fixed phase for single_static (0/1/2)")
	flag.BoolVar(&cfg.AllowStateSwitch, "allow-state-switch", cfg.AllowStateSwitch, "allow single_switch to cycle phases")
	flag.Float64Var(&cfg.ScaleBetween, "scale-between", cfg.ScaleBetween, "inter-burst scale tunable")
	flag.Float64Var(&cfg.SpreadBetween, "spread-between", cfg.SpreadBetween, "inter-burst spread tunable")
	flag.Float64Var(&cfg.BurstGamma, "burst-gamma", cfg.BurstGamma, "burst-length reshape tunable")
	flag.BoolVar(&cfg.RealTime, "realtime", cfg.RealTime, "sleep in real wall-clock time between events")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed")
	flag.Float64Var(&cfg.SegmentSeconds, "segment-sec", cfg.SegmentSeconds, "metrics segment length in seconds")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug flag (no output depends on it)")

	flag.Parse()

	cfg.Scenario = domain.Scenario(scenarioStr)

	return cfg
}

// Duration returns DurationSeconds as a time.Duration.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
