// Command probegen runs a single simulation (spec.md §6): it loads the
// device parameter store and OUI registry, drives the discrete-event
// engine to completion, and writes the capture, text log, stats JSON,
// device CSV, and probe-id mapping outputs. Grounded on the teacher's
// cmd/wmap/main.go for structured-logging and signal-driven context
// cancellation conventions.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lcalzada-xor/probegen/internal/adapters/capture"
	"github.com/lcalzada-xor/probegen/internal/adapters/channel"
	"github.com/lcalzada-xor/probegen/internal/adapters/composer"
	"github.com/lcalzada-xor/probegen/internal/adapters/oui"
	"github.com/lcalzada-xor/probegen/internal/adapters/store"
	"github.com/lcalzada-xor/probegen/internal/config"
	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/services/metrics"
	"github.com/lcalzada-xor/probegen/internal/core/services/simulation"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("probegen: create output dir: %v", err)
	}

	deviceStore, err := store.Load(cfg.HardwareFile, cfg.BehaviorFile)
	if err != nil {
		log.Fatalf("probegen: load device store: %v", err)
	}
	registry, err := oui.Load(cfg.OUIFile)
	if err != nil {
		log.Fatalf("probegen: load oui registry: %v", err)
	}

	scaled := deviceStore.WithScaling(cfg.ScaleBetween, cfg.SpreadBetween, cfg.BurstGamma, cfg.DwellMultiplier, cfg.MobilitySpeedMultiplier)

	params := domain.DefaultScenarioParams()
	params.Scenario = cfg.Scenario
	params.Duration = cfg.Duration()
	params.CreationCount = cfg.CreationCount
	params.PermanenceMean = time.Duration(cfg.PermanenceMean * float64(time.Second))
	params.CreationIntervalMean = time.Duration(cfg.CreationIntervalMean * float64(time.Second))
	params.CreationIntervalMultiplier = cfg.CreationIntervalMultiplier
	params.BurstIntervalMultiplier = cfg.BurstIntervalMultiplier
	params.DwellMultiplier = cfg.DwellMultiplier
	params.EnvFactor = cfg.EnvFactor
	params.InterferenceProb = cfg.InterferenceProb
	params.QASampleRate = cfg.QASampleRate
	params.MACRotationMode = domain.RotationMode(cfg.MACRotationMode)
	params.MobilitySpeedMultiplier = cfg.MobilitySpeedMultiplier
	params.SingleVendor = cfg.SingleVendor
	params.SingleModel = cfg.SingleModel
	params.SinglePhase = domain.Phase(cfg.SinglePhase)
	params.AllowStateSwitch = cfg.AllowStateSwitch
	params.ScaleBetween = cfg.ScaleBetween
	params.SpreadBetween = cfg.SpreadBetween
	params.BurstGamma = cfg.BurstGamma
	params.RealTime = cfg.RealTime
	params.Seed = cfg.Seed
	params.SegmentSeconds = cfg.SegmentSeconds

	pcapWriter, err := capture.NewPCAPWriter(filepath.Join(cfg.OutputDir, "capture.pcap"), time.Now())
	if err != nil {
		log.Fatalf("probegen: open pcap writer: %v", err)
	}
	defer pcapWriter.Close()

	logWriter, err := capture.NewLineLogWriter(filepath.Join(cfg.OutputDir, "run.log"))
	if err != nil {
		log.Fatalf("probegen: open log writer: %v", err)
	}
	defer logWriter.Close()

	engine := simulation.New(
		scaled,
		registry,
		composer.New(),
		channel.New(channel.Params{}),
		pcapWriter,
		logWriter,
		metrics.New(),
		params,
		logger,
	)

	stats, err := engine.Run(ctx)
	if err != nil {
		log.Fatalf("probegen: run failed: %v", err)
	}

	if err := simulation.WriteStatsJSON(filepath.Join(cfg.OutputDir, "stats.json"), stats); err != nil {
		log.Fatalf("probegen: write stats: %v", err)
	}
	if err := capture.WriteDeviceCSV(filepath.Join(cfg.OutputDir, "devices.csv"), engine.Devices()); err != nil {
		log.Fatalf("probegen: write device csv: %v", err)
	}
	if err := capture.WriteProbeIDMapping(filepath.Join(cfg.OutputDir, "mapping.txt"), engine.ProbeRecords()); err != nil {
		log.Fatalf("probegen: write probe-id mapping: %v", err)
	}

	logger.Info("run complete",
		"frames", stats.FrameCount,
		"devices", stats.DeviceCount,
		"dropped", stats.DroppedCount,
		"mcr", stats.MCR,
		"numr", stats.NUMR,
		"mciv", stats.MCIV,
	)
}
