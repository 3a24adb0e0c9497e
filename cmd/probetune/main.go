// Command probetune runs the calibration/auto-tune loop (spec.md §4.8,
// §6 "Auto-tune CLI surface"): it treats the simulator as a black box,
// running short simulations and jittering {scale_between, spread_between,
// burst_gamma} to chase a target {MCR, NUMR, MCIV} record.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lcalzada-xor/probegen/internal/adapters/channel"
	"github.com/lcalzada-xor/probegen/internal/adapters/composer"
	"github.com/lcalzada-xor/probegen/internal/adapters/oui"
	"github.com/lcalzada-xor/probegen/internal/adapters/store"
	"github.com/lcalzada-xor/probegen/internal/config"
	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/services/autotune"
	"github.com/lcalzada-xor/probegen/internal/core/services/metrics"
	"github.com/lcalzada-xor/probegen/internal/core/services/simulation"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		targetJSON  = flag.String("target-json", "", "path to a JSON {mcr,numr,mciv} target record")
		datasetType = flag.String("dataset-type", "multi", "multi | single_switch | single_locked | single_awake | single_active")
		durationMin = flag.Int("duration-min", 1, "simulated iteration duration in minutes")
		brand       = flag.String("brand", "", "vendor for single-device dataset types")
		model       = flag.String("model", "", "model for single-device dataset types")
		maxIters    = flag.Int("max-iters", 12, "maximum auto-tune iterations")
		patience    = flag.Int("patience", 4, "consecutive non-improvements before stopping")
		walltimeSec = flag.Int("walltime-sec", 0, "wall-clock budget in seconds (0 = unbounded)")
		initScale   = flag.Float64("init-scale", 1.0, "initial scale_between")
		initSpread  = flag.Float64("init-spread", 1.0, "initial spread_between")
		initGamma   = flag.Float64("init-gamma", 0.3, "initial burst_gamma")
	)
	cfg := config.Load() // also parses the flags defined above

	if *targetJSON == "" {
		log.Fatalf("probetune: --target-json is required")
	}
	data, err := os.ReadFile(*targetJSON)
	if err != nil {
		log.Fatalf("probetune: read target: %v", err)
	}
	var target autotune.Target
	if err := json.Unmarshal(data, &target); err != nil {
		log.Fatalf("probetune: parse target: %v", err)
	}

	deviceStore, err := store.Load(cfg.HardwareFile, cfg.BehaviorFile)
	if err != nil {
		log.Fatalf("probetune: load device store: %v", err)
	}
	registry, err := oui.Load(cfg.OUIFile)
	if err != nil {
		log.Fatalf("probetune: load oui registry: %v", err)
	}

	scenario, singlePhase := resolveDatasetType(*datasetType)

	baseParams := domain.DefaultScenarioParams()
	baseParams.Scenario = scenario
	baseParams.Duration = time.Duration(*durationMin) * time.Minute
	baseParams.CreationCount = cfg.CreationCount
	baseParams.PermanenceMean = time.Duration(cfg.PermanenceMean * float64(time.Second))
	baseParams.CreationIntervalMean = time.Duration(cfg.CreationIntervalMean * float64(time.Second))
	baseParams.SingleVendor = *brand
	baseParams.SingleModel = *model
	baseParams.SinglePhase = singlePhase
	baseParams.AllowStateSwitch = scenario == domain.ScenarioSingleSwitch
	baseParams.Seed = cfg.Seed

	extractor := metrics.New()

	runFunc := func(ctx context.Context, p autotune.ParamPoint) (domain.RunStats, error) {
		scaled := deviceStore.WithScaling(p.ScaleBetween, p.SpreadBetween, p.BurstGamma, cfg.DwellMultiplier, cfg.MobilitySpeedMultiplier)
		params := baseParams
		params.ScaleBetween = p.ScaleBetween
		params.SpreadBetween = p.SpreadBetween
		params.BurstGamma = p.BurstGamma

		engine := simulation.New(scaled, registry, composer.New(), channel.New(channel.Params{}), nil, nil, extractor, params, logger)
		return engine.Run(ctx)
	}

	opts := autotune.Options{
		Target:   target,
		Init:     autotune.ParamPoint{ScaleBetween: *initScale, SpreadBetween: *initSpread, BurstGamma: *initGamma},
		MaxIters: *maxIters,
		Patience: *patience,
		Seed:     cfg.Seed,
	}
	if *walltimeSec > 0 {
		opts.WallClockCap = time.Duration(*walltimeSec) * time.Second
	}

	result, err := autotune.Run(ctx, opts, runFunc)
	if err != nil {
		log.Fatalf("probetune: aborted: %v", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("probetune: create output dir: %v", err)
	}
	out := filepath.Join(cfg.OutputDir, "autotune_result.json")
	if data, err := json.MarshalIndent(result, "", "  "); err == nil {
		_ = os.WriteFile(out, data, 0o644)
	}

	logger.Info("autotune complete",
		"thresholds_met", result.ThresholdsMet,
		"best_score", result.BestScore,
		"iterations", len(result.History),
		"best_scale_between", result.Best.ScaleBetween,
		"best_spread_between", result.Best.SpreadBetween,
		"best_burst_gamma", result.Best.BurstGamma,
	)
}

func resolveDatasetType(dt string) (domain.Scenario, domain.Phase) {
	switch dt {
	case "single_switch":
		return domain.ScenarioSingleSwitch, domain.PhaseAwake
	case "single_locked":
		return domain.ScenarioSingleStatic, domain.PhaseLocked
	case "single_awake":
		return domain.ScenarioSingleStatic, domain.PhaseAwake
	case "single_active":
		return domain.ScenarioSingleStatic, domain.PhaseActive
	default:
		return domain.ScenarioMultiDevice, domain.PhaseAwake
	}
}
