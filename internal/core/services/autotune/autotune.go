// Package autotune implements the calibration loop (spec.md §4.8): a
// bounded random-jitter search over {scale_between, spread_between,
// burst_gamma} that scores short simulation runs against a target metric
// record and stops on thresholds met, patience exhaustion, wall-clock
// budget, or max iterations. Grounded on the teacher's
// internal/core/services/security/behavior_engine.go for the shape of an
// iterative scorer accumulating a bounded history — generalized here from
// anomaly scoring to parameter-space search.
package autotune

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/randgen"
)

// Target is the calibration target metric record (spec.md §4.8).
type Target struct {
	MCR  float64 `json:"mcr"`
	NUMR float64 `json:"numr"`
	MCIV float64 `json:"mciv"`
}

// ParamPoint is one point in the search space.
type ParamPoint struct {
	ScaleBetween  float64
	SpreadBetween float64
	BurstGamma    float64
}

// bounds for each tunable (spec.md §4.8 "Parameters under search").
var (
	scaleBetweenRange  = [2]float64{0.30, 2.50}
	spreadBetweenRange = [2]float64{0.05, 1.50}
	burstGammaRange    = [2]float64{0.01, 0.60}
)

// Acceptance thresholds (spec.md §4.8).
const (
	thresholdMCR  = 0.10
	thresholdNUMR = 0.20
	thresholdMCIV = 0.35
	scoreEpsilon  = 1e-9
)

// jitterFraction is the fraction of each parameter's range a candidate is
// jittered within (spec.md §4.8: "jitters each parameter uniformly inside
// a window equal to 0.25 × its range").
const jitterFraction = 0.25

// RunFunc executes one short simulation with the given parameter point and
// returns its computed stats. Supplied by the caller (the CLI wires this
// to a fresh simulation.Engine per iteration).
type RunFunc func(ctx context.Context, p ParamPoint) (domain.RunStats, error)

// Options configures the search loop.
type Options struct {
	Target       Target
	Init         ParamPoint
	MaxIters     int
	Patience     int
	WallClockCap time.Duration
	Seed         int64
}

// IterationRecord is one entry in the search history.
type IterationRecord struct {
	IterationID string
	Params      ParamPoint
	Stats       domain.RunStats
	Score       float64
	Failed      bool
}

// Result is the auto-tuner's final output (spec.md §4.8: "Returns the best
// parameter set, its metrics, and the full history").
type Result struct {
	Best          ParamPoint
	BestStats     domain.RunStats
	BestScore     float64
	ThresholdsMet bool
	History       []IterationRecord
}

// Run executes the calibration loop, calling run once per iteration. Every
// RunFunc failure counts toward patience and is recorded in the history,
// except domain.ErrInvalidConfig, which aborts the search immediately and
// is returned rather than swallowed (spec.md §7: auto-tune "never
// re-raises mid-search unless the failure is an InvalidConfig").
func Run(ctx context.Context, opts Options, run RunFunc) (Result, error) {
	rng := randgen.New(opts.Seed)
	start := time.Now()

	current := clamp(opts.Init)
	best := current
	var bestStats domain.RunStats
	var bestScore float64
	haveBest := false

	var history []IterationRecord
	nonImprovements := 0

	for iter := 0; opts.MaxIters <= 0 || iter < opts.MaxIters; iter++ {
		if opts.WallClockCap > 0 && time.Since(start) >= opts.WallClockCap {
			break
		}

		iterID := uuid.NewString()
		stats, err := run(ctx, current)
		if err != nil {
			history = append(history, IterationRecord{IterationID: iterID, Params: current, Failed: true})
			if errors.Is(err, domain.ErrInvalidConfig) {
				return Result{Best: best, BestStats: bestStats, BestScore: bestScore, History: history}, err
			}
			nonImprovements++
			if opts.Patience > 0 && nonImprovements >= opts.Patience {
				break
			}
			current = candidate(best, rng)
			continue
		}

		s := score(stats, opts.Target)
		history = append(history, IterationRecord{IterationID: iterID, Params: current, Stats: stats, Score: s})

		if !haveBest || s < bestScore {
			best = current
			bestStats = stats
			bestScore = s
			haveBest = true
			nonImprovements = 0
		} else {
			nonImprovements++
		}

		if thresholdsMet(stats, opts.Target) {
			break
		}
		if opts.Patience > 0 && nonImprovements >= opts.Patience {
			break
		}

		select {
		case <-ctx.Done():
			return Result{Best: best, BestStats: bestStats, BestScore: bestScore, History: history}, ctx.Err()
		default:
		}

		current = candidate(best, rng)
	}

	return Result{
		Best:          best,
		BestStats:     bestStats,
		BestScore:     bestScore,
		ThresholdsMet: thresholdsMet(bestStats, opts.Target),
		History:       history,
	}, nil
}

func relError(sim, target float64) float64 {
	return absf(sim-target) / (absf(target) + scoreEpsilon)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// score computes the weighted relative error (spec.md §4.8).
func score(stats domain.RunStats, target Target) float64 {
	eMCR := relError(stats.MCR, target.MCR)
	eNUMR := relError(stats.NUMR, target.NUMR)
	eMCIV := relError(stats.MCIV, target.MCIV)
	return 0.5*eMCR + 0.3*eNUMR + 0.2*eMCIV
}

func thresholdsMet(stats domain.RunStats, target Target) bool {
	return relError(stats.MCR, target.MCR) <= thresholdMCR &&
		relError(stats.NUMR, target.NUMR) <= thresholdNUMR &&
		relError(stats.MCIV, target.MCIV) <= thresholdMCIV
}

func clamp(p ParamPoint) ParamPoint {
	return ParamPoint{
		ScaleBetween:  clampf(p.ScaleBetween, scaleBetweenRange),
		SpreadBetween: clampf(p.SpreadBetween, spreadBetweenRange),
		BurstGamma:    clampf(p.BurstGamma, burstGammaRange),
	}
}

func clampf(v float64, r [2]float64) float64 {
	if v < r[0] {
		return r[0]
	}
	if v > r[1] {
		return r[1]
	}
	return v
}

// candidate jitters each parameter of base uniformly inside a window equal
// to 0.25 × its range, clamped to bounds (spec.md §4.8).
func candidate(base ParamPoint, rng *randgen.Source) ParamPoint {
	return clamp(ParamPoint{
		ScaleBetween:  jitter(base.ScaleBetween, scaleBetweenRange, rng),
		SpreadBetween: jitter(base.SpreadBetween, spreadBetweenRange, rng),
		BurstGamma:    jitter(base.BurstGamma, burstGammaRange, rng),
	})
}

func jitter(v float64, r [2]float64, rng *randgen.Source) float64 {
	window := (r[1] - r[0]) * jitterFraction
	return v + rng.Uniform(-window/2, window/2)
}
