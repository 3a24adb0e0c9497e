package autotune

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/randgen"
)

func TestScoreIsZeroWhenStatsMatchTarget(t *testing.T) {
	target := Target{MCR: 0.5, NUMR: 0.3, MCIV: 0.1}
	stats := domain.RunStats{MCR: 0.5, NUMR: 0.3, MCIV: 0.1}
	assert.InDelta(t, 0, score(stats, target), 1e-6)
}

func TestThresholdsMetBoundaries(t *testing.T) {
	target := Target{MCR: 1.0, NUMR: 1.0, MCIV: 1.0}
	within := domain.RunStats{MCR: 1.09, NUMR: 1.19, MCIV: 1.34}
	assert.True(t, thresholdsMet(within, target))

	outside := domain.RunStats{MCR: 1.20, NUMR: 1.0, MCIV: 1.0}
	assert.False(t, thresholdsMet(outside, target))
}

func TestClampKeepsWithinBounds(t *testing.T) {
	p := clamp(ParamPoint{ScaleBetween: 10, SpreadBetween: -1, BurstGamma: 100})
	assert.Equal(t, scaleBetweenRange[1], p.ScaleBetween)
	assert.Equal(t, spreadBetweenRange[0], p.SpreadBetween)
	assert.Equal(t, burstGammaRange[1], p.BurstGamma)
}

func TestRunStopsWhenThresholdsMet(t *testing.T) {
	target := Target{MCR: 0.5, NUMR: 0.3, MCIV: 0.1}
	calls := 0
	runFunc := func(ctx context.Context, p ParamPoint) (domain.RunStats, error) {
		calls++
		return domain.RunStats{MCR: 0.5, NUMR: 0.3, MCIV: 0.1}, nil
	}

	result, err := Run(context.Background(), Options{
		Target:   target,
		Init:     ParamPoint{ScaleBetween: 1, SpreadBetween: 1, BurstGamma: 0.3},
		MaxIters: 50,
		Patience: 10,
		Seed:     1,
	}, runFunc)

	require.NoError(t, err)
	assert.True(t, result.ThresholdsMet)
	assert.Equal(t, 1, calls)
	require.Len(t, result.History, 1)
}

func TestRunRespectsMaxIters(t *testing.T) {
	target := Target{MCR: 10, NUMR: 10, MCIV: 10}
	calls := 0
	runFunc := func(ctx context.Context, p ParamPoint) (domain.RunStats, error) {
		calls++
		return domain.RunStats{MCR: 0.1, NUMR: 0.1, MCIV: 0.1}, nil
	}

	result, err := Run(context.Background(), Options{
		Target:   target,
		Init:     ParamPoint{ScaleBetween: 1, SpreadBetween: 1, BurstGamma: 0.3},
		MaxIters: 5,
		Patience: 0,
		Seed:     2,
	}, runFunc)

	require.NoError(t, err)
	assert.False(t, result.ThresholdsMet)
	assert.Equal(t, 5, calls)
	assert.Len(t, result.History, 5)
}

func TestRunStopsOnPatienceAfterFailures(t *testing.T) {
	target := Target{MCR: 0.5, NUMR: 0.5, MCIV: 0.5}
	calls := 0
	runFunc := func(ctx context.Context, p ParamPoint) (domain.RunStats, error) {
		calls++
		return domain.RunStats{}, errors.New("boom")
	}

	result, err := Run(context.Background(), Options{
		Target:   target,
		Init:     ParamPoint{ScaleBetween: 1, SpreadBetween: 1, BurstGamma: 0.3},
		MaxIters: 100,
		Patience: 3,
		Seed:     3,
	}, runFunc)

	require.NoError(t, err)
	assert.False(t, result.ThresholdsMet)
	assert.Equal(t, 3, calls)
	for _, rec := range result.History {
		assert.True(t, rec.Failed)
	}
}

func TestRunReturnsErrInvalidConfigImmediately(t *testing.T) {
	target := Target{MCR: 0.5, NUMR: 0.5, MCIV: 0.5}
	calls := 0
	runFunc := func(ctx context.Context, p ParamPoint) (domain.RunStats, error) {
		calls++
		return domain.RunStats{}, &domain.ConfigError{Err: domain.ErrInvalidConfig}
	}

	result, err := Run(context.Background(), Options{
		Target:   target,
		Init:     ParamPoint{ScaleBetween: 1, SpreadBetween: 1, BurstGamma: 0.3},
		MaxIters: 100,
		Patience: 10,
		Seed:     4,
	}, runFunc)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
	assert.Equal(t, 1, calls)
	require.Len(t, result.History, 1)
	assert.True(t, result.History[0].Failed)
}

func TestCandidateStaysWithinBounds(t *testing.T) {
	rng := randgen.New(7)
	base := ParamPoint{ScaleBetween: 1, SpreadBetween: 1, BurstGamma: 0.3}
	for i := 0; i < 100; i++ {
		c := candidate(base, rng)
		assert.GreaterOrEqual(t, c.ScaleBetween, scaleBetweenRange[0])
		assert.LessOrEqual(t, c.ScaleBetween, scaleBetweenRange[1])
		assert.GreaterOrEqual(t, c.SpreadBetween, spreadBetweenRange[0])
		assert.LessOrEqual(t, c.SpreadBetween, spreadBetweenRange[1])
		assert.GreaterOrEqual(t, c.BurstGamma, burstGammaRange[0])
		assert.LessOrEqual(t, c.BurstGamma, burstGammaRange[1])
	}
}
