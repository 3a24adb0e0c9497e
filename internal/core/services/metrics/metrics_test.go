package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lcalzada-xor/probegen/internal/core/ports"
)

func mac(b byte) [6]byte { return [6]byte{0x02, b, b, b, b, b} }

func sample(seconds float64, m [6]byte) ports.MACSample {
	return ports.MACSample{Timestamp: time.Duration(seconds * float64(time.Second)), MAC: m}
}

func TestExtractEmptyReturnsZeroStats(t *testing.T) {
	stats := New().Extract(nil, 10)
	assert.Equal(t, 0, stats.FrameCount)
	assert.Equal(t, 0.0, stats.MCR)
}

func TestComputeMCRCountsAdjacentChanges(t *testing.T) {
	seg := []ports.MACSample{
		sample(0, mac(1)),
		sample(1, mac(1)),
		sample(2, mac(2)),
		sample(4, mac(3)),
	}
	mcr := computeMCR(seg, 4)
	assert.InDelta(t, 2.0/4.0, mcr, 1e-9)
}

func TestComputeNUMRDistinctOverTotal(t *testing.T) {
	seg := []ports.MACSample{
		sample(0, mac(1)),
		sample(1, mac(1)),
		sample(2, mac(2)),
		sample(3, mac(3)),
	}
	numr := computeNUMR(seg)
	assert.InDelta(t, 3.0/4.0, numr, 1e-9)
}

func TestComputeMCIVRequiresTwoChanges(t *testing.T) {
	seg := []ports.MACSample{
		sample(0, mac(1)),
		sample(1, mac(1)),
	}
	assert.Equal(t, 0.0, computeMCIV(seg))

	seg2 := []ports.MACSample{
		sample(0, mac(1)),
		sample(1, mac(2)),
		sample(3, mac(3)),
		sample(7, mac(4)),
	}
	assert.Greater(t, computeMCIV(seg2), 0.0)
}

func TestComputeMAESingleMACIsZero(t *testing.T) {
	seg := []ports.MACSample{sample(0, mac(1)), sample(1, mac(1))}
	assert.Equal(t, 0.0, computeMAE(seg))
}

func TestComputeMAEUniformIsOne(t *testing.T) {
	seg := []ports.MACSample{
		sample(0, mac(1)),
		sample(1, mac(2)),
		sample(2, mac(3)),
		sample(3, mac(4)),
	}
	assert.InDelta(t, 1.0, computeMAE(seg), 1e-9)
}

func TestMedianOddAndEven(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, median(nil))
}

func TestSegmentizeDropsShortTail(t *testing.T) {
	sorted := []ports.MACSample{
		sample(0, mac(1)),
		sample(5, mac(2)),
		sample(10, mac(3)),
		sample(19, mac(4)),
	}
	segs := segmentize(sorted, 10, 19)
	assert.Len(t, segs, 1)
	assert.Len(t, segs[0], 2)
}

func TestExtractEndToEnd(t *testing.T) {
	samples := []ports.MACSample{
		sample(0, mac(1)),
		sample(2, mac(1)),
		sample(4, mac(2)),
		sample(6, mac(3)),
		sample(8, mac(3)),
	}
	stats := New().Extract(samples, 100)
	assert.Equal(t, 5, stats.FrameCount)
	assert.InDelta(t, 8.0, stats.DurationSeconds, 1e-9)
	assert.Greater(t, stats.MCR, 0.0)
}
