package domain

import (
	"fmt"
	"math"
	"sort"
)

// probabilityTolerance is the allowed drift of a loaded distribution's
// probability mass from 1.0 accepted by Validate.
const probabilityTolerance = 1e-3

// DiscreteDistribution is a finite {value: probability} mapping sampled by
// cumulative weight. Values are non-negative reals (seconds, or integer
// burst sizes encoded as float64). A distribution is immutable once built;
// every transform (Scale, Spread, Gamma, ...) returns a new value.
type DiscreteDistribution struct {
	values []float64
	probs  []float64
}

// NewDiscreteDistribution builds a distribution from a value->probability
// map, sorting by value for deterministic cumulative-weight sampling, and
// normalizing the probability mass to sum to exactly 1. Returns
// ErrInvalidConfig if the map is empty, contains a negative value or
// probability, or the mass cannot be normalized (sums to ~0).
func NewDiscreteDistribution(mass map[float64]float64) (DiscreteDistribution, error) {
	if len(mass) == 0 {
		return DiscreteDistribution{}, &ConfigError{Record: "distribution", Reason: "empty distribution"}
	}

	values := make([]float64, 0, len(mass))
	for v := range mass {
		values = append(values, v)
	}
	sort.Float64s(values)

	var total float64
	probs := make([]float64, len(values))
	for i, v := range values {
		p := mass[v]
		if v < 0 {
			return DiscreteDistribution{}, &ConfigError{Record: "distribution", Reason: fmt.Sprintf("negative value %v", v)}
		}
		if p < 0 {
			return DiscreteDistribution{}, &ConfigError{Record: "distribution", Reason: fmt.Sprintf("negative probability %v", p)}
		}
		probs[i] = p
		total += p
	}

	if total <= 1e-12 {
		return DiscreteDistribution{}, &ConfigError{Record: "distribution", Reason: "probability mass sums to zero"}
	}

	for i := range probs {
		probs[i] /= total
	}

	return DiscreteDistribution{values: values, probs: probs}, nil
}

// IsZero reports whether the distribution was never built via
// NewDiscreteDistribution (a zero-value DiscreteDistribution is invalid).
func (d DiscreteDistribution) IsZero() bool {
	return len(d.values) == 0
}

// Len returns the number of distinct values in the distribution.
func (d DiscreteDistribution) Len() int {
	return len(d.values)
}

// Entries returns a copy of the (value, probability) pairs in ascending
// value order.
func (d DiscreteDistribution) Entries() (values, probs []float64) {
	values = append(values, d.values...)
	probs = append(probs, d.probs...)
	return
}

// Mean returns the expectation of the distribution.
func (d DiscreteDistribution) Mean() float64 {
	var m float64
	for i, v := range d.values {
		m += v * d.probs[i]
	}
	return m
}

// Sample draws one value by cumulative weight using the supplied uniform
// random source in [0, 1).
func (d DiscreteDistribution) Sample(u01 func() float64) float64 {
	r := u01()
	var cumulative float64
	for i, p := range d.probs {
		cumulative += p
		if r < cumulative {
			return d.values[i]
		}
	}
	// Floating-point drift: fall back to the last value.
	return d.values[len(d.values)-1]
}

// Validate reports ErrInvalidConfig if the distribution's probabilities are
// not all within [0,1] and summing within tolerance of 1 — used as a
// runtime property check (spec.md §8: "every distribution used at runtime
// has probabilities in [0,1] summing within 1e-3 of 1").
func (d DiscreteDistribution) Validate() error {
	if d.IsZero() {
		return &ConfigError{Record: "distribution", Reason: "empty distribution"}
	}
	var total float64
	for _, p := range d.probs {
		if p < 0 || p > 1 {
			return &ConfigError{Record: "distribution", Reason: fmt.Sprintf("probability %v out of [0,1]", p)}
		}
		total += p
	}
	if math.Abs(total-1.0) > probabilityTolerance {
		return &ConfigError{Record: "distribution", Reason: fmt.Sprintf("probabilities sum to %v, not 1", total)}
	}
	return nil
}

// Scale returns a new distribution with every value multiplied by k. Used
// directly for scale_between. Scale(k).Scale(1/k) reproduces the original
// distribution within floating-point tolerance for any finite k > 0.
func (d DiscreteDistribution) Scale(k float64) DiscreteDistribution {
	out := DiscreteDistribution{
		values: make([]float64, len(d.values)),
		probs:  make([]float64, len(d.probs)),
	}
	copy(out.probs, d.probs)
	for i, v := range d.values {
		out.values[i] = v * k
	}
	return out
}

// Spread widens (factor > 1) or narrows (factor < 1) the distribution by
// redistributing its values around the mean: value' = mean + (value-mean)*factor.
// This is spread_between's implementation. Per spec.md §9 Open Questions,
// this implementation spreads around the distribution's mean. Values that
// would fall below 0 are clamped to 0, so the mean is preserved only when
// no value is clamped.
func (d DiscreteDistribution) Spread(factor float64) DiscreteDistribution {
	mean := d.Mean()
	out := DiscreteDistribution{
		values: make([]float64, len(d.values)),
		probs:  make([]float64, len(d.probs)),
	}
	copy(out.probs, d.probs)
	for i, v := range d.values {
		nv := mean + (v-mean)*factor
		if nv < 0 {
			nv = 0
		}
		out.values[i] = nv
	}
	return out
}

// Gamma reshapes a distribution's probability mass via p_i' = p_i^gamma,
// renormalized to sum to 1. This is burst_gamma's implementation: gamma < 1
// flattens the distribution (spreads mass to rarer burst lengths), gamma > 1
// sharpens it toward the already-likely values. Per spec.md §9 Open
// Questions, when reshaping collapses all mass onto a single value (every
// other probability rounds to ~0 after exponentiation), that single value
// absorbs the renormalized remainder rather than erroring — the operator is
// defined as a pure reshape, never a failure mode.
func (d DiscreteDistribution) Gamma(gamma float64) DiscreteDistribution {
	reshaped := make([]float64, len(d.probs))
	var total float64
	for i, p := range d.probs {
		if p <= 0 {
			reshaped[i] = 0
			continue
		}
		reshaped[i] = math.Pow(p, gamma)
		total += reshaped[i]
	}
	out := DiscreteDistribution{
		values: make([]float64, len(d.values)),
		probs:  make([]float64, len(d.probs)),
	}
	copy(out.values, d.values)
	if total <= 1e-12 {
		// Degenerate: put all mass on the most likely original value.
		best := 0
		for i, p := range d.probs {
			if p > d.probs[best] {
				best = i
			}
		}
		out.probs[best] = 1
		return out
	}
	for i := range reshaped {
		out.probs[i] = reshaped[i] / total
	}
	return out
}
