// Package store implements the device parameter store (spec.md §4.1):
// loaders for the hardware and behavior tabular configuration files, and
// the scaling operators used by scenarios and the auto-tuner. Grounded on
// the teacher's internal/adapters/fingerprint package shape (file-backed,
// read-only-after-load lookups with a clear error type) generalized from
// a single OUI table to the two-file, two-key (model) / (model, phase)
// lookup this spec requires.
package store

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/ports"
)

type modelKey = string

// Store is the read-only, in-memory device parameter store.
type Store struct {
	hardware map[modelKey]*domain.HardwareProfile
	behavior map[modelKey]map[domain.Phase]*domain.BehaviorProfile
	order    []modelKey
}

var _ ports.DeviceStore = (*Store)(nil)

// Load reads the hardware and behavior parameter files and builds a
// Store. Fails with a *domain.ConfigError (wrapping ErrInvalidConfig) when
// a record is malformed or a referenced model is missing a behavior row
// for one of the three phases (spec.md §4.1).
func Load(hardwarePath, behaviorPath string) (*Store, error) {
	s := &Store{
		hardware: make(map[modelKey]*domain.HardwareProfile),
		behavior: make(map[modelKey]map[domain.Phase]*domain.BehaviorProfile),
	}

	if err := s.loadHardware(hardwarePath); err != nil {
		return nil, err
	}
	if err := s.loadBehavior(behaviorPath); err != nil {
		return nil, err
	}

	for _, model := range s.order {
		phases, ok := s.behavior[model]
		if !ok {
			return nil, &domain.ConfigError{Record: model, Reason: "no behavior rows for model"}
		}
		for _, p := range []domain.Phase{domain.PhaseLocked, domain.PhaseAwake, domain.PhaseActive} {
			if _, ok := phases[p]; !ok {
				return nil, &domain.ConfigError{Record: model, Reason: fmt.Sprintf("missing behavior row for phase %d", p)}
			}
		}
	}

	return s, nil
}

func (s *Store) loadHardware(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.ResourceError{Path: path, Err: err}
	}
	defer f.Close()
	return s.parseHardware(f)
}

func (s *Store) parseHardware(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			return &domain.ConfigError{Record: line, Reason: "hardware record needs at least 4 fields"}
		}
		for len(fields) < 9 {
			fields = append(fields, "")
		}

		vendor := strings.TrimSpace(fields[0])
		model := strings.TrimSpace(fields[1])

		burstDist, err := parseDistribution(fields[2])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "burst_lengths: " + err.Error()}
		}

		policyN, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "mac_policy must be an integer"}
		}
		policy := domain.MACPolicy(policyN)
		if !domain.ValidMACPolicy(policy) {
			return &domain.ConfigError{Record: line, Reason: fmt.Sprintf("mac_policy %d outside 0..3", policyN)}
		}

		hasVHT := true
		vhtField := strings.TrimSpace(fields[4])
		var vht []byte
		if vhtField == "?" || vhtField == "" {
			hasVHT = false
		} else {
			vht, err = hex.DecodeString(vhtField)
			if err != nil {
				return &domain.ConfigError{Record: line, Reason: "vht_cap: invalid hex"}
			}
		}

		extCap, err := decodeHexField(fields[5])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "ext_cap: invalid hex"}
		}
		htCap, err := decodeHexField(fields[6])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "ht_cap: invalid hex"}
		}
		rates, err := parseRates(fields[7])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "rates: " + err.Error()}
		}
		extRates, err := parseRates(fields[8])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "ext_rates: " + err.Error()}
		}

		profile := &domain.HardwareProfile{
			Vendor:       vendor,
			Model:        model,
			BurstLengths: burstDist,
			MACPolicy:    policy,
			HasVHT:       hasVHT,
			VHTCap:       vht,
			ExtCap:       extCap,
			HTCap:        htCap,
			Rates:        rates,
			ExtRates:     extRates,
		}

		if _, exists := s.hardware[model]; !exists {
			s.order = append(s.order, model)
		}
		s.hardware[model] = profile
	}
	return scanner.Err()
}

func (s *Store) loadBehavior(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.ResourceError{Path: path, Err: err}
	}
	defer f.Close()
	return s.parseBehavior(f)
}

func (s *Store) parseBehavior(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 6 {
			return &domain.ConfigError{Record: line, Reason: "behavior record needs exactly 6 fields"}
		}

		model := strings.TrimSpace(fields[0])
		phaseN, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "phase must be an integer"}
		}
		phase := domain.Phase(phaseN)
		if !domain.ValidPhase(phase) {
			return &domain.ConfigError{Record: line, Reason: fmt.Sprintf("phase %d outside 0..2", phaseN)}
		}

		intra, err := parseDistribution(fields[2])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "intra_burst: " + err.Error()}
		}
		inter, err := parseDistribution(fields[3])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "inter_burst: " + err.Error()}
		}
		dwell, err := parseDistribution(fields[4])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "state_dwell: " + err.Error()}
		}
		jitter, err := parseDistribution(fields[5])
		if err != nil {
			return &domain.ConfigError{Record: line, Reason: "jitter: " + err.Error()}
		}

		if s.behavior[model] == nil {
			s.behavior[model] = make(map[domain.Phase]*domain.BehaviorProfile)
		}
		s.behavior[model][phase] = &domain.BehaviorProfile{
			Model:      model,
			Phase:      phase,
			IntraBurst: intra,
			InterBurst: inter,
			Dwell:      dwell,
			Jitter:     jitter,
		}
	}
	return scanner.Err()
}

// Hardware implements ports.DeviceStore.
func (s *Store) Hardware(model string) (*domain.HardwareProfile, error) {
	p, ok := s.hardware[model]
	if !ok {
		return nil, &domain.ConfigError{Record: model, Reason: "unknown model"}
	}
	return p, nil
}

// Behavior implements ports.DeviceStore.
func (s *Store) Behavior(model string, phase domain.Phase) (*domain.BehaviorProfile, error) {
	phases, ok := s.behavior[model]
	if !ok {
		return nil, &domain.ConfigError{Record: model, Reason: "unknown model"}
	}
	p, ok := phases[phase]
	if !ok {
		return nil, &domain.ConfigError{Record: model, Reason: fmt.Sprintf("no behavior row for phase %d", phase)}
	}
	return p, nil
}

// Models implements ports.DeviceStore.
func (s *Store) Models() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// RandomModel implements ports.DeviceStore, drawing a uniformly random
// model (and its vendor) from the loaded hardware table.
func (s *Store) RandomModel(u01 func() float64) (vendor, model string) {
	if len(s.order) == 0 {
		return "", ""
	}
	idx := int(u01() * float64(len(s.order)))
	if idx >= len(s.order) {
		idx = len(s.order) - 1
	}
	model = s.order[idx]
	vendor = s.hardware[model].Vendor
	return
}

// WithScaling implements ports.DeviceStore: returns a new Store whose
// inter-burst, burst-length, and dwell distributions have had the named
// operators applied, leaving the receiver untouched (spec.md §4.1).
func (s *Store) WithScaling(scaleBetween, spreadBetween, burstGamma, dwellMultiplier, mobilitySpeedMultiplier float64) ports.DeviceStore {
	out := &Store{
		hardware: make(map[modelKey]*domain.HardwareProfile, len(s.hardware)),
		behavior: make(map[modelKey]map[domain.Phase]*domain.BehaviorProfile, len(s.behavior)),
		order:    append([]string(nil), s.order...),
	}

	for model, hw := range s.hardware {
		cp := *hw
		if burstGamma != 1.0 {
			cp.BurstLengths = hw.BurstLengths.Gamma(burstGamma)
		}
		out.hardware[model] = &cp
	}

	for model, phases := range s.behavior {
		out.behavior[model] = make(map[domain.Phase]*domain.BehaviorProfile, len(phases))
		for phase, bp := range phases {
			cp := *bp
			inter := bp.InterBurst
			if scaleBetween != 1.0 {
				inter = inter.Scale(scaleBetween)
			}
			if spreadBetween != 1.0 {
				inter = inter.Spread(spreadBetween)
			}
			cp.InterBurst = inter
			if dwellMultiplier != 1.0 {
				cp.Dwell = bp.Dwell.Scale(dwellMultiplier)
			}
			out.behavior[model][phase] = &cp
		}
	}

	_ = mobilitySpeedMultiplier // consumed by the device factory directly, not the store
	return out
}

// parseDistribution parses a "value:prob/value:prob/..." field into a
// normalized DiscreteDistribution (spec.md §6).
func parseDistribution(field string) (domain.DiscreteDistribution, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return domain.DiscreteDistribution{}, fmt.Errorf("empty distribution field")
	}
	mass := make(map[float64]float64)
	for _, pair := range strings.Split(field, "/") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return domain.DiscreteDistribution{}, fmt.Errorf("malformed entry %q", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return domain.DiscreteDistribution{}, fmt.Errorf("value %q: %w", parts[0], err)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return domain.DiscreteDistribution{}, fmt.Errorf("probability %q: %w", parts[1], err)
		}
		mass[v] += p
	}
	return domain.NewDiscreteDistribution(mass)
}

// parseRates parses a "r1:p1/r2:p2/..." rates field into the integer
// sequence [r1, r2, ...] in 500 kbps units, discarding probabilities
// (spec.md §4.4: "probabilities are ignored at composition time").
func parseRates(field string) ([]int, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	var rates []int
	for _, pair := range strings.Split(field, "/") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		r, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", parts[0], err)
		}
		rates = append(rates, r)
	}
	return rates, nil
}

func decodeHexField(field string) ([]byte, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	return hex.DecodeString(field)
}

// NewSeededU01 returns a uniform [0,1) generator backed by a dedicated
// math/rand source, independent of the engine's shared randgen.Source.
func NewSeededU01(seed int64) func() float64 {
	r := rand.New(rand.NewSource(seed))
	return r.Float64
}
