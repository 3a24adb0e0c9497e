package simulation

import (
	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/ports"
)

// fakeStore is a minimal in-memory ports.DeviceStore for engine/factory
// tests, covering a single model across all three phases.
type fakeStore struct {
	hw       *domain.HardwareProfile
	behavior map[domain.Phase]*domain.BehaviorProfile
	model    string
	vendor   string
}

var _ ports.DeviceStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	burst, _ := domain.NewDiscreteDistribution(map[float64]float64{2: 1.0})
	intra, _ := domain.NewDiscreteDistribution(map[float64]float64{0.05: 1.0})
	inter, _ := domain.NewDiscreteDistribution(map[float64]float64{1: 1.0})
	dwell, _ := domain.NewDiscreteDistribution(map[float64]float64{10: 1.0})
	jitter, _ := domain.NewDiscreteDistribution(map[float64]float64{0: 1.0})

	behaviors := make(map[domain.Phase]*domain.BehaviorProfile, 3)
	for _, p := range []domain.Phase{domain.PhaseLocked, domain.PhaseAwake, domain.PhaseActive} {
		behaviors[p] = &domain.BehaviorProfile{
			Model:      "TestModel",
			Phase:      p,
			IntraBurst: intra,
			InterBurst: inter,
			Dwell:      dwell,
			Jitter:     jitter,
		}
	}

	return &fakeStore{
		vendor: "TestVendor",
		model:  "TestModel",
		hw: &domain.HardwareProfile{
			Vendor:       "TestVendor",
			Model:        "TestModel",
			BurstLengths: burst,
			MACPolicy:    domain.MACFullyRandom,
			Rates:        []int{2, 4, 11},
		},
		behavior: behaviors,
	}
}

func (s *fakeStore) Hardware(model string) (*domain.HardwareProfile, error) {
	if model != s.model {
		return nil, &domain.ConfigError{Record: model, Reason: "unknown model"}
	}
	return s.hw, nil
}

func (s *fakeStore) Behavior(model string, phase domain.Phase) (*domain.BehaviorProfile, error) {
	if model != s.model {
		return nil, &domain.ConfigError{Record: model, Reason: "unknown model"}
	}
	return s.behavior[phase], nil
}

func (s *fakeStore) RandomModel(u01 func() float64) (vendor, model string) {
	return s.vendor, s.model
}

func (s *fakeStore) Models() []string { return []string{s.model} }

func (s *fakeStore) WithScaling(scaleBetween, spreadBetween, burstGamma, dwellMultiplier, mobilitySpeedMultiplier float64) ports.DeviceStore {
	return s
}

// fakeRegistry is a trivial ports.VendorRegistry that always resolves.
type fakeRegistry struct{}

var _ ports.VendorRegistry = fakeRegistry{}

func (fakeRegistry) Lookup(vendor string) (oui [3]byte, canonical string, ok bool) {
	return [3]byte{0x00, 0x11, 0x22}, vendor, true
}
