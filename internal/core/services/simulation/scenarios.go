package simulation

import (
	"fmt"
	"time"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
)

// bootstrap schedules the initial events for the configured scenario
// (spec.md §4.6 "Bootstrapping").
func (e *Engine) bootstrap() error {
	switch e.params.Scenario {
	case domain.ScenarioMultiDevice:
		return e.bootstrapMultiDevice()
	case domain.ScenarioSingleSwitch:
		return e.bootstrapSingleDevice(e.params.AllowStateSwitch)
	case domain.ScenarioSingleStatic:
		return e.bootstrapSingleDevice(false)
	default:
		return &domain.ConfigError{Record: string(e.params.Scenario), Reason: "unknown scenario"}
	}
}

func (e *Engine) bootstrapMultiDevice() error {
	mean := e.params.CreationIntervalMean.Seconds() * e.params.CreationIntervalMultiplier
	if mean <= 0 {
		mean = 1
	}
	t := time.Duration(0)
	for i := 0; i < e.params.CreationCount; i++ {
		t += time.Duration(e.rng.Exponential(mean) * float64(time.Second))
		vendor, model := e.store.RandomModel(e.rng.Float64)
		if model == "" {
			return &domain.ConfigError{Record: "store", Reason: "no models loaded"}
		}
		e.queue.schedule(&domain.Event{
			Time:   t,
			Kind:   domain.EventCreateDevice,
			Vendor: vendor,
			Model:  model,
		})
	}
	return nil
}

func (e *Engine) bootstrapSingleDevice(allowSwitch bool) error {
	if err := validateModel(e.store, e.params.SingleModel); err != nil {
		return err
	}
	e.queue.schedule(&domain.Event{
		Time:   0,
		Kind:   domain.EventCreateDevice,
		Vendor: e.params.SingleVendor,
		Model:  e.params.SingleModel,
	})
	e.singleScenarioAllowsSwitch = allowSwitch && e.params.Scenario == domain.ScenarioSingleSwitch
	return nil
}

// scheduleDeleteDevice schedules this device's permanence-time expiry
// (multi_device only — single-device scenarios run for the whole duration).
func (e *Engine) scheduleDeleteDevice(id domain.DeviceID, now time.Duration) {
	permanence := e.rng.Exponential(e.params.PermanenceMean.Seconds())
	e.queue.schedule(&domain.Event{
		Time:     now + time.Duration(permanence*float64(time.Second)),
		Kind:     domain.EventDeleteDevice,
		DeviceID: id,
	})
}

// scheduleChangePhase schedules the next phase transition for single_switch
// devices, cycling Locked -> Awake -> Active -> Locked (spec.md §4.6).
func (e *Engine) scheduleChangePhase(d *domain.Device, now time.Duration) {
	if !e.singleScenarioAllowsSwitch {
		return
	}
	bp := d.Behavior()
	// dwell_multiplier is already baked into bp.Dwell by store.WithScaling.
	dwell := bp.Dwell.Sample(e.rng.Float64)
	next := nextPhase(d.Phase)
	e.queue.schedule(&domain.Event{
		Time:     now + time.Duration(dwell*float64(time.Second)),
		Kind:     domain.EventChangePhase,
		DeviceID: d.ID,
		NewPhase: next,
	})
}

func nextPhase(p domain.Phase) domain.Phase {
	switch p {
	case domain.PhaseLocked:
		return domain.PhaseAwake
	case domain.PhaseAwake:
		return domain.PhaseActive
	default:
		return domain.PhaseLocked
	}
}

func initialPhase(params domain.ScenarioParams) (domain.Phase, error) {
	if params.Scenario != domain.ScenarioSingleStatic {
		return domain.PhaseAwake, nil
	}
	p := params.SinglePhase
	if !domain.ValidPhase(p) {
		return 0, fmt.Errorf("simulation: single_phase %d outside 0..2", p)
	}
	return p, nil
}
