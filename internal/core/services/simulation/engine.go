// Package simulation implements the discrete-event engine (spec.md §4.6):
// device lifecycle scheduling, burst emission, per-frame dispatch through
// the channel filter and writers, and end-of-run summary output.
// Grounded on the teacher's internal/adapters/sniffer/manager/manager.go
// for the shape of a single owning goroutine driving a channel-hopping
// dispatch loop with context cancellation — generalized here from a
// channel-hop ticker to a priority-queue event drainer, per spec.md §9
// ("Keep it as an explicit priority-queue drainer; do not introduce
// OS-level concurrency").
package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/ports"
	"github.com/lcalzada-xor/probegen/internal/randgen"
)

const sniffOriginNotionalMeters = 0 // fixed notional sniffer position at the arena origin

// Engine drives one simulation run to completion (spec.md §4.6 "State").
type Engine struct {
	store    ports.DeviceStore
	registry ports.VendorRegistry
	composer ports.FrameComposer
	filter   ports.ChannelFilter
	capture  ports.CaptureWriter
	logw     ports.LogWriter
	metrics  ports.MetricsExtractor

	params domain.ScenarioParams
	rng    *randgen.Source
	logger *slog.Logger
	runID  string

	queue        *eventQueue
	devices      map[domain.DeviceID]*domain.Device
	allDevices   []*domain.Device
	nextDeviceID domain.DeviceID

	now time.Duration

	singleScenarioAllowsSwitch bool

	samples      []ports.MACSample
	probeRecords []domain.CapturedFrame
	frameCount   int
	droppedCount int
}

// New constructs an Engine ready to Run. capture/logw may be nil for
// dry-run/test use (writes are skipped, not an error).
func New(store ports.DeviceStore, registry ports.VendorRegistry, composer ports.FrameComposer, filter ports.ChannelFilter, capture ports.CaptureWriter, logw ports.LogWriter, metrics ports.MetricsExtractor, params domain.ScenarioParams, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return &Engine{
		store:    store,
		registry: registry,
		composer: composer,
		filter:   filter,
		capture:  capture,
		logw:     logw,
		metrics:  metrics,
		params:   params,
		rng:      randgen.New(params.Seed),
		logger:   logger,
		runID:    uuid.NewString(),
		queue:    newEventQueue(),
		devices:  make(map[domain.DeviceID]*domain.Device),
	}
}

// Run drains the event queue from t=0 until the queue is empty or
// simulated time reaches params.Duration, dispatching each event in turn
// (spec.md §4.6 "Loop"). It returns the run's structured stats.
func (e *Engine) Run(ctx context.Context) (domain.RunStats, error) {
	e.logger.Info("run starting", "run_id", e.runID, "scenario", string(e.params.Scenario))
	if err := e.bootstrap(); err != nil {
		return domain.RunStats{}, err
	}

	end := e.params.Duration
	for !e.queue.empty() {
		select {
		case <-ctx.Done():
			return e.finalize(), ctx.Err()
		default:
		}

		ev := e.queue.pop()
		if ev.Time >= end {
			break
		}

		if e.params.RealTime {
			delta := ev.Time - e.now
			if delta > 0 {
				time.Sleep(delta)
			}
		}
		e.now = ev.Time

		if err := e.dispatch(ev); err != nil {
			return e.finalize(), err
		}
	}

	if e.now < end {
		e.now = end
	}
	return e.finalize(), nil
}

func (e *Engine) dispatch(ev *domain.Event) error {
	switch ev.Kind {
	case domain.EventCreateDevice:
		return e.handleCreateDevice(ev)
	case domain.EventDeleteDevice:
		e.handleDeleteDevice(ev)
	case domain.EventChangePhase:
		e.handleChangePhase(ev)
	case domain.EventCreateBurst:
		return e.handleCreateBurst(ev)
	case domain.EventSendPacket:
		e.handleSendPacket(ev)
	}
	return nil
}

func (e *Engine) handleCreateDevice(ev *domain.Event) error {
	id := e.nextDeviceID
	e.nextDeviceID++

	d, err := CreateDevice(id, ev.Vendor, ev.Model, e.store, e.registry, e.params.MACRotationMode, e.params.RotationInterval, e.params.ArenaWidth, e.params.ArenaHeight, e.params.MobilitySpeedMultiplier, e.now, e.rng)
	if err != nil {
		return fmt.Errorf("simulation: create device: %w", err)
	}

	phase, err := initialPhase(e.params)
	if err != nil {
		return err
	}
	d.SetPhase(phase, e.now)
	d.PositionUpdatedAt = e.now

	e.devices[id] = d
	e.allDevices = append(e.allDevices, d)

	e.scheduleChangePhase(d, e.now)
	if e.params.Scenario == domain.ScenarioMultiDevice {
		e.scheduleDeleteDevice(id, e.now)
	}

	e.scheduleNextBurst(d, e.now)
	return nil
}

func (e *Engine) handleDeleteDevice(ev *domain.Event) {
	delete(e.devices, ev.DeviceID)
}

func (e *Engine) handleChangePhase(ev *domain.Event) {
	d, ok := e.devices[ev.DeviceID]
	if !ok {
		return
	}
	wasSending := d.Behavior().IsSendingProbe()
	d.SetPhase(ev.NewPhase, e.now)
	e.scheduleChangePhase(d, e.now)

	if !wasSending && d.Behavior().IsSendingProbe() {
		e.scheduleNextBurst(d, e.now)
	}
}

func (e *Engine) handleCreateBurst(ev *domain.Event) error {
	d, ok := e.devices[ev.DeviceID]
	if !ok {
		return nil // deleted since scheduling
	}
	bp := d.Behavior()
	if !bp.IsSendingProbe() {
		return nil // silent phase; only a ChangePhase restarts emission
	}

	if d.ShouldRotate(e.now) {
		d.Rotate(e.rng.Float64)
		d.MarkRotated(e.now)
	}

	burstLen := int(d.Hardware.BurstLengths.Sample(e.rng.Float64))
	if burstLen <= 0 {
		burstLen = 1
	}
	channel := e.rng.UniformInt(1, 13)

	req := ports.BurstRequest{
		Device:        d,
		Hardware:      d.Hardware,
		Channel:       channel,
		BurstLength:   burstLen,
		StartSeq:      d.SequenceCounter,
		IntraInterval: durationFromSeconds(bp.IntraBurst.Sample(e.rng.Float64)),
		JitterDist:    bp.Jitter,
		U01:           e.rng.Float64,
	}
	result, err := e.composer.ComposeBurst(req)
	if err != nil {
		return fmt.Errorf("simulation: compose burst: %w", err)
	}
	d.SequenceCounter = result.NextSeq

	baseline := d.ProcessingDelay
	for _, frame := range result.Frames {
		e.queue.schedule(&domain.Event{
			Time:     e.now + baseline + frame.RelativeTime,
			Kind:     domain.EventSendPacket,
			DeviceID: d.ID,
			Frame: domain.CapturedFrame{
				Bytes:    frame.Bytes,
				DeviceID: d.ID,
				MAC:      d.CurrentMAC,
				Channel:  channel,
			},
		})
	}

	e.scheduleNextBurst(d, e.now)
	return nil
}

func (e *Engine) scheduleNextBurst(d *domain.Device, now time.Duration) {
	bp := d.Behavior()
	draw := bp.InterBurst.Sample(e.rng.Float64) * e.params.BurstIntervalMultiplier
	e.queue.schedule(&domain.Event{
		Time:     now + durationFromSeconds(draw),
		Kind:     domain.EventCreateBurst,
		DeviceID: d.ID,
	})
}

func (e *Engine) handleSendPacket(ev *domain.Event) {
	d, ok := e.devices[ev.DeviceID]
	if !ok {
		return
	}

	e.integratePosition(d)
	distance := math.Hypot(d.PositionX-sniffOriginNotionalMeters, d.PositionY-sniffOriginNotionalMeters)

	outcome := e.filter.Evaluate(distance, e.params.EnvFactor, e.rng.Float64, e.rng.Gaussian, e.rng.Rayleigh)
	d.FramesSent++

	if !outcome.Survived {
		e.droppedCount++
		return
	}

	if e.capture != nil {
		if err := e.capture.WriteFrame(e.now, ev.Frame.Bytes); err != nil {
			e.logger.Error("capture write failed", "err", err)
			return
		}
	}
	if e.logw != nil {
		line := fmt.Sprintf("time=%.6f device=%d mac=%s channel=%d rssi=%d",
			e.now.Seconds(), d.ID, domain.FormatMAC(ev.Frame.MAC), ev.Frame.Channel, outcome.RSSI)
		_ = e.logw.WriteLine(line)
	}

	if e.params.QASampleRate > 0 && e.rng.Float64() < e.params.QASampleRate {
		if _, err := e.composer.Parse(ev.Frame.Bytes); err != nil {
			e.logger.Warn("qa self-parse failed", "err", err)
		}
	}

	e.samples = append(e.samples, ports.MACSample{Timestamp: e.now, MAC: ev.Frame.MAC})
	e.probeRecords = append(e.probeRecords, domain.CapturedFrame{
		Timestamp: e.now,
		DeviceID:  d.ID,
		MAC:       ev.Frame.MAC,
		Channel:   ev.Frame.Channel,
		RSSI:      outcome.RSSI,
	})
	e.frameCount++
}

func (e *Engine) integratePosition(d *domain.Device) {
	dt := e.now - d.PositionUpdatedAt
	if dt <= 0 {
		return
	}
	d.IntegratePosition(dt, e.params.ArenaWidth, e.params.ArenaHeight, 10, e.rng.Float64)
	d.PositionUpdatedAt = e.now
}

func durationFromSeconds(s float64) time.Duration {
	if s < 0 {
		s = 0
	}
	return time.Duration(s * float64(time.Second))
}

// finalize computes the run's structured stats from the accumulated
// samples (spec.md §4.7/§7 "JSON summary on clean completion").
func (e *Engine) finalize() domain.RunStats {
	stats := e.metrics.Extract(e.samples, e.params.SegmentSeconds)
	stats.RunID = e.runID
	stats.FrameCount = e.frameCount
	stats.DeviceCount = len(e.allDevices)
	stats.DroppedCount = e.droppedCount
	stats.DurationSeconds = e.now.Seconds()
	return stats
}

// Devices returns every device created during the run (live or deleted),
// for the device CSV output.
func (e *Engine) Devices() []*domain.Device {
	return e.allDevices
}

// ProbeRecords returns one entry per emitted (surviving) frame, in send
// order, for the probe-id mapping output (spec.md §6/§8: its line count
// must equal the capture frame count).
func (e *Engine) ProbeRecords() []domain.CapturedFrame {
	return e.probeRecords
}

// WriteStatsJSON writes the run's structured summary to path (spec.md §7).
func WriteStatsJSON(path string, stats domain.RunStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
