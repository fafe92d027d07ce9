package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/adc"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
)

// DefaultSampleRate is the streaming rate the mock uses when none is given.
const DefaultSampleRate = time.Second

// Mock simulates a connected board for testing and development. It drives a
// simulated ADC through the same guarded sample sequence the firmware runs,
// so the streamed readings carry the simulator's quirks and calibration.
type Mock struct {
	sim        *adc.Sim
	sampler    *adc.Sampler
	sampleRate time.Duration

	samples   chan RawSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	// Simulation state
	startTime time.Time
	baseDie   float32
}

// NewMock creates a new mocked device instance. A nil config selects the
// simulator's built-in defaults; a zero sample rate selects DefaultSampleRate.
func NewMock(cfg *adc.SimConfig, sampleRate time.Duration) (*Mock, error) {
	sim, err := adc.NewSim(cfg)
	if err != nil {
		return nil, err
	}
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		sim:        sim,
		sampler:    adc.NewSampler(sim),
		sampleRate: sampleRate,
		samples:    make(chan RawSample, DefaultBufferSize),
		ctx:        ctx,
		cancel:     cancel,
		connected:  false,
		baseDie:    sim.DieTemperature(),
	}, nil
}

// Connect simulates connecting to the board.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	if err := m.sampler.Wake(); err != nil {
		return fmt.Errorf("failed to power the simulated sensor: %w", err)
	}

	m.connected = true
	m.startTime = time.Now()

	go m.generateSamples()

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.samples)

	return nil
}

// Samples returns the channel for reading samples.
func (m *Mock) Samples() <-chan RawSample {
	return m.samples
}

// Calibration returns the simulator's Temperature Log Row. The response is
// immediate, the timeout is accepted for interface compatibility.
func (m *Mock) Calibration(_ time.Duration) (fuse.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected {
		return 0, fmt.Errorf("not connected")
	}

	return m.sim.Row(), nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateSamples streams simulated conversion results.
func (m *Mock) generateSamples() {
	ticker := time.NewTicker(m.sampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			sample, err := m.generateSample()
			if err != nil {
				continue
			}
			select {
			case m.samples <- sample:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// generateSample runs one conversion against the simulator. The die
// temperature drifts slowly around its configured base so long captures show
// movement.
func (m *Mock) generateSample() (RawSample, error) {
	now := time.Now()
	elapsed := float32(now.Sub(m.startTime).Seconds())

	m.sim.SetDieTemperature(m.baseDie + 1.5*math32.Sin(elapsed/30.0))

	raw, err := m.sampler.Sample(adc.DefaultAveraging)
	if err != nil {
		return RawSample{}, err
	}

	return RawSample{
		Timestamp: now,
		Reading:   raw,
	}, nil
}
