// Package adc drives guarded conversions of the SAMD21 internal temperature
// channel. The ADC is a shared peripheral: a measurement briefly takes
// exclusive control of its configuration and restores the previous settings
// before returning.
package adc

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrWaitTimeout is returned when the peripheral does not report
// synchronization or conversion completion within the configured timeout.
// Only returned when WithWaitTimeout is set; by default the sampler blocks
// indefinitely, matching the bare-metal driver it replaces.
var ErrWaitTimeout = errors.New("adc: wait for peripheral timed out")

// Snapshot records the register groups the sampler reconfigures, so the
// previous ADC user finds the peripheral exactly as it left it.
type Snapshot struct {
	ControlB   uint16
	SampleTime uint8
	Gain       uint8
	Reference  uint8
}

// Sampler performs guarded conversions of the internal temperature channel
// against a Port. The full sequence is serialized by a mutex; the underlying
// hardware has no ownership arbitration of its own.
type Sampler struct {
	port Port
	mu   sync.Mutex

	waitTimeout time.Duration // 0 blocks forever
}

// NewSampler creates a sampler driving the given port, executing functional
// options, if any.
func NewSampler(port Port, options ...func(*Sampler)) *Sampler {
	s := &Sampler{port: port}

	for _, option := range options {
		option(s)
	}

	return s
}

// WithWaitTimeout bounds every busy-wait on the peripheral. Without it a
// hung peripheral blocks the calling goroutine forever, which is the
// documented behavior of the original driver; the bounded mode is an opt-in
// deviation for hosts that need to surface the failure instead.
func WithWaitTimeout(d time.Duration) func(*Sampler) {
	return func(s *Sampler) {
		s.waitTimeout = d
	}
}

// Wake powers the on-die temperature sensor. The sensor is disabled in
// standby, so this must be called again after waking from a low power state.
func (s *Sampler) Wake() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.port.EnableSensor()
	return s.waitSync()
}

// Sample performs one guarded conversion at the given averaging depth and
// returns the raw 12-bit count.
//
// Sequence: snapshot the current configuration, program the temperature
// measurement settings, discard the first conversion (the first result after
// a reference change is invalid), program averaging, convert, read, disable.
// The snapshot is restored on every exit path, including wait timeouts.
func (s *Sampler) Sample(averaging Averaging) (uint16, error) {
	if !averaging.Valid() {
		return 0, fmt.Errorf("adc: unsupported averaging depth %d", averaging)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.port

	snap := Snapshot{
		ControlB:   p.ControlB(),
		SampleTime: p.SampleTime(),
		Gain:       p.Gain(),
		Reference:  p.Reference(),
	}
	defer s.restore(snap)

	// 12-bit results, slow clock.
	p.SetControlB(CtrlBRes12Bit | CtrlBPrescalerDiv256)
	if err := s.waitSync(); err != nil {
		return 0, err
	}

	// Sample as slowly as possible.
	p.SetSampleTime(SampleTimeMax)
	if err := s.waitSync(); err != nil {
		return 0, err
	}

	// Unity gain against the internal 1V reference.
	p.SetGain(GainX1)
	p.SetReference(RefInt1V)
	if err := s.waitSync(); err != nil {
		return 0, err
	}

	// Temperature sensor against internal ground.
	p.SetInput(MuxPosTemp, MuxNegGnd)
	if err := s.waitSync(); err != nil {
		return 0, err
	}

	p.SetEnabled(true)
	if err := s.waitSync(); err != nil {
		return 0, err
	}

	// The first conversion after the reference change must not be used.
	p.Trigger()
	if err := s.waitReady(); err != nil {
		return 0, err
	}
	p.ClearReady()

	p.SetAveraging(averaging.avgCtrl())
	if err := s.waitSync(); err != nil {
		return 0, err
	}

	p.Trigger()
	if err := s.waitReady(); err != nil {
		return 0, err
	}
	if err := s.waitSync(); err != nil {
		return 0, err
	}

	result := p.Result()

	p.ClearReady()
	if err := s.waitSync(); err != nil {
		return 0, err
	}
	p.SetEnabled(false)
	if err := s.waitSync(); err != nil {
		return 0, err
	}

	return result, nil
}

// restore reapplies the snapshotted configuration. Wait errors are ignored:
// once the peripheral has stopped responding, restoration is best effort.
func (s *Sampler) restore(snap Snapshot) {
	p := s.port

	p.SetControlB(snap.ControlB)
	_ = s.waitSync()
	p.SetSampleTime(snap.SampleTime)
	_ = s.waitSync()
	p.SetGain(snap.Gain)
	p.SetReference(snap.Reference)
	_ = s.waitSync()
}

// waitSync busy-polls until register synchronization between the clock
// domains completes.
func (s *Sampler) waitSync() error {
	return s.wait(s.port.SyncBusy)
}

// waitReady busy-polls until a conversion result is available.
func (s *Sampler) waitReady() error {
	return s.wait(func() bool { return !s.port.Ready() })
}

func (s *Sampler) wait(busy func() bool) error {
	if s.waitTimeout == 0 {
		for busy() {
		}
		return nil
	}

	deadline := time.Now().Add(s.waitTimeout)
	for busy() {
		if time.Now().After(deadline) {
			return ErrWaitTimeout
		}
	}
	return nil
}
