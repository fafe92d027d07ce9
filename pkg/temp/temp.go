// Package temp reads the internal die temperature of SAMD21-class parts.
// It composes the guarded ADC sampler with the factory calibration from the
// NVM fuses and an optional user supplied field calibration.
package temp

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/adc"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
)

// ErrNotInitialized is returned when a reading is requested before
// Initialize has decoded the factory calibration.
var ErrNotInitialized = errors.New("temp: sensor not initialized")

// Sensor is the public temperature reading API. All methods are safe for
// concurrent use; the underlying sample sequence itself is serialized by the
// sampler.
type Sensor struct {
	sampler *adc.Sampler
	row     fuse.Row
	logger  Logger

	mu          sync.RWMutex
	cal         fuse.Calibration
	user        UserCalibration
	averaging   adc.Averaging
	initialized bool
}

// New creates a sensor reading through the given sampler, using the factory
// calibration row, executing functional options, if any. Call Initialize
// before the first reading.
func New(sampler *adc.Sampler, row fuse.Row, options ...func(*Sensor)) *Sensor {
	s := &Sensor{
		sampler:   sampler,
		row:       row,
		logger:    &NullLogger{},
		averaging: adc.DefaultAveraging,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Initialize decodes the factory calibration, resets the averaging depth and
// the user calibration to their defaults, and powers the temperature sensor.
// The sensor shuts down in standby, so Initialize must be called again after
// waking from a low power state.
func (s *Sensor) Initialize() error {
	s.mu.Lock()
	s.cal = s.row.Decode()
	s.averaging = adc.DefaultAveraging
	s.user = UserCalibration{}
	s.initialized = true
	cal := s.cal
	s.mu.Unlock()

	s.logger.Debugf("factory calibration: room %.1f°C @ %d counts (1V ref %.4fV), hot %.1f°C @ %d counts (1V ref %.4fV)",
		cal.RoomTemperature, cal.RoomReading, cal.RoomInt1VRef,
		cal.HotTemperature, cal.HotReading, cal.HotInt1VRef)

	return s.sampler.Wake()
}

// Calibration returns the decoded factory calibration constants.
func (s *Sensor) Calibration() fuse.Calibration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cal
}

// Averaging returns the accumulation depth used by subsequent readings.
func (s *Sensor) Averaging() adc.Averaging {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.averaging
}

// SetAveraging changes the accumulation depth used by subsequent readings.
func (s *Sensor) SetAveraging(averaging adc.Averaging) error {
	if !averaging.Valid() {
		return fmt.Errorf("temp: unsupported averaging depth %d", averaging)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.averaging = averaging

	return nil
}

// SetUserCalibration sets the user calibration parameters explicitly.
func (s *Sensor) SetUserCalibration(gain, offset float32, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = UserCalibration{Gain: gain, Offset: offset, Enabled: enabled}
}

// SetUserCalibration2P derives the user calibration from ground truth and
// measurement pairs at a cold and a hot condition.
func (s *Sensor) SetUserCalibration2P(coldTruth, coldMeasured, hotTruth, hotMeasured float32, enabled bool) {
	cal := TwoPoint(coldTruth, coldMeasured, hotTruth, hotMeasured, enabled)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = cal
}

// EnableUserCalibration toggles the user calibration without changing its
// parameters.
func (s *Sensor) EnableUserCalibration(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Enabled = enabled
}

// UserCalibrationParams returns the current user calibration.
func (s *Sensor) UserCalibrationParams() UserCalibration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ReadTemperature performs one guarded conversion and returns the calibrated
// die temperature in °C.
func (s *Sensor) ReadTemperature() (float32, error) {
	d, err := s.ReadDiagnostics()
	if err != nil {
		return 0, err
	}
	return d.Result, nil
}

// ReadDiagnostics performs one guarded conversion and returns the full
// record of intermediate values.
func (s *Sensor) ReadDiagnostics() (Diagnostics, error) {
	s.mu.RLock()
	cal, user, averaging, initialized := s.cal, s.user, s.averaging, s.initialized
	s.mu.RUnlock()

	if !initialized {
		return Diagnostics{}, ErrNotInitialized
	}

	raw, err := s.sampler.Sample(averaging)
	if err != nil {
		return Diagnostics{}, fmt.Errorf("temp: sampling failed: %w", err)
	}

	d := Convert(raw, cal, user)

	s.logger.Debugf("raw %d: coarse %.1f°C, 1V ref %.4fV, compensated %.4fV, refined %.1f°C, result %.2f°C",
		d.Raw, d.CoarseTemperature, d.Int1VRef, d.CompensatedVoltage, d.RefinedTemperature, d.Result)

	return d, nil
}
