package adc

import (
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
)

// SimConfig describes the simulated peripheral. It lives here rather than in
// the config package so that firmware builds importing the sampler do not
// pull in the YAML stack.
type SimConfig struct {
	Row            string  `yaml:"row"`             // Temperature Log Row as 16 hex digits, empty = built-in default
	DieTemperature float64 `yaml:"die_temperature"` // simulated die temperature (°C)
	NoiseLevel     float64 `yaml:"noise_level"`     // peak sensor noise at averaging depth 1 (°C)
	SyncCycles     int     `yaml:"sync_cycles"`     // polls SyncBusy stays high after a register write
}

// DefaultSimRow is the Temperature Log Row the simulator uses when none is
// configured: room 25.0°C at 1500 counts (1V reference exact), hot 85.0°C at
// 1850 counts (1V reference 0.98V).
var DefaultSimRow = fuse.Compose(25, 0, 85, 0, 0, 20, 1500, 1850)

// Sim simulates the SAMD21 ADC and its internal temperature sensor for
// development and testing without hardware. It keeps a software register
// file and models the quirks the sampler has to guard against: the first
// conversion after a reference change is invalid, conversions read zero
// while the temperature sensor is unpowered, and register writes take a few
// sync cycles to settle.
type Sim struct {
	mu sync.Mutex

	cal        fuse.Calibration
	row        fuse.Row
	die        float32 // simulated die temperature (°C)
	noise      float32 // peak noise at averaging depth 1 (°C)
	syncCycles int

	// Register file
	controlB   uint16
	sampleTime uint8
	gain       uint8
	reference  uint8
	muxPos     uint8
	muxNeg     uint8
	avgCtrl    uint8
	enabled    bool
	sensorOn   bool

	refDirty bool // a reference change invalidates the next conversion
	syncLeft int
	ready    bool
	result   uint16

	startTime time.Time
}

// NewSim creates a new simulated peripheral. A nil config selects the
// built-in defaults; an empty row selects DefaultSimRow.
func NewSim(cfg *SimConfig) (*Sim, error) {
	if cfg == nil {
		cfg = &SimConfig{
			DieTemperature: 36.0,
			NoiseLevel:     0.0,
			SyncCycles:     2,
		}
	}

	row := DefaultSimRow
	if cfg.Row != "" {
		parsed, err := fuse.Parse(cfg.Row)
		if err != nil {
			return nil, fmt.Errorf("invalid sim calibration row: %w", err)
		}
		row = parsed
	}

	return &Sim{
		cal:        row.Decode(),
		row:        row,
		die:        float32(cfg.DieTemperature),
		noise:      float32(cfg.NoiseLevel),
		syncCycles: cfg.SyncCycles,
		refDirty:   true,
		startTime:  time.Now(),
	}, nil
}

// Row returns the simulated Temperature Log Row, so consumers can decode the
// matching calibration the same way they would on hardware.
func (s *Sim) Row() fuse.Row {
	return s.row
}

// SetDieTemperature changes the simulated die temperature.
func (s *Sim) SetDieTemperature(t float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.die = t
}

// DieTemperature returns the simulated die temperature.
func (s *Sim) DieTemperature() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.die
}

func (s *Sim) write(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f()
	s.syncLeft = s.syncCycles
}

// ControlB implements Port.
func (s *Sim) ControlB() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controlB
}

// SetControlB implements Port.
func (s *Sim) SetControlB(v uint16) {
	s.write(func() { s.controlB = v })
}

// SampleTime implements Port.
func (s *Sim) SampleTime() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleTime
}

// SetSampleTime implements Port.
func (s *Sim) SetSampleTime(v uint8) {
	s.write(func() { s.sampleTime = v })
}

// Gain implements Port.
func (s *Sim) Gain() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gain
}

// SetGain implements Port.
func (s *Sim) SetGain(v uint8) {
	s.write(func() { s.gain = v })
}

// Reference implements Port.
func (s *Sim) Reference() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reference
}

// SetReference implements Port. Changing the reference invalidates the next
// conversion, as on real silicon.
func (s *Sim) SetReference(v uint8) {
	s.write(func() {
		s.reference = v
		s.refDirty = true
	})
}

// SetInput implements Port.
func (s *Sim) SetInput(pos, neg uint8) {
	s.write(func() {
		s.muxPos = pos
		s.muxNeg = neg
	})
}

// SetAveraging implements Port.
func (s *Sim) SetAveraging(v uint8) {
	s.write(func() { s.avgCtrl = v })
}

// SetEnabled implements Port.
func (s *Sim) SetEnabled(enabled bool) {
	s.write(func() { s.enabled = enabled })
}

// EnableSensor implements Port.
func (s *Sim) EnableSensor() {
	s.write(func() { s.sensorOn = true })
}

// Trigger implements Port. It computes the conversion result immediately and
// raises the ready flag.
func (s *Sim) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return
	}

	s.result = s.convert()
	s.refDirty = false
	s.ready = true
}

// Ready implements Port.
func (s *Sim) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// ClearReady implements Port.
func (s *Sim) ClearReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
}

// Result implements Port.
func (s *Sim) Result() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SyncBusy implements Port. The flag stays high for a configured number of
// polls after each register write.
func (s *Sim) SyncBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncLeft > 0 {
		s.syncLeft--
		return true
	}
	return false
}

// convert produces one raw 12-bit result for the current register file.
// Callers must hold the mutex.
func (s *Sim) convert() uint16 {
	if !s.sensorOn || s.muxPos != MuxPosTemp {
		return 0
	}

	die := s.die + s.noiseSample()

	// Invert the factory calibration: the voltage the sensor produces at
	// the die temperature, converted against the actual (temperature
	// dependent) internal 1V reference.
	cal := s.cal
	slope := (cal.HotTemperature - cal.RoomTemperature) / (cal.HotCompensated - cal.RoomCompensated)
	voltage := cal.RoomCompensated + (die-cal.RoomTemperature)/slope
	ref := cal.RoomInt1VRef + (cal.HotInt1VRef-cal.RoomInt1VRef)*(die-cal.RoomTemperature)/(cal.HotTemperature-cal.RoomTemperature)

	raw := voltage * fuse.FullScale / ref

	if s.refDirty {
		// The unexpected offset of the first conversion after a
		// reference change.
		raw += 512
	}

	if raw < 0 {
		raw = 0
	} else if raw > fuse.FullScale {
		raw = fuse.FullScale
	}

	return uint16(raw + 0.5)
}

// noiseSample models sensor noise in °C, attenuated by the square root of
// the configured accumulation depth.
func (s *Sim) noiseSample() float32 {
	if s.noise == 0 {
		return 0
	}

	samples := float32(int(1) << (s.avgCtrl & 0xF))
	elapsed := float32(time.Since(s.startTime).Nanoseconds())

	return (math32.Sin(elapsed*0.001) + math32.Cos(elapsed*0.0013)) *
		0.5 * s.noise / math32.Sqrt(samples)
}
