package adc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
)

func TestNewSim_Defaults(t *testing.T) {
	sim, err := NewSim(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSimRow, sim.Row())
	assert.InDelta(t, 36.0, sim.DieTemperature(), 1e-6)

	cal := sim.Row().Decode()
	assert.InDelta(t, 25.0, cal.RoomTemperature, 1e-5)
	assert.InDelta(t, 85.0, cal.HotTemperature, 1e-5)
	assert.Equal(t, uint16(1500), cal.RoomReading)
	assert.Equal(t, uint16(1850), cal.HotReading)
}

func TestNewSim_CustomRow(t *testing.T) {
	row := fuse.Compose(24, 8, 82, 5, 5, 25, 1480, 1820)
	sim, err := NewSim(&SimConfig{
		Row:            row.String(),
		DieTemperature: 30.0,
	})
	require.NoError(t, err)
	assert.Equal(t, row, sim.Row())
}

func TestNewSim_InvalidRow(t *testing.T) {
	_, err := NewSim(&SimConfig{Row: "not-a-row"})
	assert.Error(t, err)
}

func TestSim_UnpoweredSensorReadsZero(t *testing.T) {
	sim, err := NewSim(nil)
	require.NoError(t, err)

	sim.SetInput(MuxPosTemp, MuxNegGnd)
	sim.SetEnabled(true)
	sim.Trigger()

	assert.True(t, sim.Ready())
	assert.Equal(t, uint16(0), sim.Result())
}

func TestSim_FirstConversionAfterReferenceChangeIsInvalid(t *testing.T) {
	sim, err := NewSim(nil)
	require.NoError(t, err)

	sim.EnableSensor()
	sim.SetReference(RefInt1V)
	sim.SetInput(MuxPosTemp, MuxNegGnd)
	sim.SetEnabled(true)

	sim.Trigger()
	first := sim.Result()
	sim.ClearReady()

	sim.Trigger()
	second := sim.Result()

	assert.NotEqual(t, first, second, "the warm-up conversion must differ from the settled one")

	// Subsequent conversions are stable.
	sim.ClearReady()
	sim.Trigger()
	assert.Equal(t, second, sim.Result())
}

func TestSim_SyncBusyCycles(t *testing.T) {
	sim, err := NewSim(&SimConfig{DieTemperature: 36, SyncCycles: 3})
	require.NoError(t, err)

	assert.False(t, sim.SyncBusy())

	sim.SetControlB(CtrlBRes12Bit | CtrlBPrescalerDiv256)
	assert.True(t, sim.SyncBusy())
	assert.True(t, sim.SyncBusy())
	assert.True(t, sim.SyncBusy())
	assert.False(t, sim.SyncBusy())
}

func TestSim_SamplerRoundTrip(t *testing.T) {
	sim, err := NewSim(&SimConfig{DieTemperature: 36.0, SyncCycles: 2})
	require.NoError(t, err)

	s := NewSampler(sim)
	require.NoError(t, s.Wake())

	raw, err := s.Sample(Avg64)
	require.NoError(t, err)

	// 36°C sits between the factory points, so the raw count must land
	// between the room and hot readings.
	cal := sim.Row().Decode()
	assert.Greater(t, raw, cal.RoomReading)
	assert.Less(t, raw, cal.HotReading)
}

func TestSim_DieTemperatureMovesReading(t *testing.T) {
	sim, err := NewSim(&SimConfig{DieTemperature: 30.0, SyncCycles: 1})
	require.NoError(t, err)

	s := NewSampler(sim)
	require.NoError(t, s.Wake())

	cold, err := s.Sample(Avg1)
	require.NoError(t, err)

	sim.SetDieTemperature(70.0)
	hot, err := s.Sample(Avg1)
	require.NoError(t, err)

	assert.Greater(t, hot, cold)
}

func TestSim_SamplerLeavesRegistersRestored(t *testing.T) {
	sim, err := NewSim(nil)
	require.NoError(t, err)

	// Pre-existing configuration of another ADC user.
	sim.SetControlB(0x0210)
	sim.SetSampleTime(0x05)
	sim.SetGain(0x0F)
	sim.SetReference(0x02)

	s := NewSampler(sim)
	require.NoError(t, s.Wake())

	_, err = s.Sample(Avg16)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x0210), sim.ControlB())
	assert.Equal(t, uint8(0x05), sim.SampleTime())
	assert.Equal(t, uint8(0x0F), sim.Gain())
	assert.Equal(t, uint8(0x02), sim.Reference())
}
