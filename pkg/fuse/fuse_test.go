package fuse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecToFrac(t *testing.T) {
	tests := []struct {
		name string
		in   uint8
		want float32
	}{
		{"single digit", 5, 0.5},
		{"two digits", 42, 0.42},
		{"three digits", 123, 0.123},
		{"zero", 0, 0.0},
		{"nine", 9, 0.9},
		{"ten", 10, 0.10},
		{"ninety nine", 99, 0.99},
		{"hundred", 100, 0.100},
		{"max", 255, 0.255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DecToFrac(tt.in), 1e-6)
		})
	}
}

func TestInt1VRef(t *testing.T) {
	assert.InDelta(t, 1.0, Int1VRef(0), 1e-6)
	assert.InDelta(t, 0.98, Int1VRef(20), 1e-6)
	assert.InDelta(t, 1.02, Int1VRef(-20), 1e-6)
	assert.InDelta(t, 0.873, Int1VRef(127), 1e-6)
	assert.InDelta(t, 1.128, Int1VRef(-128), 1e-6)
}

func TestInt1VRef_LinearMonotonic(t *testing.T) {
	prev := Int1VRef(-128)
	for r := -127; r <= 127; r++ {
		v := Int1VRef(int8(r))
		assert.Less(t, v, prev, "reference must decrease as the correction byte grows")
		assert.InDelta(t, 1.0-float32(r)/1000.0, v, 1e-6)
		prev = v
	}
}

func TestComposeDecode(t *testing.T) {
	row := Compose(25, 2, 84, 9, 10, 30, 2124, 3280)
	cal := row.Decode()

	assert.InDelta(t, 25.2, cal.RoomTemperature, 1e-5)
	assert.InDelta(t, 84.9, cal.HotTemperature, 1e-5)
	assert.Equal(t, uint16(2124), cal.RoomReading)
	assert.Equal(t, uint16(3280), cal.HotReading)
	assert.InDelta(t, 0.99, cal.RoomInt1VRef, 1e-6)
	assert.InDelta(t, 0.97, cal.HotInt1VRef, 1e-6)

	// Baselines combine the raw readings with the actual reference.
	assert.InDelta(t, 2124.0*0.99/4095.0, cal.RoomCompensated, 1e-6)
	assert.InDelta(t, 3280.0*0.97/4095.0, cal.HotCompensated, 1e-6)
}

func TestDecode_NegativeRefCorrection(t *testing.T) {
	row := Compose(25, 0, 85, 0, -50, -10, 1500, 1850)
	cal := row.Decode()

	assert.InDelta(t, 1.05, cal.RoomInt1VRef, 1e-6)
	assert.InDelta(t, 1.01, cal.HotInt1VRef, 1e-6)
	assert.InDelta(t, 1500.0*1.05/4095.0, cal.RoomCompensated, 1e-6)
}

func TestParseString_RoundTrip(t *testing.T) {
	row := Compose(25, 0, 85, 0, 0, 20, 1500, 1850)

	parsed, err := Parse(row.String())
	require.NoError(t, err)
	assert.Equal(t, row, parsed)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too short", "1234"},
		{"too long", "00000000000000000"},
		{"not hex", "00000000000000zz"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.Error(t, err)
		})
	}
}
