package temp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
)

// referenceCal is the calibration used throughout the conversion tests:
// room 25.0°C at 1500 counts (1V reference exact), hot 85.0°C at 1850
// counts (1V reference 0.98V).
func referenceCal() fuse.Calibration {
	return fuse.Compose(25, 0, 85, 0, 0, 20, 1500, 1850).Decode()
}

func TestConvert_Deterministic(t *testing.T) {
	cal := referenceCal()
	user := UserCalibration{Gain: 0.98, Offset: 1.2, Enabled: true}

	a := Convert(1550, cal, user)
	b := Convert(1550, cal, user)
	assert.Equal(t, a, b)
}

func TestConvert_EndToEnd(t *testing.T) {
	// Expected values derived once by hand from the two-pass algorithm:
	//   measured   = 1550/4095                   = 0.378510
	//   coarse     = 25 + 784.984*(measured-roomBaseline) = 34.58466°C
	//   ref        = 1 - 0.02*(coarse-25)/60     = 0.996805V
	//   compensated= measured*ref                = 0.377301
	//   refined    = 25 + 784.984*(compensated-roomBaseline) = 33.63538°C
	d := Convert(1550, referenceCal(), UserCalibration{})

	assert.InDelta(t, 0.378510, d.MeasuredVoltage, 1e-5)
	assert.InDelta(t, 34.58466, d.CoarseTemperature, 5e-3)
	assert.InDelta(t, 0.9968051, d.Int1VRef, 1e-5)
	assert.InDelta(t, 0.3773011, d.CompensatedVoltage, 1e-5)
	assert.InDelta(t, 33.63538, d.RefinedTemperature, 5e-3)
	assert.Equal(t, d.RefinedTemperature, d.Result)
}

func TestConvert_AtCalibrationPoints(t *testing.T) {
	cal := referenceCal()

	// At the room reading the reference estimate equals the room
	// reference, so the refinement converges on the room temperature.
	room := Convert(cal.RoomReading, cal, UserCalibration{})
	assert.InDelta(t, float64(cal.RoomTemperature), float64(room.Result), 0.01)

	// The hot point is only approximate: the coarse pass interprets the
	// reading against the nominal reference.
	hot := Convert(cal.HotReading, cal, UserCalibration{})
	assert.InDelta(t, float64(cal.HotTemperature), float64(hot.Result), 1.0)
}

func TestConvert_NoClampingOutsideRange(t *testing.T) {
	cal := referenceCal()

	low := Convert(100, cal, UserCalibration{})
	assert.Less(t, low.Result, cal.RoomTemperature, "readings below the room point extrapolate downward")

	high := Convert(4000, cal, UserCalibration{})
	assert.Greater(t, high.Result, cal.HotTemperature, "readings above the hot point extrapolate upward")
}

func TestConvert_UserCalibrationApplied(t *testing.T) {
	cal := referenceCal()
	user := UserCalibration{Gain: 0.95, Offset: 2.5, Enabled: true}

	d := Convert(1550, cal, user)
	assert.Equal(t, (d.RefinedTemperature-2.5)*0.95, d.Result)
}

func TestConvert_UserCalibrationDisabledIsExact(t *testing.T) {
	cal := referenceCal()

	// A disabled calibration, even a non-trivial one, must leave the
	// refined temperature untouched.
	user := UserCalibration{Gain: 2.0, Offset: 5.0, Enabled: false}
	d := Convert(1550, cal, user)

	plain := Convert(1550, cal, UserCalibration{})
	assert.Equal(t, plain.Result, d.Result)
	assert.Equal(t, d.RefinedTemperature, d.Result)
}

func TestTwoPoint_Identity(t *testing.T) {
	// Measurements that already match ground truth must derive a neutral
	// correction.
	user := TwoPoint(20, 20, 80, 80, true)

	assert.InDelta(t, 1.0, user.Gain, 1e-6)
	assert.InDelta(t, 0.0, user.Offset, 1e-6)
	assert.True(t, user.Enabled)

	d := Convert(1550, referenceCal(), user)
	assert.InDelta(t, float64(d.RefinedTemperature), float64(d.Result), 1e-4)
}

func TestTwoPoint_Convention(t *testing.T) {
	// offset = 22 - 20*(85-22)/(80-20) = 1
	// gain   = 80/(85-1)               = 0.952381
	user := TwoPoint(20, 22, 80, 85, true)

	assert.InDelta(t, 1.0, user.Offset, 1e-5)
	assert.InDelta(t, 0.952381, user.Gain, 1e-5)
}

func TestTwoPoint_Disabled(t *testing.T) {
	user := TwoPoint(20, 22, 80, 85, false)
	assert.False(t, user.Enabled)
}
