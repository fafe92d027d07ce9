package temp

import (
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
)

// UserCalibration is an optional linear correction applied on top of the
// factory calibrated temperature. It defaults to disabled and is not
// persisted; the surrounding application re-applies it after a restart.
type UserCalibration struct {
	Gain    float32
	Offset  float32
	Enabled bool
}

// TwoPoint derives a user calibration from a ground truth / measurement pair
// at a cold and a hot condition. The fit convention matches the original
// driver exactly:
//
//	offset = coldMeasured - coldTruth*(hotMeasured-coldMeasured)/(hotTruth-coldTruth)
//	gain   = hotTruth / (hotMeasured - offset)
func TwoPoint(coldTruth, coldMeasured, hotTruth, hotMeasured float32, enabled bool) UserCalibration {
	offset := coldMeasured - coldTruth*(hotMeasured-coldMeasured)/(hotTruth-coldTruth)
	gain := hotTruth / (hotMeasured - offset)

	return UserCalibration{
		Gain:    gain,
		Offset:  offset,
		Enabled: enabled,
	}
}

// Diagnostics records every intermediate value of one conversion. Result is
// the value ReadTemperature reports; the rest exists so consumers can log or
// inspect the compensation without re-deriving it.
type Diagnostics struct {
	Raw uint16

	MeasuredVoltage    float32 // raw count over full scale, nominal reference
	CoarseTemperature  float32 // first-pass estimate (°C)
	Int1VRef           float32 // estimated 1V reference at the coarse temperature (V)
	CompensatedVoltage float32 // raw count scaled by the estimated reference
	RefinedTemperature float32 // second-pass estimate (°C)

	Result float32 // refined temperature with user calibration applied when enabled
}

// Convert maps a raw 12-bit reading to a die temperature. Pure and
// deterministic.
//
// The internal 1V reference itself drifts with temperature, so a coarse
// first-pass estimate is used to re-estimate the reference, and the
// interpolation is repeated with the compensated measurement voltage.
//
// The baseline span divisor is intentionally unguarded: factory data with
// identical room and hot baselines would yield Inf or NaN. Such data has not
// been observed on real parts and the original driver does not guard it
// either.
func Convert(raw uint16, cal fuse.Calibration, user UserCalibration) Diagnostics {
	d := Diagnostics{Raw: raw}

	slope := (cal.HotTemperature - cal.RoomTemperature) / (cal.HotCompensated - cal.RoomCompensated)

	d.MeasuredVoltage = float32(raw) / fuse.FullScale
	d.CoarseTemperature = cal.RoomTemperature + slope*(d.MeasuredVoltage-cal.RoomCompensated)

	d.Int1VRef = cal.RoomInt1VRef +
		(cal.HotInt1VRef-cal.RoomInt1VRef)*(d.CoarseTemperature-cal.RoomTemperature)/(cal.HotTemperature-cal.RoomTemperature)

	d.CompensatedVoltage = float32(raw) * d.Int1VRef / fuse.FullScale
	d.RefinedTemperature = cal.RoomTemperature + slope*(d.CompensatedVoltage-cal.RoomCompensated)

	d.Result = d.RefinedTemperature
	if user.Enabled {
		d.Result = (d.RefinedTemperature - user.Offset) * user.Gain
	}

	return d
}
