// Package fuse decodes the factory calibration data that is burned into the
// NVM Software Calibration Area of every SAMD21 die at manufacturing time.
// The temperature sensor calibration lives in the 64-bit Temperature Log Row
// together with the correction values for the internal 1V reference.
package fuse

import (
	"fmt"
	"strconv"
)

const (
	// TempLogRowAddr is the base address of the NVM Temperature Log Row on
	// SAMD21 parts (datasheet chapter 10.3.2). The firmware reads the row
	// directly from this address; host-side consumers receive it over the
	// wire in hex form instead.
	TempLogRowAddr uintptr = 0x00806030

	// FullScale is the full-scale value of a 12-bit conversion.
	FullScale float32 = 4095.0

	int1vDivider float32 = 1000.0
)

// Field positions and masks within the Temperature Log Row.
const (
	roomTempValIntPos = 0
	roomTempValIntMsk = 0xFF
	roomTempValDecPos = 8
	roomTempValDecMsk = 0xF
	hotTempValIntPos  = 12
	hotTempValIntMsk  = 0xFF
	hotTempValDecPos  = 20
	hotTempValDecMsk  = 0xF
	roomInt1vValPos   = 24
	roomInt1vValMsk   = 0xFF
	hotInt1vValPos    = 32
	hotInt1vValMsk    = 0xFF
	roomADCValPos     = 40
	roomADCValMsk     = 0xFFF
	hotADCValPos      = 52
	hotADCValMsk      = 0xFFF
)

// Row is the raw 64-bit Temperature Log Row.
type Row uint64

func (r Row) field(pos, msk uint64) uint64 {
	return (uint64(r) >> pos) & msk
}

// Calibration holds the decoded factory calibration constants together with
// the two reference-compensated ADC baselines derived from them. A decoded
// Calibration is immutable; the fuse data it comes from is read-only and
// assumed valid, so decoding has no error conditions.
type Calibration struct {
	RoomTemperature float32 // die temperature at which the room readings were taken (°C)
	HotTemperature  float32 // die temperature at which the hot readings were taken (°C)

	RoomReading uint16 // raw 12-bit conversion result at room temperature
	HotReading  uint16 // raw 12-bit conversion result at hot temperature

	RoomInt1VRef float32 // actual internal 1V reference at room temperature (V)
	HotInt1VRef  float32 // actual internal 1V reference at hot temperature (V)

	// The factory readings scaled by the corresponding actual reference,
	// over full scale. These are the two interpolation baselines used by
	// the converter.
	RoomCompensated float32
	HotCompensated  float32
}

// Decode extracts the calibration constants from the row and pre-computes the
// reference-compensated baselines.
func (r Row) Decode() Calibration {
	c := Calibration{
		RoomTemperature: float32(r.field(roomTempValIntPos, roomTempValIntMsk)) +
			DecToFrac(uint8(r.field(roomTempValDecPos, roomTempValDecMsk))),
		HotTemperature: float32(r.field(hotTempValIntPos, hotTempValIntMsk)) +
			DecToFrac(uint8(r.field(hotTempValDecPos, hotTempValDecMsk))),
		RoomReading:  uint16(r.field(roomADCValPos, roomADCValMsk)),
		HotReading:   uint16(r.field(hotADCValPos, hotADCValMsk)),
		RoomInt1VRef: Int1VRef(int8(r.field(roomInt1vValPos, roomInt1vValMsk))),
		HotInt1VRef:  Int1VRef(int8(r.field(hotInt1vValPos, hotInt1vValMsk))),
	}

	c.RoomCompensated = float32(c.RoomReading) * c.RoomInt1VRef / FullScale
	c.HotCompensated = float32(c.HotReading) * c.HotInt1VRef / FullScale

	return c
}

// DecToFrac interprets a fuse byte as a decimal fraction. The place value is
// inferred from the magnitude: a single digit encodes tenths, two digits
// hundredths, three digits thousandths. The factory encodes the number of
// significant digits this way, so a fixed divisor must not be assumed.
func DecToFrac(v uint8) float32 {
	switch {
	case v < 10:
		return float32(v) / 10.0
	case v < 100:
		return float32(v) / 100.0
	default:
		return float32(v) / 1000.0
	}
}

// Int1VRef converts a signed correction byte to the actual internal 1V
// reference voltage at the calibration condition.
func Int1VRef(raw int8) float32 {
	return 1 - float32(raw)/int1vDivider
}

// Compose packs calibration fields into a Row. It is the inverse of Decode
// for the raw fields and is used by the simulator and by tests.
func Compose(roomInt, roomDec, hotInt, hotDec uint8, roomRef, hotRef int8, roomADC, hotADC uint16) Row {
	return Row(uint64(roomInt)<<roomTempValIntPos |
		uint64(roomDec&roomTempValDecMsk)<<roomTempValDecPos |
		uint64(hotInt)<<hotTempValIntPos |
		uint64(hotDec&hotTempValDecMsk)<<hotTempValDecPos |
		uint64(uint8(roomRef))<<roomInt1vValPos |
		uint64(uint8(hotRef))<<hotInt1vValPos |
		uint64(roomADC&roomADCValMsk)<<roomADCValPos |
		uint64(hotADC&hotADCValMsk)<<hotADCValPos)
}

// Parse interprets a 16 digit hex string as a Temperature Log Row. This is
// the form the firmware reports the row in.
func Parse(s string) (Row, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("invalid row length: expected 16 hex digits, got %d", len(s))
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid row %q: %w", s, err)
	}
	return Row(v), nil
}

// String returns the row as 16 hex digits, the inverse of Parse.
func (r Row) String() string {
	return fmt.Sprintf("%016x", uint64(r))
}
