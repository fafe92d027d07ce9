package adc

// Averaging selects how many conversions the hardware accumulates per
// sample. Deeper averaging reduces sensor noise at the cost of conversion
// time.
type Averaging uint16

// Supported accumulation depths.
const (
	Avg1 Averaging = 1 << iota
	Avg2
	Avg4
	Avg8
	Avg16
	Avg32
	Avg64
	Avg128
	Avg256
)

// DefaultAveraging is used after initialization. At a 48MHz core clock one
// read takes roughly 26ms at this depth.
const DefaultAveraging = Avg64

// Valid reports whether a is one of the supported depths.
func (a Averaging) Valid() bool {
	switch a {
	case Avg1, Avg2, Avg4, Avg8, Avg16, Avg32, Avg64, Avg128, Avg256:
		return true
	}
	return false
}

// Samples returns the number of conversions accumulated per sample.
func (a Averaging) Samples() int {
	return int(a)
}

// avgCtrl returns the accumulation register value: the sample count code in
// the low nibble and the result adjustment shift above it. Avg1 disables
// accumulation entirely. The adjustment shift saturates at 4 so that results
// stay in 12-bit range.
func (a Averaging) avgCtrl() uint8 {
	switch a {
	case Avg2:
		return 0x1 | 0x1<<4
	case Avg4:
		return 0x2 | 0x2<<4
	case Avg8:
		return 0x3 | 0x3<<4
	case Avg16:
		return 0x4 | 0x4<<4
	case Avg32:
		return 0x5 | 0x4<<4
	case Avg64:
		return 0x6 | 0x4<<4
	case Avg128:
		return 0x7 | 0x4<<4
	case Avg256:
		return 0x8 | 0x4<<4
	}
	return 0
}
