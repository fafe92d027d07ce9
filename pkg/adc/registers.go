package adc

// Register values used for the temperature measurement configuration
// (SAMD21 datasheet chapter 33, ADC).
const (
	// CtrlBRes12Bit selects 12-bit conversion results.
	CtrlBRes12Bit uint16 = 0x0 << 4
	// CtrlBPrescalerDiv256 divides the peripheral clock by 256. The
	// temperature channel needs a slow ADC clock.
	CtrlBPrescalerDiv256 uint16 = 0x6 << 8

	// SampleTimeMax is the longest supported sampling period.
	SampleTimeMax uint8 = 0x3F

	// GainX1 selects unity input gain.
	GainX1 uint8 = 0x0

	// RefInt1V selects the internal 1.0V bandgap reference.
	RefInt1V uint8 = 0x0

	// MuxPosTemp selects the temperature sensor as positive input.
	MuxPosTemp uint8 = 0x18
	// MuxNegGnd selects internal ground as negative input.
	MuxNegGnd uint8 = 0x18
)
