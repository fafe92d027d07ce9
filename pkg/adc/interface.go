package adc

// Port is the register access capability the sampler needs from the ADC
// peripheral. The firmware implements it on the real SAMD21 registers; Sim
// implements it in software for development and tests.
//
// Writes to clock-domain-synchronized registers do not take effect until the
// peripheral reports SyncBusy false again; the sampler owns that handshake,
// a Port only exposes the flag.
type Port interface {
	// ControlB reads the combined resolution/prescaler register.
	ControlB() uint16
	SetControlB(uint16)

	// SampleTime reads the sample length register.
	SampleTime() uint8
	SetSampleTime(uint8)

	// Gain reads the input gain selection.
	Gain() uint8
	SetGain(uint8)

	// Reference reads the reference voltage selection.
	Reference() uint8
	SetReference(uint8)

	// SetInput selects the positive and negative conversion inputs.
	SetInput(pos, neg uint8)

	// SetAveraging programs the hardware accumulation register.
	SetAveraging(uint8)

	// SetEnabled switches the ADC on or off.
	SetEnabled(bool)

	// EnableSensor powers the on-die temperature sensor. The sensor shuts
	// down in standby, so it has to be powered again after sleep.
	EnableSensor()

	// Trigger starts one conversion.
	Trigger()

	// Ready reports whether a conversion result is available.
	Ready() bool

	// ClearReady clears the result ready flag.
	ClearReady()

	// Result reads the conversion result.
	Result() uint16

	// SyncBusy reports whether a register write is still synchronizing
	// between the clock domains.
	SyncBusy() bool
}

// Ensure Sim implements Port.
var _ Port = (*Sim)(nil)
