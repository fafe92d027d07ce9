package main

import (
	"device/sam"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/adc"
)

// samPort implements adc.Port on the SAMD21 ADC registers.
type samPort struct{}

var _ adc.Port = samPort{}

func (samPort) ControlB() uint16 {
	return sam.ADC.CTRLB.Get()
}

func (samPort) SetControlB(v uint16) {
	sam.ADC.CTRLB.Set(v)
}

func (samPort) SampleTime() uint8 {
	return sam.ADC.SAMPCTRL.Get()
}

func (samPort) SetSampleTime(v uint8) {
	sam.ADC.SAMPCTRL.Set(v)
}

func (samPort) Gain() uint8 {
	return uint8((sam.ADC.INPUTCTRL.Get() & sam.ADC_INPUTCTRL_GAIN_Msk) >> sam.ADC_INPUTCTRL_GAIN_Pos)
}

func (samPort) SetGain(v uint8) {
	sam.ADC.INPUTCTRL.ReplaceBits(uint32(v), 0xF, sam.ADC_INPUTCTRL_GAIN_Pos)
}

func (samPort) Reference() uint8 {
	return (sam.ADC.REFCTRL.Get() & sam.ADC_REFCTRL_REFSEL_Msk) >> sam.ADC_REFCTRL_REFSEL_Pos
}

func (samPort) SetReference(v uint8) {
	sam.ADC.REFCTRL.ReplaceBits(v, 0xF, sam.ADC_REFCTRL_REFSEL_Pos)
}

func (samPort) SetInput(pos, neg uint8) {
	sam.ADC.INPUTCTRL.ReplaceBits(uint32(pos), 0x1F, sam.ADC_INPUTCTRL_MUXPOS_Pos)
	sam.ADC.INPUTCTRL.ReplaceBits(uint32(neg), 0x1F, sam.ADC_INPUTCTRL_MUXNEG_Pos)
}

func (samPort) SetAveraging(v uint8) {
	sam.ADC.AVGCTRL.Set(v)
}

func (samPort) SetEnabled(enabled bool) {
	if enabled {
		sam.ADC.CTRLA.SetBits(sam.ADC_CTRLA_ENABLE)
	} else {
		sam.ADC.CTRLA.ClearBits(sam.ADC_CTRLA_ENABLE)
	}
}

func (samPort) EnableSensor() {
	sam.SYSCTRL.VREF.SetBits(sam.SYSCTRL_VREF_TSEN)
}

func (samPort) Trigger() {
	sam.ADC.SWTRIG.SetBits(sam.ADC_SWTRIG_START)
}

func (samPort) Ready() bool {
	return sam.ADC.INTFLAG.HasBits(sam.ADC_INTFLAG_RESRDY)
}

func (samPort) ClearReady() {
	sam.ADC.INTFLAG.Set(sam.ADC_INTFLAG_RESRDY)
}

func (samPort) Result() uint16 {
	return sam.ADC.RESULT.Get()
}

func (samPort) SyncBusy() bool {
	return sam.ADC.STATUS.HasBits(sam.ADC_STATUS_SYNCBUSY)
}
