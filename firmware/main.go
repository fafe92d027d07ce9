//go:generate tinygo flash -target=arduino-mkr1000

package main

import (
	"machine"
	"time"
	"unsafe"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/adc"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
)

var (
	uart    = machine.UART0
	sampler = adc.NewSampler(samPort{})

	// Timing
	lastRead time.Time
)

func main() {
	// Configure UART for streaming and calibration requests
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	// Bring up the ADC clocks and load the factory bias calibration
	machine.InitADC()

	// Power the on-die temperature sensor
	sampler.Wake()

	// Initialize timing
	lastRead = time.Now()

	// Main loop
	for {
		now := time.Now()

		// Check for serial input (non-blocking)
		processSerial()

		if now.Sub(lastRead) >= time.Duration(SAMPLE_INTERVAL_MS)*time.Millisecond {
			streamReading()
			lastRead = now
		}

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(100 * time.Microsecond)
	}
}

// streamReading performs one guarded conversion and streams the raw result.
func streamReading() {
	raw, err := sampler.Sample(adc.DefaultAveraging)
	if err != nil {
		return
	}

	// Get timestamp in unix microseconds
	now := time.Now()
	timestampMicros := now.UnixNano() / 1000

	// Output format: "unix_micros,reading\n"
	// Example: "1234567890123,1742\n"
	print(timestampMicros)
	print(",")
	print(raw)
	print("\n")
}

// processSerial answers calibration requests from the host.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		if data == 'C' || data == 'c' {
			outputCalibration()
		}
		// Everything else, including line endings, is ignored
	}
}

// outputCalibration reads the Temperature Log Row from the NVM calibration
// area and streams it as a hex string.
func outputCalibration() {
	row := *(*uint64)(unsafe.Pointer(fuse.TempLogRowAddr))

	var buf [16]byte
	const digits = "0123456789abcdef"
	for i := range buf {
		buf[i] = digits[(row>>uint(60-4*i))&0xF]
	}

	print("CAL,")
	print(string(buf[:]))
	print("\n")
}
