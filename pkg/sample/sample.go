// Package sample turns streams of raw conversion results into calibrated
// temperature samples. Converters are chainable channel stages, so the host
// can stack smoothing on top of the base conversion.
package sample

import (
	"log"
	"time"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/remote"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/temp"
)

// Sample represents a processed measurement sample with physical values.
type Sample struct {
	Timestamp   time.Time
	Raw         uint16  // 12-bit ADC reading the sample was derived from
	Temperature float64 // Calibrated die temperature (°C)
}

// Converter is a function type that converts a RawSample channel to a Sample
// channel.
type Converter func(in <-chan remote.RawSample) <-chan Sample

// NewConverter creates a converter applying the board's factory calibration
// and an optional user calibration to every raw reading.
func NewConverter(cal fuse.Calibration, user temp.UserCalibration, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan remote.RawSample) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			for raw := range in {
				d := temp.Convert(raw.Reading, cal, user)

				s := Sample{
					Timestamp:   raw.Timestamp,
					Raw:         raw.Reading,
					Temperature: float64(d.Result),
				}

				select {
				case out <- s:
				case <-time.After(time.Second):
					log.Printf("Converter output channel full, dropping sample")
				}
			}
		}()

		return out
	}
}
