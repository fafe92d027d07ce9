package remote

import (
	"time"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/fuse"
)

// Device defines the interface for a board streaming die temperature
// readings (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Samples() <-chan RawSample
	Calibration(timeout time.Duration) (fuse.Row, error)
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
