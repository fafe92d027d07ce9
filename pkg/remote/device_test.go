package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    RawSample
		wantErr bool
	}{
		{
			name: "valid line",
			line: "1234567890123,1742",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Reading:   1742,
			},
			wantErr: false,
		},
		{
			name: "valid line - zero reading",
			line: "1234567890123,0",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Reading:   0,
			},
			wantErr: false,
		},
		{
			name: "valid line - max ADC value",
			line: "1234567890123,4095",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Reading:   4095,
			},
			wantErr: false,
		},
		{
			name:    "invalid - missing reading",
			line:    "1234567890123",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "1234567890123,1742,extra",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric timestamp",
			line:    "abc,1742",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric reading",
			line:    "1234567890123,abc",
			wantErr: true,
		},
		{
			name:    "invalid - reading out of range",
			line:    "1234567890123,5000",
			wantErr: true,
		},
		{
			name:    "invalid - negative reading",
			line:    "1234567890123,-5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want.Timestamp.UnixNano(), got.Timestamp.UnixNano())
				assert.Equal(t, tt.want.Reading, got.Reading)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dev := New("COM3", 115200, 100)
	assert.NotNil(t, dev)
	assert.Equal(t, "COM3", dev.port)
	assert.Equal(t, 115200, dev.baudRate)
	assert.Equal(t, 100, dev.bufSize)
	assert.NotNil(t, dev.samples)
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("COM3", 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
}

func TestDevice_IsConnected(t *testing.T) {
	dev := New("COM3", 115200, 100)
	assert.False(t, dev.IsConnected())
}

func TestDevice_CalibrationNotConnected(t *testing.T) {
	dev := New("COM3", 115200, 100)

	_, err := dev.Calibration(time.Second)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}
