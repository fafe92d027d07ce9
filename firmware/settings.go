package main

const (
	// Streaming configuration
	SAMPLE_INTERVAL_MS = 500 // Time between streamed conversions in milliseconds

	// Serial configuration
	// Baud rate calculation: Format "unix_micros,reading\n"
	// Example: "1234567890123456,4095\n" = ~23 bytes max per line
	// 2 outputs/sec * 23 bytes/line = 46 bytes/sec
	// UART 8N1: 10 bits/byte = 460 baud minimum, 115200 provides huge headroom
	// and matches the host side default
	UART_BAUD_RATE = 115200
)
