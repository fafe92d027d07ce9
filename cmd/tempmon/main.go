package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/adc"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/config"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/remote"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/sample"
	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/temp"
)

const calibrationTimeout = 5 * time.Second

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		simFlag    = flag.Bool("sim", false, "Run the driver against the in-process simulator")
		mockFlag   = flag.Bool("mock", false, "Use a mocked device instead of a serial port")
		listFlag   = flag.Bool("l", false, "List available serial ports and exit")
		debugFlag  = flag.Bool("debug", false, "Enable debug logging with per-conversion diagnostics")
	)
	flag.Parse()

	logger := temp.NewDefaultLogger(*debugFlag)

	if *listFlag {
		ports, err := remote.Ports()
		if err != nil {
			logger.Fatalf("failed to list serial ports: %s", err)
		}
		for _, port := range ports {
			logger.Infof("%s", port.Name)
		}
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Fatalf("failed to load configuration: %s", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	if *simFlag {
		runSim(cfg, logger)
		return
	}

	runRemote(cfg, logger, *mockFlag)
}

// runSim drives the full sensor stack against the simulated peripheral.
func runSim(cfg *config.Config, logger temp.Logger) {
	sim, err := adc.NewSim(&cfg.Sim)
	if err != nil {
		logger.Fatalf("failed to create simulator: %s", err)
	}

	sampler := adc.NewSampler(sim, adc.WithWaitTimeout(time.Second))
	sensor := temp.New(sampler, sim.Row(), temp.WithLogger(logger))

	if err := sensor.Initialize(); err != nil {
		logger.Fatalf("failed to initialize sensor: %s", err)
	}

	if err := sensor.SetAveraging(adc.Averaging(cfg.Measurement.Averaging)); err != nil {
		logger.Fatalf("invalid averaging configuration: %s", err)
	}
	applyUserCalibration(sensor, cfg)

	logger.Infof("reading simulated die temperature every %s (averaging %d samples)",
		cfg.Measurement.Interval, sensor.Averaging().Samples())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, os.Interrupt)

	ticker := time.NewTicker(cfg.Measurement.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			logger.Infof("got signal, terminating")
			return
		case <-ticker.C:
			reading, err := sensor.ReadTemperature()
			if err != nil {
				logger.Errorf("error reading temperature: %s", err)
				continue
			}
			logger.Infof("die temperature: %.2f°C", reading)
		}
	}
}

// runRemote consumes the raw sample stream of an attached (or mocked) board
// and converts it with the board's own factory calibration.
func runRemote(cfg *config.Config, logger temp.Logger, useMock bool) {
	var (
		device remote.Device
		err    error
	)
	if useMock {
		device, err = remote.NewMock(&cfg.Sim, cfg.Measurement.Interval)
		if err != nil {
			logger.Fatalf("failed to create mocked device: %s", err)
		}
	} else {
		device = remote.New(cfg.Serial.Port, cfg.Serial.BaudRate, remote.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		logger.Fatalf("failed to connect to %s: %s", cfg.Serial.Port, err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		logger.Infof("got signal, terminating connection to device")
		if err := device.Close(); err != nil {
			logger.Errorf("failed to close device: %s", err)
		}
		os.Exit(0)
	}()

	row, err := device.Calibration(calibrationTimeout)
	if err != nil {
		logger.Fatalf("failed to read factory calibration: %s", err)
	}
	cal := row.Decode()
	logger.Infof("factory calibration %s: room %.1f°C @ %d counts, hot %.1f°C @ %d counts",
		row, cal.RoomTemperature, cal.RoomReading, cal.HotTemperature, cal.HotReading)

	user := temp.UserCalibration{
		Gain:    float32(cfg.UserCalibration.Gain),
		Offset:  float32(cfg.UserCalibration.Offset),
		Enabled: cfg.UserCalibration.Enabled,
	}

	// Chain converters: base conversion always, smoothing only when a window
	// is configured.
	samples := sample.NewConverter(cal, user, remote.DefaultBufferSize)(device.Samples())
	if cfg.Measurement.SmoothWindow > 1 {
		samples = sample.NewSmoother(cfg.Measurement.SmoothWindow, remote.DefaultBufferSize)(samples)
	}

	for s := range samples {
		logger.Infof("die temperature: %.2f°C (raw %d)", s.Temperature, s.Raw)
	}
}

// applyUserCalibration copies the configured linear correction into the
// sensor.
func applyUserCalibration(sensor *temp.Sensor, cfg *config.Config) {
	if !cfg.UserCalibration.Enabled {
		return
	}
	sensor.SetUserCalibration(
		float32(cfg.UserCalibration.Gain),
		float32(cfg.UserCalibration.Offset),
		true,
	)
}
