package temp

// WithLogger sets a logger for the sensor's diagnostic output.
func WithLogger(logger Logger) func(*Sensor) {
	return func(s *Sensor) {
		s.logger = logger
	}
}
