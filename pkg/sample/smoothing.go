package sample

// NewSmoother creates a converter stage that replaces each temperature with
// the rolling mean over the last windowSize samples. It sits on top of the
// hardware accumulation and suppresses residual sample-to-sample noise in
// long captures. A window of 1 passes samples through unchanged.
func NewSmoother(windowSize int, bufSize int) func(in <-chan Sample) <-chan Sample {
	if windowSize <= 0 {
		windowSize = 1
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan Sample) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			window := make([]float64, 0, windowSize)
			var sum float64

			for s := range in {
				if len(window) == windowSize {
					sum -= window[0]
					window = window[1:]
				}
				window = append(window, s.Temperature)
				sum += s.Temperature

				smoothed := s
				smoothed.Temperature = sum / float64(len(window))
				out <- smoothed
			}
		}()

		return out
	}
}
