package screener

import "fmt"

// Moving-average windows used by the screening predicates.
const (
	closeFastWindow = 50
	closeSlowWindow = 200
	volumeWindow    = 20
)

// ErrInsufficientHistory is returned when a series is shorter than the
// requested window.
var ErrInsufficientHistory = fmt.Errorf("insufficient history")

// trailingSMA returns the simple moving average of the last window
// values. Only trailing, already-observed values contribute; there is
// no look-ahead.
func trailingSMA(values []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("invalid window %d", window)
	}
	if len(values) < window {
		return 0, fmt.Errorf("%w: have %d bars, need %d", ErrInsufficientHistory, len(values), window)
	}

	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), nil
}
