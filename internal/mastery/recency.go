package mastery

import (
	"math"
	"time"
)

// MinRecencyWeight keeps very old attempts strictly above zero.
const MinRecencyWeight = 1e-6

// WeightFunc maps an attempt's timestamp to a weight in (0,1], given the
// evaluation time. Implementations must be pure and non-increasing in age.
type WeightFunc func(attemptAt, now time.Time) float64

// ExponentialDecay returns a WeightFunc that halves an attempt's weight every
// halfLife. Attempts stamped after now weigh 1.
func ExponentialDecay(halfLife time.Duration) WeightFunc {
	return func(attemptAt, now time.Time) float64 {
		age := now.Sub(attemptAt)
		if age <= 0 || halfLife <= 0 {
			return 1
		}
		w := math.Pow(0.5, float64(age)/float64(halfLife))
		if w < MinRecencyWeight {
			return MinRecencyWeight
		}
		return w
	}
}
