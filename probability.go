package tilewave

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// erf delegates to gonum's error function implementation.
func erf(x float64) float64 {
	return mathext.Erf(x)
}

// binomialNormalApproximateCDF approximates P(X <= k) for X ~ Binomial(n, p)
// using a normal approximation with continuity correction. Used to turn an
// observed placement tally into a deviation-from-expected signal.
func binomialNormalApproximateCDF(n int, p float64, k int) float64 {
	if k >= n {
		return 1.0
	}
	if p <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0.0
	}
	if p >= 1.0 {
		return 0.0
	}
	mean := float64(n) * p
	variance := float64(n) * p * (1 - p)
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		if float64(k) >= mean {
			return 1.0
		}
		return 0.0
	}
	z := (float64(k) + 0.5 - mean) / (math.Sqrt2 * stdDev)
	return 0.5 * (1 - erf(-z))
}

// sigmoid is the standard logistic function.
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func signf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// absExp returns exp(|x|), used where a deviation's magnitude (not its
// sign) drives an exponential boost.
func absExp(x float64) float64 {
	return math.Exp(absf(x))
}

// expClamped evaluates exp(x) but saturates rather than overflowing to +Inf
// for very large x, since it feeds a probability-like weight downstream.
func expClamped(x float64) float64 {
	const cap = 700.0 // math.Exp(x) is finite for x below ~709.78
	if x > cap {
		x = cap
	}
	if x < -cap {
		x = -cap
	}
	return math.Exp(x)
}
