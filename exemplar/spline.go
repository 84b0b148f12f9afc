package exemplar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mathext"
)

// cubic is a natural cubic spline fit to (x, y) control points, used to
// interpolate the log-ratio density curve between the sampled distances a
// colorPair was actually observed at.
type cubic struct {
	fitted   interp.NaturalCubic
	firstY   float64
	lastY    float64
	minX     float64
	maxX     float64
}

// newCubic fits a natural cubic spline through xs (strictly increasing) and
// ys. It mirrors the reference implementation's clamp-outside-range
// evaluation behavior: x values outside [xs[0], xs[len-1]] return the
// nearest endpoint's y rather than extrapolating.
func newCubic(xs, ys []float64) (*cubic, error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil, errInterpolation("newCubic", "need at least 2 matching x/y points")
	}
	var pc interp.NaturalCubic
	if err := pc.Fit(xs, ys); err != nil {
		return nil, errInterpolation("newCubic", "fit failed: %v", err)
	}
	return &cubic{
		fitted: pc,
		firstY: ys[0],
		lastY:  ys[len(ys)-1],
		minX:   xs[0],
		maxX:   xs[len(xs)-1],
	}, nil
}

// evaluate returns the spline's value at x, clamped to the boundary values
// outside the fitted range.
func (c *cubic) evaluate(x float64) float64 {
	if x <= c.minX {
		return c.firstY
	}
	if x >= c.maxX {
		return c.lastY
	}
	return c.fitted.Predict(x)
}

type interpolationError struct {
	op, message string
}

func (e *interpolationError) Error() string { return "exemplar: " + e.op + ": " + e.message }

func errInterpolation(op, format string, args ...any) error {
	return &interpolationError{op: op, message: fmt.Sprintf(format, args...)}
}

// erf delegates to gonum's error function, matching the core package's
// choice of implementation for consistency across the module.
func erf(x float64) float64 {
	return mathext.Erf(x)
}

// localityTaper blends a distribution back toward the uniform (log-ratio)
// baseline as x approaches the pattern influence distance k, via an
// erf-based S-curve centered at k/2: it is 0 at x = 0 and 1 at x = k.
func localityTaper(x, k float64) float64 {
	sqrtK := math.Sqrt(k)
	erfMax := erf(sqrtK / 2)
	if erfMax == 0 {
		return 0
	}
	erfVal := erf(sqrtK/2 - x/sqrtK)
	return 0.5 - erfVal/(2*erfMax)
}

// ExponentialSamplePoints returns the distance-axis sample points used to
// fit the density interpolation for a given pattern influence distance k:
// densely spaced near zero, more sparsely further out, capped at a
// normalized distance of 0.75 before the final inverse-transform step.
func ExponentialSamplePoints(k float64) []float64 {
	stepSize := 5 * math.Tanh(math.Log(2)/(4*k)) / 3
	if stepSize <= 0 {
		return nil
	}
	numSteps := int(math.Ceil(0.75/stepSize)) + 1

	points := make([]float64, 0, numSteps)
	for i := 0; i < numSteps; i++ {
		xVal := math.Min(float64(i)*stepSize, 0.75)
		var mapped float64
		if xVal == 0 {
			mapped = 0.0
		} else {
			mapped = k * math.Log(1-3*xVal/4) / math.Log(0.5)
		}
		if math.IsInf(mapped, 0) || math.IsNaN(mapped) {
			continue
		}
		points = append(points, mapped)
	}
	return points
}
