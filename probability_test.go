package tilewave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErfOddSymmetry(t *testing.T) {
	assert.InDelta(t, -erf(0.5), erf(-0.5), 1e-12)
	assert.InDelta(t, 0.0, erf(0.0), 1e-12)
	assert.InDelta(t, 1.0, erf(5.0), 1e-6)
}

func TestBinomialNormalApproximateCDFEdgeCases(t *testing.T) {
	assert.Equal(t, 1.0, binomialNormalApproximateCDF(10, 0.5, 10))
	assert.Equal(t, 1.0, binomialNormalApproximateCDF(10, 0.0, 0))
	assert.Equal(t, 0.0, binomialNormalApproximateCDF(10, 0.0, 1))
	assert.Equal(t, 0.0, binomialNormalApproximateCDF(10, 1.0, 1))
}

func TestBinomialNormalApproximateCDFMonotonic(t *testing.T) {
	prev := 0.0
	for k := 0; k <= 20; k++ {
		cur := binomialNormalApproximateCDF(20, 0.5, k)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestSigmoidBounds(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(0), 1e-12)
	assert.Less(t, sigmoid(-100), 0.001)
	assert.Greater(t, sigmoid(100), 0.999)
}

func TestExpClampedSaturates(t *testing.T) {
	assert.False(t, math.IsInf(expClamped(10000), 1))
	assert.InDelta(t, math.Exp(1), expClamped(1), 1e-9)
}
