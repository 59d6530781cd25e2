package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivationApply(t *testing.T) {
	inputs := []float32{-10, -1, -0.5, 0, 0.5, 1, 10}
	for _, act := range []Activation{Linear, Sigmoid, Tanh, ReLU, LeakyReLU, GELU} {
		for _, x := range inputs {
			y := act.Apply(x)
			assert.False(t, math.IsNaN(float64(y)), "%s(%v) is NaN", act, x)
			assert.False(t, math.IsInf(float64(y), 0), "%s(%v) is Inf", act, x)
		}
	}
}

func TestActivationDerivative(t *testing.T) {
	inputs := []float32{-5, -1, 0, 1, 5}
	for _, act := range []Activation{Linear, Sigmoid, Tanh, ReLU, LeakyReLU, GELU} {
		for _, x := range inputs {
			d := act.Derivative(x)
			assert.False(t, math.IsNaN(float64(d)), "%s'(%v) is NaN", act, x)
			assert.False(t, math.IsInf(float64(d), 0), "%s'(%v) is Inf", act, x)
		}
	}
}

func TestSigmoidRange(t *testing.T) {
	for _, x := range []float32{-100, -1, 0, 1, 100} {
		y := Sigmoid.Apply(x)
		assert.GreaterOrEqual(t, y, float32(0))
		assert.LessOrEqual(t, y, float32(1))
	}
	assert.InDelta(t, 0.5, Sigmoid.Apply(0), 1e-6)
}

func TestTanhRange(t *testing.T) {
	for _, x := range []float32{-100, -1, 0, 1, 100} {
		y := Tanh.Apply(x)
		assert.GreaterOrEqual(t, y, float32(-1))
		assert.LessOrEqual(t, y, float32(1))
	}
	assert.InDelta(t, 0, Tanh.Apply(0), 1e-6)
}

func TestReLU(t *testing.T) {
	assert.Equal(t, float32(0), ReLU.Apply(-3))
	assert.Equal(t, float32(2.5), ReLU.Apply(2.5))
	assert.Equal(t, float32(0), ReLU.Derivative(-1))
	assert.Equal(t, float32(1), ReLU.Derivative(1))
}

func TestLeakyReLU(t *testing.T) {
	assert.InDelta(t, -0.03, LeakyReLU.Apply(-3), 1e-6)
	assert.Equal(t, float32(2), LeakyReLU.Apply(2))
}

func TestActivationString(t *testing.T) {
	assert.Equal(t, "relu", ReLU.String())
	assert.Equal(t, "gelu", GELU.String())
	assert.Equal(t, "linear", Linear.String())
}
