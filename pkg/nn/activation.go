// Package nn provides the from-scratch neural network primitives used by the
// NeuralMem embedding and knowledge graph engines: activation functions, dense
// feed-forward networks with backpropagation, single-step LSTM/GRU cells, and
// sequence models for temporal memory analysis.
package nn

import "math"

// Activation identifies an activation function applied element-wise to a
// layer's pre-activation values.
type Activation int

const (
	// Linear is the identity activation, f(x) = x.
	Linear Activation = iota

	// Sigmoid is the logistic activation, f(x) = 1/(1+e^-x).
	Sigmoid

	// Tanh is the hyperbolic tangent activation.
	Tanh

	// ReLU is the rectified linear unit, f(x) = max(0, x).
	ReLU

	// LeakyReLU is ReLU with a 0.01 slope for negative inputs.
	LeakyReLU

	// GELU is the Gaussian error linear unit (tanh approximation).
	GELU
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case Linear:
		return "linear"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case ReLU:
		return "relu"
	case LeakyReLU:
		return "leaky_relu"
	case GELU:
		return "gelu"
	default:
		return "unknown"
	}
}

// Apply applies the activation function to x.
func (a Activation) Apply(x float32) float32 {
	switch a {
	case Sigmoid:
		return float32(1.0 / (1.0 + math.Exp(-float64(x))))
	case Tanh:
		return float32(math.Tanh(float64(x)))
	case ReLU:
		if x > 0 {
			return x
		}
		return 0
	case LeakyReLU:
		if x > 0 {
			return x
		}
		return 0.01 * x
	case GELU:
		x64 := float64(x)
		inner := math.Sqrt(2.0/math.Pi) * (x64 + 0.044715*x64*x64*x64)
		return float32(0.5 * x64 * (1.0 + math.Tanh(inner)))
	default: // Linear
		return x
	}
}

// Derivative evaluates the derivative of the activation function at x.
//
// For Sigmoid the derivative is computed as s(x)*(1-s(x)); for GELU it uses
// the standard tanh-based approximation.
func (a Activation) Derivative(x float32) float32 {
	switch a {
	case Sigmoid:
		s := a.Apply(x)
		return s * (1.0 - s)
	case Tanh:
		t := math.Tanh(float64(x))
		return float32(1.0 - t*t)
	case ReLU:
		if x > 0 {
			return 1
		}
		return 0
	case LeakyReLU:
		if x > 0 {
			return 1
		}
		return 0.01
	case GELU:
		x64 := float64(x)
		cdf := 0.5 * (1.0 + math.Tanh(math.Sqrt(2.0/math.Pi)*(x64+0.044715*x64*x64*x64)))
		pdf := math.Sqrt(2.0/math.Pi) * math.Exp(-0.5*x64*x64)
		return float32(cdf + x64*pdf)
	default: // Linear
		return 1
	}
}
