package nn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Predefined errors for network construction and training.
var (
	// ErrDimensionMismatch indicates that an input or target vector does not
	// match the declared layer size.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidLayout indicates that a network was configured with fewer
	// than two layers or with a zero-sized layer.
	ErrInvalidLayout = errors.New("invalid network layout")
)

// LayerConfig describes a single network layer.
type LayerConfig struct {
	// Size is the number of neurons in the layer.
	Size int `json:"size"`

	// Activation is applied to the layer's pre-activation values. The input
	// layer's activation is never applied and is conventionally Linear.
	Activation Activation `json:"activation"`
}

// NetworkBuilder assembles a dense feed-forward Network layer by layer.
//
// Example:
//
//	net, err := nn.NewNetworkBuilder().
//	    InputLayer(2).
//	    HiddenLayer(4, nn.Sigmoid).
//	    OutputLayer(1, nn.Sigmoid).
//	    LearningRate(0.5).
//	    Build()
type NetworkBuilder struct {
	layers         []LayerConfig
	learningRate   float32
	connectionRate float32
}

// NewNetworkBuilder creates a builder with a 0.001 learning rate and a fully
// connected (1.0) connection rate.
func NewNetworkBuilder() *NetworkBuilder {
	return &NetworkBuilder{
		learningRate:   0.001,
		connectionRate: 1.0,
	}
}

// InputLayer appends the input layer. Its activation is Linear by convention.
func (b *NetworkBuilder) InputLayer(size int) *NetworkBuilder {
	b.layers = append(b.layers, LayerConfig{Size: size, Activation: Linear})
	return b
}

// HiddenLayer appends a hidden layer with the given activation.
func (b *NetworkBuilder) HiddenLayer(size int, activation Activation) *NetworkBuilder {
	b.layers = append(b.layers, LayerConfig{Size: size, Activation: activation})
	return b
}

// OutputLayer appends the output layer with the given activation.
func (b *NetworkBuilder) OutputLayer(size int, activation Activation) *NetworkBuilder {
	b.layers = append(b.layers, LayerConfig{Size: size, Activation: activation})
	return b
}

// LearningRate sets the learning rate used by training.
func (b *NetworkBuilder) LearningRate(rate float32) *NetworkBuilder {
	b.learningRate = rate
	return b
}

// ConnectionRate sets the fraction of connections that receive a non-zero
// initial weight. Values below 1.0 produce sparse networks; the rate is
// clamped to [0, 1].
func (b *NetworkBuilder) ConnectionRate(rate float32) *NetworkBuilder {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	b.connectionRate = rate
	return b
}

// Build validates the layout and initializes the network.
//
// Weights use Xavier initialization: uniform in ±√(2/(fanIn+fanOut)).
// Biases start at zero.
//
// Returns ErrInvalidLayout if fewer than two layers were configured or any
// layer has size zero.
func (b *NetworkBuilder) Build() (*Network, error) {
	if len(b.layers) < 2 {
		return nil, fmt.Errorf("%w: need at least input and output layers, got %d", ErrInvalidLayout, len(b.layers))
	}
	for i, layer := range b.layers {
		if layer.Size <= 0 {
			return nil, fmt.Errorf("%w: layer %d has size %d", ErrInvalidLayout, i, layer.Size)
		}
	}

	weights := make([][][]float32, len(b.layers)-1)
	biases := make([][]float32, len(b.layers)-1)

	for i := 0; i < len(b.layers)-1; i++ {
		inputSize := b.layers[i].Size
		outputSize := b.layers[i+1].Size
		scale := float32(xavierScale(inputSize, outputSize))

		w := make([][]float32, outputSize)
		for row := range w {
			w[row] = make([]float32, inputSize)
			for col := range w[row] {
				if b.connectionRate >= 1.0 || rand.Float32() < b.connectionRate {
					w[row][col] = (rand.Float32() - 0.5) * 2.0 * scale
				}
			}
		}

		weights[i] = w
		biases[i] = make([]float32, outputSize)
	}

	layers := make([]LayerConfig, len(b.layers))
	copy(layers, b.layers)

	return &Network{
		layers:       layers,
		weights:      weights,
		biases:       biases,
		learningRate: b.learningRate,
	}, nil
}

// Network is a dense feed-forward neural network trained with plain
// backpropagation. It is not safe for concurrent use; callers that share a
// network across goroutines must serialize access (training mutates every
// weight matrix in place).
type Network struct {
	layers       []LayerConfig
	weights      [][][]float32 // weights[i][row][col], shape next×prev
	biases       [][]float32
	learningRate float32
}

// NewNetwork creates a fully connected network from plain layer sizes.
// The first size is the input layer, the last is a Linear output layer, and
// everything between becomes a Sigmoid hidden layer.
func NewNetwork(layerSizes ...int) (*Network, error) {
	if len(layerSizes) < 2 {
		return nil, fmt.Errorf("%w: need at least input and output sizes", ErrInvalidLayout)
	}

	b := NewNetworkBuilder().InputLayer(layerSizes[0])
	for _, size := range layerSizes[1 : len(layerSizes)-1] {
		b.HiddenLayer(size, Sigmoid)
	}
	b.OutputLayer(layerSizes[len(layerSizes)-1], Linear)

	return b.Build()
}

// NumLayers returns the number of layers including input and output.
func (n *Network) NumLayers() int { return len(n.layers) }

// NumInputs returns the input layer size.
func (n *Network) NumInputs() int { return n.layers[0].Size }

// NumOutputs returns the output layer size.
func (n *Network) NumOutputs() int { return n.layers[len(n.layers)-1].Size }

// TotalNeurons returns the neuron count across all layers.
func (n *Network) TotalNeurons() int {
	total := 0
	for _, layer := range n.layers {
		total += layer.Size
	}
	return total
}

// TotalConnections returns the weight count across all layer pairs.
func (n *Network) TotalConnections() int {
	total := 0
	for _, w := range n.weights {
		for _, row := range w {
			total += len(row)
		}
	}
	return total
}

// Run performs a forward pass and returns the output activations.
//
// Returns ErrDimensionMismatch if the input length does not match the input
// layer size. (Legacy behavior returned a zero vector here; an explicit error
// catches caller bugs instead of hiding them.)
func (n *Network) Run(input []float32) ([]float32, error) {
	if len(input) != n.NumInputs() {
		return nil, fmt.Errorf("%w: input has %d values, network expects %d", ErrDimensionMismatch, len(input), n.NumInputs())
	}

	activations := make([]float32, len(input))
	copy(activations, input)

	for i := range n.weights {
		linear := matVecAdd(n.weights[i], activations, n.biases[i])
		act := n.layers[i+1].Activation
		for j, v := range linear {
			linear[j] = act.Apply(v)
		}
		activations = linear
	}

	return activations, nil
}

// TrainIncremental trains the network on a single example using
// backpropagation and returns the example's mean squared error.
//
// Gradient step per layer pair: W += lr·(δ⊗a_prev), b += lr·δ, where the
// output delta is (target−output)·act'(z) and hidden deltas come from
// Wᵗ·δ_next·act'(z).
func (n *Network) TrainIncremental(input, target []float32) (float32, error) {
	if len(input) != n.NumInputs() {
		return 0, fmt.Errorf("%w: input has %d values, network expects %d", ErrDimensionMismatch, len(input), n.NumInputs())
	}
	if len(target) != n.NumOutputs() {
		return 0, fmt.Errorf("%w: target has %d values, network expects %d", ErrDimensionMismatch, len(target), n.NumOutputs())
	}

	// Forward pass, keeping every pre-activation and activation.
	activations := make([][]float32, 0, len(n.layers))
	first := make([]float32, len(input))
	copy(first, input)
	activations = append(activations, first)

	linearOutputs := make([][]float32, 0, len(n.weights))

	for i := range n.weights {
		linear := matVecAdd(n.weights[i], activations[i], n.biases[i])
		linearOutputs = append(linearOutputs, linear)

		act := n.layers[i+1].Activation
		activated := make([]float32, len(linear))
		for j, v := range linear {
			activated[j] = act.Apply(v)
		}
		activations = append(activations, activated)
	}

	// Output error and MSE.
	output := activations[len(activations)-1]
	errVec := make([]float32, len(output))
	var mse float32
	for i := range output {
		errVec[i] = target[i] - output[i]
		mse += errVec[i] * errVec[i]
	}
	mse /= float32(len(output))

	// Backward pass.
	deltas := make([][]float32, len(n.layers))

	outIdx := len(n.layers) - 1
	outAct := n.layers[outIdx].Activation
	outDelta := make([]float32, len(errVec))
	outLinear := linearOutputs[len(linearOutputs)-1]
	for i := range outDelta {
		outDelta[i] = errVec[i] * outAct.Derivative(outLinear[i])
	}
	deltas[outIdx] = outDelta

	for i := len(n.layers) - 2; i >= 1; i-- {
		act := n.layers[i].Activation
		propagated := matTransposeVec(n.weights[i], deltas[i+1])
		delta := make([]float32, len(propagated))
		for j := range delta {
			delta[j] = propagated[j] * act.Derivative(linearOutputs[i-1][j])
		}
		deltas[i] = delta
	}

	// Update weights and biases.
	for i := range n.weights {
		delta := deltas[i+1]
		prev := activations[i]
		for row := range n.weights[i] {
			step := n.learningRate * delta[row]
			for col := range n.weights[i][row] {
				n.weights[i][row][col] += step * prev[col]
			}
			n.biases[i][row] += step
		}
	}

	return mse, nil
}

// Train runs epochs of incremental training over the dataset, shuffling the
// example order each epoch. Returns the per-epoch mean MSE. Training stops
// early once an epoch's mean MSE drops below 1e-6.
func (n *Network) Train(inputs, targets [][]float32, epochs int) ([]float32, error) {
	if len(inputs) != len(targets) {
		return nil, fmt.Errorf("%w: %d inputs vs %d targets", ErrDimensionMismatch, len(inputs), len(targets))
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	var epochErrors []float32

	indices := make([]int, len(inputs))
	for i := range indices {
		indices[i] = i
	}

	for epoch := 0; epoch < epochs; epoch++ {
		rand.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		var epochErr float32
		for _, idx := range indices {
			mse, err := n.TrainIncremental(inputs[idx], targets[idx])
			if err != nil {
				return epochErrors, err
			}
			epochErr += mse
		}

		epochErr /= float32(len(inputs))
		epochErrors = append(epochErrors, epochErr)

		if epochErr < 1e-6 {
			break
		}
	}

	return epochErrors, nil
}

// MSE computes the mean squared error of the network over a dataset without
// modifying any weights.
func (n *Network) MSE(inputs, targets [][]float32) (float32, error) {
	if len(inputs) != len(targets) {
		return 0, fmt.Errorf("%w: %d inputs vs %d targets", ErrDimensionMismatch, len(inputs), len(targets))
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	var total float32
	for i := range inputs {
		output, err := n.Run(inputs[i])
		if err != nil {
			return 0, err
		}
		var exampleErr float32
		for j := range output {
			d := output[j] - targets[i][j]
			exampleErr += d * d
		}
		total += exampleErr / float32(len(targets[i]))
	}

	return total / float32(len(inputs)), nil
}

// Weights returns every weight matrix followed by every bias vector,
// flattened row-major into one slice in a deterministic order. The result is
// suitable for persistence and can be restored with SetWeights.
func (n *Network) Weights() []float32 {
	var all []float32
	for _, w := range n.weights {
		for _, row := range w {
			all = append(all, row...)
		}
	}
	for _, b := range n.biases {
		all = append(all, b...)
	}
	return all
}

// SetWeights restores weights and biases from a slice produced by Weights.
// Returns ErrDimensionMismatch if the slice length does not match exactly.
func (n *Network) SetWeights(weights []float32) error {
	idx := 0

	for _, w := range n.weights {
		for row := range w {
			if idx+len(w[row]) > len(weights) {
				return fmt.Errorf("%w: not enough weights provided", ErrDimensionMismatch)
			}
			copy(w[row], weights[idx:idx+len(w[row])])
			idx += len(w[row])
		}
	}

	for _, b := range n.biases {
		if idx+len(b) > len(weights) {
			return fmt.Errorf("%w: not enough weights provided for biases", ErrDimensionMismatch)
		}
		copy(b, weights[idx:idx+len(b)])
		idx += len(b)
	}

	if idx != len(weights) {
		return fmt.Errorf("%w: %d weights provided, network holds %d", ErrDimensionMismatch, len(weights), idx)
	}

	return nil
}

// TrainingData accumulates parallel input/output example pairs.
type TrainingData struct {
	Inputs  [][]float32
	Outputs [][]float32
}

// AddExample appends one input/output pair.
func (d *TrainingData) AddExample(input, output []float32) {
	d.Inputs = append(d.Inputs, input)
	d.Outputs = append(d.Outputs, output)
}

// Len returns the number of examples.
func (d *TrainingData) Len() int { return len(d.Inputs) }

// IsEmpty reports whether the dataset has no examples.
func (d *TrainingData) IsEmpty() bool { return len(d.Inputs) == 0 }

// xavierScale returns √(2/(fanIn+fanOut)).
func xavierScale(fanIn, fanOut int) float64 {
	return math.Sqrt(2.0 / float64(fanIn+fanOut))
}
