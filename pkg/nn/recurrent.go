package nn

import "math/rand"

// gate holds one recurrent gate's parameters: an input weight matrix
// (hidden×input), a hidden weight matrix (hidden×hidden), and a bias vector.
type gate struct {
	wInput  [][]float32
	wHidden [][]float32
	bias    []float32
}

// newGate initializes a gate with Xavier-uniform weights and zero biases.
func newGate(inputSize, hiddenSize int, scale float32) gate {
	return gate{
		wInput:  randomMatrix(hiddenSize, inputSize, scale),
		wHidden: randomMatrix(hiddenSize, hiddenSize, scale),
		bias:    make([]float32, hiddenSize),
	}
}

// linear computes wInput·x + wHidden·h + bias.
func (g *gate) linear(x, h []float32) []float32 {
	out := matVecAdd(g.wInput, x, g.bias)
	for row := range g.wHidden {
		var sum float32
		for col, weight := range g.wHidden[row] {
			sum += weight * h[col]
		}
		out[row] += sum
	}
	return out
}

func randomMatrix(rows, cols int, scale float32) [][]float32 {
	m := make([][]float32, rows)
	for i := range m {
		m[i] = make([]float32, cols)
		for j := range m[i] {
			m[i][j] = (rand.Float32() - 0.5) * 2.0 * scale
		}
	}
	return m
}

// LSTMCell is a single-step long short-term memory transition. Gate weights
// are Xavier-initialized at construction and never trained; only the
// downstream projection network of a SequenceModel learns.
type LSTMCell struct {
	inputSize  int
	hiddenSize int

	forgetGate    gate
	inputGate     gate
	candidateGate gate
	outputGate    gate
}

// NewLSTMCell creates an LSTM cell mapping inputSize inputs onto a
// hiddenSize hidden/cell state.
func NewLSTMCell(inputSize, hiddenSize int) *LSTMCell {
	scale := float32(xavierScale(inputSize, hiddenSize))
	return &LSTMCell{
		inputSize:     inputSize,
		hiddenSize:    hiddenSize,
		forgetGate:    newGate(inputSize, hiddenSize, scale),
		inputGate:     newGate(inputSize, hiddenSize, scale),
		candidateGate: newGate(inputSize, hiddenSize, scale),
		outputGate:    newGate(inputSize, hiddenSize, scale),
	}
}

// InputSize returns the expected input vector length.
func (c *LSTMCell) InputSize() int { return c.inputSize }

// HiddenSize returns the hidden/cell state length.
func (c *LSTMCell) HiddenSize() int { return c.hiddenSize }

// Forward advances the cell one timestep:
//
//	f = σ(Wf·x + Uf·h + bf)
//	i = σ(Wi·x + Ui·h + bi)
//	C̃ = tanh(Wc·x + Uc·h + bc)
//	c' = f⊙c + i⊙C̃
//	o = σ(Wo·x + Uo·h + bo)
//	h' = o⊙tanh(c')
//
// and returns the new hidden and cell states.
func (c *LSTMCell) Forward(input, hidden, cell []float32) (newHidden, newCell []float32) {
	forget := applyEach(c.forgetGate.linear(input, hidden), Sigmoid)
	in := applyEach(c.inputGate.linear(input, hidden), Sigmoid)
	candidate := applyEach(c.candidateGate.linear(input, hidden), Tanh)

	newCell = make([]float32, c.hiddenSize)
	for i := range newCell {
		newCell[i] = forget[i]*cell[i] + in[i]*candidate[i]
	}

	out := applyEach(c.outputGate.linear(input, hidden), Sigmoid)

	newHidden = make([]float32, c.hiddenSize)
	for i := range newHidden {
		newHidden[i] = out[i] * Tanh.Apply(newCell[i])
	}

	return newHidden, newCell
}

// GRUCell is a single-step gated recurrent unit transition. Like LSTMCell,
// its weights are fixed after Xavier initialization.
type GRUCell struct {
	inputSize  int
	hiddenSize int

	resetGate  gate
	updateGate gate
	newGate    gate
}

// NewGRUCell creates a GRU cell mapping inputSize inputs onto a hiddenSize
// hidden state.
func NewGRUCell(inputSize, hiddenSize int) *GRUCell {
	scale := float32(xavierScale(inputSize, hiddenSize))
	return &GRUCell{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		resetGate:  newGate(inputSize, hiddenSize, scale),
		updateGate: newGate(inputSize, hiddenSize, scale),
		newGate:    newGate(inputSize, hiddenSize, scale),
	}
}

// InputSize returns the expected input vector length.
func (c *GRUCell) InputSize() int { return c.inputSize }

// HiddenSize returns the hidden state length.
func (c *GRUCell) HiddenSize() int { return c.hiddenSize }

// Forward advances the cell one timestep:
//
//	r = σ(Wr·x + Ur·h + br)
//	z = σ(Wz·x + Uz·h + bz)
//	ñ = tanh(Wn·x + Un·(r⊙h) + bn)
//	h' = (1−z)⊙h + z⊙ñ
//
// and returns the new hidden state.
func (c *GRUCell) Forward(input, hidden []float32) []float32 {
	reset := applyEach(c.resetGate.linear(input, hidden), Sigmoid)
	update := applyEach(c.updateGate.linear(input, hidden), Sigmoid)

	resetHidden := make([]float32, c.hiddenSize)
	for i := range resetHidden {
		resetHidden[i] = reset[i] * hidden[i]
	}
	candidate := applyEach(c.newGate.linear(input, resetHidden), Tanh)

	newHidden := make([]float32, c.hiddenSize)
	for i := range newHidden {
		newHidden[i] = (1.0-update[i])*hidden[i] + update[i]*candidate[i]
	}
	return newHidden
}

func applyEach(v []float32, act Activation) []float32 {
	for i, x := range v {
		v[i] = act.Apply(x)
	}
	return v
}
