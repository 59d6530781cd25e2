package nn

import "fmt"

// SequenceModelType selects the recurrent cell family of a SequenceModel.
type SequenceModelType string

const (
	// SequenceLSTM uses LSTM cells.
	SequenceLSTM SequenceModelType = "lstm"

	// SequenceGRU uses GRU cells.
	SequenceGRU SequenceModelType = "gru"
)

// SequenceModel stacks recurrent cells and projects the final hidden state
// through a dense network to produce a fixed-size representation of a
// sequence. The recurrent weights are fixed after initialization; only the
// projection network is trainable.
type SequenceModel struct {
	modelType  SequenceModelType
	lstmCells  []*LSTMCell
	gruCells   []*GRUCell
	inputSize  int
	hiddenSize int
	numLayers  int
	projection *Network
}

// NewSequenceModel creates a sequence model with numLayers stacked cells of
// the given type. Layer 0 maps inputSize onto hiddenSize; deeper layers map
// hiddenSize onto hiddenSize. The projection network is
// hiddenSize → hiddenSize/2 (ReLU) → outputSize, so hiddenSize must be at
// least 2.
func NewSequenceModel(modelType SequenceModelType, inputSize, hiddenSize, outputSize, numLayers int) (*SequenceModel, error) {
	if numLayers < 1 {
		return nil, fmt.Errorf("%w: need at least one recurrent layer", ErrInvalidLayout)
	}

	m := &SequenceModel{
		modelType:  modelType,
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		numLayers:  numLayers,
	}

	switch modelType {
	case SequenceLSTM:
		for i := 0; i < numLayers; i++ {
			layerInput := hiddenSize
			if i == 0 {
				layerInput = inputSize
			}
			m.lstmCells = append(m.lstmCells, NewLSTMCell(layerInput, hiddenSize))
		}
	case SequenceGRU:
		for i := 0; i < numLayers; i++ {
			layerInput := hiddenSize
			if i == 0 {
				layerInput = inputSize
			}
			m.gruCells = append(m.gruCells, NewGRUCell(layerInput, hiddenSize))
		}
	default:
		return nil, fmt.Errorf("%w: unknown sequence model type %q", ErrInvalidLayout, modelType)
	}

	projection, err := NewNetworkBuilder().
		InputLayer(hiddenSize).
		HiddenLayer(hiddenSize/2, ReLU).
		OutputLayer(outputSize, Linear).
		LearningRate(0.001).
		Build()
	if err != nil {
		return nil, err
	}
	m.projection = projection

	return m, nil
}

// ModelType returns the recurrent cell family.
func (m *SequenceModel) ModelType() SequenceModelType { return m.modelType }

// InputSize returns the per-timestep input vector length.
func (m *SequenceModel) InputSize() int { return m.inputSize }

// HiddenSize returns the hidden state length.
func (m *SequenceModel) HiddenSize() int { return m.hiddenSize }

// NumLayers returns the number of stacked recurrent layers.
func (m *SequenceModel) NumLayers() int { return m.numLayers }

// OutputSize returns the projection network's output length.
func (m *SequenceModel) OutputSize() int { return m.projection.NumOutputs() }

// Projection exposes the trainable output projection network.
func (m *SequenceModel) Projection() *Network { return m.projection }

// ProcessSequence runs the sequence through the recurrent stack and projects
// the last layer's final hidden state through the dense network.
//
// An empty sequence returns a zero vector of the hidden size.
func (m *SequenceModel) ProcessSequence(sequence [][]float32) ([]float32, error) {
	if len(sequence) == 0 {
		return make([]float32, m.hiddenSize), nil
	}

	for _, step := range sequence {
		if len(step) != m.inputSize {
			return nil, fmt.Errorf("%w: timestep has %d values, model expects %d", ErrDimensionMismatch, len(step), m.inputSize)
		}
	}

	hidden := make([][]float32, m.numLayers)
	cell := make([][]float32, m.numLayers)
	for i := range hidden {
		hidden[i] = make([]float32, m.hiddenSize)
		cell[i] = make([]float32, m.hiddenSize)
	}

	for _, step := range sequence {
		layerInput := step
		for layer := 0; layer < m.numLayers; layer++ {
			switch m.modelType {
			case SequenceLSTM:
				hidden[layer], cell[layer] = m.lstmCells[layer].Forward(layerInput, hidden[layer], cell[layer])
			case SequenceGRU:
				hidden[layer] = m.gruCells[layer].Forward(layerInput, hidden[layer])
			}
			layerInput = hidden[layer]
		}
	}

	return m.projection.Run(hidden[m.numLayers-1])
}
