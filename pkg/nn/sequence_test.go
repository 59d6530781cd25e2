package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSequenceModel(t *testing.T) {
	model, err := NewSequenceModel(SequenceLSTM, 16, 32, 8, 2)
	require.NoError(t, err)

	assert.Equal(t, SequenceLSTM, model.ModelType())
	assert.Equal(t, 16, model.InputSize())
	assert.Equal(t, 32, model.HiddenSize())
	assert.Equal(t, 8, model.OutputSize())
	assert.Equal(t, 2, model.NumLayers())
}

func TestNewSequenceModelInvalid(t *testing.T) {
	_, err := NewSequenceModel(SequenceLSTM, 16, 32, 8, 0)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewSequenceModel("transformer", 16, 32, 8, 1)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestProcessSequenceEmpty(t *testing.T) {
	model, err := NewSequenceModel(SequenceGRU, 8, 16, 4, 1)
	require.NoError(t, err)

	out, err := model.ProcessSequence(nil)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), out)
}

func TestProcessSequenceShapes(t *testing.T) {
	for _, mt := range []SequenceModelType{SequenceLSTM, SequenceGRU} {
		model, err := NewSequenceModel(mt, 8, 16, 4, 2)
		require.NoError(t, err)

		seq := [][]float32{
			{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8},
			{0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1},
			{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
		}
		out, err := model.ProcessSequence(seq)
		require.NoError(t, err)
		assert.Len(t, out, 4, "%s output size", mt)
		assertFinite(t, out)
	}
}

func TestProcessSequenceDimensionMismatch(t *testing.T) {
	model, err := NewSequenceModel(SequenceLSTM, 8, 16, 4, 1)
	require.NoError(t, err)

	_, err = model.ProcessSequence([][]float32{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestProcessSequenceOrderSensitive(t *testing.T) {
	model, err := NewSequenceModel(SequenceLSTM, 2, 8, 4, 1)
	require.NoError(t, err)

	forward := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	reversed := [][]float32{{1, 1}, {0, 1}, {1, 0}}

	a, err := model.ProcessSequence(forward)
	require.NoError(t, err)
	b, err := model.ProcessSequence(reversed)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
