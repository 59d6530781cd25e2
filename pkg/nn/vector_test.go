package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity(a, []float32{-1, 0, 0}), 1e-6)
}

func TestCosineSimilarityDegenerate(t *testing.T) {
	assert.Equal(t, float32(0), CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, float32(0), CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, float32(0), CosineSimilarity(nil, nil))
}

func TestEuclideanDistance(t *testing.T) {
	assert.InDelta(t, 5.0, EuclideanDistance([]float32{0, 0}, []float32{3, 4}), 1e-6)
	assert.Equal(t, float32(0), EuclideanDistance([]float32{1, 2}, []float32{1, 2}))
	assert.True(t, math.IsInf(float64(EuclideanDistance([]float32{1}, []float32{1, 2})), 1))
}

func TestManhattanDistance(t *testing.T) {
	assert.InDelta(t, 7.0, ManhattanDistance([]float32{0, 0}, []float32{3, 4}), 1e-6)
	assert.True(t, math.IsInf(float64(ManhattanDistance([]float32{1}, []float32{1, 2})), 1))
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	n := Normalize(v)

	assert.InDelta(t, 0.6, n[0], 1e-6)
	assert.InDelta(t, 0.8, n[1], 1e-6)
	assert.Equal(t, []float32{3, 4}, v, "input must not be mutated")

	zero := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)
}

func TestKMeans(t *testing.T) {
	embeddings := [][]float32{
		{0, 0}, {0.1, 0.1}, {0.2, 0},
		{10, 10}, {10.1, 9.9}, {9.8, 10.2},
	}
	assignments, err := KMeans(embeddings, 2, 50)
	require.NoError(t, err)
	require.Len(t, assignments, 6)

	assert.Equal(t, assignments[0], assignments[1])
	assert.Equal(t, assignments[0], assignments[2])
	assert.Equal(t, assignments[3], assignments[4])
	assert.Equal(t, assignments[3], assignments[5])
	assert.NotEqual(t, assignments[0], assignments[3])
}

func TestKMeansInvalid(t *testing.T) {
	assignments, err := KMeans(nil, 2, 10)
	require.NoError(t, err)
	assert.Nil(t, assignments)

	assignments, err = KMeans([][]float32{{1}}, 0, 10)
	require.NoError(t, err)
	assert.Nil(t, assignments)

	_, err = KMeans([][]float32{{1}}, 2, 10)
	assert.Error(t, err)

	_, err = KMeans([][]float32{{1, 2}, {1}}, 2, 10)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
