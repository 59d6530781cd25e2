package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorToString(t *testing.T) {
	assert.Equal(t, "[0.5,-1,0.25]", vectorToString([]float32{0.5, -1, 0.25}))
	assert.Equal(t, "[]", vectorToString(nil))
}

func TestStringToVector(t *testing.T) {
	vector, err := stringToVector("[0.5, -1, 0.25]")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 0.25}, vector)

	empty, err := stringToVector("[]")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = stringToVector("[a,b]")
	assert.Error(t, err)
}

func TestVectorRoundTrip(t *testing.T) {
	original := []float32{0.1, 0.2, 0.3, -0.4}

	parsed, err := stringToVector(vectorToString(original))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestBuildWhereClauseWithOffset(t *testing.T) {
	clause, args := buildWhereClauseWithOffset("agent_a", "task", 2)
	assert.Equal(t, "WHERE agent_id = $2 AND memory_type = $3", clause)
	assert.Equal(t, []interface{}{"agent_a", "task"}, args)

	clause, args = buildWhereClauseWithOffset("", "task", 1)
	assert.Equal(t, "WHERE memory_type = $1", clause)
	assert.Equal(t, []interface{}{"task"}, args)

	clause, args = buildWhereClauseWithOffset("", "", 1)
	assert.Empty(t, clause)
	assert.Empty(t, args)
}
