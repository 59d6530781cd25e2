package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
)

func TestTextToFeaturesLength(t *testing.T) {
	features := TextToFeatures("hello world", 128)
	assert.Len(t, features, 128)

	for _, f := range features {
		assert.GreaterOrEqual(t, f, float32(0))
	}
}

func TestTextToFeaturesCodepoints(t *testing.T) {
	features := TextToFeatures("ab", 64)
	assert.InDelta(t, float32('a')/65536.0, features[0], 1e-7)
	assert.InDelta(t, float32('b')/65536.0, features[1], 1e-7)
	assert.Equal(t, float32(0), features[2])
}

func TestTextToFeaturesStatistics(t *testing.T) {
	text := "Hello, World!"
	features := TextToFeatures(text, 64)

	// short text leaves room for the trailing statistics block
	assert.InDelta(t, float32(13)/1000.0, features[54], 1e-6)
	assert.InDelta(t, float32(2)/100.0, features[55], 1e-6)
	assert.Greater(t, features[56], float32(0))
	assert.Greater(t, features[57], float32(0))
	assert.Greater(t, features[58], float32(0))
}

func TestTextToFeaturesTruncation(t *testing.T) {
	long := make([]rune, 200)
	for i := range long {
		long[i] = 'x'
	}
	features := TextToFeatures(string(long), 64)
	assert.Len(t, features, 64)
	// no room for statistics when the text fills the window
	assert.InDelta(t, float32('x')/65536.0, features[63], 1e-7)
}

func TestEnhanceText(t *testing.T) {
	record := memory.NewMemoryRecord("1", "agent-a", memory.TypeTask, "deploy the service")
	record.WithMetadata("env", "prod").WithMetadata("cluster", "eu-1")
	record.WithTags("deploy", "ops")

	enhanced := EnhanceText(record)
	assert.Equal(t, "deploy the service [TYPE:task] [cluster:eu-1] [env:prod] [TAGS:deploy,ops]", enhanced)
}

func TestEnhanceTextBare(t *testing.T) {
	record := memory.NewMemoryRecord("1", "agent-a", memory.TypeContext, "plain")
	assert.Equal(t, "plain [TYPE:context]", EnhanceText(record))
}

func TestTargetEmbeddingDeterministic(t *testing.T) {
	a := targetEmbedding("same content", memory.TypeTask, 256)
	b := targetEmbedding("same content", memory.TypeTask, 256)
	assert.Equal(t, a, b)

	c := targetEmbedding("other content", memory.TypeTask, 256)
	assert.NotEqual(t, a, c)
}

func TestTargetEmbeddingTypeBias(t *testing.T) {
	taskTarget := targetEmbedding("same content", memory.TypeTask, 256)
	errTarget := targetEmbedding("same content", memory.TypeError, 256)
	assert.NotEqual(t, taskTarget, errTarget)
}

func TestTargetEmbeddingNormalized(t *testing.T) {
	target := targetEmbedding("anything", memory.TypeLearning, 128)
	require.Len(t, target, 128)

	var sum float64
	for _, x := range target {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestCacheKeyIncludesType(t *testing.T) {
	assert.NotEqual(t, cacheKey("text", memory.TypeTask), cacheKey("text", memory.TypeError))
	assert.Equal(t, cacheKey("text", memory.TypeTask), cacheKey("text", memory.TypeTask))
}
