package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
)

func TestMemoryTypeValid(t *testing.T) {
	for _, memoryType := range memory.AllTypes() {
		assert.True(t, memoryType.Valid(), memoryType.String())
	}

	assert.False(t, memory.MemoryType("").Valid())
	assert.False(t, memory.MemoryType("bogus").Valid())
}

func TestAllTypesCount(t *testing.T) {
	assert.Len(t, memory.AllTypes(), 8)
}

func TestSequenceCodesDistinct(t *testing.T) {
	seen := make(map[float32]memory.MemoryType)
	for _, memoryType := range memory.AllTypes() {
		code := memoryType.SequenceCode()
		assert.Greater(t, code, float32(0))
		_, dup := seen[code]
		assert.False(t, dup, "duplicate sequence code for %s", memoryType)
		seen[code] = memoryType
	}

	assert.Equal(t, float32(0), memory.MemoryType("bogus").SequenceCode())
}

func TestTargetBiasOrdering(t *testing.T) {
	assert.InDelta(t, 0.1, memory.TypeConversation.TargetBias(), 1e-6)
	assert.InDelta(t, 0.4, memory.TypePattern.TargetBias(), 1e-6)
	assert.InDelta(t, 0.8, memory.TypeSuccess.TargetBias(), 1e-6)
	assert.Equal(t, float32(0), memory.MemoryType("bogus").TargetBias())
}

func TestNewMemoryRecord(t *testing.T) {
	record := memory.NewMemoryRecord("id-1", "agent_a", memory.TypeTask, "do the thing")

	assert.Equal(t, "id-1", record.ID)
	assert.Equal(t, "agent_a", record.AgentID)
	assert.Equal(t, memory.TypeTask, record.MemoryType)
	assert.Equal(t, "do the thing", record.Content)
	assert.InDelta(t, 1.0, record.RelevanceScore, 1e-6)
	assert.NotNil(t, record.Metadata)
	assert.Zero(t, record.AccessCount)
	assert.Equal(t, record.CreatedAt, record.UpdatedAt)
	assert.Equal(t, time.UTC, record.CreatedAt.Location())
}

func TestRecordBuilders(t *testing.T) {
	record := memory.NewMemoryRecord("id-2", "", memory.TypeContext, "ctx").
		WithTags("a", "b").
		WithMetadata("env", "prod").
		WithEmbedding([]float32{1, 2, 3})

	assert.Equal(t, []string{"a", "b"}, record.Tags)
	assert.Equal(t, "prod", record.Metadata["env"])
	assert.Len(t, record.Embedding, 3)
}

func TestTouch(t *testing.T) {
	record := memory.NewMemoryRecord("id-3", "", memory.TypeTool, "tool call")
	before := record.UpdatedAt

	record.Touch()
	record.Touch()

	assert.Equal(t, 2, record.AccessCount)
	assert.False(t, record.UpdatedAt.Before(before))
}

func TestExtractKeywords(t *testing.T) {
	keywords := memory.ExtractKeywords("The deployment failed because the database connection timed out.", 10)

	assert.Contains(t, keywords, "deployment")
	assert.Contains(t, keywords, "database")
	assert.Contains(t, keywords, "connection")
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "out")
}

func TestExtractKeywordsLimitAndDedup(t *testing.T) {
	keywords := memory.ExtractKeywords("alpha alpha beta gamma delta epsilon", 3)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, keywords)

	assert.Empty(t, memory.ExtractKeywords("a an to", 5))
}
