package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	neuralmem "github.com/ob-labs/neuralmem-go/pkg/core"
	"github.com/ob-labs/neuralmem-go/pkg/memory"
)

func TestAddOptions(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	record, err := engine.AddMemory(ctx, "configured the staging cluster",
		neuralmem.WithAgentID("agent_a"),
		neuralmem.WithMemoryType(memory.TypeTask),
		neuralmem.WithMetadata(map[string]string{"env": "staging"}),
		neuralmem.WithTags("infra", "config"),
		neuralmem.WithRelevanceScore(0.8),
	)
	require.NoError(t, err)

	assert.Equal(t, "agent_a", record.AgentID)
	assert.Equal(t, memory.TypeTask, record.MemoryType)
	assert.Equal(t, "staging", record.Metadata["env"])
	assert.Equal(t, []string{"infra", "config"}, record.Tags)
	assert.InDelta(t, 0.8, record.RelevanceScore, 1e-6)
}

func TestAddOptionsDefaults(t *testing.T) {
	engine := newTestEngine(t)

	record, err := engine.AddMemory(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Equal(t, memory.TypeConversation, record.MemoryType)
	assert.InDelta(t, 1.0, record.RelevanceScore, 1e-6)
	assert.Empty(t, record.AgentID)
}

func TestAddInvalidMemoryType(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.AddMemory(context.Background(), "content",
		neuralmem.WithMemoryType(memory.MemoryType("bogus")))
	assert.ErrorIs(t, err, neuralmem.ErrInvalidInput)
}

func TestSearchOptionsFiltering(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.AddMemory(ctx, "alpha content",
		neuralmem.WithAgentID("agent_a"), neuralmem.WithMemoryType(memory.TypeTask))
	require.NoError(t, err)
	_, err = engine.AddMemory(ctx, "beta content",
		neuralmem.WithAgentID("agent_b"), neuralmem.WithMemoryType(memory.TypeLearning))
	require.NoError(t, err)

	result, err := engine.Search(ctx, "content",
		neuralmem.WithAgentIDForSearch("agent_a"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	for _, m := range result.Matches {
		assert.Equal(t, "agent_a", m.Record.AgentID)
	}

	result, err = engine.Search(ctx, "content",
		neuralmem.WithMemoryTypeForSearch(memory.TypeLearning))
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
}

func TestListOptionsPagination(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := engine.AddMemory(ctx, "entry number "+string(rune('a'+i)),
			neuralmem.WithAgentID("agent_a"))
		require.NoError(t, err)
	}

	page, err := engine.List(ctx,
		neuralmem.WithAgentIDForList("agent_a"),
		neuralmem.WithLimitForList(2),
	)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := engine.List(ctx,
		neuralmem.WithAgentIDForList("agent_a"),
		neuralmem.WithOffset(4),
	)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	beyond, err := engine.List(ctx, neuralmem.WithOffset(100))
	require.NoError(t, err)
	assert.Empty(t, beyond)
}
