package embedding

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
	"github.com/ob-labs/neuralmem-go/pkg/nn"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.EmbeddingDim = 32
	cfg.MaxTextLength = 64
	cfg.TrainingEpochs = 3
	cfg.CacheSizeLimit = 50
	return cfg
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService(testConfig())
	require.NoError(t, err)
	return service
}

func TestNewServiceInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.EmbeddingDim = 0
	_, err := NewService(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.CacheSizeLimit = -1
	_, err = NewService(cfg)
	assert.Error(t, err)
}

func TestEmbedTextShapeAndDeterminism(t *testing.T) {
	service := newTestService(t)

	first, err := service.EmbedText("the quick brown fox")
	require.NoError(t, err)
	assert.Len(t, first, 32)

	second, err := service.EmbedText("the quick brown fox")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmbedTextNormalized(t *testing.T) {
	service := newTestService(t)

	emb, err := service.EmbedText("some text to embed")
	require.NoError(t, err)

	var sum float64
	for _, x := range emb {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestEmbedTextTyped(t *testing.T) {
	service := newTestService(t)

	typed, err := service.EmbedTextTyped("Complete the task successfully", memory.TypeTask)
	require.NoError(t, err)
	assert.Len(t, typed, 32)

	untyped, err := service.EmbedText("Complete the task successfully")
	require.NoError(t, err)

	sim := nn.CosineSimilarity(typed, untyped)
	assert.LessOrEqual(t, sim, float32(1.0001), "specialized output may diverge but similarity stays bounded")

	again, err := service.EmbedTextTyped("Complete the task successfully", memory.TypeTask)
	require.NoError(t, err)
	assert.Equal(t, typed, again)

	fallback, err := service.EmbedTextTyped("Complete the task successfully", memory.MemoryType("bogus"))
	require.NoError(t, err)
	assert.Equal(t, untyped, fallback, "unknown types use the general network")
}

func TestEmbedMemoryUsesSpecializedNetwork(t *testing.T) {
	service := newTestService(t)

	task := memory.NewMemoryRecord("1", "a", memory.TypeTask, "identical content")
	learning := memory.NewMemoryRecord("2", "a", memory.TypeLearning, "identical content")

	taskEmb, err := service.EmbedMemory(task)
	require.NoError(t, err)
	learningEmb, err := service.EmbedMemory(learning)
	require.NoError(t, err)

	assert.Len(t, taskEmb, 32)
	assert.NotEqual(t, taskEmb, learningEmb, "different types should route to different networks")
}

func TestEmbedMemoryNil(t *testing.T) {
	service := newTestService(t)
	_, err := service.EmbedMemory(nil)
	assert.Error(t, err)
}

func TestEmbedMemoryCached(t *testing.T) {
	service := newTestService(t)

	record := memory.NewMemoryRecord("1", "a", memory.TypePattern, "repeated lookups")
	_, err := service.EmbedMemory(record)
	require.NoError(t, err)

	before := service.Stats().CacheSize
	_, err = service.EmbedMemory(record)
	require.NoError(t, err)
	assert.Equal(t, before, service.Stats().CacheSize, "second lookup should hit the cache")
}

func TestCacheEvictionClearsAll(t *testing.T) {
	cfg := testConfig()
	cfg.CacheSizeLimit = 5
	service, err := NewService(cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := service.EmbedText(fmt.Sprintf("text %d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 5, service.Stats().CacheSize)

	// hitting the limit drops the whole cache before inserting
	_, err = service.EmbedText("text 5")
	require.NoError(t, err)
	assert.Equal(t, 1, service.Stats().CacheSize)
}

func TestEmbedBatch(t *testing.T) {
	service := newTestService(t)

	records := []*memory.MemoryRecord{
		memory.NewMemoryRecord("1", "a", memory.TypeTask, "first"),
		memory.NewMemoryRecord("2", "a", memory.TypeError, "second"),
	}
	embeddings, err := service.EmbedBatch(records)
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Len(t, embeddings[0], 32)
}

func TestTrainOnMemories(t *testing.T) {
	service := newTestService(t)

	records := []*memory.MemoryRecord{
		memory.NewMemoryRecord("1", "a", memory.TypeTask, "deploy service to production"),
		memory.NewMemoryRecord("2", "a", memory.TypeTask, "rollback failed deployment"),
		memory.NewMemoryRecord("3", "a", memory.TypeLearning, "learned about connection pooling"),
	}

	report, err := service.TrainOnMemories(records)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TrainedRecords)
	assert.Equal(t, 3, report.Epochs)
	assert.Contains(t, report.FinalLoss, memory.TypeTask)
	assert.Contains(t, report.FinalLoss, memory.TypeLearning)
	assert.False(t, math.IsNaN(float64(report.GeneralLoss)))
}

func TestTrainOnMemoriesClearsCache(t *testing.T) {
	service := newTestService(t)

	_, err := service.EmbedText("cached before training")
	require.NoError(t, err)
	require.Greater(t, service.Stats().CacheSize, 0)

	_, err = service.TrainOnMemories([]*memory.MemoryRecord{
		memory.NewMemoryRecord("1", "a", memory.TypeTask, "something"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, service.Stats().CacheSize)
}

func TestTrainOnMemoriesEmpty(t *testing.T) {
	service := newTestService(t)

	report, err := service.TrainOnMemories(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TrainedRecords)
}

func TestTryTrainOnMemoriesLocked(t *testing.T) {
	service := newTestService(t)

	service.trainMu.Lock()
	_, err := service.TryTrainOnMemories([]*memory.MemoryRecord{
		memory.NewMemoryRecord("1", "a", memory.TypeTask, "blocked"),
	})
	service.trainMu.Unlock()
	assert.ErrorIs(t, err, ErrTrainingInProgress)

	_, err = service.TryTrainOnMemories(nil)
	assert.NoError(t, err)
}

func TestFindSimilarMemories(t *testing.T) {
	service := newTestService(t)

	records := []*memory.MemoryRecord{
		memory.NewMemoryRecord("1", "a", memory.TypeTask, "database migration steps"),
		memory.NewMemoryRecord("2", "a", memory.TypeTask, "frontend styling tweaks"),
		memory.NewMemoryRecord("3", "a", memory.TypeError, "migration script failed"),
	}

	matches, err := service.FindSimilarMemories("database migration", records, 2, -1)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.LessOrEqual(t, len(matches), 2)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Similarity, matches[i].Similarity)
	}
}

func TestFindSimilarMemoriesThreshold(t *testing.T) {
	service := newTestService(t)

	records := []*memory.MemoryRecord{
		memory.NewMemoryRecord("1", "a", memory.TypeTask, "anything at all"),
	}
	matches, err := service.FindSimilarMemories("query", records, 10, 1.1)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStats(t *testing.T) {
	service := newTestService(t)

	stats := service.Stats()
	assert.Equal(t, 9, stats.NetworkCount)
	assert.Equal(t, 32, stats.EmbeddingDim)
	assert.Equal(t, 50, stats.CacheLimit)
	assert.Greater(t, stats.TotalParameters, 0)
}
