package graph

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
)

func newTestAnalyzer(t *testing.T) *SequenceAnalyzer {
	t.Helper()
	analyzer, err := NewSequenceAnalyzer(32, 16, 8)
	require.NoError(t, err)
	return analyzer
}

func recordAt(id string, memoryType memory.MemoryType, content string, createdAt time.Time) *memory.MemoryRecord {
	record := memory.NewMemoryRecord(id, "agent-a", memoryType, content)
	record.CreatedAt = createdAt
	return record
}

func TestMemoryToFeatures(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	record := memory.NewMemoryRecord("1", "a", memory.TypeTask, "abc")
	record.RelevanceScore = 0.5
	record.AccessCount = 50

	features := analyzer.memoryToFeatures(record)
	require.Len(t, features, 32)

	assert.InDelta(t, 0.2, features[0], 1e-6)
	assert.InDelta(t, 3.0/1000.0, features[1], 1e-6)
	assert.InDelta(t, 0.5, features[2], 1e-6)
	assert.InDelta(t, 0.5, features[3], 1e-6)
	assert.InDelta(t, float32('a')/65536.0, features[4], 1e-7)
}

func TestMemoryToFeaturesMultibyte(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	record := memory.NewMemoryRecord("1", "a", memory.TypeTask, "héllo")
	features := analyzer.memoryToFeatures(record)

	// codepoints fill consecutive slots, multibyte runes leave no gaps
	assert.InDelta(t, float32('h')/65536.0, features[4], 1e-7)
	assert.InDelta(t, float32('é')/65536.0, features[5], 1e-7)
	assert.InDelta(t, float32('l')/65536.0, features[6], 1e-7)
	assert.InDelta(t, float32('o')/65536.0, features[8], 1e-7)
}

func TestMemoryToFeaturesCapped(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	record := memory.NewMemoryRecord("1", "a", memory.TypePattern, string(make([]rune, 5000)))
	record.AccessCount = 10000

	features := analyzer.memoryToFeatures(record)
	assert.Equal(t, float32(1), features[1])
	assert.Equal(t, float32(1), features[3])
}

func TestExtractTemporalPatternsEmpty(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	out, err := analyzer.ExtractTemporalPatterns(nil)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), out)
}

func TestExtractTemporalPatterns(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	now := time.Now().UTC()

	records := []*memory.MemoryRecord{
		recordAt("1", memory.TypeTask, "start the job", now.Add(-2*time.Hour)),
		recordAt("2", memory.TypeTask, "job progressing", now.Add(-time.Hour)),
		recordAt("3", memory.TypeTask, "job finished", now),
	}

	out, err := analyzer.ExtractTemporalPatterns(records)
	require.NoError(t, err)
	require.Len(t, out, 8)
	for _, x := range out {
		assert.False(t, math.IsNaN(float64(x)))
	}
}

func TestExtractTemporalPatternsOrderInsensitive(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	now := time.Now().UTC()

	ordered := []*memory.MemoryRecord{
		recordAt("1", memory.TypeLearning, "first lesson", now.Add(-2*time.Hour)),
		recordAt("2", memory.TypeLearning, "second lesson", now.Add(-time.Hour)),
		recordAt("3", memory.TypeLearning, "third lesson", now),
	}
	shuffled := []*memory.MemoryRecord{ordered[2], ordered[0], ordered[1]}

	a, err := analyzer.ExtractTemporalPatterns(ordered)
	require.NoError(t, err)
	b, err := analyzer.ExtractTemporalPatterns(shuffled)
	require.NoError(t, err)
	assert.Equal(t, a, b, "records are ordered by creation time before processing")
}

func TestExtractTemporalPatternsDominantType(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	now := time.Now().UTC()

	conversations := []*memory.MemoryRecord{
		recordAt("1", memory.TypeConversation, "hello", now.Add(-time.Minute)),
		recordAt("2", memory.TypeConversation, "how are you", now),
	}
	tools := []*memory.MemoryRecord{
		recordAt("1", memory.TypeTool, "hello", now.Add(-time.Minute)),
		recordAt("2", memory.TypeTool, "how are you", now),
	}

	a, err := analyzer.ExtractTemporalPatterns(conversations)
	require.NoError(t, err)
	b, err := analyzer.ExtractTemporalPatterns(tools)
	require.NoError(t, err)

	// tool sequences have no dedicated model and fall back to the
	// general one, which has different weights
	assert.NotEqual(t, a, b)
}

func TestDetectPatterns(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	now := time.Now().UTC()

	records := []*memory.MemoryRecord{
		recordAt("1", memory.TypeTask, "a", now.Add(-3*time.Hour)),
		recordAt("2", memory.TypeTask, "b", now.Add(-2*time.Hour)),
		recordAt("3", memory.TypeTask, "c", now.Add(-time.Hour)),
		recordAt("4", memory.TypeLearning, "d", now),
	}

	patterns := analyzer.DetectPatterns(records)
	require.NotEmpty(t, patterns)
	assert.Contains(t, patterns[0], "recurring task activity")
}

func TestDetectPatternsBurst(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	now := time.Now().UTC()

	var records []*memory.MemoryRecord
	for i := 0; i < 5; i++ {
		records = append(records, recordAt("x", memory.TypeContext, "quick", now.Add(time.Duration(i)*time.Minute)))
	}

	patterns := analyzer.DetectPatterns(records)
	require.NotEmpty(t, patterns)
	assert.Contains(t, patterns[len(patterns)-1], "burst of 5 memories")
}

func TestDetectPatternsEmpty(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	assert.Nil(t, analyzer.DetectPatterns(nil))
}
