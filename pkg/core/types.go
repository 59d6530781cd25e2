package core

import (
	"github.com/ob-labs/neuralmem-go/pkg/embedding"
	"github.com/ob-labs/neuralmem-go/pkg/graph"
	"github.com/ob-labs/neuralmem-go/pkg/memory"
)

// MemoryRecord is the engine's memory type.
//
// It is an alias for memory.MemoryRecord so callers can stay within the
// core package for common operations.
type MemoryRecord = memory.MemoryRecord

// SearchMatch pairs a memory record with its similarity score.
type SearchMatch struct {
	// Record is the matching memory.
	Record *memory.MemoryRecord `json:"record"`

	// Score is the cosine similarity to the query (0.0-1.0).
	Score float32 `json:"score"`
}

// SearchResult contains the results of a Search operation.
type SearchResult struct {
	// Matches is the list of matching memories, sorted by score descending.
	Matches []SearchMatch `json:"matches"`

	// TotalCount is the number of candidates considered before filtering.
	TotalCount int `json:"total_count"`
}

// EngineStats aggregates statistics across the engine's components.
//
// Example:
//
//	stats := engine.Statistics()
//	fmt.Printf("memories=%d nodes=%d edges=%d\n",
//	    stats.TotalMemories, stats.Graph.TotalNodes, stats.Graph.TotalEdges)
type EngineStats struct {
	// TotalMemories is the number of memories held by the engine.
	TotalMemories int `json:"total_memories"`

	// MemoriesByType counts memories per memory type.
	MemoriesByType map[memory.MemoryType]int `json:"memories_by_type"`

	// Embedding contains embedding service statistics.
	Embedding embedding.Stats `json:"embedding"`

	// Graph contains knowledge graph statistics.
	Graph graph.Statistics `json:"graph"`

	// Persistent reports whether a record store is configured.
	Persistent bool `json:"persistent"`
}

// TrainingReport summarizes a training run over stored memories.
//
// It is an alias for embedding.TrainingReport.
type TrainingReport = embedding.TrainingReport
