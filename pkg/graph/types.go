package graph

import (
	"fmt"
	"time"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
)

// RelationshipType labels an edge between two memory nodes.
type RelationshipType string

const (
	SemanticSimilarity RelationshipType = "semantic_similarity"
	TemporalSequence   RelationshipType = "temporal_sequence"
	CausalRelation     RelationshipType = "causal_relation"
	AgentCollaboration RelationshipType = "agent_collaboration"
	ContextSharing     RelationshipType = "context_sharing"
	PatternSimilarity  RelationshipType = "pattern_similarity"
	ToolUsage          RelationshipType = "tool_usage"
	ErrorSolution      RelationshipType = "error_solution"
)

// AllRelationshipTypes lists every relationship type in one-hot order.
func AllRelationshipTypes() []RelationshipType {
	return []RelationshipType{
		SemanticSimilarity, TemporalSequence, CausalRelation, AgentCollaboration,
		ContextSharing, PatternSimilarity, ToolUsage, ErrorSolution,
	}
}

// OneHotIndex returns the position of the type in its one-hot encoding,
// or -1 for an unknown type.
func (r RelationshipType) OneHotIndex() int {
	for i, t := range AllRelationshipTypes() {
		if t == r {
			return i
		}
	}
	return -1
}

func (r RelationshipType) String() string { return string(r) }

// Node is a memory projected into the knowledge graph.
type Node struct {
	ID         string            `json:"id"`
	MemoryID   string            `json:"memory_id"`
	AgentID    string            `json:"agent_id"`
	MemoryType memory.MemoryType `json:"memory_type"`
	Content    string            `json:"content"`
	Embedding  []float32         `json:"embedding,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Edge is a discovered relationship between two nodes. Weight and
// Confidence both carry the embedding similarity that triggered the
// discovery; TemporalStrength is fixed at creation and not recomputed.
type Edge struct {
	ID               string           `json:"id"`
	From             string           `json:"from"`
	To               string           `json:"to"`
	Relationship     RelationshipType `json:"relationship"`
	Weight           float32          `json:"weight"`
	Confidence       float32          `json:"confidence"`
	TemporalStrength float32          `json:"temporal_strength"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ViewMetadata summarizes a graph view.
type ViewMetadata struct {
	TotalNodes     int  `json:"total_nodes"`
	TotalEdges     int  `json:"total_edges"`
	VisibleNodes   int  `json:"visible_nodes"`
	VisibleEdges   int  `json:"visible_edges"`
	NeuralEnhanced bool `json:"neural_enhanced"`
}

// View is an agent-scoped snapshot of the graph.
type View struct {
	Nodes    []Node       `json:"nodes"`
	Edges    []Edge       `json:"edges"`
	Metadata ViewMetadata `json:"metadata"`
}

// Statistics reports the size and composition of the graph.
type Statistics struct {
	TotalNodes           int                      `json:"total_nodes"`
	TotalEdges           int                      `json:"total_edges"`
	CachedNodeEmbeddings int                      `json:"cached_node_embeddings"`
	CachedEdgeEmbeddings int                      `json:"cached_edge_embeddings"`
	AverageDegree        float64                  `json:"average_degree"`
	RelationshipCounts   map[RelationshipType]int `json:"relationship_counts"`
}

// Prediction is a candidate relationship scored by the attention network.
type Prediction struct {
	MemoryID string  `json:"memory_id"`
	NodeID   string  `json:"node_id"`
	Score    float32 `json:"score"`
}

// Config controls the knowledge graph engine.
type Config struct {
	// NodeDim is the length of node embeddings inside the graph.
	NodeDim int `json:"node_dim"`

	// EdgeDim is the length of edge embeddings.
	EdgeDim int `json:"edge_dim"`

	// AttentionHeads is the attention network's output width.
	AttentionHeads int `json:"attention_heads"`

	// MaxNeighbors caps how many edges discovery may attach to one node.
	MaxNeighbors int `json:"max_neighbors"`

	// TemporalWindowHours bounds both relationship discovery and the
	// temporal strength decay.
	TemporalWindowHours float64 `json:"temporal_window_hours"`

	// SimilarityThreshold is the minimum cosine similarity for discovery.
	SimilarityThreshold float32 `json:"similarity_threshold"`

	// LearningRate is the base rate for the graph networks.
	LearningRate float32 `json:"learning_rate"`

	// CacheSizeLimit caps the node embedding cache. Overflow evicts the
	// oldest quarter.
	CacheSizeLimit int `json:"cache_size_limit"`
}

// DefaultConfig returns the standard graph configuration.
func DefaultConfig() Config {
	return Config{
		NodeDim:             128,
		EdgeDim:             64,
		AttentionHeads:      4,
		MaxNeighbors:        50,
		TemporalWindowHours: 24,
		SimilarityThreshold: 0.7,
		LearningRate:        0.001,
		CacheSizeLimit:      10000,
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.NodeDim <= 0 {
		return fmt.Errorf("node_dim must be positive, got %d", c.NodeDim)
	}
	if c.EdgeDim <= 0 {
		return fmt.Errorf("edge_dim must be positive, got %d", c.EdgeDim)
	}
	if c.AttentionHeads <= 0 {
		return fmt.Errorf("attention_heads must be positive, got %d", c.AttentionHeads)
	}
	if c.MaxNeighbors <= 0 {
		return fmt.Errorf("max_neighbors must be positive, got %d", c.MaxNeighbors)
	}
	if c.TemporalWindowHours <= 0 {
		return fmt.Errorf("temporal_window_hours must be positive, got %v", c.TemporalWindowHours)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0, 1], got %v", c.SimilarityThreshold)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %v", c.LearningRate)
	}
	if c.CacheSizeLimit <= 0 {
		return fmt.Errorf("cache_size_limit must be positive, got %d", c.CacheSizeLimit)
	}
	return nil
}
