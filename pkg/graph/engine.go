// Package graph maintains a neural knowledge graph over memory records.
// Nodes carry learned embeddings, edges are discovered by similarity and
// classified by heuristics, and an attention network scores candidate
// relationships.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ob-labs/neuralmem-go/pkg/embedding"
	"github.com/ob-labs/neuralmem-go/pkg/memory"
	"github.com/ob-labs/neuralmem-go/pkg/nn"
)

// ErrNodeNotFound is returned when an operation references a memory that
// has no node in the graph.
var ErrNodeNotFound = errors.New("graph: node not found")

// relationshipFeatureSize is the one-hot relationship block appended to
// node embedding pairs in edge network inputs.
const relationshipFeatureSize = 8

// Engine is the neural knowledge graph. All methods are safe for
// concurrent use.
type Engine struct {
	config   Config
	embedder *embedding.Service

	nodeNet      *nn.Network
	edgeNet      *nn.Network
	attentionNet *nn.Network
	analyzer     *SequenceAnalyzer

	mu        sync.RWMutex
	nodes     map[string]*Node
	edges     map[string]*Edge
	adjacency map[string][]string
	reverse   map[string][]string

	nodeEmbeddings map[string][]float32
	edgeEmbeddings map[string][]float32
	nodeOrder      []string
}

// NewEngine builds the graph networks around the given embedding service.
// The node network projects memory embeddings down to the graph's node
// dimension, so the two configurations compose without restrictions.
func NewEngine(config Config, embedder *embedding.Service) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}
	if embedder == nil {
		return nil, errors.New("graph: embedding service is required")
	}

	nodeNet, err := nn.NewNetworkBuilder().
		InputLayer(embedder.Config().EmbeddingDim).
		HiddenLayer(192, nn.ReLU).
		OutputLayer(config.NodeDim, nn.Linear).
		LearningRate(config.LearningRate).
		Build()
	if err != nil {
		return nil, fmt.Errorf("graph: build node network: %w", err)
	}

	edgeNet, err := nn.NewNetworkBuilder().
		InputLayer(config.NodeDim*2 + relationshipFeatureSize).
		HiddenLayer(128, nn.Tanh).
		HiddenLayer(64, nn.ReLU).
		OutputLayer(config.EdgeDim, nn.Linear).
		LearningRate(config.LearningRate).
		Build()
	if err != nil {
		return nil, fmt.Errorf("graph: build edge network: %w", err)
	}

	attentionNet, err := nn.NewNetworkBuilder().
		InputLayer(config.NodeDim + config.EdgeDim).
		HiddenLayer(64, nn.LeakyReLU).
		HiddenLayer(32, nn.Sigmoid).
		OutputLayer(config.AttentionHeads, nn.Linear).
		LearningRate(config.LearningRate * 0.5).
		Build()
	if err != nil {
		return nil, fmt.Errorf("graph: build attention network: %w", err)
	}

	analyzer, err := NewSequenceAnalyzer(256, 128, config.NodeDim)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:         config,
		embedder:       embedder,
		nodeNet:        nodeNet,
		edgeNet:        edgeNet,
		attentionNet:   attentionNet,
		analyzer:       analyzer,
		nodes:          make(map[string]*Node),
		edges:          make(map[string]*Edge),
		adjacency:      make(map[string][]string),
		reverse:        make(map[string][]string),
		nodeEmbeddings: make(map[string][]float32),
		edgeEmbeddings: make(map[string][]float32),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// NodeID returns the graph node identifier for a memory.
func NodeID(memoryID string) string { return "memory_" + memoryID }

// EdgeID returns the identifier of the edge between two nodes.
func EdgeID(from, to string) string { return fmt.Sprintf("edge_%s_%s", from, to) }

// AddMemoryNode inserts the record into the graph and discovers its
// relationships to existing nodes. Adding an already present memory is a
// no-op returning the existing node.
//
// When discovery fails the node and any half-created edges are removed,
// leaving the graph as it was before the call.
func (e *Engine) AddMemoryNode(record *memory.MemoryRecord) (*Node, error) {
	if record == nil {
		return nil, errors.New("graph: nil record")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	nodeID := NodeID(record.ID)
	if existing, ok := e.nodes[nodeID]; ok {
		return existing, nil
	}

	nodeEmb, err := e.projectRecord(record)
	if err != nil {
		return nil, err
	}

	node := &Node{
		ID:         nodeID,
		MemoryID:   record.ID,
		AgentID:    record.AgentID,
		MemoryType: record.MemoryType,
		Content:    record.Content,
		Embedding:  nodeEmb,
		CreatedAt:  record.CreatedAt,
	}
	e.nodes[nodeID] = node
	e.cacheNodeEmbedding(nodeID, nodeEmb)

	created, err := e.discoverRelationships(node)
	if err != nil {
		e.rollbackNode(node, created)
		return nil, err
	}
	return node, nil
}

// projectRecord turns a record into a node embedding. A stored memory
// embedding of the right width is reused; otherwise the record is
// embedded first.
func (e *Engine) projectRecord(record *memory.MemoryRecord) ([]float32, error) {
	memEmb := record.Embedding
	if len(memEmb) != e.embedder.Config().EmbeddingDim {
		var err error
		memEmb, err = e.embedder.EmbedMemory(record)
		if err != nil {
			return nil, fmt.Errorf("graph: embed memory %s: %w", record.ID, err)
		}
	}
	projected, err := e.nodeNet.Run(memEmb)
	if err != nil {
		return nil, fmt.Errorf("graph: project node embedding: %w", err)
	}
	return nn.Normalize(projected), nil
}

func (e *Engine) cacheNodeEmbedding(nodeID string, emb []float32) {
	if len(e.nodeEmbeddings) >= e.config.CacheSizeLimit {
		evict := len(e.nodeOrder) / 4
		for _, old := range e.nodeOrder[:evict] {
			delete(e.nodeEmbeddings, old)
		}
		e.nodeOrder = e.nodeOrder[evict:]
	}
	e.nodeEmbeddings[nodeID] = emb
	e.nodeOrder = append(e.nodeOrder, nodeID)
}

// discoverRelationships links the node to recent similar nodes. Nodes
// outside the temporal window are skipped. Stops once MaxNeighbors edges
// were created.
func (e *Engine) discoverRelationships(node *Node) ([]*Edge, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(e.config.TemporalWindowHours * float64(time.Hour)))

	candidates := make([]string, 0, len(e.nodes))
	for id := range e.nodes {
		if id != node.ID {
			candidates = append(candidates, id)
		}
	}
	sort.Strings(candidates)

	var created []*Edge
	for _, id := range candidates {
		other := e.nodes[id]
		if other.CreatedAt.Before(cutoff) {
			continue
		}
		sim := nn.CosineSimilarity(node.Embedding, other.Embedding)
		if sim < e.config.SimilarityThreshold {
			continue
		}

		relationship, err := e.classifyRelationship(node, other, sim)
		if err != nil {
			return created, err
		}
		edge, err := e.createEdge(node, other, relationship, sim)
		if err != nil {
			return created, err
		}
		created = append(created, edge)
		if len(created) >= e.config.MaxNeighbors {
			break
		}
	}
	return created, nil
}

// classifyRelationship picks the edge label for a similar node pair. The
// rules run first-match-wins; a shared non-empty agent always reads as
// collaboration, so the temporal rule only applies to agent-less pairs.
func (e *Engine) classifyRelationship(a, b *Node, similarity float32) (RelationshipType, error) {
	if similarity > 0.9 {
		return SemanticSimilarity, nil
	}
	if a.AgentID != "" && a.AgentID == b.AgentID {
		return AgentCollaboration, nil
	}
	if a.AgentID == b.AgentID && a.CreatedAt.Sub(b.CreatedAt).Abs() < time.Hour {
		return TemporalSequence, nil
	}
	if (a.MemoryType == memory.TypeError && b.MemoryType == memory.TypeSuccess) ||
		(a.MemoryType == memory.TypeSuccess && b.MemoryType == memory.TypeError) {
		return ErrorSolution, nil
	}
	if a.MemoryType == memory.TypeTool || b.MemoryType == memory.TypeTool {
		return ToolUsage, nil
	}
	if a.MemoryType == memory.TypePattern || b.MemoryType == memory.TypePattern {
		return PatternSimilarity, nil
	}
	contextSim, err := e.contentSimilarity(a, b)
	if err != nil {
		return "", err
	}
	if contextSim > 0.8 {
		return ContextSharing, nil
	}
	return SemanticSimilarity, nil
}

// contentSimilarity compares the raw contents through the general
// network, independent of the node-space similarity that triggered
// discovery.
func (e *Engine) contentSimilarity(a, b *Node) (float32, error) {
	embA, err := e.embedder.EmbedText(a.Content)
	if err != nil {
		return 0, fmt.Errorf("graph: context similarity: %w", err)
	}
	embB, err := e.embedder.EmbedText(b.Content)
	if err != nil {
		return 0, fmt.Errorf("graph: context similarity: %w", err)
	}
	return nn.CosineSimilarity(embA, embB), nil
}

func (e *Engine) createEdge(from, to *Node, relationship RelationshipType, similarity float32) (*Edge, error) {
	feature := edgeFeature(from.Embedding, to.Embedding, relationship, e.config.NodeDim)
	edgeEmb, err := e.edgeNet.Run(feature)
	if err != nil {
		return nil, fmt.Errorf("graph: edge embedding %s -> %s: %w", from.ID, to.ID, err)
	}

	// Rounding in the similarity can creep past 1; weight and confidence
	// stay in [0, 1].
	confidence := similarity
	if confidence > 1 {
		confidence = 1
	}

	// Both timestamps are the creation instant, so the strength starts at
	// 1.0 and is never recomputed afterwards.
	now := time.Now().UTC()
	edge := &Edge{
		ID:               EdgeID(from.ID, to.ID),
		From:             from.ID,
		To:               to.ID,
		Relationship:     relationship,
		Weight:           confidence,
		Confidence:       confidence,
		TemporalStrength: temporalStrength(now, now, e.config.TemporalWindowHours),
		CreatedAt:        now,
	}
	e.edges[edge.ID] = edge
	e.edgeEmbeddings[edge.ID] = edgeEmb
	e.adjacency[from.ID] = append(e.adjacency[from.ID], to.ID)
	e.reverse[to.ID] = append(e.reverse[to.ID], from.ID)
	return edge, nil
}

// edgeFeature concatenates both node embeddings with the one-hot
// relationship encoding. An unknown or empty relationship leaves the
// one-hot block zeroed, which is what relationship prediction feeds in.
func edgeFeature(from, to []float32, relationship RelationshipType, nodeDim int) []float32 {
	feature := make([]float32, nodeDim*2+relationshipFeatureSize)
	copy(feature, from)
	copy(feature[nodeDim:], to)
	if idx := relationship.OneHotIndex(); idx >= 0 {
		feature[nodeDim*2+idx] = 1
	}
	return feature
}

// temporalStrength decays linearly from 1.0 to 0 as the creation gap
// approaches the temporal window.
func temporalStrength(a, b time.Time, windowHours float64) float32 {
	hours := math.Abs(a.Sub(b).Hours())
	strength := 1 - hours/windowHours
	if strength < 0 {
		strength = 0
	}
	return float32(strength)
}

func (e *Engine) rollbackNode(node *Node, created []*Edge) {
	for _, edge := range created {
		delete(e.edges, edge.ID)
		delete(e.edgeEmbeddings, edge.ID)
		e.adjacency[edge.From] = removeID(e.adjacency[edge.From], edge.To)
		e.reverse[edge.To] = removeID(e.reverse[edge.To], edge.From)
	}
	delete(e.nodes, node.ID)
	delete(e.nodeEmbeddings, node.ID)
	if n := len(e.nodeOrder); n > 0 && e.nodeOrder[n-1] == node.ID {
		e.nodeOrder = e.nodeOrder[:n-1]
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// RemoveMemoryNode deletes the node and every incident edge.
func (e *Engine) RemoveMemoryNode(memoryID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	nodeID := NodeID(memoryID)
	if _, ok := e.nodes[nodeID]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, memoryID)
	}

	for id, edge := range e.edges {
		if edge.From != nodeID && edge.To != nodeID {
			continue
		}
		delete(e.edges, id)
		delete(e.edgeEmbeddings, id)
		e.adjacency[edge.From] = removeID(e.adjacency[edge.From], edge.To)
		e.reverse[edge.To] = removeID(e.reverse[edge.To], edge.From)
	}
	delete(e.adjacency, nodeID)
	delete(e.reverse, nodeID)
	delete(e.nodes, nodeID)
	delete(e.nodeEmbeddings, nodeID)
	return nil
}

// GetNode returns the node for a memory.
func (e *Engine) GetNode(memoryID string) (*Node, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	node, ok := e.nodes[NodeID(memoryID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, memoryID)
	}
	return node, nil
}

// PredictRelationships scores every other node as a relationship
// candidate for the given memory. The edge network embeds the untyped
// pair and the attention network scores it; the mean over attention heads
// is the candidate's score. Results come back best first, capped at
// limit when limit is positive.
func (e *Engine) PredictRelationships(memoryID string, limit int) ([]Prediction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	from, ok := e.nodes[NodeID(memoryID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, memoryID)
	}

	predictions := make([]Prediction, 0, len(e.nodes)-1)
	for id, other := range e.nodes {
		if id == from.ID {
			continue
		}
		feature := edgeFeature(from.Embedding, other.Embedding, "", e.config.NodeDim)
		edgeEmb, err := e.edgeNet.Run(feature)
		if err != nil {
			return nil, fmt.Errorf("graph: predict edge embedding: %w", err)
		}

		attentionInput := make([]float32, 0, e.config.NodeDim+e.config.EdgeDim)
		attentionInput = append(attentionInput, from.Embedding...)
		attentionInput = append(attentionInput, edgeEmb...)
		heads, err := e.attentionNet.Run(attentionInput)
		if err != nil {
			return nil, fmt.Errorf("graph: attention score: %w", err)
		}

		var sum float32
		for _, h := range heads {
			sum += h
		}
		predictions = append(predictions, Prediction{
			MemoryID: other.MemoryID,
			NodeID:   other.ID,
			Score:    sum / float32(len(heads)),
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})
	if limit > 0 && len(predictions) > limit {
		predictions = predictions[:limit]
	}
	return predictions, nil
}

// FindSimilarMemories projects the query into node space and ranks nodes
// by cosine similarity.
func (e *Engine) FindSimilarMemories(query string, limit int, minSimilarity float32) ([]Prediction, error) {
	queryEmb, err := e.embedder.EmbedText(query)
	if err != nil {
		return nil, fmt.Errorf("graph: embed query: %w", err)
	}
	projected, err := e.nodeNet.Run(queryEmb)
	if err != nil {
		return nil, fmt.Errorf("graph: project query: %w", err)
	}
	projected = nn.Normalize(projected)

	e.mu.RLock()
	defer e.mu.RUnlock()

	matches := make([]Prediction, 0, len(e.nodes))
	for _, node := range e.nodes {
		sim := nn.CosineSimilarity(projected, node.Embedding)
		if sim < minSimilarity {
			continue
		}
		matches = append(matches, Prediction{
			MemoryID: node.MemoryID,
			NodeID:   node.ID,
			Score:    sim,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// GraphView snapshots the graph for one agent. An empty agentID returns
// every node. Edges appear only when both endpoints are visible.
func (e *Engine) GraphView(agentID string) View {
	e.mu.RLock()
	defer e.mu.RUnlock()

	visible := make(map[string]bool, len(e.nodes))
	var nodes []Node
	for id, node := range e.nodes {
		if agentID != "" && node.AgentID != agentID {
			continue
		}
		visible[id] = true
		nodes = append(nodes, *node)
	}

	var edges []Edge
	for _, edge := range e.edges {
		if visible[edge.From] && visible[edge.To] {
			edges = append(edges, *edge)
		}
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	return View{
		Nodes: nodes,
		Edges: edges,
		Metadata: ViewMetadata{
			TotalNodes:     len(e.nodes),
			TotalEdges:     len(e.edges),
			VisibleNodes:   len(nodes),
			VisibleEdges:   len(edges),
			NeuralEnhanced: true,
		},
	}
}

// Statistics reports graph sizes, cache fill and relationship mix.
func (e *Engine) Statistics() Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	counts := make(map[RelationshipType]int)
	for _, edge := range e.edges {
		counts[edge.Relationship]++
	}

	degreeSum := 0
	for _, neighbors := range e.adjacency {
		degreeSum += len(neighbors)
	}
	for _, neighbors := range e.reverse {
		degreeSum += len(neighbors)
	}
	avgDegree := 0.0
	if len(e.nodes) > 0 {
		avgDegree = float64(degreeSum) / float64(len(e.nodes))
	}

	return Statistics{
		TotalNodes:           len(e.nodes),
		TotalEdges:           len(e.edges),
		CachedNodeEmbeddings: len(e.nodeEmbeddings),
		CachedEdgeEmbeddings: len(e.edgeEmbeddings),
		AverageDegree:        avgDegree,
		RelationshipCounts:   counts,
	}
}

// ExtractTemporalPatterns runs the records through the sequence analyzer.
func (e *Engine) ExtractTemporalPatterns(records []*memory.MemoryRecord) ([]float32, error) {
	return e.analyzer.ExtractTemporalPatterns(records)
}

// DetectPatterns describes recurring temporal structure in the records.
func (e *Engine) DetectPatterns(records []*memory.MemoryRecord) []string {
	return e.analyzer.DetectPatterns(records)
}

// Clear drops every node, edge and cached embedding.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nodes = make(map[string]*Node)
	e.edges = make(map[string]*Edge)
	e.adjacency = make(map[string][]string)
	e.reverse = make(map[string][]string)
	e.nodeEmbeddings = make(map[string][]float32)
	e.edgeEmbeddings = make(map[string][]float32)
	e.nodeOrder = nil
}
