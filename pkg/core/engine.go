package core

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"

	"github.com/ob-labs/neuralmem-go/pkg/embedding"
	"github.com/ob-labs/neuralmem-go/pkg/graph"
	"github.com/ob-labs/neuralmem-go/pkg/memory"
	"github.com/ob-labs/neuralmem-go/pkg/storage"
	mysqlStore "github.com/ob-labs/neuralmem-go/pkg/storage/mysql"
	postgresStore "github.com/ob-labs/neuralmem-go/pkg/storage/postgres"
	sqliteStore "github.com/ob-labs/neuralmem-go/pkg/storage/sqlite"
)

// Engine is the main NeuralMem engine for memory management.
//
// It combines three components:
//   - An embedding service with per-type neural networks
//   - A knowledge graph with automatic relationship discovery
//   - An optional record store for persistence
//
// The engine is thread-safe and can be used concurrently from multiple
// goroutines.
//
// Example usage:
//
//	config := core.DefaultConfig()
//	engine, _ := core.NewEngine(config)
//	defer engine.Close()
//
//	record, _ := engine.AddMemory(ctx, "Deployed service to production",
//	    core.WithAgentID("agent_001"),
//	    core.WithMemoryType(memory.TypeTask),
//	)
type Engine struct {
	// config contains the engine configuration.
	config *Config

	// store is the optional persistence backend (nil when in-memory only).
	store storage.RecordStore

	// embedder is the neural embedding service.
	embedder *embedding.Service

	// graph is the knowledge graph engine.
	graph *graph.Engine

	// records is the in-memory working set, keyed by memory ID.
	records map[string]*memory.MemoryRecord

	// snowflakeNode generates unique IDs for memories.
	snowflakeNode *snowflake.Node

	// mu protects the records map.
	mu sync.RWMutex
}

// NewEngine creates a new NeuralMem engine.
//
// The engine is initialized with:
//   - Embedding service (general + specialized networks)
//   - Knowledge graph (node, edge, and attention networks)
//   - Record store (SQLite, PostgreSQL, or MySQL, if configured)
//
// Parameters:
//   - cfg: Configuration containing embedding, graph, and store settings
//
// Returns a new Engine instance, or an error if initialization fails.
//
// Example:
//
//	config := core.DefaultConfig()
//	config.Store = core.StoreConfig{
//	    Provider: "sqlite",
//	    Config:   map[string]interface{}{"db_path": "./neuralmem.db"},
//	}
//	engine, err := core.NewEngine(config)
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	embedder, err := embedding.NewService(cfg.Embedding)
	if err != nil {
		return nil, NewEngineError("NewEngine", err)
	}

	graphEngine, err := graph.NewEngine(cfg.Graph, embedder)
	if err != nil {
		return nil, NewEngineError("NewEngine", err)
	}

	store, err := initStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewEngineError("NewEngine", err)
	}

	return &Engine{
		config:        cfg,
		store:         store,
		embedder:      embedder,
		graph:         graphEngine,
		records:       make(map[string]*memory.MemoryRecord),
		snowflakeNode: node,
	}, nil
}

// Embedder returns the engine's embedding service.
func (e *Engine) Embedder() *embedding.Service { return e.embedder }

// Graph returns the engine's knowledge graph.
func (e *Engine) Graph() *graph.Engine { return e.graph }

// AddMemory adds a new memory to the engine.
//
// The method:
//  1. Generates a neural embedding for the content
//  2. Persists the memory (if a store is configured)
//  3. Inserts a graph node and discovers relationships
//
// If graph insertion fails, the persisted record is removed again so the
// store and the graph stay consistent.
//
// Parameters:
//   - ctx: Context for cancellation
//   - content: Memory content (text string)
//   - opts: Optional parameters (AgentID, MemoryType, Metadata, Tags, etc.)
//
// Returns the created MemoryRecord, or an error if the operation fails.
//
// Example:
//
//	record, err := engine.AddMemory(ctx, "Fixed the flaky integration test",
//	    core.WithAgentID("agent_001"),
//	    core.WithMemoryType(memory.TypeSuccess),
//	    core.WithTags("ci", "tests"),
//	)
func (e *Engine) AddMemory(ctx context.Context, content string, opts ...AddOption) (*memory.MemoryRecord, error) {
	if content == "" {
		return nil, NewEngineError("AddMemory", ErrInvalidInput)
	}

	addOpts := applyAddOptions(opts)
	if !addOpts.MemoryType.Valid() {
		return nil, NewEngineError("AddMemory", ErrInvalidInput)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	record := memory.NewMemoryRecord(
		e.snowflakeNode.Generate().String(),
		addOpts.AgentID,
		addOpts.MemoryType,
		content,
	)
	if addOpts.Metadata != nil {
		record.Metadata = addOpts.Metadata
	}
	record.Tags = addOpts.Tags
	record.RelevanceScore = addOpts.RelevanceScore

	emb, err := e.embedder.EmbedMemory(record)
	if err != nil {
		return nil, NewEngineError("AddMemory", err)
	}
	record.Embedding = emb

	if e.store != nil {
		if err := e.store.Insert(ctx, toStorageRecord(record)); err != nil {
			return nil, NewEngineError("AddMemory", err)
		}
	}

	if !addOpts.SkipGraph {
		if _, err := e.graph.AddMemoryNode(record); err != nil {
			if e.store != nil {
				_ = e.store.Delete(ctx, record.ID, &storage.DeleteOptions{})
			}
			return nil, NewEngineError("AddMemory", err)
		}
	}

	e.mu.Lock()
	e.records[record.ID] = record
	e.mu.Unlock()

	return record, nil
}

// Get retrieves a memory by its ID with optional access control.
//
// Each successful Get increments the memory's access count.
//
// Parameters:
//   - ctx: Context for cancellation
//   - id: Memory ID
//   - opts: Optional Get options for access control (AgentID)
//
// Returns the MemoryRecord if found and access is granted, or an error
// otherwise.
//
// Example:
//
//	record, err := engine.Get(ctx, memoryID,
//	    core.WithAgentIDForGet("agent_001"))
func (e *Engine) Get(ctx context.Context, id string, opts ...GetOption) (*memory.MemoryRecord, error) {
	getOpts := applyGetOptions(opts)

	e.mu.Lock()
	record, ok := e.records[id]
	if ok {
		if getOpts.AgentID != "" && record.AgentID != getOpts.AgentID {
			e.mu.Unlock()
			return nil, NewEngineError("Get", ErrNotFound)
		}
		record.Touch()
		e.mu.Unlock()
		return record, nil
	}
	e.mu.Unlock()

	if e.store == nil {
		return nil, NewEngineError("Get", ErrNotFound)
	}

	stored, err := e.store.Get(ctx, id, &storage.GetOptions{AgentID: getOpts.AgentID})
	if err != nil {
		return nil, NewEngineError("Get", err)
	}

	record = fromStorageRecord(stored)
	record.Touch()

	e.mu.Lock()
	e.records[record.ID] = record
	e.mu.Unlock()

	return record, nil
}

// Update updates an existing memory's content with optional access control.
//
// The method:
//  1. Generates a new embedding for the updated content
//  2. Updates the store (if configured)
//  3. Replaces the memory's graph node and rediscovers relationships
//
// Parameters:
//   - ctx: Context for cancellation
//   - id: Memory ID to update
//   - content: New content for the memory
//   - opts: Optional Update options (AgentID, Metadata, Tags)
//
// Returns the updated MemoryRecord, or an error if the update fails or
// access is denied.
func (e *Engine) Update(ctx context.Context, id string, content string, opts ...UpdateOption) (*memory.MemoryRecord, error) {
	if content == "" {
		return nil, NewEngineError("Update", ErrInvalidInput)
	}

	updateOpts := applyUpdateOptions(opts)

	e.mu.Lock()
	record, ok := e.records[id]
	if !ok || (updateOpts.AgentID != "" && record.AgentID != updateOpts.AgentID) {
		e.mu.Unlock()
		return nil, NewEngineError("Update", ErrNotFound)
	}

	record.Content = content
	if updateOpts.Metadata != nil {
		record.Metadata = updateOpts.Metadata
	}
	if updateOpts.Tags != nil {
		record.Tags = updateOpts.Tags
	}
	e.mu.Unlock()

	emb, err := e.embedder.EmbedMemory(record)
	if err != nil {
		return nil, NewEngineError("Update", err)
	}

	e.mu.Lock()
	record.Embedding = emb
	record.Touch()
	e.mu.Unlock()

	if e.store != nil {
		if _, err := e.store.Update(ctx, id, content, emb, &storage.UpdateOptions{AgentID: updateOpts.AgentID}); err != nil {
			return nil, NewEngineError("Update", err)
		}
	}

	// Replace the node so edges reflect the new content.
	if err := e.graph.RemoveMemoryNode(id); err == nil {
		if _, err := e.graph.AddMemoryNode(record); err != nil {
			return nil, NewEngineError("Update", err)
		}
	}

	return record, nil
}

// Delete deletes a memory by its ID with optional access control.
//
// The memory is removed from the working set, the store (if configured),
// and the knowledge graph together with all its edges.
//
// Parameters:
//   - ctx: Context for cancellation
//   - id: Memory ID to delete
//   - opts: Optional Delete options for access control (AgentID)
//
// Returns an error if deletion fails or access is denied.
func (e *Engine) Delete(ctx context.Context, id string, opts ...DeleteOption) error {
	deleteOpts := applyDeleteOptions(opts)

	e.mu.Lock()
	record, ok := e.records[id]
	if ok && deleteOpts.AgentID != "" && record.AgentID != deleteOpts.AgentID {
		e.mu.Unlock()
		return NewEngineError("Delete", ErrNotFound)
	}
	delete(e.records, id)
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.Delete(ctx, id, &storage.DeleteOptions{AgentID: deleteOpts.AgentID}); err != nil {
			if !ok {
				return NewEngineError("Delete", err)
			}
		}
	} else if !ok {
		return NewEngineError("Delete", ErrNotFound)
	}

	_ = e.graph.RemoveMemoryNode(id)

	return nil
}

// Search searches for memories using neural embedding similarity.
//
// When a store is configured the search runs against it; otherwise the
// in-memory working set is scanned. Results are sorted by similarity
// score, highest first.
//
// Parameters:
//   - ctx: Context for cancellation
//   - query: Search query (text string)
//   - opts: Optional parameters (AgentID, MemoryType, Limit, MinScore)
//
// Returns a SearchResult, or an error if the search fails.
//
// Example:
//
//	result, err := engine.Search(ctx, "deployment failures",
//	    core.WithAgentIDForSearch("agent_001"),
//	    core.WithLimit(10),
//	    core.WithMinScore(0.5),
//	)
func (e *Engine) Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResult, error) {
	if query == "" {
		return nil, NewEngineError("Search", ErrInvalidInput)
	}

	searchOpts := applySearchOptions(opts)

	if e.store != nil {
		queryEmbedding, err := e.embedder.EmbedText(query)
		if err != nil {
			return nil, NewEngineError("Search", err)
		}

		stored, err := e.store.Search(ctx, queryEmbedding, &storage.SearchOptions{
			AgentID:    searchOpts.AgentID,
			MemoryType: string(searchOpts.MemoryType),
			Limit:      searchOpts.Limit,
			MinScore:   searchOpts.MinScore,
		})
		if err != nil {
			return nil, NewEngineError("Search", err)
		}

		result := &SearchResult{TotalCount: len(stored)}
		for _, r := range stored {
			result.Matches = append(result.Matches, SearchMatch{
				Record: fromStorageRecord(r),
				Score:  r.Score,
			})
		}
		return result, nil
	}

	candidates := e.snapshotRecords(searchOpts.AgentID, searchOpts.MemoryType)

	matches, err := e.embedder.FindSimilarMemories(query, candidates, searchOpts.Limit, searchOpts.MinScore)
	if err != nil {
		return nil, NewEngineError("Search", err)
	}

	result := &SearchResult{TotalCount: len(candidates)}
	for _, m := range matches {
		result.Matches = append(result.Matches, SearchMatch{
			Record: m.Record,
			Score:  m.Similarity,
		})
	}
	return result, nil
}

// List retrieves memories with optional filtering and pagination, newest
// first.
//
// Parameters:
//   - ctx: Context for cancellation
//   - opts: Optional parameters (AgentID, MemoryType, Limit, Offset)
//
// Returns a list of memories, or an error if retrieval fails.
//
// Example:
//
//	records, err := engine.List(ctx,
//	    core.WithAgentIDForList("agent_001"),
//	    core.WithLimitForList(50),
//	)
func (e *Engine) List(ctx context.Context, opts ...ListOption) ([]*memory.MemoryRecord, error) {
	listOpts := applyListOptions(opts)

	if e.store != nil {
		stored, err := e.store.List(ctx, &storage.ListOptions{
			AgentID:    listOpts.AgentID,
			MemoryType: string(listOpts.MemoryType),
			Limit:      listOpts.Limit,
			Offset:     listOpts.Offset,
		})
		if err != nil {
			return nil, NewEngineError("List", err)
		}
		return fromStorageRecords(stored), nil
	}

	records := e.snapshotRecords(listOpts.AgentID, listOpts.MemoryType)
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if listOpts.Offset >= len(records) {
		return nil, nil
	}
	records = records[listOpts.Offset:]
	if listOpts.Limit > 0 && len(records) > listOpts.Limit {
		records = records[:listOpts.Limit]
	}
	return records, nil
}

// SearchByContent retrieves memories whose content contains the given
// substring, case-insensitively, newest first. Unlike Search it matches on
// raw text instead of embedding similarity.
//
// Parameters:
//   - ctx: Context for cancellation
//   - query: Substring to match against memory content
//   - opts: Optional parameters (AgentID, MemoryType, Limit, Offset)
//
// Returns the matching memories, or an error if retrieval fails.
//
// Example:
//
//	records, err := engine.SearchByContent(ctx, "deadline",
//	    core.WithAgentIDForList("agent_001"),
//	)
func (e *Engine) SearchByContent(ctx context.Context, query string, opts ...ListOption) ([]*memory.MemoryRecord, error) {
	if query == "" {
		return nil, NewEngineError("SearchByContent", ErrInvalidInput)
	}

	listOpts := applyListOptions(opts)

	if e.store != nil {
		stored, err := e.store.SearchContent(ctx, query, &storage.ListOptions{
			AgentID:    listOpts.AgentID,
			MemoryType: string(listOpts.MemoryType),
			Limit:      listOpts.Limit,
			Offset:     listOpts.Offset,
		})
		if err != nil {
			return nil, NewEngineError("SearchByContent", err)
		}
		return fromStorageRecords(stored), nil
	}

	needle := strings.ToLower(query)
	var records []*memory.MemoryRecord
	for _, record := range e.snapshotRecords(listOpts.AgentID, listOpts.MemoryType) {
		if strings.Contains(strings.ToLower(record.Content), needle) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if listOpts.Offset >= len(records) {
		return nil, nil
	}
	records = records[listOpts.Offset:]
	if listOpts.Limit > 0 && len(records) > listOpts.Limit {
		records = records[:listOpts.Limit]
	}
	return records, nil
}

// DeleteAll deletes all memories matching the given filters.
//
// If no filters are provided, deletes ALL memories (use with caution).
//
// Parameters:
//   - ctx: Context for cancellation
//   - opts: Optional parameters (AgentID, MemoryType)
//
// Returns an error if deletion fails.
//
// Example:
//
//	err := engine.DeleteAll(ctx, core.WithAgentIDForDeleteAll("agent_001"))
func (e *Engine) DeleteAll(ctx context.Context, opts ...DeleteAllOption) error {
	deleteAllOpts := applyDeleteAllOptions(opts)

	e.mu.Lock()
	for id, record := range e.records {
		if deleteAllOpts.AgentID != "" && record.AgentID != deleteAllOpts.AgentID {
			continue
		}
		if deleteAllOpts.MemoryType != "" && record.MemoryType != deleteAllOpts.MemoryType {
			continue
		}
		delete(e.records, id)
		_ = e.graph.RemoveMemoryNode(id)
	}
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.DeleteAll(ctx, &storage.DeleteAllOptions{
			AgentID:    deleteAllOpts.AgentID,
			MemoryType: string(deleteAllOpts.MemoryType),
		}); err != nil {
			return NewEngineError("DeleteAll", err)
		}
	}

	return nil
}

// EmbedText generates an embedding for raw text using the general network.
func (e *Engine) EmbedText(text string) ([]float32, error) {
	emb, err := e.embedder.EmbedText(text)
	if err != nil {
		return nil, NewEngineError("EmbedText", err)
	}
	return emb, nil
}

// EmbedTextTyped generates an embedding for raw text using the network
// specialized for the given memory type. Unknown types fall back to the
// general network.
func (e *Engine) EmbedTextTyped(text string, memoryType memory.MemoryType) ([]float32, error) {
	emb, err := e.embedder.EmbedTextTyped(text, memoryType)
	if err != nil {
		return nil, NewEngineError("EmbedTextTyped", err)
	}
	return emb, nil
}

// EmbedMemory generates an embedding for a memory record using the
// network specialized for its type.
func (e *Engine) EmbedMemory(record *memory.MemoryRecord) ([]float32, error) {
	emb, err := e.embedder.EmbedMemory(record)
	if err != nil {
		return nil, NewEngineError("EmbedMemory", err)
	}
	return emb, nil
}

// TrainOnMemories trains the embedding networks on the engine's current
// working set, blocking until training finishes.
//
// Training runs each specialized network on its type's memories and the
// general network on all of them. The embedding cache is cleared after
// training so stale embeddings are recomputed.
//
// Returns a TrainingReport, or an error if training fails.
func (e *Engine) TrainOnMemories(ctx context.Context) (*TrainingReport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	records := e.snapshotRecords("", "")
	report, err := e.embedder.TrainOnMemories(records)
	if err != nil {
		return report, NewEngineError("TrainOnMemories", err)
	}
	return report, nil
}

// TryTrainOnMemories trains like TrainOnMemories but returns
// ErrTrainingInProgress immediately if another training run is active.
func (e *Engine) TryTrainOnMemories(ctx context.Context) (*TrainingReport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	records := e.snapshotRecords("", "")
	report, err := e.embedder.TryTrainOnMemories(records)
	if err != nil {
		return report, NewEngineError("TryTrainOnMemories", err)
	}
	return report, nil
}

// PredictRelationships predicts likely relationship targets for a memory
// using the graph's attention network.
//
// Parameters:
//   - memoryID: Memory ID to predict relationships for
//   - limit: Maximum number of predictions to return
//
// Returns predictions sorted by score (highest first), or an error.
func (e *Engine) PredictRelationships(memoryID string, limit int) ([]graph.Prediction, error) {
	predictions, err := e.graph.PredictRelationships(memoryID, limit)
	if err != nil {
		return nil, NewEngineError("PredictRelationships", err)
	}
	return predictions, nil
}

// FindSimilarInGraph searches the knowledge graph's node embeddings for
// memories similar to the query text.
func (e *Engine) FindSimilarInGraph(query string, limit int, minSimilarity float32) ([]graph.Prediction, error) {
	predictions, err := e.graph.FindSimilarMemories(query, limit, minSimilarity)
	if err != nil {
		return nil, NewEngineError("FindSimilarInGraph", err)
	}
	return predictions, nil
}

// GraphView returns a view of the knowledge graph, optionally filtered to
// one agent's memories.
func (e *Engine) GraphView(agentID string) graph.View {
	return e.graph.GraphView(agentID)
}

// TemporalPatterns extracts a temporal pattern vector from the given
// memories using the sequence models.
func (e *Engine) TemporalPatterns(records []*memory.MemoryRecord) ([]float32, error) {
	patterns, err := e.graph.ExtractTemporalPatterns(records)
	if err != nil {
		return nil, NewEngineError("TemporalPatterns", err)
	}
	return patterns, nil
}

// DetectPatterns returns human-readable descriptions of activity patterns
// in the given memories.
func (e *Engine) DetectPatterns(records []*memory.MemoryRecord) []string {
	return e.graph.DetectPatterns(records)
}

// Statistics returns aggregated statistics across the engine's components.
func (e *Engine) Statistics() EngineStats {
	e.mu.RLock()
	byType := make(map[memory.MemoryType]int)
	for _, record := range e.records {
		byType[record.MemoryType]++
	}
	total := len(e.records)
	e.mu.RUnlock()

	return EngineStats{
		TotalMemories:  total,
		MemoriesByType: byType,
		Embedding:      e.embedder.Stats(),
		Graph:          e.graph.Statistics(),
		Persistent:     e.store != nil,
	}
}

// Rebuild reloads the working set and the knowledge graph from the record
// store.
//
// The method clears the graph, loads all records from the store, and
// re-inserts each one so relationships are rediscovered with the current
// networks. It is a no-op when no store is configured.
//
// Returns the number of records loaded, or an error.
func (e *Engine) Rebuild(ctx context.Context) (int, error) {
	if e.store == nil {
		return 0, nil
	}

	stored, err := e.store.List(ctx, &storage.ListOptions{})
	if err != nil {
		return 0, NewEngineError("Rebuild", err)
	}

	e.graph.Clear()

	e.mu.Lock()
	e.records = make(map[string]*memory.MemoryRecord, len(stored))
	e.mu.Unlock()

	loaded := 0
	for _, r := range stored {
		record := fromStorageRecord(r)
		if _, err := e.graph.AddMemoryNode(record); err != nil {
			return loaded, NewEngineError("Rebuild", err)
		}
		e.mu.Lock()
		e.records[record.ID] = record
		e.mu.Unlock()
		loaded++
	}

	return loaded, nil
}

// Close closes the engine and releases all resources.
//
// Example:
//
//	defer engine.Close()
func (e *Engine) Close() error {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			return NewEngineError("Close", err)
		}
	}
	return nil
}

// snapshotRecords copies the working set, optionally filtered by agent
// and memory type.
func (e *Engine) snapshotRecords(agentID string, memoryType memory.MemoryType) []*memory.MemoryRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	records := make([]*memory.MemoryRecord, 0, len(e.records))
	for _, record := range e.records {
		if agentID != "" && record.AgentID != agentID {
			continue
		}
		if memoryType != "" && record.MemoryType != memoryType {
			continue
		}
		records = append(records, record)
	}
	return records
}

// initStore initializes the record store backend.
func initStore(cfg StoreConfig) (storage.RecordStore, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "sqlite":
		return sqliteStore.NewClient(&sqliteStore.Config{
			DBPath:    stringValue(cfg.Config, "db_path", "./neuralmem.db"),
			TableName: stringValue(cfg.Config, "table_name", "memories"),
		})
	case "postgres":
		return postgresStore.NewClient(&postgresStore.Config{
			Host:          stringValue(cfg.Config, "host", "localhost"),
			Port:          intValue(cfg.Config, "port", 5432),
			User:          stringValue(cfg.Config, "user", "postgres"),
			Password:      stringValue(cfg.Config, "password", ""),
			DBName:        stringValue(cfg.Config, "db_name", "neuralmem"),
			TableName:     stringValue(cfg.Config, "table_name", "memories"),
			EmbeddingDims: intValue(cfg.Config, "embedding_dims", 256),
			SSLMode:       stringValue(cfg.Config, "ssl_mode", "disable"),
		})
	case "mysql":
		return mysqlStore.NewClient(&mysqlStore.Config{
			Host:      stringValue(cfg.Config, "host", "127.0.0.1"),
			Port:      intValue(cfg.Config, "port", 3306),
			User:      stringValue(cfg.Config, "user", "root"),
			Password:  stringValue(cfg.Config, "password", ""),
			DBName:    stringValue(cfg.Config, "db_name", "neuralmem"),
			TableName: stringValue(cfg.Config, "table_name", "memories"),
		})
	default:
		return nil, NewEngineError("initStore", ErrInvalidConfig)
	}
}

// stringValue reads a string from a provider config map with a default.
func stringValue(config map[string]interface{}, key, defaultValue string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// intValue reads an int from a provider config map with a default.
func intValue(config map[string]interface{}, key string, defaultValue int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case float64:
		// JSON numbers decode as float64.
		return int(v)
	}
	return defaultValue
}
