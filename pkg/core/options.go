package core

import "github.com/ob-labs/neuralmem-go/pkg/memory"

// AddOption is a function type for configuring AddMemory operations.
//
// Options are applied using the functional options pattern, allowing
// flexible configuration without requiring all parameters.
type AddOption func(*AddOptions)

// AddOptions contains configuration options for AddMemory operations.
type AddOptions struct {
	// AgentID identifies the agent associated with this memory.
	AgentID string

	// MemoryType categorizes the memory. Defaults to TypeConversation.
	MemoryType memory.MemoryType

	// Metadata contains additional metadata about the memory.
	Metadata map[string]string

	// Tags contains free-form labels attached to the memory.
	Tags []string

	// RelevanceScore is the initial relevance of the memory.
	// Default: 1.0
	RelevanceScore float32

	// SkipGraph disables relationship discovery for this memory.
	SkipGraph bool
}

// WithAgentID sets the agent ID for AddMemory operations.
//
// Example:
//
//	record, _ := engine.AddMemory(ctx, "content", core.WithAgentID("agent_001"))
func WithAgentID(agentID string) AddOption {
	return func(opts *AddOptions) {
		opts.AgentID = agentID
	}
}

// WithMemoryType sets the memory type for AddMemory operations.
//
// Example:
//
//	record, _ := engine.AddMemory(ctx, "content", core.WithMemoryType(memory.TypeTask))
func WithMemoryType(memoryType memory.MemoryType) AddOption {
	return func(opts *AddOptions) {
		opts.MemoryType = memoryType
	}
}

// WithMetadata sets metadata for AddMemory operations.
//
// Metadata participates in embedding enhancement and can be used for
// additional context.
//
// Example:
//
//	record, _ := engine.AddMemory(ctx, "content",
//	    core.WithMetadata(map[string]string{
//	        "source":   "conversation",
//	        "priority": "high",
//	    }),
//	)
func WithMetadata(metadata map[string]string) AddOption {
	return func(opts *AddOptions) {
		opts.Metadata = metadata
	}
}

// WithTags sets tags for AddMemory operations.
//
// Example:
//
//	record, _ := engine.AddMemory(ctx, "content", core.WithTags("deploy", "ops"))
func WithTags(tags ...string) AddOption {
	return func(opts *AddOptions) {
		opts.Tags = tags
	}
}

// WithRelevanceScore sets the initial relevance score for AddMemory operations.
func WithRelevanceScore(score float32) AddOption {
	return func(opts *AddOptions) {
		opts.RelevanceScore = score
	}
}

// WithSkipGraph disables knowledge graph insertion for AddMemory operations.
//
// The memory is still embedded and stored, but no graph node is created
// and no relationships are discovered.
func WithSkipGraph(skip bool) AddOption {
	return func(opts *AddOptions) {
		opts.SkipGraph = skip
	}
}

// SearchOption is a function type for configuring Search operations.
type SearchOption func(*SearchOptions)

// SearchOptions contains configuration options for Search operations.
type SearchOptions struct {
	// AgentID filters results to a specific agent.
	AgentID string

	// MemoryType filters results to a specific memory type.
	MemoryType memory.MemoryType

	// Limit sets the maximum number of results to return.
	// Default: 10
	Limit int

	// MinScore sets the minimum similarity score for results.
	// Results with scores below this threshold are excluded.
	// Default: 0.0 (no minimum)
	MinScore float32
}

// WithAgentIDForSearch sets the agent ID for Search operations.
//
// Example:
//
//	results, _ := engine.Search(ctx, "query", core.WithAgentIDForSearch("agent_001"))
func WithAgentIDForSearch(agentID string) SearchOption {
	return func(opts *SearchOptions) {
		opts.AgentID = agentID
	}
}

// WithMemoryTypeForSearch sets the memory type filter for Search operations.
//
// Example:
//
//	results, _ := engine.Search(ctx, "query", core.WithMemoryTypeForSearch(memory.TypeTask))
func WithMemoryTypeForSearch(memoryType memory.MemoryType) SearchOption {
	return func(opts *SearchOptions) {
		opts.MemoryType = memoryType
	}
}

// WithLimit sets the maximum number of results for Search operations.
//
// Example:
//
//	results, _ := engine.Search(ctx, "query", core.WithLimit(20))
func WithLimit(limit int) SearchOption {
	return func(opts *SearchOptions) {
		opts.Limit = limit
	}
}

// WithMinScore sets the minimum similarity score for Search results.
//
// Only results with similarity scores >= minScore are returned.
// Typical range: 0.0-1.0, where 1.0 is identical.
//
// Example:
//
//	results, _ := engine.Search(ctx, "query", core.WithMinScore(0.7))
func WithMinScore(score float32) SearchOption {
	return func(opts *SearchOptions) {
		opts.MinScore = score
	}
}

// ListOption is a function type for configuring List operations.
type ListOption func(*ListOptions)

// ListOptions contains configuration options for List operations.
type ListOptions struct {
	// AgentID filters results to a specific agent.
	AgentID string

	// MemoryType filters results to a specific memory type.
	MemoryType memory.MemoryType

	// Limit sets the maximum number of results to return.
	// Default: 100
	Limit int

	// Offset sets the number of results to skip (for pagination).
	// Default: 0
	Offset int
}

// WithAgentIDForList sets the agent ID for List operations.
func WithAgentIDForList(agentID string) ListOption {
	return func(opts *ListOptions) {
		opts.AgentID = agentID
	}
}

// WithMemoryTypeForList sets the memory type filter for List operations.
func WithMemoryTypeForList(memoryType memory.MemoryType) ListOption {
	return func(opts *ListOptions) {
		opts.MemoryType = memoryType
	}
}

// WithLimitForList sets the maximum number of results for List operations.
func WithLimitForList(limit int) ListOption {
	return func(opts *ListOptions) {
		opts.Limit = limit
	}
}

// WithOffset sets the offset for List operations (for pagination).
//
// Example:
//
//	// Get second page of results
//	records, _ := engine.List(ctx,
//	    core.WithLimitForList(50),
//	    core.WithOffset(50),
//	)
func WithOffset(offset int) ListOption {
	return func(opts *ListOptions) {
		opts.Offset = offset
	}
}

// GetOption is a function type for configuring Get operations.
type GetOption func(*GetOptions)

// GetOptions contains configuration options for Get operations with access control.
type GetOptions struct {
	// AgentID restricts access to memories belonging to this agent.
	AgentID string
}

// WithAgentIDForGet sets the agent ID for Get operations (access control).
func WithAgentIDForGet(agentID string) GetOption {
	return func(opts *GetOptions) {
		opts.AgentID = agentID
	}
}

// UpdateOption is a function type for configuring Update operations.
type UpdateOption func(*UpdateOptions)

// UpdateOptions contains configuration options for Update operations with access control.
type UpdateOptions struct {
	// AgentID restricts updates to memories belonging to this agent.
	AgentID string

	// Metadata replaces the memory's metadata when non-nil.
	Metadata map[string]string

	// Tags replaces the memory's tags when non-nil.
	Tags []string
}

// WithAgentIDForUpdate sets the agent ID for Update operations (access control).
func WithAgentIDForUpdate(agentID string) UpdateOption {
	return func(opts *UpdateOptions) {
		opts.AgentID = agentID
	}
}

// WithMetadataForUpdate replaces the memory's metadata during Update operations.
func WithMetadataForUpdate(metadata map[string]string) UpdateOption {
	return func(opts *UpdateOptions) {
		opts.Metadata = metadata
	}
}

// WithTagsForUpdate replaces the memory's tags during Update operations.
func WithTagsForUpdate(tags ...string) UpdateOption {
	return func(opts *UpdateOptions) {
		opts.Tags = tags
	}
}

// DeleteOption is a function type for configuring Delete operations.
type DeleteOption func(*DeleteOptions)

// DeleteOptions contains configuration options for Delete operations with access control.
type DeleteOptions struct {
	// AgentID restricts deletions to memories belonging to this agent.
	AgentID string
}

// WithAgentIDForDelete sets the agent ID for Delete operations (access control).
func WithAgentIDForDelete(agentID string) DeleteOption {
	return func(opts *DeleteOptions) {
		opts.AgentID = agentID
	}
}

// DeleteAllOption is a function type for configuring DeleteAll operations.
type DeleteAllOption func(*DeleteAllOptions)

// DeleteAllOptions contains configuration options for DeleteAll operations.
type DeleteAllOptions struct {
	// AgentID filters deletions to a specific agent.
	AgentID string

	// MemoryType filters deletions to a specific memory type.
	MemoryType memory.MemoryType
}

// WithAgentIDForDeleteAll sets the agent ID for DeleteAll operations.
//
// Example:
//
//	_ = engine.DeleteAll(ctx, core.WithAgentIDForDeleteAll("agent_001"))
func WithAgentIDForDeleteAll(agentID string) DeleteAllOption {
	return func(opts *DeleteAllOptions) {
		opts.AgentID = agentID
	}
}

// WithMemoryTypeForDeleteAll sets the memory type filter for DeleteAll operations.
func WithMemoryTypeForDeleteAll(memoryType memory.MemoryType) DeleteAllOption {
	return func(opts *DeleteAllOptions) {
		opts.MemoryType = memoryType
	}
}

// applyAddOptions applies Add options to create AddOptions.
func applyAddOptions(opts []AddOption) *AddOptions {
	options := &AddOptions{
		MemoryType:     memory.TypeConversation,
		RelevanceScore: 1.0,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// applySearchOptions applies Search options to create SearchOptions.
func applySearchOptions(opts []SearchOption) *SearchOptions {
	options := &SearchOptions{
		Limit:    10,
		MinScore: 0.0,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// applyListOptions applies List options to create ListOptions.
func applyListOptions(opts []ListOption) *ListOptions {
	options := &ListOptions{
		Limit:  100,
		Offset: 0,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// applyGetOptions applies Get options to create GetOptions.
func applyGetOptions(opts []GetOption) *GetOptions {
	options := &GetOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// applyUpdateOptions applies Update options to create UpdateOptions.
func applyUpdateOptions(opts []UpdateOption) *UpdateOptions {
	options := &UpdateOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// applyDeleteOptions applies Delete options to create DeleteOptions.
func applyDeleteOptions(opts []DeleteOption) *DeleteOptions {
	options := &DeleteOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// applyDeleteAllOptions applies DeleteAll options to create DeleteAllOptions.
func applyDeleteAllOptions(opts []DeleteAllOption) *DeleteAllOptions {
	options := &DeleteAllOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
