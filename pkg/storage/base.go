// Package storage provides interfaces and types for memory record
// persistence backends.
//
// It defines the RecordStore interface that all storage implementations
// must satisfy, along with the stored record type and operation options.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist or the caller's
// access options do not match it.
var ErrNotFound = errors.New("storage: record not found")

// Record represents a memory persisted in a record store.
//
// This type is defined in the storage package to avoid circular
// dependencies with the engine packages. It mirrors memory.MemoryRecord.
type Record struct {
	// ID is the unique identifier of the record.
	ID string

	// AgentID identifies the agent that owns this record.
	AgentID string

	// MemoryType is the record's memory type tag.
	MemoryType string

	// Content is the text content of the record.
	Content string

	// Embedding is the neural embedding used for similarity search.
	Embedding []float32

	// Metadata contains additional string key/value pairs.
	Metadata map[string]string

	// Tags are free-form labels attached to the record.
	Tags []string

	// RelevanceScore is the record's current relevance (0.0-1.0).
	RelevanceScore float32

	// AccessCount is how often the record was read back.
	AccessCount int

	// CreatedAt is when the record was created.
	CreatedAt time.Time

	// UpdatedAt is when the record was last updated.
	UpdatedAt time.Time

	// Score is the similarity score from search operations.
	Score float32
}

// RecordStore defines the interface for persistence backends.
//
// All storage implementations (SQLite, PostgreSQL, MySQL) must implement
// this interface.
type RecordStore interface {
	// Insert inserts a record into the store.
	Insert(ctx context.Context, record *Record) error

	// Get retrieves a record by ID with optional access control.
	//
	// If opts.AgentID is specified, the record is only returned when it
	// belongs to that agent.
	Get(ctx context.Context, id string, opts *GetOptions) (*Record, error)

	// Update updates a record's content and embedding with optional
	// access control, returning the updated record.
	Update(ctx context.Context, id string, content string, embedding []float32, opts *UpdateOptions) (*Record, error)

	// Delete deletes a record by ID with optional access control.
	Delete(ctx context.Context, id string, opts *DeleteOptions) error

	// Search performs embedding similarity search.
	//
	// Returns matching records sorted by similarity (highest first).
	Search(ctx context.Context, embedding []float32, opts *SearchOptions) ([]*Record, error)

	// List retrieves records with optional filtering and pagination,
	// newest first.
	List(ctx context.Context, opts *ListOptions) ([]*Record, error)

	// SearchContent performs a case-insensitive substring search over
	// record content, newest first.
	SearchContent(ctx context.Context, query string, opts *ListOptions) ([]*Record, error)

	// DeleteAll deletes all records matching the given filters.
	DeleteAll(ctx context.Context, opts *DeleteAllOptions) error

	// Close closes the store and releases resources.
	Close() error
}

// SearchOptions contains options for search operations.
type SearchOptions struct {
	// AgentID filters results to a specific agent.
	AgentID string

	// MemoryType filters results to a specific memory type.
	MemoryType string

	// Limit sets the maximum number of results to return.
	Limit int

	// MinScore sets the minimum similarity score for results.
	MinScore float32
}

// GetOptions contains options for get operations with access control.
type GetOptions struct {
	// AgentID restricts access to records belonging to this agent.
	AgentID string
}

// UpdateOptions contains options for update operations with access control.
type UpdateOptions struct {
	// AgentID restricts updates to records belonging to this agent.
	AgentID string
}

// DeleteOptions contains options for delete operations with access control.
type DeleteOptions struct {
	// AgentID restricts deletions to records belonging to this agent.
	AgentID string
}

// ListOptions contains options for List operations.
type ListOptions struct {
	// AgentID filters results to a specific agent.
	AgentID string

	// MemoryType filters results to a specific memory type.
	MemoryType string

	// Limit sets the maximum number of results to return. Zero means no
	// limit.
	Limit int

	// Offset sets the number of results to skip (for pagination).
	Offset int
}

// DeleteAllOptions contains options for DeleteAll operations.
type DeleteAllOptions struct {
	// AgentID filters deletions to a specific agent.
	AgentID string

	// MemoryType filters deletions to a specific memory type.
	MemoryType string
}
