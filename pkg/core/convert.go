package core

import (
	"github.com/ob-labs/neuralmem-go/pkg/memory"
	"github.com/ob-labs/neuralmem-go/pkg/storage"
)

// toStorageRecord converts a memory.MemoryRecord to storage.Record.
//
// This function is used internally to convert between package types
// to avoid circular dependencies.
func toStorageRecord(m *memory.MemoryRecord) *storage.Record {
	return &storage.Record{
		ID:             m.ID,
		AgentID:        m.AgentID,
		MemoryType:     string(m.MemoryType),
		Content:        m.Content,
		Embedding:      m.Embedding,
		Metadata:       m.Metadata,
		Tags:           m.Tags,
		RelevanceScore: m.RelevanceScore,
		AccessCount:    m.AccessCount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// fromStorageRecord converts a storage.Record to memory.MemoryRecord.
//
// This function is used internally to convert between package types
// to avoid circular dependencies.
func fromStorageRecord(r *storage.Record) *memory.MemoryRecord {
	return &memory.MemoryRecord{
		ID:             r.ID,
		AgentID:        r.AgentID,
		MemoryType:     memory.MemoryType(r.MemoryType),
		Content:        r.Content,
		Embedding:      r.Embedding,
		Metadata:       r.Metadata,
		Tags:           r.Tags,
		RelevanceScore: r.RelevanceScore,
		AccessCount:    r.AccessCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// fromStorageRecords converts a slice of storage.Record to a slice of memory.MemoryRecord.
//
// This function is used internally for batch conversion between package types.
func fromStorageRecords(records []*storage.Record) []*memory.MemoryRecord {
	result := make([]*memory.MemoryRecord, len(records))
	for i, r := range records {
		result[i] = fromStorageRecord(r)
	}
	return result
}
