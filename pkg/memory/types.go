// Package memory defines the shared memory record model used by the
// embedding service, the knowledge graph engine, and the storage backends.
package memory

import (
	"strings"
	"time"
)

// MemoryType categorizes a memory record. Each type is embedded by a
// dedicated specialized network.
type MemoryType string

const (
	TypeConversation MemoryType = "conversation"
	TypeTask         MemoryType = "task"
	TypeLearning     MemoryType = "learning"
	TypePattern      MemoryType = "pattern"
	TypeContext      MemoryType = "context"
	TypeTool         MemoryType = "tool"
	TypeError        MemoryType = "error"
	TypeSuccess      MemoryType = "success"
)

// AllTypes lists every memory type in declaration order.
func AllTypes() []MemoryType {
	return []MemoryType{
		TypeConversation, TypeTask, TypeLearning, TypePattern,
		TypeContext, TypeTool, TypeError, TypeSuccess,
	}
}

// Valid reports whether t is one of the known memory types.
func (t MemoryType) Valid() bool {
	switch t {
	case TypeConversation, TypeTask, TypeLearning, TypePattern,
		TypeContext, TypeTool, TypeError, TypeSuccess:
		return true
	}
	return false
}

func (t MemoryType) String() string { return string(t) }

// SequenceCode returns the scalar that encodes the type in sequence
// feature vectors.
func (t MemoryType) SequenceCode() float32 {
	switch t {
	case TypeConversation:
		return 0.1
	case TypeTask:
		return 0.2
	case TypeLearning:
		return 0.3
	case TypeContext:
		return 0.4
	case TypeTool:
		return 0.5
	case TypeError:
		return 0.6
	case TypeSuccess:
		return 0.7
	case TypePattern:
		return 0.8
	}
	return 0
}

// TargetBias returns the per-type bias written into the last dimension of
// synthetic training targets, so that each type occupies its own region of
// the embedding space.
func (t MemoryType) TargetBias() float32 {
	switch t {
	case TypeConversation:
		return 0.1
	case TypeTask:
		return 0.2
	case TypeLearning:
		return 0.3
	case TypePattern:
		return 0.4
	case TypeContext:
		return 0.5
	case TypeTool:
		return 0.6
	case TypeError:
		return 0.7
	case TypeSuccess:
		return 0.8
	}
	return 0
}

// MemoryRecord is a single stored memory.
//
// Embedding is populated by the embedding service and may be nil for
// records that have not been embedded yet.
type MemoryRecord struct {
	ID             string            `json:"id"`
	AgentID        string            `json:"agent_id"`
	MemoryType     MemoryType        `json:"memory_type"`
	Content        string            `json:"content"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Embedding      []float32         `json:"embedding,omitempty"`
	RelevanceScore float32           `json:"relevance_score"`
	AccessCount    int               `json:"access_count"`
	Tags           []string          `json:"tags,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewMemoryRecord creates a record with a relevance score of 1.0 and both
// timestamps set to the current time.
func NewMemoryRecord(id, agentID string, memoryType MemoryType, content string) *MemoryRecord {
	now := time.Now().UTC()
	return &MemoryRecord{
		ID:             id,
		AgentID:        agentID,
		MemoryType:     memoryType,
		Content:        content,
		Metadata:       make(map[string]string),
		RelevanceScore: 1.0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// WithTags replaces the record's tags and returns the record.
func (m *MemoryRecord) WithTags(tags ...string) *MemoryRecord {
	m.Tags = tags
	return m
}

// WithMetadata sets a metadata key and returns the record.
func (m *MemoryRecord) WithMetadata(key, value string) *MemoryRecord {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
	return m
}

// WithEmbedding replaces the record's embedding and returns the record.
func (m *MemoryRecord) WithEmbedding(embedding []float32) *MemoryRecord {
	m.Embedding = embedding
	return m
}

// Touch records one access: it bumps the access count and refreshes the
// updated timestamp.
func (m *MemoryRecord) Touch() {
	m.AccessCount++
	m.UpdatedAt = time.Now().UTC()
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "has": {}, "have": {}, "this": {}, "that": {},
	"with": {}, "from": {}, "they": {}, "been": {}, "were": {}, "will": {},
	"would": {}, "there": {}, "their": {}, "what": {}, "which": {},
	"when": {}, "where": {}, "into": {}, "about": {},
}

// ExtractKeywords pulls up to limit lowercase keywords out of content,
// skipping stopwords and words shorter than four characters.
func ExtractKeywords(content string, limit int) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(content)) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) < 4 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == limit {
			break
		}
	}
	return keywords
}
