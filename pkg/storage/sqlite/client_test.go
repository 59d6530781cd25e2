package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob-labs/neuralmem-go/pkg/storage"
)

func setupClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(&Config{
		DBPath:    filepath.Join(t.TempDir(), "records.db"),
		TableName: "memories",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testRecord(id, agentID, memoryType string, embedding []float32) *storage.Record {
	now := time.Now().UTC()
	return &storage.Record{
		ID:             id,
		AgentID:        agentID,
		MemoryType:     memoryType,
		Content:        "content of " + id,
		Embedding:      embedding,
		Metadata:       map[string]string{"source": "test"},
		Tags:           []string{"unit"},
		RelevanceScore: 1.0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestInsertAndGet(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	record := testRecord("1", "agent-a", "task", []float32{1, 0, 0})
	require.NoError(t, client.Insert(ctx, record))

	got, err := client.Get(ctx, "1", nil)
	require.NoError(t, err)
	assert.Equal(t, "agent-a", got.AgentID)
	assert.Equal(t, "task", got.MemoryType)
	assert.Equal(t, []float32{1, 0, 0}, got.Embedding)
	assert.Equal(t, map[string]string{"source": "test"}, got.Metadata)
	assert.Equal(t, []string{"unit"}, got.Tags)
}

func TestGetAccessControl(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Insert(ctx, testRecord("1", "agent-a", "task", []float32{1})))

	_, err := client.Get(ctx, "1", &storage.GetOptions{AgentID: "agent-b"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = client.Get(ctx, "1", &storage.GetOptions{AgentID: "agent-a"})
	assert.NoError(t, err)
}

func TestSearchOrdersByScore(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Insert(ctx, testRecord("1", "agent-a", "task", []float32{1, 0, 0})))
	require.NoError(t, client.Insert(ctx, testRecord("2", "agent-a", "task", []float32{0.9, 0.1, 0})))
	require.NoError(t, client.Insert(ctx, testRecord("3", "agent-a", "task", []float32{0, 1, 0})))

	results, err := client.Search(ctx, []float32{1, 0, 0}, &storage.SearchOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "2", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchMinScore(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Insert(ctx, testRecord("1", "agent-a", "task", []float32{1, 0})))
	require.NoError(t, client.Insert(ctx, testRecord("2", "agent-a", "task", []float32{0, 1})))

	results, err := client.Search(ctx, []float32{1, 0}, &storage.SearchOptions{MinScore: 0.5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
}

func TestSearchAgentFilter(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Insert(ctx, testRecord("1", "agent-a", "task", []float32{1, 0})))
	require.NoError(t, client.Insert(ctx, testRecord("2", "agent-b", "task", []float32{1, 0})))

	results, err := client.Search(ctx, []float32{1, 0}, &storage.SearchOptions{AgentID: "agent-b"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].ID)
}

func TestUpdate(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Insert(ctx, testRecord("1", "agent-a", "task", []float32{1, 0})))

	updated, err := client.Update(ctx, "1", "new content", []float32{0, 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "new content", updated.Content)
	assert.Equal(t, []float32{0, 1}, updated.Embedding)

	_, err = client.Update(ctx, "missing", "x", []float32{1}, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Insert(ctx, testRecord("1", "agent-a", "task", []float32{1})))
	require.NoError(t, client.Delete(ctx, "1", nil))

	_, err := client.Get(ctx, "1", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = client.Delete(ctx, "1", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"1", "2", "3"} {
		record := testRecord(id, "agent-a", "task", []float32{1})
		record.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, client.Insert(ctx, record))
	}

	page, err := client.List(ctx, &storage.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "3", page[0].ID, "newest first")

	rest, err := client.List(ctx, &storage.ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "1", rest[0].ID)
}

func TestListTypeFilter(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Insert(ctx, testRecord("1", "agent-a", "task", []float32{1})))
	require.NoError(t, client.Insert(ctx, testRecord("2", "agent-a", "learning", []float32{1})))

	records, err := client.List(ctx, &storage.ListOptions{MemoryType: "learning"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0].ID)
}

func TestSearchContent(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	first := testRecord("1", "agent-a", "task", []float32{1})
	first.Content = "Ship the quarterly report"
	second := testRecord("2", "agent-a", "task", []float32{1})
	second.Content = "Review the REPORT draft"
	third := testRecord("3", "agent-b", "task", []float32{1})
	third.Content = "Plan the offsite"
	for _, record := range []*storage.Record{first, second, third} {
		require.NoError(t, client.Insert(ctx, record))
	}

	records, err := client.SearchContent(ctx, "report", nil)
	require.NoError(t, err)
	require.Len(t, records, 2, "matches are case-insensitive")

	records, err = client.SearchContent(ctx, "report", &storage.ListOptions{AgentID: "agent-b"})
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = client.SearchContent(ctx, "offsite", &storage.ListOptions{AgentID: "agent-b"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "3", records[0].ID)

	records, err = client.SearchContent(ctx, "no such text", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDeleteAll(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Insert(ctx, testRecord("1", "agent-a", "task", []float32{1})))
	require.NoError(t, client.Insert(ctx, testRecord("2", "agent-b", "task", []float32{1})))

	require.NoError(t, client.DeleteAll(ctx, &storage.DeleteAllOptions{AgentID: "agent-a"}))

	records, err := client.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0].ID)
}
