// Package sqlite provides the SQLite implementation of the record store.
//
// SQLite is a lightweight, file-based database suitable for local
// development and single-node deployments. Embeddings are stored as
// little-endian float32 blobs, and similarity search uses in-memory
// cosine similarity calculation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ob-labs/neuralmem-go/pkg/nn"
	"github.com/ob-labs/neuralmem-go/pkg/storage"
)

// Client implements RecordStore using SQLite as the backend.
type Client struct {
	// db is the SQLite database connection.
	db *sql.DB

	// tableName is the name of the table storing records.
	tableName string
}

// Config contains configuration for creating a SQLite record store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// TableName is the name of the table to use.
	TableName string
}

// NewClient creates a new SQLite record store client.
//
// Parameters:
//   - cfg: Configuration containing database path and table name
//
// Returns:
//   - *Client: The SQLite client instance
//   - error: Error if database connection or table creation fails
func NewClient(cfg *Config) (*Client, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("NewSQLiteClient: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	client := &Client{
		db:        db,
		tableName: cfg.TableName,
	}

	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

// initTables initializes the database table structure.
func (c *Client) initTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			agent_id TEXT NOT NULL,
			memory_type TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB,
			metadata TEXT,
			tags TEXT,
			relevance_score REAL DEFAULT 1.0,
			access_count INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`, c.tableName)

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	indexQuery := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%s_agent_type ON %s(agent_id, memory_type)
	`, c.tableName, c.tableName)
	_, err = c.db.ExecContext(ctx, indexQuery)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	return nil
}

// Insert inserts a record into the SQLite database.
func (c *Client) Insert(ctx context.Context, record *storage.Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, agent_id, memory_type, content, embedding, metadata, tags, relevance_score, access_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.tableName)

	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	tagsJSON, err := json.Marshal(record.Tags)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}

	_, err = c.db.ExecContext(ctx, query,
		record.ID,
		record.AgentID,
		record.MemoryType,
		record.Content,
		storage.EncodeEmbedding(record.Embedding),
		string(metadataJSON),
		string(tagsJSON),
		record.RelevanceScore,
		record.AccessCount,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}

	return nil
}

// Search performs embedding similarity search using cosine similarity.
//
// SQLite does not have native vector operations, so similarity is
// calculated in memory after loading all matching records.
func (c *Client) Search(ctx context.Context, embedding []float32, opts *storage.SearchOptions) ([]*storage.Record, error) {
	if opts == nil {
		opts = &storage.SearchOptions{}
	}

	whereClause, args := buildWhereClause(opts.AgentID, opts.MemoryType)

	query := fmt.Sprintf(`
		SELECT id, agent_id, memory_type, content, embedding, metadata, tags,
		       relevance_score, access_count, created_at, updated_at
		FROM %s
		%s
		ORDER BY id
	`, c.tableName, whereClause)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*storage.Record
	for rows.Next() {
		record, err := c.scanRecord(rows)
		if err != nil {
			return nil, err
		}

		score := nn.CosineSimilarity(embedding, record.Embedding)
		record.Score = score

		if score >= opts.MinScore {
			records = append(records, record)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sortByScore(records, opts.Limit), nil
}

// Get retrieves a record by ID with optional access control.
func (c *Client) Get(ctx context.Context, id string, opts *storage.GetOptions) (*storage.Record, error) {
	if opts == nil {
		opts = &storage.GetOptions{}
	}

	whereClause := "WHERE id = ?"
	args := []interface{}{id}
	if opts.AgentID != "" {
		whereClause += " AND agent_id = ?"
		args = append(args, opts.AgentID)
	}

	query := fmt.Sprintf(`
		SELECT id, agent_id, memory_type, content, embedding, metadata, tags,
		       relevance_score, access_count, created_at, updated_at
		FROM %s
		%s
	`, c.tableName, whereClause)

	row := c.db.QueryRowContext(ctx, query, args...)

	record, err := c.scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("Get: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	return record, nil
}

// Update updates a record with optional access control.
func (c *Client) Update(ctx context.Context, id string, content string, embedding []float32, opts *storage.UpdateOptions) (*storage.Record, error) {
	if opts == nil {
		opts = &storage.UpdateOptions{}
	}

	whereClause := "WHERE id = ?"
	args := []interface{}{content, storage.EncodeEmbedding(embedding), time.Now().UTC(), id}
	if opts.AgentID != "" {
		whereClause += " AND agent_id = ?"
		args = append(args, opts.AgentID)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET content = ?, embedding = ?, updated_at = ?
		%s
	`, c.tableName, whereClause)

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("Update: %w", storage.ErrNotFound)
	}

	return c.Get(ctx, id, &storage.GetOptions{AgentID: opts.AgentID})
}

// Delete deletes a record by ID with optional access control.
func (c *Client) Delete(ctx context.Context, id string, opts *storage.DeleteOptions) error {
	if opts == nil {
		opts = &storage.DeleteOptions{}
	}

	whereClause := "WHERE id = ?"
	args := []interface{}{id}
	if opts.AgentID != "" {
		whereClause += " AND agent_id = ?"
		args = append(args, opts.AgentID)
	}

	query := fmt.Sprintf("DELETE FROM %s %s", c.tableName, whereClause)

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("Delete: %w", storage.ErrNotFound)
	}

	return nil
}

// List retrieves records with optional filtering and pagination.
func (c *Client) List(ctx context.Context, opts *storage.ListOptions) ([]*storage.Record, error) {
	if opts == nil {
		opts = &storage.ListOptions{}
	}

	whereClause, args := buildWhereClause(opts.AgentID, opts.MemoryType)

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	query := fmt.Sprintf(`
		SELECT id, agent_id, memory_type, content, embedding, metadata, tags,
		       relevance_score, access_count, created_at, updated_at
		FROM %s
		%s
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, c.tableName, whereClause)

	args = append(args, limit, opts.Offset)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*storage.Record
	for rows.Next() {
		record, err := c.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// SearchContent performs a case-insensitive substring search over record
// content.
func (c *Client) SearchContent(ctx context.Context, search string, opts *storage.ListOptions) ([]*storage.Record, error) {
	if opts == nil {
		opts = &storage.ListOptions{}
	}

	whereClause, args := buildWhereClause(opts.AgentID, opts.MemoryType)
	if whereClause == "" {
		whereClause = "WHERE content LIKE ?"
	} else {
		whereClause += " AND content LIKE ?"
	}
	args = append(args, "%"+search+"%")

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	query := fmt.Sprintf(`
		SELECT id, agent_id, memory_type, content, embedding, metadata, tags,
		       relevance_score, access_count, created_at, updated_at
		FROM %s
		%s
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, c.tableName, whereClause)

	args = append(args, limit, opts.Offset)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchContent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*storage.Record
	for rows.Next() {
		record, err := c.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// DeleteAll deletes all records matching the given filters.
func (c *Client) DeleteAll(ctx context.Context, opts *storage.DeleteAllOptions) error {
	if opts == nil {
		opts = &storage.DeleteAllOptions{}
	}

	whereClause, args := buildWhereClause(opts.AgentID, opts.MemoryType)

	query := fmt.Sprintf("DELETE FROM %s %s", c.tableName, whereClause)

	_, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("DeleteAll: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// scanRecord scans a record from a database row or rows.
func (c *Client) scanRecord(scanner interface{}) (*storage.Record, error) {
	var record storage.Record
	var embeddingBlob []byte
	var metadataStr string
	var tagsStr string

	var err error
	switch s := scanner.(type) {
	case *sql.Row:
		err = s.Scan(
			&record.ID,
			&record.AgentID,
			&record.MemoryType,
			&record.Content,
			&embeddingBlob,
			&metadataStr,
			&tagsStr,
			&record.RelevanceScore,
			&record.AccessCount,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
	case *sql.Rows:
		err = s.Scan(
			&record.ID,
			&record.AgentID,
			&record.MemoryType,
			&record.Content,
			&embeddingBlob,
			&metadataStr,
			&tagsStr,
			&record.RelevanceScore,
			&record.AccessCount,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
	default:
		return nil, fmt.Errorf("unsupported scanner type")
	}

	if err != nil {
		return nil, err
	}

	record.Embedding, err = storage.DecodeEmbedding(embeddingBlob)
	if err != nil {
		return nil, fmt.Errorf("parse embedding: %w", err)
	}

	if metadataStr != "" {
		if err := json.Unmarshal([]byte(metadataStr), &record.Metadata); err != nil {
			return nil, fmt.Errorf("parse metadata: %w", err)
		}
	}
	if tagsStr != "" {
		if err := json.Unmarshal([]byte(tagsStr), &record.Tags); err != nil {
			return nil, fmt.Errorf("parse tags: %w", err)
		}
	}

	return &record, nil
}
