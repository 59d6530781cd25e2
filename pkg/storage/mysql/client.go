// Package mysql provides the MySQL implementation of the record store.
//
// MySQL has no native vector type, so embeddings are stored as
// little-endian float32 blobs and similarity search is computed in
// memory after loading the matching rows.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/ob-labs/neuralmem-go/pkg/nn"
	"github.com/ob-labs/neuralmem-go/pkg/storage"
)

// Client is a MySQL record store client.
type Client struct {
	db        *sql.DB
	tableName string
}

// Config contains MySQL configuration.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	TableName string
}

// NewClient creates a new MySQL client.
func NewClient(cfg *Config) (*Client, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewMySQLClient: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewMySQLClient: %w", err)
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
			id VARCHAR(64) PRIMARY KEY,
			agent_id VARCHAR(255) NOT NULL,
			memory_type VARCHAR(64) NOT NULL,
			content TEXT NOT NULL,
			embedding MEDIUMBLOB,
			metadata JSON,
			tags JSON,
			relevance_score FLOAT DEFAULT 1.0,
			access_count INT DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_agent_type (agent_id, memory_type)
		)
	`, c.tableName)

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	return nil
}

// Insert inserts a record.
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

// Search performs embedding similarity search using cosine similarity
// computed in memory.
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
		record, err := scanRecord(rows)
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

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("Get: %w", err)
		}
		return nil, fmt.Errorf("Get: %w", storage.ErrNotFound)
	}
	record, err := scanRecord(rows)
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
		limit = 1000
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
		record, err := scanRecord(rows)
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
		limit = 1000
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
		record, err := scanRecord(rows)
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

// scanRecord scans a record from the result rows.
func scanRecord(rows *sql.Rows) (*storage.Record, error) {
	var record storage.Record
	var embeddingBlob []byte
	var metadataStr, tagsStr sql.NullString

	err := rows.Scan(
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
	if err != nil {
		return nil, err
	}

	record.Embedding, err = storage.DecodeEmbedding(embeddingBlob)
	if err != nil {
		return nil, fmt.Errorf("parse embedding: %w", err)
	}

	if metadataStr.Valid && metadataStr.String != "" {
		if err := json.Unmarshal([]byte(metadataStr.String), &record.Metadata); err != nil {
			return nil, fmt.Errorf("parse metadata: %w", err)
		}
	}
	if tagsStr.Valid && tagsStr.String != "" {
		if err := json.Unmarshal([]byte(tagsStr.String), &record.Tags); err != nil {
			return nil, fmt.Errorf("parse tags: %w", err)
		}
	}

	return &record, nil
}
