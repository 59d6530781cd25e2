// Package postgres provides the PostgreSQL + pgvector implementation of
// the record store. Similarity search runs inside the database using the
// pgvector cosine distance operator.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ob-labs/neuralmem-go/pkg/storage"
)

// Client is a PostgreSQL + pgvector record store client.
type Client struct {
	db         *sql.DB
	tableName  string
	dimensions int
}

// Config contains PostgreSQL configuration.
type Config struct {
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	TableName     string
	EmbeddingDims int
	SSLMode       string
}

// NewClient creates a new PostgreSQL client.
func NewClient(cfg *Config) (*Client, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	client := &Client{
		db:         db,
		tableName:  cfg.TableName,
		dimensions: cfg.EmbeddingDims,
	}

	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

// initTables enables pgvector and creates the record table.
func (c *Client) initTables(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("initTables: create extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) PRIMARY KEY,
			agent_id VARCHAR(255) NOT NULL,
			memory_type VARCHAR(64) NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			metadata JSONB,
			tags JSONB,
			relevance_score REAL DEFAULT 1.0,
			access_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, c.tableName, c.dimensions)

	_, err = c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("initTables: create table: %w", err)
	}

	indexQuery := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%s_agent_type ON %s(agent_id, memory_type)
	`, c.tableName, c.tableName)
	_, err = c.db.ExecContext(ctx, indexQuery)
	if err != nil {
		return fmt.Errorf("initTables: create index: %w", err)
	}

	return nil
}

// Insert inserts a record.
func (c *Client) Insert(ctx context.Context, record *storage.Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, agent_id, memory_type, content, embedding, metadata, tags, relevance_score, access_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
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
		vectorToString(record.Embedding),
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

// Search performs vector search using pgvector's cosine similarity.
func (c *Client) Search(ctx context.Context, embedding []float32, opts *storage.SearchOptions) ([]*storage.Record, error) {
	if opts == nil {
		opts = &storage.SearchOptions{}
	}

	// WHERE parameters start at $2 since $1 is the query vector
	whereClause, filterArgs := buildWhereClauseWithOffset(opts.AgentID, opts.MemoryType, 2)

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	// <=> is cosine distance, so similarity is 1 - distance
	query := fmt.Sprintf(`
		SELECT id, agent_id, memory_type, content, embedding::text, metadata, tags,
		       relevance_score, access_count, created_at, updated_at,
		       1 - (embedding <=> $1) AS score
		FROM %s
		%s
		ORDER BY embedding <=> $1
		LIMIT %d
	`, c.tableName, whereClause, limit)

	args := append([]interface{}{vectorToString(embedding)}, filterArgs...)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*storage.Record
	for rows.Next() {
		record, err := scanRecord(rows, true)
		if err != nil {
			return nil, err
		}
		if record.Score >= opts.MinScore {
			records = append(records, record)
		}
	}

	return records, rows.Err()
}

// Get retrieves a record by ID with optional access control.
func (c *Client) Get(ctx context.Context, id string, opts *storage.GetOptions) (*storage.Record, error) {
	if opts == nil {
		opts = &storage.GetOptions{}
	}

	whereClause := "WHERE id = $1"
	args := []interface{}{id}
	if opts.AgentID != "" {
		whereClause += " AND agent_id = $2"
		args = append(args, opts.AgentID)
	}

	query := fmt.Sprintf(`
		SELECT id, agent_id, memory_type, content, embedding::text, metadata, tags,
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
	record, err := scanRecord(rows, false)
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

	whereClause := "WHERE id = $4"
	args := []interface{}{content, vectorToString(embedding), time.Now().UTC(), id}
	if opts.AgentID != "" {
		whereClause += " AND agent_id = $5"
		args = append(args, opts.AgentID)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, embedding = $2, updated_at = $3
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

	whereClause := "WHERE id = $1"
	args := []interface{}{id}
	if opts.AgentID != "" {
		whereClause += " AND agent_id = $2"
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

	whereClause, args := buildWhereClauseWithOffset(opts.AgentID, opts.MemoryType, 1)

	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}

	query := fmt.Sprintf(`
		SELECT id, agent_id, memory_type, content, embedding::text, metadata, tags,
		       relevance_score, access_count, created_at, updated_at
		FROM %s
		%s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d
	`, c.tableName, whereClause, limit, opts.Offset)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*storage.Record
	for rows.Next() {
		record, err := scanRecord(rows, false)
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

	whereClause, args := buildWhereClauseWithOffset(opts.AgentID, opts.MemoryType, 2)
	if whereClause == "" {
		whereClause = "WHERE content ILIKE $1"
	} else {
		whereClause += " AND content ILIKE $1"
	}
	args = append([]interface{}{"%" + search + "%"}, args...)

	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}

	query := fmt.Sprintf(`
		SELECT id, agent_id, memory_type, content, embedding::text, metadata, tags,
		       relevance_score, access_count, created_at, updated_at
		FROM %s
		%s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d
	`, c.tableName, whereClause, limit, opts.Offset)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchContent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*storage.Record
	for rows.Next() {
		record, err := scanRecord(rows, false)
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

	whereClause, args := buildWhereClauseWithOffset(opts.AgentID, opts.MemoryType, 1)

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

// scanRecord scans a record, optionally with a trailing score column.
func scanRecord(rows *sql.Rows, withScore bool) (*storage.Record, error) {
	var record storage.Record
	var embeddingStr sql.NullString
	var metadataStr, tagsStr sql.NullString

	dest := []interface{}{
		&record.ID,
		&record.AgentID,
		&record.MemoryType,
		&record.Content,
		&embeddingStr,
		&metadataStr,
		&tagsStr,
		&record.RelevanceScore,
		&record.AccessCount,
		&record.CreatedAt,
		&record.UpdatedAt,
	}
	if withScore {
		dest = append(dest, &record.Score)
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	if embeddingStr.Valid && embeddingStr.String != "" {
		embedding, err := stringToVector(embeddingStr.String)
		if err != nil {
			return nil, fmt.Errorf("parse embedding: %w", err)
		}
		record.Embedding = embedding
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
