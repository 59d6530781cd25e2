// Package core provides the main NeuralMem engine and memory management functionality.
package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ob-labs/neuralmem-go/pkg/embedding"
	"github.com/ob-labs/neuralmem-go/pkg/graph"
)

// Config contains the complete configuration for a NeuralMem engine.
//
// It includes settings for:
//   - Embedding (network shapes, cache, training)
//   - Graph (node/edge dimensions, relationship discovery)
//   - Store (optional persistence backend)
//
// Example:
//
//	config := core.DefaultConfig()
//	config.Store = core.StoreConfig{
//	    Provider: "sqlite",
//	    Config: map[string]interface{}{
//	        "db_path": "./memories.db",
//	    },
//	}
type Config struct {
	// Embedding contains the embedding service configuration.
	Embedding embedding.Config `json:"embedding"`

	// Graph contains the knowledge graph configuration.
	Graph graph.Config `json:"graph"`

	// Store contains the persistence backend configuration (optional).
	// An empty provider runs the engine fully in memory.
	Store StoreConfig `json:"store"`
}

// StoreConfig contains configuration for the record store.
//
// Supported providers: sqlite, postgres, mysql. An empty provider
// disables persistence.
//
// Example:
//
//	storeConfig := core.StoreConfig{
//	    Provider: "sqlite",
//	    Config: map[string]interface{}{
//	        "db_path":    "./memories.db",
//	        "table_name": "memories",
//	    },
//	}
type StoreConfig struct {
	// Provider is the record store provider name (sqlite, postgres, mysql).
	Provider string `json:"provider"`

	// Config contains provider-specific configuration.
	// For SQLite: db_path, table_name
	// For PostgreSQL: host, port, user, password, db_name, table_name, ssl_mode
	// For MySQL: host, port, user, password, db_name, table_name
	Config map[string]interface{} `json:"config"`
}

// DefaultConfig returns a configuration with standard embedding and graph
// settings and no persistence.
func DefaultConfig() *Config {
	return &Config{
		Embedding: embedding.DefaultConfig(),
		Graph:     graph.DefaultConfig(),
	}
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - DATABASE_PROVIDER (sqlite, postgres, mysql, or empty for in-memory)
//   - SQLITE_PATH, SQLITE_TABLE
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD, etc.
//   - MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, etc.
//   - EMBEDDING_DIM, EMBEDDING_MAX_TEXT_LENGTH, EMBEDDING_LEARNING_RATE,
//     EMBEDDING_TRAINING_EPOCHS, EMBEDDING_CACHE_LIMIT
//   - GRAPH_NODE_DIM, GRAPH_EDGE_DIM, GRAPH_ATTENTION_HEADS,
//     GRAPH_MAX_NEIGHBORS, GRAPH_TEMPORAL_WINDOW_HOURS,
//     GRAPH_SIMILARITY_THRESHOLD, GRAPH_CACHE_LIMIT
//
// Returns a Config instance, or an error if loading fails.
//
// Example:
//
//	config, err := core.LoadConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfigFromEnv() (*Config, error) {
	// Use FindEnvFile to locate .env file (supports upward search)
	envPath, found := FindEnvFile()
	if found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	config := DefaultConfig()

	config.Embedding.EmbeddingDim = getEnvInt("EMBEDDING_DIM", config.Embedding.EmbeddingDim)
	config.Embedding.MaxTextLength = getEnvInt("EMBEDDING_MAX_TEXT_LENGTH", config.Embedding.MaxTextLength)
	config.Embedding.LearningRate = getEnvFloat("EMBEDDING_LEARNING_RATE", config.Embedding.LearningRate)
	config.Embedding.TrainingEpochs = getEnvInt("EMBEDDING_TRAINING_EPOCHS", config.Embedding.TrainingEpochs)
	config.Embedding.CacheSizeLimit = getEnvInt("EMBEDDING_CACHE_LIMIT", config.Embedding.CacheSizeLimit)

	config.Graph.NodeDim = getEnvInt("GRAPH_NODE_DIM", config.Graph.NodeDim)
	config.Graph.EdgeDim = getEnvInt("GRAPH_EDGE_DIM", config.Graph.EdgeDim)
	config.Graph.AttentionHeads = getEnvInt("GRAPH_ATTENTION_HEADS", config.Graph.AttentionHeads)
	config.Graph.MaxNeighbors = getEnvInt("GRAPH_MAX_NEIGHBORS", config.Graph.MaxNeighbors)
	if value := os.Getenv("GRAPH_TEMPORAL_WINDOW_HOURS"); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			config.Graph.TemporalWindowHours = parsed
		}
	}
	config.Graph.SimilarityThreshold = getEnvFloat("GRAPH_SIMILARITY_THRESHOLD", config.Graph.SimilarityThreshold)
	config.Graph.CacheSizeLimit = getEnvInt("GRAPH_CACHE_LIMIT", config.Graph.CacheSizeLimit)

	provider := os.Getenv("DATABASE_PROVIDER")
	storeConfig := make(map[string]interface{})

	switch provider {
	case "sqlite":
		storeConfig = map[string]interface{}{
			"db_path":    getEnvOrDefault("SQLITE_PATH", "./neuralmem.db"),
			"table_name": getEnvOrDefault("SQLITE_TABLE", "memories"),
		}
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))
		storeConfig = map[string]interface{}{
			"host":           getEnvOrDefault("POSTGRES_HOST", "localhost"),
			"port":           port,
			"user":           getEnvOrDefault("POSTGRES_USER", "postgres"),
			"password":       os.Getenv("POSTGRES_PASSWORD"),
			"db_name":        getEnvOrDefault("POSTGRES_DATABASE", "neuralmem"),
			"table_name":     getEnvOrDefault("POSTGRES_TABLE", "memories"),
			"ssl_mode":       getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
			"embedding_dims": config.Embedding.EmbeddingDim,
		}
	case "mysql":
		port, _ := strconv.Atoi(getEnvOrDefault("MYSQL_PORT", "3306"))
		storeConfig = map[string]interface{}{
			"host":       getEnvOrDefault("MYSQL_HOST", "127.0.0.1"),
			"port":       port,
			"user":       getEnvOrDefault("MYSQL_USER", "root"),
			"password":   os.Getenv("MYSQL_PASSWORD"),
			"db_name":    getEnvOrDefault("MYSQL_DATABASE", "neuralmem"),
			"table_name": getEnvOrDefault("MYSQL_TABLE", "memories"),
		}
	}

	config.Store = StoreConfig{
		Provider: provider,
		Config:   storeConfig,
	}

	return config, nil
}

// LoadConfigFromEnvFile loads configuration from a specific .env file.
//
// Parameters:
//   - envPath: Path to the .env file
//
// Returns a Config instance, or an error if the file cannot be loaded.
func LoadConfigFromEnvFile(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		return nil, NewEngineError("LoadConfigFromEnvFile", err)
	}
	return LoadConfigFromEnv()
}

// LoadConfigFromJSON loads configuration from a JSON file.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewEngineError("LoadConfigFromJSON", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, NewEngineError("LoadConfigFromJSON", err)
	}

	return config, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.Embedding.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Graph.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Store.Provider {
	case "", "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("%w: unknown store provider %q", ErrInvalidConfig, c.Store.Provider)
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable with a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat parses a float environment variable with a default.
func getEnvFloat(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}

// FindEnvFile searches for a .env or .env.example file, starting in the
// current directory and walking up to five levels.
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
