package embedding

import "fmt"

// Config controls the embedding service.
type Config struct {
	// EmbeddingDim is the length of produced embedding vectors.
	EmbeddingDim int `json:"embedding_dim"`

	// MaxTextLength is the input feature window in characters. Longer
	// texts are truncated before featurization.
	MaxTextLength int `json:"max_text_length"`

	// LearningRate is the base rate; specialized networks scale it.
	LearningRate float32 `json:"learning_rate"`

	// TrainingEpochs is the number of passes per training run.
	TrainingEpochs int `json:"training_epochs"`

	// CacheSizeLimit caps the embedding cache. Reaching the limit clears
	// the whole cache.
	CacheSizeLimit int `json:"cache_size_limit"`
}

// DefaultConfig returns the standard embedding configuration.
func DefaultConfig() Config {
	return Config{
		EmbeddingDim:   256,
		MaxTextLength:  512,
		LearningRate:   0.001,
		TrainingEpochs: 100,
		CacheSizeLimit: 10000,
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("embedding_dim must be positive, got %d", c.EmbeddingDim)
	}
	if c.MaxTextLength <= 10 {
		return fmt.Errorf("max_text_length must be greater than 10, got %d", c.MaxTextLength)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %v", c.LearningRate)
	}
	if c.TrainingEpochs <= 0 {
		return fmt.Errorf("training_epochs must be positive, got %d", c.TrainingEpochs)
	}
	if c.CacheSizeLimit <= 0 {
		return fmt.Errorf("cache_size_limit must be positive, got %d", c.CacheSizeLimit)
	}
	return nil
}
