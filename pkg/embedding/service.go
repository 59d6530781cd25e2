// Package embedding turns memory records into dense vectors using an
// in-process neural network per memory type, with a hash-keyed cache and
// deterministic self-supervised training targets.
package embedding

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
	"github.com/ob-labs/neuralmem-go/pkg/nn"
)

// ErrTrainingInProgress is returned by TryTrainOnMemories when another
// training run holds the training lock.
var ErrTrainingInProgress = errors.New("embedding: training already in progress")

// architecture describes the hidden layers and learning rate scale of a
// specialized network.
type architecture struct {
	hidden  []nn.LayerConfig
	lrScale float32
}

// Each memory type gets its own network shape so that the embedding space
// reflects how that kind of memory is structured.
var specializedArchitectures = map[memory.MemoryType]architecture{
	memory.TypeConversation: {
		hidden:  []nn.LayerConfig{{Size: 256, Activation: nn.Tanh}, {Size: 128, Activation: nn.ReLU}},
		lrScale: 1.2,
	},
	memory.TypeTask: {
		hidden:  []nn.LayerConfig{{Size: 384, Activation: nn.ReLU}, {Size: 192, Activation: nn.GELU}},
		lrScale: 1.0,
	},
	memory.TypeLearning: {
		hidden:  []nn.LayerConfig{{Size: 512, Activation: nn.GELU}, {Size: 256, Activation: nn.Tanh}},
		lrScale: 0.8,
	},
	memory.TypePattern: {
		hidden:  []nn.LayerConfig{{Size: 128, Activation: nn.ReLU}, {Size: 64, Activation: nn.Sigmoid}},
		lrScale: 1.5,
	},
	memory.TypeContext: {
		hidden:  []nn.LayerConfig{{Size: 320, Activation: nn.Tanh}, {Size: 160, Activation: nn.GELU}},
		lrScale: 0.9,
	},
	memory.TypeTool: {
		hidden:  []nn.LayerConfig{{Size: 288, Activation: nn.ReLU}, {Size: 96, Activation: nn.Tanh}},
		lrScale: 1.1,
	},
	memory.TypeError: {
		hidden:  []nn.LayerConfig{{Size: 192, Activation: nn.LeakyReLU}, {Size: 96, Activation: nn.ReLU}},
		lrScale: 1.3,
	},
	memory.TypeSuccess: {
		hidden:  []nn.LayerConfig{{Size: 224, Activation: nn.GELU}, {Size: 112, Activation: nn.Sigmoid}},
		lrScale: 0.7,
	},
}

// Service produces, caches and trains memory embeddings. All methods are
// safe for concurrent use.
type Service struct {
	config      Config
	general     *nn.Network
	specialized map[memory.MemoryType]*nn.Network

	mu    sync.RWMutex
	cache map[string][]float32

	trainMu sync.Mutex
}

// NewService builds the general network and one specialized network per
// memory type according to the configuration.
func NewService(config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	general, err := nn.NewNetworkBuilder().
		InputLayer(config.MaxTextLength).
		HiddenLayer(512, nn.ReLU).
		HiddenLayer(384, nn.GELU).
		OutputLayer(config.EmbeddingDim, nn.Linear).
		LearningRate(config.LearningRate).
		Build()
	if err != nil {
		return nil, fmt.Errorf("embedding: build general network: %w", err)
	}

	specialized := make(map[memory.MemoryType]*nn.Network, len(specializedArchitectures))
	for memoryType, arch := range specializedArchitectures {
		builder := nn.NewNetworkBuilder().InputLayer(config.MaxTextLength)
		for _, layer := range arch.hidden {
			builder.HiddenLayer(layer.Size, layer.Activation)
		}
		net, err := builder.
			OutputLayer(config.EmbeddingDim, nn.Linear).
			LearningRate(config.LearningRate * arch.lrScale).
			Build()
		if err != nil {
			return nil, fmt.Errorf("embedding: build %s network: %w", memoryType, err)
		}
		specialized[memoryType] = net
	}

	return &Service{
		config:      config,
		general:     general,
		specialized: specialized,
		cache:       make(map[string][]float32),
	}, nil
}

// Config returns the service configuration.
func (s *Service) Config() Config { return s.config }

// EmbedText embeds raw text with the general network.
func (s *Service) EmbedText(text string) ([]float32, error) {
	return s.embed(text, "", s.general)
}

// EmbedTextTyped embeds raw text with the network specialized for the
// given memory type. Unknown types fall back to the general network. The
// type is part of the cache key, so typed and untyped embeddings of the
// same text are cached separately.
func (s *Service) EmbedTextTyped(text string, memoryType memory.MemoryType) ([]float32, error) {
	return s.embed(text, memoryType, s.networkFor(memoryType))
}

// EmbedMemory embeds a record with the network specialized for its type.
// The record's type, metadata and tags are folded into the input text.
func (s *Service) EmbedMemory(record *memory.MemoryRecord) ([]float32, error) {
	if record == nil {
		return nil, errors.New("embedding: nil record")
	}
	return s.embed(EnhanceText(record), record.MemoryType, s.networkFor(record.MemoryType))
}

// EmbedBatch embeds multiple records, stopping at the first failure.
func (s *Service) EmbedBatch(records []*memory.MemoryRecord) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(records))
	for i, record := range records {
		emb, err := s.EmbedMemory(record)
		if err != nil {
			return nil, fmt.Errorf("embedding: record %d: %w", i, err)
		}
		embeddings = append(embeddings, emb)
	}
	return embeddings, nil
}

func (s *Service) networkFor(memoryType memory.MemoryType) *nn.Network {
	if net, ok := s.specialized[memoryType]; ok {
		return net
	}
	return s.general
}

func (s *Service) embed(text string, memoryType memory.MemoryType, net *nn.Network) ([]float32, error) {
	key := cacheKey(text, memoryType)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok {
		out := make([]float32, len(cached))
		copy(out, cached)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[key]; ok {
		out := make([]float32, len(cached))
		copy(out, cached)
		return out, nil
	}

	raw, err := net.Run(TextToFeatures(text, s.config.MaxTextLength))
	if err != nil {
		return nil, fmt.Errorf("embedding: run network: %w", err)
	}
	result := normalize(raw)

	if len(s.cache) >= s.config.CacheSizeLimit {
		s.cache = make(map[string][]float32)
	}
	stored := make([]float32, len(result))
	copy(stored, result)
	s.cache[key] = stored

	return result, nil
}

// TrainingReport summarizes one training run.
type TrainingReport struct {
	TrainedRecords int
	Epochs         int
	GeneralLoss    float32
	FinalLoss      map[memory.MemoryType]float32
}

// TrainOnMemories retrains the networks on the given records. Records are
// grouped by type; each specialized network trains on its own group while
// the general network trains on everything. The embedding cache is
// cleared afterwards so stale vectors cannot be served.
//
// Training failures of individual networks do not abort the run. The
// returned report reflects what trained; the error aggregates what did
// not.
func (s *Service) TrainOnMemories(records []*memory.MemoryRecord) (*TrainingReport, error) {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()
	return s.train(records)
}

// TryTrainOnMemories is the non-blocking variant of TrainOnMemories. It
// returns ErrTrainingInProgress when a training run is already underway.
func (s *Service) TryTrainOnMemories(records []*memory.MemoryRecord) (*TrainingReport, error) {
	if !s.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer s.trainMu.Unlock()
	return s.train(records)
}

func (s *Service) train(records []*memory.MemoryRecord) (*TrainingReport, error) {
	report := &TrainingReport{
		Epochs:    s.config.TrainingEpochs,
		FinalLoss: make(map[memory.MemoryType]float32),
	}
	if len(records) == 0 {
		return report, nil
	}

	byType := make(map[memory.MemoryType]*nn.TrainingData)
	var generalData nn.TrainingData

	for _, record := range records {
		if record == nil {
			continue
		}
		input := TextToFeatures(EnhanceText(record), s.config.MaxTextLength)
		target := targetEmbedding(record.Content, record.MemoryType, s.config.EmbeddingDim)

		generalData.AddExample(input, target)
		data, ok := byType[record.MemoryType]
		if !ok {
			data = &nn.TrainingData{}
			byType[record.MemoryType] = data
		}
		data.AddExample(input, target)
		report.TrainedRecords++
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var failures []string

	for memoryType, data := range byType {
		net, ok := s.specialized[memoryType]
		if !ok {
			continue
		}
		history, err := net.Train(data.Inputs, data.Outputs, s.config.TrainingEpochs)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", memoryType, err))
			continue
		}
		if len(history) > 0 {
			report.FinalLoss[memoryType] = history[len(history)-1]
		}
	}

	history, err := s.general.Train(generalData.Inputs, generalData.Outputs, s.config.TrainingEpochs)
	if err != nil {
		failures = append(failures, fmt.Sprintf("general: %v", err))
	} else if len(history) > 0 {
		report.GeneralLoss = history[len(history)-1]
	}

	s.cache = make(map[string][]float32)

	if len(failures) > 0 {
		return report, fmt.Errorf("embedding: training failed for %s", strings.Join(failures, "; "))
	}
	return report, nil
}

// Match pairs a record with its similarity to a query.
type Match struct {
	Record     *memory.MemoryRecord
	Similarity float32
}

// FindSimilarMemories embeds the query with the general network and ranks
// the candidates by cosine similarity. Candidates without a stored
// embedding are embedded on the fly. Matches below minSimilarity are
// dropped; at most limit matches are returned, best first.
func (s *Service) FindSimilarMemories(query string, candidates []*memory.MemoryRecord, limit int, minSimilarity float32) ([]Match, error) {
	queryEmb, err := s.EmbedText(query)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		emb := candidate.Embedding
		if emb == nil {
			emb, err = s.EmbedMemory(candidate)
			if err != nil {
				return nil, err
			}
		}
		sim := nn.CosineSimilarity(queryEmb, emb)
		if sim < minSimilarity {
			continue
		}
		matches = append(matches, Match{Record: candidate, Similarity: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Stats reports the current state of the service.
type Stats struct {
	CacheSize       int `json:"cache_size"`
	CacheLimit      int `json:"cache_limit"`
	EmbeddingDim    int `json:"embedding_dim"`
	NetworkCount    int `json:"network_count"`
	TotalParameters int `json:"total_parameters"`
}

// Stats returns cache and network statistics.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	params := networkParameters(s.general)
	for _, net := range s.specialized {
		params += networkParameters(net)
	}
	return Stats{
		CacheSize:       len(s.cache),
		CacheLimit:      s.config.CacheSizeLimit,
		EmbeddingDim:    s.config.EmbeddingDim,
		NetworkCount:    1 + len(s.specialized),
		TotalParameters: params,
	}
}

// ClearCache drops every cached embedding.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string][]float32)
}

func networkParameters(net *nn.Network) int {
	return net.TotalConnections() + net.TotalNeurons() - net.NumInputs()
}
