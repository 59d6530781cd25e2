package graph

import (
	"fmt"
	"sort"
	"time"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
	"github.com/ob-labs/neuralmem-go/pkg/nn"
)

// SequenceAnalyzer models how an agent's memories evolve over time. Each
// memory type gets a recurrent model shaped for its rhythm; sequences
// dominated by a type run through that type's model.
type SequenceAnalyzer struct {
	inputSize  int
	hiddenSize int
	models     map[memory.MemoryType]*nn.SequenceModel
	general    *nn.SequenceModel
}

// NewSequenceAnalyzer builds the per-type sequence models. Every model
// projects down to outputSize so results are comparable across types.
func NewSequenceAnalyzer(inputSize, hiddenSize, outputSize int) (*SequenceAnalyzer, error) {
	build := func(mt nn.SequenceModelType, hidden, layers int) (*nn.SequenceModel, error) {
		return nn.NewSequenceModel(mt, inputSize, hidden, outputSize, layers)
	}

	models := make(map[memory.MemoryType]*nn.SequenceModel)
	var err error
	if models[memory.TypeConversation], err = build(nn.SequenceLSTM, hiddenSize, 2); err != nil {
		return nil, fmt.Errorf("graph: conversation sequence model: %w", err)
	}
	if models[memory.TypeTask], err = build(nn.SequenceGRU, hiddenSize, 2); err != nil {
		return nil, fmt.Errorf("graph: task sequence model: %w", err)
	}
	if models[memory.TypeLearning], err = build(nn.SequenceLSTM, hiddenSize*2, 3); err != nil {
		return nil, fmt.Errorf("graph: learning sequence model: %w", err)
	}
	if models[memory.TypePattern], err = build(nn.SequenceGRU, hiddenSize, 1); err != nil {
		return nil, fmt.Errorf("graph: pattern sequence model: %w", err)
	}

	general, err := build(nn.SequenceLSTM, hiddenSize, 2)
	if err != nil {
		return nil, fmt.Errorf("graph: general sequence model: %w", err)
	}

	return &SequenceAnalyzer{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		models:     models,
		general:    general,
	}, nil
}

// memoryToFeatures encodes one record as a sequence timestep. The first
// four slots carry the type code, content length, relevance and access
// count; the rest hold content codepoints.
func (a *SequenceAnalyzer) memoryToFeatures(record *memory.MemoryRecord) []float32 {
	features := make([]float32, a.inputSize)

	features[0] = record.MemoryType.SequenceCode()

	contentLen := float32(len([]rune(record.Content))) / 1000.0
	if contentLen > 1 {
		contentLen = 1
	}
	features[1] = contentLen
	features[2] = record.RelevanceScore

	access := float32(record.AccessCount) / 100.0
	if access > 1 {
		access = 1
	}
	features[3] = access

	for i, r := range []rune(record.Content) {
		if 4+i >= a.inputSize {
			break
		}
		features[4+i] = float32(r) / 65536.0
	}
	return features
}

// modelFor picks the model of the most frequent memory type, falling back
// to the general model when no type dominates with a dedicated model.
func (a *SequenceAnalyzer) modelFor(records []*memory.MemoryRecord) *nn.SequenceModel {
	counts := make(map[memory.MemoryType]int)
	for _, record := range records {
		counts[record.MemoryType]++
	}
	var dominant memory.MemoryType
	best := 0
	for memoryType, count := range counts {
		if count > best {
			best = count
			dominant = memoryType
		}
	}
	if model, ok := a.models[dominant]; ok {
		return model
	}
	return a.general
}

// ExtractTemporalPatterns orders the records by creation time and runs
// them through the dominant type's sequence model. An empty input yields
// a zero vector of the hidden size.
func (a *SequenceAnalyzer) ExtractTemporalPatterns(records []*memory.MemoryRecord) ([]float32, error) {
	if len(records) == 0 {
		return make([]float32, a.hiddenSize), nil
	}

	ordered := make([]*memory.MemoryRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	sequence := make([][]float32, len(ordered))
	for i, record := range ordered {
		sequence[i] = a.memoryToFeatures(record)
	}
	return a.modelFor(ordered).ProcessSequence(sequence)
}

// DetectPatterns describes recurring structure in the records: dominant
// activity, recurring types and the overall time span.
func (a *SequenceAnalyzer) DetectPatterns(records []*memory.MemoryRecord) []string {
	if len(records) == 0 {
		return nil
	}

	counts := make(map[memory.MemoryType]int)
	earliest := records[0].CreatedAt
	latest := records[0].CreatedAt
	for _, record := range records {
		counts[record.MemoryType]++
		if record.CreatedAt.Before(earliest) {
			earliest = record.CreatedAt
		}
		if record.CreatedAt.After(latest) {
			latest = record.CreatedAt
		}
	}

	var patterns []string
	for _, memoryType := range memory.AllTypes() {
		if counts[memoryType] >= 3 {
			patterns = append(patterns, fmt.Sprintf("recurring %s activity (%d memories)", memoryType, counts[memoryType]))
		}
	}

	span := latest.Sub(earliest)
	switch {
	case span < time.Hour && len(records) >= 5:
		patterns = append(patterns, fmt.Sprintf("burst of %d memories within %s", len(records), span.Round(time.Minute)))
	case span > 0:
		patterns = append(patterns, fmt.Sprintf("activity spanning %s", span.Round(time.Minute)))
	}
	return patterns
}
