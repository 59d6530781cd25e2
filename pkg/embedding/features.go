package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
)

// TextToFeatures converts text into a fixed-length feature vector. Each
// rune becomes its codepoint scaled into [0, 1). When the text is short
// enough to leave the last ten slots free, five global statistics are
// written there: length, word count, average word length, punctuation
// density and uppercase density.
func TextToFeatures(text string, maxLength int) []float32 {
	features := make([]float32, maxLength)

	runes := []rune(text)
	if len(runes) > maxLength {
		runes = runes[:maxLength]
	}
	for i, r := range runes {
		features[i] = float32(r) / 65536.0
	}

	if len(runes)+10 < maxLength {
		words := strings.Fields(text)
		var totalWordLen, punct, upper int
		for _, w := range words {
			totalWordLen += len([]rune(w))
		}
		for _, r := range text {
			if unicode.IsPunct(r) {
				punct++
			}
			if unicode.IsUpper(r) {
				upper++
			}
		}
		avgWordLen := float32(0)
		if len(words) > 0 {
			avgWordLen = float32(totalWordLen) / float32(len(words))
		}

		textLen := len([]rune(text))
		stats := []float32{
			float32(textLen) / 1000.0,
			float32(len(words)) / 100.0,
			avgWordLen / 20.0,
			float32(punct) / float32(textLen+1),
			float32(upper) / float32(textLen+1),
		}
		for i, s := range stats {
			features[maxLength-10+i] = s
		}
	}

	return features
}

// EnhanceText appends the record's type, metadata and tags to its content
// so the networks can see them. Metadata keys are sorted for stable
// output.
func EnhanceText(record *memory.MemoryRecord) string {
	var b strings.Builder
	b.WriteString(record.Content)
	fmt.Fprintf(&b, " [TYPE:%s]", record.MemoryType)

	keys := make([]string, 0, len(record.Metadata))
	for k := range record.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " [%s:%s]", k, record.Metadata[k])
	}

	if len(record.Tags) > 0 {
		fmt.Fprintf(&b, " [TAGS:%s]", strings.Join(record.Tags, ","))
	}
	return b.String()
}

// targetEmbedding derives a deterministic training target from the
// content hash. Each memory type biases the last dimension so that types
// separate in the embedding space. The result is L2-normalized.
func targetEmbedding(content string, memoryType memory.MemoryType, dim int) []float32 {
	hash := sha256.Sum256([]byte(content))

	target := make([]float32, dim)
	for i := range target {
		target[i] = float32(hash[i%len(hash)]) / 255.0
	}
	if dim > 10 {
		target[dim-1] += memoryType.TargetBias()
	}
	return normalize(target)
}

// cacheKey derives a stable lookup key from the text and the type tag.
func cacheKey(text string, memoryType memory.MemoryType) string {
	hash := sha256.Sum256([]byte(text + "|" + string(memoryType)))
	return hex.EncodeToString(hash[:])
}

// normalize L2-normalizes in place and returns v. A zero vector is left
// unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= norm
	}
	return v
}
