package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeEmbedding serializes an embedding as little-endian float32 bytes.
// A nil embedding encodes as nil.
func EncodeEmbedding(embedding []float32) []byte {
	if embedding == nil {
		return nil
	}
	buf := make([]byte, 4*len(embedding))
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeEmbedding deserializes little-endian float32 bytes produced by
// EncodeEmbedding. Fails when the byte count is not a multiple of four.
func DecodeEmbedding(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("storage: embedding blob has %d bytes, not a multiple of 4", len(data))
	}
	embedding := make([]float32, len(data)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return embedding, nil
}
