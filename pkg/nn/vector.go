package nn

import (
	"errors"
	"math"
)

// CosineSimilarity computes the cosine similarity of two vectors.
//
// Degenerate inputs are guarded rather than propagated: mismatched lengths or
// a zero-norm vector return 0 instead of NaN or ±Inf.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// EuclideanDistance computes the L2 distance between two vectors. Mismatched
// lengths return +Inf.
func EuclideanDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return float32(math.Inf(1))
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

// ManhattanDistance computes the L1 distance between two vectors. Mismatched
// lengths return +Inf.
func ManhattanDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return float32(math.Inf(1))
	}

	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return float32(sum)
}

// Normalize returns an L2-normalized copy of v. A zero-norm vector is
// returned unchanged (copied) so callers never divide by zero.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// KMeans clusters embeddings into k groups using Lloyd's algorithm with the
// first k embeddings as initial centroids. Returns the per-embedding cluster
// assignment. An empty input or k == 0 yields an empty assignment.
func KMeans(embeddings [][]float32, k, maxIterations int) ([]int, error) {
	if len(embeddings) == 0 || k == 0 {
		return nil, nil
	}
	if k > len(embeddings) {
		return nil, errors.New("k cannot be greater than the number of embeddings")
	}

	dim := len(embeddings[0])
	for _, e := range embeddings {
		if len(e) != dim {
			return nil, ErrDimensionMismatch
		}
	}

	centroids := make([][]float32, k)
	for i := 0; i < k; i++ {
		c := make([]float32, dim)
		copy(c, embeddings[i])
		centroids[i] = c
	}

	assignments := make([]int, len(embeddings))

	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for i, e := range embeddings {
			best := 0
			bestDist := float32(math.Inf(1))
			for ci, centroid := range centroids {
				if d := EuclideanDistance(e, centroid); d < bestDist {
					bestDist = d
					best = ci
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		for ci := range centroids {
			sum := make([]float64, dim)
			count := 0
			for i, e := range embeddings {
				if assignments[i] != ci {
					continue
				}
				for j, v := range e {
					sum[j] += float64(v)
				}
				count++
			}
			if count == 0 {
				continue
			}
			for j := range sum {
				centroids[ci][j] = float32(sum[j] / float64(count))
			}
		}
	}

	return assignments, nil
}

// matVecAdd computes w·x + b for a next×prev weight matrix.
func matVecAdd(w [][]float32, x, b []float32) []float32 {
	out := make([]float32, len(w))
	for row := range w {
		var sum float32
		for col, weight := range w[row] {
			sum += weight * x[col]
		}
		out[row] = sum + b[row]
	}
	return out
}

// matTransposeVec computes wᵗ·v for a next×prev weight matrix.
func matTransposeVec(w [][]float32, v []float32) []float32 {
	if len(w) == 0 {
		return nil
	}
	out := make([]float32, len(w[0]))
	for row := range w {
		for col, weight := range w[row] {
			out[col] += weight * v[row]
		}
	}
	return out
}
