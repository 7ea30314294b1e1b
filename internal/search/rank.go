package search

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"notes-explorer/internal/storage"
)

var (
	// ErrDimensionMismatch is returned when two vectors of different length are compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrMixedDimensions is returned when stored chunk vectors disagree in
	// length, e.g. after the embedding model changed without a re-ingest.
	ErrMixedDimensions = errors.New("stored vectors have mixed dimensions")
)

// Scored pairs a stored chunk with its similarity to the query.
type Scored struct {
	Record storage.EmbeddingRecord
	Score  float64
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1. A zero-magnitude vector scores 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Rank scores every chunk against the query and sorts them by similarity,
// highest first. Equal scores keep the order the rows were given in.
// Rows of differing lengths fail with ErrMixedDimensions before the query is
// compared; a query of the wrong length fails with ErrDimensionMismatch.
func Rank(query []float32, rows []storage.EmbeddingRecord) ([]Scored, error) {
	if len(rows) > 0 {
		dim := len(rows[0].Embedding)
		for _, row := range rows[1:] {
			if len(row.Embedding) != dim {
				return nil, fmt.Errorf("%w: chunk in %s has %d, first chunk has %d",
					ErrMixedDimensions, row.File, len(row.Embedding), dim)
			}
		}
	}

	results := make([]Scored, 0, len(rows))
	for _, row := range rows {
		score, err := CosineSimilarity(query, row.Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk in %s: %w", row.File, err)
		}
		results = append(results, Scored{Record: row, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// Top returns at most n leading results.
func Top(results []Scored, n int) []Scored {
	if n >= 0 && n < len(results) {
		return results[:n]
	}
	return results
}
