package storage

import (
	"encoding/json"
	"fmt"
)

// NoteRecord is one source file with its whole-note embedding.
type NoteRecord struct {
	File         string    // Path of the note, unique
	Content      string    // Full text at ingest time
	Embedding    []float32 // Embedding of the whole note
	LastModified int64     // File modification time in Unix milliseconds
}

// TopicRecord is a deduplicated topic label shared across notes.
type TopicRecord struct {
	Topic     string
	Embedding []float32
}

// EmbeddingRecord is a chunk of a note with its vector.
type EmbeddingRecord struct {
	ChunkID   string // UUID, empty for rows written before chunk IDs existed
	Content   string // Verbatim substring of the note
	File      string // Owning note's path
	Embedding []float32
	Start     int // 1-based first line, 0 when not persisted
	End       int // 1-based last line, 0 when not persisted
}

// HasRange reports whether the line range was persisted at ingest time.
func (r EmbeddingRecord) HasRange() bool {
	return r.Start > 0 && r.End > 0
}

// encodeVector renders a vector in the JSON array form kept in the database.
func encodeVector(vec []float32) (string, error) {
	if vec == nil {
		vec = []float32{}
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return "", fmt.Errorf("failed to encode vector: %w", err)
	}
	return string(raw), nil
}

// decodeVector parses a stored JSON array into a vector.
func decodeVector(raw []byte) ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, fmt.Errorf("failed to decode vector: %w", err)
	}
	return vec, nil
}
