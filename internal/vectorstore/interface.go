package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks notes-explorer/internal/vectorstore VectorStore

import "context"

// Point represents a chunk vector with its payload.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// VectorStore mirrors chunk rows into an external vector database.
// It is write-only from the application's point of view: ranking always
// runs over the SQLite rows.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, points []Point) error

	// Delete removes points by their IDs.
	Delete(ctx context.Context, ids []string) error
}
