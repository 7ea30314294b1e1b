package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks notes-explorer/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkStore defines the interface for chunk embedding storage operations.
type ChunkStore interface {
	// InsertBatch inserts chunk rows in order inside a single transaction.
	InsertBatch(ctx context.Context, chunks []EmbeddingRecord) error
	// DeleteByFile deletes all chunk rows for a file.
	DeleteByFile(ctx context.Context, file string) error
	// ListIDsByFile returns the chunk IDs currently stored for a file.
	ListIDsByFile(ctx context.Context, file string) ([]string, error)
	// ListAll returns every chunk row in insertion order.
	ListAll(ctx context.Context) ([]EmbeddingRecord, error)
}

// ChunkRepo provides methods for chunk embedding operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertBatch inserts chunk rows in order inside a single transaction, so
// readers see either none or all of a file's new chunks.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []EmbeddingRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO embeddings (chunk_id, content, file, embedding, "start", "end") VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, chunk := range chunks {
		vec, err := encodeVector(chunk.Embedding)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, chunk.ChunkID, chunk.Content, chunk.File, vec, chunk.Start, chunk.End); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

// DeleteByFile deletes all chunk rows for a file.
// Used when re-ingesting a note to remove old chunks before inserting new ones.
func (r *ChunkRepo) DeleteByFile(ctx context.Context, file string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM embeddings WHERE file = ?", file)
	if err != nil {
		return fmt.Errorf("failed to delete chunks by file: %w", err)
	}
	return nil
}

// ListIDsByFile returns the chunk IDs currently stored for a file.
// Rows without a chunk ID are skipped. Returns an empty slice if none exist.
func (r *ChunkRepo) ListIDsByFile(ctx context.Context, file string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT chunk_id FROM embeddings WHERE file = ? AND chunk_id IS NOT NULL ORDER BY id",
		file,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// ListAll returns every chunk row in insertion order, with vectors decoded.
func (r *ChunkRepo) ListAll(ctx context.Context) ([]EmbeddingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT chunk_id, content, file, embedding, "start", "end" FROM embeddings ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []EmbeddingRecord
	for rows.Next() {
		var (
			chunk      EmbeddingRecord
			chunkID    sql.NullString
			raw        []byte
			start, end sql.NullInt64
		)
		if err := rows.Scan(&chunkID, &chunk.Content, &chunk.File, &raw, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.ChunkID = chunkID.String
		chunk.Start = int(start.Int64)
		chunk.End = int(end.Int64)
		chunk.Embedding, err = decodeVector(raw)
		if err != nil {
			return nil, fmt.Errorf("chunk in %s: %w", chunk.File, err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}
