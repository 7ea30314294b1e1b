package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks notes-explorer/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// NoteStore defines the interface for note storage operations.
type NoteStore interface {
	// Exists reports whether a note row matches both the file and its modification time.
	Exists(ctx context.Context, file string, lastModified int64) (bool, error)
	// Get returns the note for a file. Returns ErrNotFound if not found.
	Get(ctx context.Context, file string) (*NoteRecord, error)
	// Upsert inserts a note or replaces the existing row for the same file.
	Upsert(ctx context.Context, note *NoteRecord) error
	// Invalidate marks a note stale so the next ingestion re-processes it.
	Invalidate(ctx context.Context, file string) error
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Exists reports whether a note row matches both the file and its modification time.
// This is the only change-detection signal used by ingestion.
func (r *NoteRepo) Exists(ctx context.Context, file string, lastModified int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notes WHERE file = ? AND last_modified = ?",
		file, lastModified,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query note: %w", err)
	}
	return count > 0, nil
}

// Get returns the note for a file. Returns ErrNotFound if not found.
func (r *NoteRepo) Get(ctx context.Context, file string) (*NoteRecord, error) {
	var (
		note NoteRecord
		raw  []byte
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT file, content, embedding, last_modified FROM notes WHERE file = ?",
		file,
	).Scan(&note.File, &note.Content, &raw, &note.LastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}

	note.Embedding, err = decodeVector(raw)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", file, err)
	}
	return &note, nil
}

// Upsert inserts a note or replaces the existing row for the same file.
func (r *NoteRepo) Upsert(ctx context.Context, note *NoteRecord) error {
	vec, err := encodeVector(note.Embedding)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notes (file, content, embedding, last_modified)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (file) DO UPDATE SET
		 content = excluded.content, embedding = excluded.embedding, last_modified = excluded.last_modified`,
		note.File, note.Content, vec, note.LastModified,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}
	return nil
}

// Invalidate marks a note stale so the next ingestion re-processes it.
// No real modification time is negative, so Exists never matches the row.
func (r *NoteRepo) Invalidate(ctx context.Context, file string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE notes SET last_modified = -1 WHERE file = ?", file)
	if err != nil {
		return fmt.Errorf("failed to invalidate note: %w", err)
	}
	return nil
}
