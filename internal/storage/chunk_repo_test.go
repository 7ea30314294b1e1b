package storage

import (
	"context"
	"testing"
)

func TestChunkRepo_InsertBatchAndListAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewChunkRepo(db)
	ctx := context.Background()

	chunks := []EmbeddingRecord{
		{ChunkID: "c1", Content: "first", File: "a.md", Embedding: []float32{1, 0}, Start: 1, End: 2},
		{ChunkID: "c2", Content: "second", File: "a.md", Embedding: []float32{0, 1}, Start: 3, End: 3},
		{ChunkID: "c3", Content: "third", File: "b.md", Embedding: []float32{1, 1}, Start: 1, End: 1},
	}
	if err := repo.InsertBatch(ctx, chunks); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("ListAll() returned %d rows, want %d", len(got), len(chunks))
	}
	for i := range chunks {
		if got[i].ChunkID != chunks[i].ChunkID || got[i].Content != chunks[i].Content || got[i].File != chunks[i].File {
			t.Errorf("row %d = %+v, want %+v", i, got[i], chunks[i])
		}
		if got[i].Start != chunks[i].Start || got[i].End != chunks[i].End {
			t.Errorf("row %d range = %d:%d, want %d:%d", i, got[i].Start, got[i].End, chunks[i].Start, chunks[i].End)
		}
		if !got[i].HasRange() {
			t.Errorf("row %d HasRange() = false", i)
		}
	}
}

func TestChunkRepo_InsertBatchEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewChunkRepo(db)

	if err := repo.InsertBatch(context.Background(), nil); err != nil {
		t.Errorf("InsertBatch(nil) error = %v", err)
	}
}

func TestChunkRepo_DeleteByFile(t *testing.T) {
	db := newTestDB(t)
	repo := NewChunkRepo(db)
	ctx := context.Background()

	err := repo.InsertBatch(ctx, []EmbeddingRecord{
		{ChunkID: "x", Content: "X", File: "a.md", Embedding: []float32{1}},
		{ChunkID: "y", Content: "Y", File: "a.md", Embedding: []float32{1}},
		{ChunkID: "z", Content: "keep", File: "b.md", Embedding: []float32{1}},
	})
	if err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}

	ids, err := repo.ListIDsByFile(ctx, "a.md")
	if err != nil {
		t.Fatalf("ListIDsByFile() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "x" || ids[1] != "y" {
		t.Errorf("ListIDsByFile() = %v, want [x y]", ids)
	}

	if err := repo.DeleteByFile(ctx, "a.md"); err != nil {
		t.Fatalf("DeleteByFile() error = %v", err)
	}

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(got) != 1 || got[0].File != "b.md" {
		t.Errorf("ListAll() after delete = %+v, want only b.md", got)
	}

	ids, err = repo.ListIDsByFile(ctx, "a.md")
	if err != nil {
		t.Fatalf("ListIDsByFile() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ListIDsByFile() after delete = %v, want empty", ids)
	}
}
