package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeNote(t *testing.T, root, relPath, content string) string {
	t.Helper()
	fullPath := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	return fullPath
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	writeNote(t, tmpDir, "b.md", "# B")
	writeNote(t, tmpDir, "a.md", "# A")
	writeNote(t, tmpDir, "2024/01-02.md", "# Daily")
	writeNote(t, tmpDir, "readme.txt", "not a note")
	writeNote(t, tmpDir, "image.png", "binary")

	scanner, err := NewScanner(tmpDir)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	files, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	wantRel := []string{"2024/01-02.md", "a.md", "b.md"}
	if len(files) != len(wantRel) {
		t.Fatalf("Scan() found %d files, want %d", len(files), len(wantRel))
	}
	for i, want := range wantRel {
		if files[i].RelPath != want {
			t.Errorf("files[%d].RelPath = %v, want %v", i, files[i].RelPath, want)
		}
		if files[i].Path != filepath.Join(tmpDir, filepath.FromSlash(want)) {
			t.Errorf("files[%d].Path = %v", i, files[i].Path)
		}
	}
}

func TestScanner_Scan_SkipsHiddenDirs(t *testing.T) {
	tmpDir := t.TempDir()

	writeNote(t, tmpDir, "note.md", "# Note")
	writeNote(t, tmpDir, ".obsidian/workspace.md", "# Config")
	writeNote(t, tmpDir, ".git/COMMIT.md", "# Git")

	scanner, err := NewScanner(tmpDir)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	files, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(files) != 1 || files[0].RelPath != "note.md" {
		t.Errorf("Scan() = %+v, want only note.md", files)
	}
}

func TestScanner_Scan_ModTimeMillis(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeNote(t, tmpDir, "note.md", "# Note")

	modTime := time.Date(2024, 3, 1, 12, 0, 0, 123_000_000, time.UTC)
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	scanner, err := NewScanner(tmpDir)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	files, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("Scan() found %d files, want 1", len(files))
	}
	if files[0].ModTime != modTime.UnixMilli() {
		t.Errorf("ModTime = %v, want %v", files[0].ModTime, modTime.UnixMilli())
	}
}

func TestScanner_Scan_EmptyDir(t *testing.T) {
	scanner, err := NewScanner(t.TempDir())
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	files, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Scan() found %d files, want 0", len(files))
	}
}

func TestScanner_Scan_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	writeNote(t, tmpDir, "note.md", "# Note")

	scanner, err := NewScanner(tmpDir)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := scanner.Scan(ctx); err == nil {
		t.Error("Scan() expected error for cancelled context")
	}
}
