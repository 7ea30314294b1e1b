package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewScanner(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "note.md")
	if err := os.WriteFile(filePath, []byte("# Test"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	tests := []struct {
		name    string
		root    string
		wantErr bool
	}{
		{name: "existing directory", root: tmpDir},
		{name: "missing directory", root: filepath.Join(tmpDir, "missing"), wantErr: true},
		{name: "file instead of directory", root: filePath, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner, err := NewScanner(tt.root)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewScanner() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && scanner.Root() != filepath.Clean(tt.root) {
				t.Errorf("Root() = %v, want %v", scanner.Root(), tt.root)
			}
		})
	}
}

func TestScanner_ReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "note.md")
	if err := os.WriteFile(filePath, []byte("line one\nline two"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	scanner, err := NewScanner(tmpDir)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	got, err := scanner.ReadFile(filePath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != "line one\nline two" {
		t.Errorf("ReadFile() = %q", got)
	}

	if _, err := scanner.ReadFile(filepath.Join(tmpDir, "gone.md")); err == nil {
		t.Error("ReadFile() expected error for missing file")
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".obsidian", true},
		{".git", true},
		{"notes", false},
		{".", false},
		{"..", false},
	}

	for _, tt := range tests {
		if got := isHidden(tt.name); got != tt.want {
			t.Errorf("isHidden(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
