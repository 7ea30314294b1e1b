package vault

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// ScannedFile represents a markdown file found in the notes directory.
type ScannedFile struct {
	Path    string // Path used as the note's identity (notes dir joined with RelPath)
	RelPath string // Relative path from the notes dir, forward slashes (e.g., "2024/01-02.md")
	ModTime int64  // Modification time in Unix milliseconds
}

// Scan walks the notes directory and returns every markdown file, sorted by
// path. Hidden directories (e.g. ".obsidian", ".git") are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".md" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}

		files = append(files, ScannedFile{
			Path:    path,
			RelPath: filepath.ToSlash(relPath),
			ModTime: info.ModTime().UnixMilli(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan notes directory %s: %w", s.root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}
