package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner enumerates the markdown notes under a single notes directory and
// reads their current contents.
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at the notes directory.
// It fails if the directory does not exist or is not a directory.
func NewScanner(root string) (*Scanner, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("notes directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notes directory %s: not a directory", root)
	}
	return &Scanner{root: filepath.Clean(root)}, nil
}

// Root returns the notes directory.
func (s *Scanner) Root() string {
	return s.root
}

// ReadFile returns the current content of a note identified by its path.
func (s *Scanner) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read note %s: %w", path, err)
	}
	return string(data), nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
