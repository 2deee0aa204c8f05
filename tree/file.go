package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads a locale JSON file. The returned node is never nil: a missing
// file yields an empty node and no error, an unreadable or malformed file
// yields an empty node together with the error so the caller can report it.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return New(), fmt.Errorf("reading %s: %w", path, err)
	}
	n, err := Parse(data)
	if err != nil {
		return New(), fmt.Errorf("parsing %s: %w", path, err)
	}
	return n, nil
}

// Save writes n to path, creating parent directories.
func Save(path string, n *Node) error {
	data, err := Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
