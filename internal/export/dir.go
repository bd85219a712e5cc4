package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirDestination writes files into a local directory.
type DirDestination struct {
	dir string
}

// NewDirDestination creates a directory destination. The directory is
// created on first write.
func NewDirDestination(dir string) *DirDestination {
	return &DirDestination{dir: dir}
}

// Write stores data as dir/name, replacing any existing file atomically.
func (d *DirDestination) Write(_ context.Context, name string, data []byte) error {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return fmt.Errorf("invalid export name %q", name)
	}
	path := filepath.Join(d.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
