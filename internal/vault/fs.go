package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/healthvault/internal/errors"
)

// FS is a Store rooted at a local directory.
type FS struct {
	root string
}

// NewFS creates a filesystem store rooted at dir.
func NewFS(dir string) *FS {
	return &FS{root: dir}
}

func (s *FS) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Write replaces the named file atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated vault file behind.
func (s *FS) Write(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	target := filepath.Join(s.root, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	_ = os.Remove(target)
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
