package fileio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFile truncates or creates path, creating missing parent directories of the tree
func CreateFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if errors.Is(err, fs.ErrNotExist) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, mkErr)
		}
		f, err = os.Create(path)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
