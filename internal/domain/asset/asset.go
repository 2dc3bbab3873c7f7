package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrNotFound = errors.New("video file does not exist")
	ErrNotAFile = errors.New("path is not a regular file")
)

// Asset is a source video identified by its absolute path. It is owned by
// the caller and never mutated by the pipeline.
type Asset struct {
	Path string
	Size int64
}

// Resolve validates that path names an existing regular file and returns
// it with its absolute path and byte size.
func Resolve(path string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Asset{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Asset{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return Asset{}, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Asset{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	return Asset{Path: abs, Size: info.Size()}, nil
}

// Name returns the base name of the asset.
func (a Asset) Name() string {
	return filepath.Base(a.Path)
}

// Stem returns the base name without its extension.
func (a Asset) Stem() string {
	name := a.Name()
	return name[:len(name)-len(filepath.Ext(name))]
}
