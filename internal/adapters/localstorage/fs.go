package localstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store implements ports.ArtifactStore for a local destination directory.
type Store struct {
	DestDir string
}

// NewStore creates a new Store rooted at destDir.
func NewStore(destDir string) *Store {
	return &Store{DestDir: destDir}
}

// CopyArtifact copies the file at srcPath into the destination directory,
// keeping its base name, and returns the destination path.
func (s *Store) CopyArtifact(ctx context.Context, srcPath string) (string, error) {
	if err := os.MkdirAll(s.DestDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory %s: %w", s.DestDir, err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact %s: %w", srcPath, err)
	}
	defer src.Close()

	destPath := filepath.Join(s.DestDir, filepath.Base(srcPath))
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return "", fmt.Errorf("failed to copy artifact: %w", err)
	}
	return destPath, nil
}
