package localstorage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyArtifact(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "guide.xml")
	if err := os.WriteFile(src, []byte("<tv/>"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	destDir := filepath.Join(t.TempDir(), "guides")
	store := NewStore(destDir)

	dest, err := store.CopyArtifact(context.Background(), src)
	if err != nil {
		t.Fatalf("CopyArtifact failed: %v", err)
	}
	if dest != filepath.Join(destDir, "guide.xml") {
		t.Errorf("Unexpected destination: %s", dest)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read copy: %v", err)
	}
	if string(data) != "<tv/>" {
		t.Errorf("Copy content differs: %q", data)
	}
}

func TestCopyArtifactMissingSource(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.CopyArtifact(context.Background(), filepath.Join(t.TempDir(), "nope.xml")); err == nil {
		t.Error("Expected error for missing source")
	}
}
