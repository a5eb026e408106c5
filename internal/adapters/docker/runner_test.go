package docker

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Debe2025/epg-fetcher/internal/adapters/execrunner"
	"github.com/Debe2025/epg-fetcher/internal/core/domain"
	"github.com/Debe2025/epg-fetcher/internal/core/ports"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func writeChannelsFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "channels.xml")
	channels := []domain.Channel{
		{Site: "arirang.com", Lang: "en", XMLTVID: "ArirangTV.kr", SiteID: "CH_K", Name: "Arirang TV"},
	}
	if err := domain.WriteChannelsFile(path, channels); err != nil {
		t.Fatalf("Failed to write channel list: %v", err)
	}
	return path
}

func TestFetchSiteUnsupported(t *testing.T) {
	mock := &execrunner.MockRunner{}
	r := NewRunner("", mock, testLogger())

	req := domain.NewFetchRequest()
	req.Site = "arirang.com"

	_, err := r.Fetch(context.Background(), req)
	var unsupported *domain.UnsupportedModeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected UnsupportedModeError, got %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("Expected no docker invocation, got %d calls", len(mock.Calls))
	}
}

func TestFetchMissingChannelsFile(t *testing.T) {
	mock := &execrunner.MockRunner{}
	r := NewRunner("", mock, testLogger())

	req := domain.NewFetchRequest()
	req.ChannelsFile = filepath.Join(t.TempDir(), "nope.xml")

	_, err := r.Fetch(context.Background(), req)
	var invalid *domain.InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidRequestError, got %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("Expected no docker invocation, got %d calls", len(mock.Calls))
	}
}

func TestRunArgs(t *testing.T) {
	req := domain.NewFetchRequest()
	req.MaxConnections = 10
	req.Days = 3
	req.Gzip = true

	got := runArgs(req, "/data/channels.xml", "/data/output", DefaultImage)
	want := []string{
		"run", "--rm",
		"-v", "/data/channels.xml:/epg/channels.xml:ro",
		"-v", "/data/output:/epg/output",
		"-e", "MAX_CONNECTIONS=10",
		"-e", "TIMEOUT=30000",
		"-e", "DELAY=0",
		"-e", "GZIP=true",
		"-e", "RUN_AT_STARTUP=true",
		"-e", "DAYS=3",
		DefaultImage,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected args %v, got %v", want, got)
	}
}

func TestFetchSuccess(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "output")

	mock := &execrunner.MockRunner{
		Hook: func(_ int, cmd ports.Command) {
			if err := os.WriteFile(filepath.Join(outputDir, "guide.xml"), []byte("<tv/>"), 0644); err != nil {
				t.Fatalf("Failed to write guide: %v", err)
			}
		},
	}
	r := NewRunner("", mock, testLogger())

	req := domain.NewFetchRequest()
	req.ChannelsFile = writeChannelsFile(t, dir)
	req.OutputDir = outputDir

	result, err := r.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.Path != filepath.Join(outputDir, "guide.xml") {
		t.Errorf("Unexpected result path: %s", result.Path)
	}
	if len(mock.Calls) != 1 || mock.Calls[0].Name != "docker" {
		t.Fatalf("Expected a single docker invocation, got %v", mock.Calls)
	}
}

func TestFetchNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	mock := &execrunner.MockRunner{Results: []ports.RunResult{{ExitCode: 125}}}
	r := NewRunner("", mock, testLogger())

	req := domain.NewFetchRequest()
	req.ChannelsFile = writeChannelsFile(t, dir)
	req.OutputDir = filepath.Join(dir, "output")

	_, err := r.Fetch(context.Background(), req)
	var execErr *domain.BackendExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Expected BackendExecutionError, got %v", err)
	}
	if execErr.ExitCode != 125 {
		t.Errorf("Expected exit code 125, got %d", execErr.ExitCode)
	}
}

func TestFetchOutputMissing(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner("", &execrunner.MockRunner{}, testLogger())

	req := domain.NewFetchRequest()
	req.ChannelsFile = writeChannelsFile(t, dir)
	req.OutputDir = filepath.Join(dir, "output")

	_, err := r.Fetch(context.Background(), req)
	var missing *domain.OutputMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected OutputMissingError, got %v", err)
	}
}
