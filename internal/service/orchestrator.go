package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Debe2025/epg-fetcher/internal/core/domain"
	"github.com/Debe2025/epg-fetcher/internal/core/ports"
)

// State tracks the orchestrator lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateSettingUp     State = "setting_up"
	StateReady         State = "ready"
	StateFetching      State = "fetching"
	StateFailed        State = "failed"
)

// Orchestrator coordinates a guide fetch: it validates the request, picks
// an execution backend, delegates, and verifies the produced artifact.
// A single Orchestrator owns one working directory; concurrent Fetch calls
// on the same instance must be serialized by the caller.
type Orchestrator struct {
	local     ports.Backend
	container ports.Backend
	store     ports.ArtifactStore
	logger    *log.Logger

	workDir string
	state   State

	// Last successful fetch, consulted by Cleanup so it never deletes a
	// guide that only exists inside the work dir.
	artifactPath   string
	artifactCopied bool

	// lookPath is swapped out in tests.
	lookPath func(string) (string, error)
}

// NewOrchestrator creates an Orchestrator over the two backends. store may
// be nil when no copy-out destination is configured.
func NewOrchestrator(local, container ports.Backend, store ports.ArtifactStore, workDir string, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		local:     local,
		container: container,
		store:     store,
		logger:    logger,
		workDir:   workDir,
		state:     StateUninitialized,
		lookPath:  exec.LookPath,
	}
}

// ResolveWorkDir returns an absolute working directory, creating a fresh
// temp directory when none is supplied.
func ResolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		dir, err := os.MkdirTemp("", "epg-")
		if err != nil {
			return "", fmt.Errorf("failed to create work directory: %w", err)
		}
		return dir, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve work directory: %w", err)
	}
	return abs, nil
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// WorkDir returns the working directory owned by this orchestrator.
func (o *Orchestrator) WorkDir() string {
	return o.workDir
}

// Fetch executes a complete guide fetch for the given request.
func (o *Orchestrator) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	jobID := uuid.New().String()
	o.logger.Printf("[JOB %s] Starting fetch (backend=%s)", jobID, req.Backend)

	if err := req.Validate(); err != nil {
		o.state = StateFailed
		o.logger.Printf("[JOB %s] ERROR: %v", jobID, err)
		return nil, err
	}

	// Backend resolution happens exactly once, before any work; failures
	// later never fall back to the other backend.
	backend, err := o.selectBackend(req)
	if err != nil {
		o.state = StateFailed
		o.logger.Printf("[JOB %s] ERROR: %v", jobID, err)
		return nil, err
	}
	o.logger.Printf("[JOB %s] Using %s backend", jobID, backend.Name())

	// The container image only consumes an on-disk channel list, so an
	// in-memory list is serialized into the work dir first.
	if backend == o.container && len(req.Channels) > 0 {
		path := filepath.Join(o.workDir, "channels.xml")
		if err := os.MkdirAll(o.workDir, 0755); err != nil {
			o.state = StateFailed
			return nil, &domain.SetupError{Step: "workdir", Err: err}
		}
		if err := domain.WriteChannelsFile(path, req.Channels); err != nil {
			o.state = StateFailed
			o.logger.Printf("[JOB %s] ERROR: %v", jobID, err)
			return nil, err
		}
		req.Channels = nil
		req.ChannelsFile = path
	}

	// Setup is memoized inside the backend, so repeat calls are cheap.
	if backend.RequiresSetup() {
		o.state = StateSettingUp
		if err := backend.Setup(ctx); err != nil {
			o.state = StateFailed
			o.logger.Printf("[JOB %s] ERROR: %v", jobID, err)
			return nil, err
		}
		o.state = StateReady
	}

	o.state = StateFetching
	o.logger.Printf("[JOB %s] Fetching guide data...", jobID)
	result, err := backend.Fetch(ctx, req)
	if err != nil {
		o.state = StateFailed
		o.logger.Printf("[JOB %s] ERROR: %v", jobID, err)
		return nil, err
	}

	if o.store != nil {
		copied, err := o.store.CopyArtifact(ctx, result.Path)
		if err != nil {
			o.state = StateFailed
			o.logger.Printf("[JOB %s] ERROR: %v", jobID, err)
			return nil, err
		}
		result.CopiedPath = copied
		if result.GzipPath != "" {
			if _, err := o.store.CopyArtifact(ctx, result.GzipPath); err != nil {
				o.state = StateFailed
				o.logger.Printf("[JOB %s] ERROR: %v", jobID, err)
				return nil, err
			}
		}
		o.logger.Printf("[JOB %s] Copied artifacts to destination", jobID)
	}

	o.state = StateReady
	result.JobID = jobID
	result.CompletedAt = time.Now().UTC()
	o.artifactPath = result.Path
	o.artifactCopied = result.CopiedPath != ""
	o.logger.Printf("[JOB %s] Fetch completed: %s", jobID, result.Path)
	return result, nil
}

// Cleanup removes the working directory, but only when it lives under the
// system temp root. A caller-supplied persistent directory is left alone,
// and so is a work dir still holding the only copy of the fetched guide.
func (o *Orchestrator) Cleanup() error {
	if o.artifactPath != "" && !o.artifactCopied && underDir(o.workDir, o.artifactPath) {
		o.logger.Printf("Keeping work directory (guide artifact lives inside it): %s", o.workDir)
		return nil
	}
	if !underTempRoot(o.workDir) {
		o.logger.Printf("Keeping work directory (not under temp storage): %s", o.workDir)
		return nil
	}
	if err := os.RemoveAll(o.workDir); err != nil {
		return fmt.Errorf("failed to remove work directory %s: %w", o.workDir, err)
	}
	o.logger.Printf("Cleaned up work directory: %s", o.workDir)
	return nil
}

func (o *Orchestrator) selectBackend(req domain.FetchRequest) (ports.Backend, error) {
	switch req.Backend {
	case domain.BackendLocal, "":
		return o.local, nil
	case domain.BackendContainer:
		return o.container, nil
	case domain.BackendAuto:
		// The image has no site mode, so a site selector forces local.
		if req.Site != "" {
			return o.local, nil
		}
		if _, err := o.lookPath("docker"); err == nil {
			return o.container, nil
		}
		if _, gitErr := o.lookPath("git"); gitErr == nil {
			if _, npmErr := o.lookPath("npm"); npmErr == nil {
				return o.local, nil
			}
		}
		return nil, &domain.SetupError{
			Step: "detect",
			Err:  errors.New("neither docker nor git+npm found on PATH"),
		}
	default:
		return nil, &domain.InvalidRequestError{Reason: "unknown backend: " + string(req.Backend)}
	}
}

// underDir reports whether path is strictly inside dir.
func underDir(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// underTempRoot reports whether path is strictly inside os.TempDir.
func underTempRoot(path string) bool {
	return underDir(os.TempDir(), path)
}
