package ports

import (
	"context"

	"github.com/Debe2025/epg-fetcher/internal/core/domain"
)

// Command is a single external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Capture collects combined output instead of inheriting the caller's
	// standard streams.
	Capture bool
}

// RunResult is the outcome of a command that was started successfully.
type RunResult struct {
	ExitCode int
	Output   []byte
}

// CommandRunner executes external commands. A non-nil error means the
// process could not be started or was interrupted; a non-zero exit code
// with a nil error means the process ran and failed.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (RunResult, error)
}

// Backend runs the grabber via one execution strategy.
type Backend interface {
	Name() string

	// RequiresSetup reports whether Fetch must be preceded by Setup.
	RequiresSetup() bool

	// Setup prepares the backend. Idempotent; memoized per instance.
	Setup(ctx context.Context) error

	// Fetch runs the grabber and returns the produced guide artifact.
	Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error)
}

// ChannelSource resolves a remote channel-list document into a local file.
type ChannelSource interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// ArtifactStore persists guide artifacts outside the working directory.
type ArtifactStore interface {
	// CopyArtifact copies the file at srcPath into the store and returns
	// the destination path.
	CopyArtifact(ctx context.Context, srcPath string) (string, error)
}
