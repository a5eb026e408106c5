package docker

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Debe2025/epg-fetcher/internal/core/domain"
	"github.com/Debe2025/epg-fetcher/internal/core/ports"
)

const (
	// DefaultImage is the published grabber image.
	DefaultImage = "ghcr.io/iptv-org/epg:master"

	containerChannelsPath = "/epg/channels.xml"
	containerOutputPath   = "/epg/output"
	guideFileName         = "guide.xml"
)

// Runner implements ports.Backend by running the grabber container image.
type Runner struct {
	image  string
	runner ports.CommandRunner
	logger *log.Logger
}

// NewRunner creates a container backend for the given image. An empty image
// selects DefaultImage.
func NewRunner(image string, runner ports.CommandRunner, logger *log.Logger) *Runner {
	if image == "" {
		image = DefaultImage
	}
	return &Runner{image: image, runner: runner, logger: logger}
}

func (r *Runner) Name() string { return "docker" }

func (r *Runner) RequiresSetup() bool { return false }

func (r *Runner) Setup(ctx context.Context) error { return nil }

// Fetch runs the grabber image with the channel list mounted read-only and
// the output directory mounted read-write. The site-only selector is not
// supported by the image.
func (r *Runner) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	if req.Site != "" {
		return nil, &domain.UnsupportedModeError{
			Backend: r.Name(),
			Reason:  "site selector requires the local backend",
		}
	}
	if req.ChannelsFile == "" {
		return nil, &domain.InvalidRequestError{Reason: "container backend requires a channel-list file"}
	}

	channelsPath, err := filepath.Abs(req.ChannelsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel list path: %w", err)
	}
	if _, err := os.Stat(channelsPath); err != nil {
		return nil, &domain.InvalidRequestError{Reason: "channels file not found: " + req.ChannelsFile}
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	args := runArgs(req, channelsPath, outputDir, r.image)
	r.logger.Printf("Command: docker %s", strings.Join(args, " "))

	res, err := r.runner.Run(ctx, ports.Command{Name: "docker", Args: args})
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.BackendExecutionError{Backend: r.Name(), Reason: "cancelled", Err: err}
		}
		return nil, &domain.BackendExecutionError{Backend: r.Name(), Reason: "failed to start docker", Err: err}
	}
	if res.ExitCode != 0 {
		return nil, &domain.BackendExecutionError{Backend: r.Name(), ExitCode: res.ExitCode}
	}

	outFile := filepath.Join(outputDir, guideFileName)
	if _, err := os.Stat(outFile); err != nil {
		return nil, &domain.OutputMissingError{Backend: r.Name(), Path: outFile}
	}

	result := &domain.FetchResult{Backend: r.Name(), Path: outFile}
	if req.Gzip {
		if _, err := os.Stat(outFile + ".gz"); err == nil {
			result.GzipPath = outFile + ".gz"
		}
	}
	return result, nil
}

// runArgs builds the docker invocation: bind mounts first, then the
// documented environment variables, then the image.
func runArgs(req domain.FetchRequest, channelsPath, outputDir, image string) []string {
	args := []string{
		"run", "--rm",
		"-v", channelsPath + ":" + containerChannelsPath + ":ro",
		"-v", outputDir + ":" + containerOutputPath,
		"-e", fmt.Sprintf("MAX_CONNECTIONS=%d", req.MaxConnections),
		"-e", fmt.Sprintf("TIMEOUT=%d", req.TimeoutMS),
		"-e", fmt.Sprintf("DELAY=%d", req.DelayMS),
		"-e", fmt.Sprintf("GZIP=%t", req.Gzip),
		"-e", "RUN_AT_STARTUP=true",
	}
	if req.Days > 0 {
		args = append(args, "-e", fmt.Sprintf("DAYS=%d", req.Days))
	}
	return append(args, image)
}
