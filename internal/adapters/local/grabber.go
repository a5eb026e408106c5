package local

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
	// DefaultRepoURL is the upstream grabber project cloned on first use.
	DefaultRepoURL = "https://github.com/iptv-org/epg.git"
	DefaultBranch  = "master"

	repoDirName      = "epg"
	channelsFileName = "channels.xml"
)

// Config holds the local backend settings. Zero values fall back to the
// upstream defaults.
type Config struct {
	WorkDir string
	RepoURL string
	Branch  string
}

// Grabber implements ports.Backend by running the grabber from a local git
// checkout via npm.
type Grabber struct {
	cfg       Config
	runner    ports.CommandRunner
	logger    *log.Logger
	setupDone bool
}

// NewGrabber creates a new Grabber rooted at cfg.WorkDir.
func NewGrabber(cfg Config, runner ports.CommandRunner, logger *log.Logger) *Grabber {
	if cfg.RepoURL == "" {
		cfg.RepoURL = DefaultRepoURL
	}
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	return &Grabber{cfg: cfg, runner: runner, logger: logger}
}

func (g *Grabber) Name() string { return "local" }

func (g *Grabber) RequiresSetup() bool { return true }

// RepoPath returns the grabber checkout location inside the work dir.
func (g *Grabber) RepoPath() string {
	return filepath.Join(g.cfg.WorkDir, repoDirName)
}

// Setup clones the grabber project (shallow, default branch) and installs
// its dependencies. Memoized: later calls on the same instance are no-ops.
func (g *Grabber) Setup(ctx context.Context) error {
	if g.setupDone {
		return nil
	}
	g.logger.Println("Setting up grabber checkout...")

	if err := os.MkdirAll(g.cfg.WorkDir, 0755); err != nil {
		return &domain.SetupError{Step: "workdir", Err: err}
	}

	if _, err := os.Stat(g.RepoPath()); os.IsNotExist(err) {
		res, err := g.runner.Run(ctx, ports.Command{
			Name:    "git",
			Args:    []string{"clone", "--depth", "1", "-b", g.cfg.Branch, g.cfg.RepoURL, g.RepoPath()},
			Capture: true,
		})
		if err != nil {
			return &domain.SetupError{Step: "clone", Err: err}
		}
		if res.ExitCode != 0 {
			return &domain.SetupError{
				Step: "clone",
				Err:  fmt.Errorf("git exited with code %d: %s", res.ExitCode, res.Output),
			}
		}
	}

	res, err := g.runner.Run(ctx, ports.Command{
		Name:    "npm",
		Args:    []string{"install"},
		Dir:     g.RepoPath(),
		Capture: true,
	})
	if err != nil {
		return &domain.SetupError{Step: "install", Err: err}
	}
	if res.ExitCode != 0 {
		return &domain.SetupError{
			Step: "install",
			Err:  fmt.Errorf("npm exited with code %d: %s", res.ExitCode, res.Output),
		}
	}

	g.setupDone = true
	g.logger.Println("Setup complete.")
	return nil
}

// Fetch runs the grab sub-command and returns the produced guide artifact.
func (g *Grabber) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	if err := g.Setup(ctx); err != nil {
		return nil, err
	}

	channelsPath := req.ChannelsFile
	if len(req.Channels) > 0 {
		channelsPath = filepath.Join(g.cfg.WorkDir, channelsFileName)
		if err := domain.WriteChannelsFile(channelsPath, req.Channels); err != nil {
			return nil, err
		}
	}
	if channelsPath != "" {
		// npm runs inside the checkout, so the path must survive the chdir.
		abs, err := filepath.Abs(channelsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve channel list path: %w", err)
		}
		channelsPath = abs
	}

	args := grabArgs(req, channelsPath)
	g.logger.Printf("Command: npm %s", strings.Join(args, " "))

	res, err := g.runner.Run(ctx, ports.Command{Name: "npm", Args: args, Dir: g.RepoPath()})
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.BackendExecutionError{Backend: g.Name(), Reason: "cancelled", Err: err}
		}
		return nil, &domain.BackendExecutionError{Backend: g.Name(), Reason: "failed to start npm", Err: err}
	}
	if res.ExitCode != 0 {
		return nil, &domain.BackendExecutionError{Backend: g.Name(), ExitCode: res.ExitCode}
	}

	outPath := req.OutputFile
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(g.RepoPath(), outPath)
	}
	if _, err := os.Stat(outPath); err != nil {
		return nil, &domain.OutputMissingError{Backend: g.Name(), Path: outPath}
	}

	result := &domain.FetchResult{Backend: g.Name(), Path: outPath}
	if req.Gzip {
		if _, err := os.Stat(outPath + ".gz"); err == nil {
			result.GzipPath = outPath + ".gz"
		}
	}
	return result, nil
}

// grabArgs builds the grab invocation in a fixed flag order. Unset optional
// options are omitted rather than passed empty.
func grabArgs(req domain.FetchRequest, channelsPath string) []string {
	args := []string{"run", "grab", "---"}
	if req.Site != "" {
		args = append(args, "--site="+req.Site)
	} else {
		args = append(args, "--channels="+channelsPath)
	}
	args = append(args, "--output="+req.OutputFile)
	if req.Days > 0 {
		args = append(args, fmt.Sprintf("--days=%d", req.Days))
	}
	if req.Lang != "" {
		args = append(args, "--lang="+req.Lang)
	}
	args = append(args,
		fmt.Sprintf("--maxConnections=%d", req.MaxConnections),
		fmt.Sprintf("--timeout=%d", req.TimeoutMS),
		fmt.Sprintf("--delay=%d", req.DelayMS),
	)
	if req.Gzip {
		args = append(args, "--gzip")
	}
	return args
}
