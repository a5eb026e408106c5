package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Debe2025/epg-fetcher/internal/adapters/docker"
	"github.com/Debe2025/epg-fetcher/internal/adapters/execrunner"
	"github.com/Debe2025/epg-fetcher/internal/adapters/local"
	"github.com/Debe2025/epg-fetcher/internal/adapters/localstorage"
	"github.com/Debe2025/epg-fetcher/internal/adapters/remotelist"
	"github.com/Debe2025/epg-fetcher/internal/config"
	"github.com/Debe2025/epg-fetcher/internal/core/domain"
	"github.com/Debe2025/epg-fetcher/internal/core/ports"
	"github.com/Debe2025/epg-fetcher/internal/service"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	site := flag.String("site", "", "Site to grab all channels from, e.g. arirang.com")
	channels := flag.String("channels", "", "Channel-list document: local channels.xml path or http(s) URL")
	configPath := flag.String("config", "", "YAML config file with channels and fetch defaults (file values win)")
	output := flag.String("output", domain.DefaultOutputFile, "Output file name (local backend)")
	outputDir := flag.String("output-dir", "output", "Output directory (docker backend)")
	destDir := flag.String("dest-dir", "", "Copy produced artifacts into this directory")
	days := flag.Int("days", 0, "Number of days to grab")
	lang := flag.String("lang", "", "Comma-separated language codes")
	maxConn := flag.Int("max-connections", domain.DefaultMaxConnections, "Maximum concurrent connections")
	timeout := flag.Int("timeout", domain.DefaultTimeoutMS, "Request timeout in milliseconds")
	delay := flag.Int("delay", domain.DefaultDelayMS, "Delay between requests in milliseconds")
	gzip := flag.Bool("gzip", false, "Also produce a gzip-compressed guide")
	backend := flag.String("backend", "auto", "Execution backend: auto, local or docker")
	workDir := flag.String("work-dir", "", "Working directory (default: fresh temp dir)")
	keepWork := flag.Bool("keep-work", false, "Keep the working directory after the run")
	image := flag.String("image", "", "Docker image override (default: "+docker.DefaultImage+")")
	flag.Parse()

	if *site == "" && *channels == "" && *configPath == "" {
		fmt.Println("Usage: epg-fetch -site <name> | -channels <file-or-url> | -config <yaml> [options]")
		fmt.Println("\nExamples:")
		fmt.Println("  epg-fetch -site arirang.com -days 3 -max-connections 5")
		fmt.Println("  epg-fetch -channels ./channels.xml -gzip -backend docker")
		fmt.Println("  epg-fetch -config ./channels.yaml -dest-dir ./guides")
		os.Exit(1)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	logger.Println("=== EPG Fetcher ===")

	workPath, err := service.ResolveWorkDir(*workDir)
	if err != nil {
		logger.Fatalf("Failed to prepare work directory: %v", err)
	}
	logger.Printf("Work Directory: %s", workPath)

	runner := execrunner.New()
	grabber := local.NewGrabber(local.Config{
		WorkDir: workPath,
		RepoURL: os.Getenv("EPG_REPO_URL"),
		Branch:  os.Getenv("EPG_REPO_BRANCH"),
	}, runner, logger)

	img := *image
	if img == "" {
		img = os.Getenv("EPG_DOCKER_IMAGE")
	}
	container := docker.NewRunner(img, runner, logger)

	var store ports.ArtifactStore
	if *destDir != "" {
		store = localstorage.NewStore(*destDir)
	}

	orchestrator := service.NewOrchestrator(grabber, container, store, workPath, logger)

	req := domain.NewFetchRequest()
	req.Site = *site
	req.OutputFile = *output
	req.OutputDir = *outputDir
	req.Days = *days
	req.Lang = *lang
	req.MaxConnections = *maxConn
	req.TimeoutMS = *timeout
	req.DelayMS = *delay
	req.Gzip = *gzip
	req.Backend = domain.BackendKind(*backend)

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			logger.Printf("Failed to load config: %v", err)
			os.Exit(1)
		}
		cfg.ApplyTo(&req)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("\nReceived interrupt signal, cancelling...")
		cancel()
	}()

	if *channels != "" {
		if strings.HasPrefix(*channels, "http://") || strings.HasPrefix(*channels, "https://") {
			dest := filepath.Join(workPath, "channels.xml")
			logger.Printf("Downloading channel list: %s", *channels)
			if err := remotelist.NewHTTPSource().Fetch(ctx, *channels, dest); err != nil {
				logger.Printf("Failed to download channel list: %v", err)
				os.Exit(2)
			}
			req.ChannelsFile = dest
		} else {
			req.ChannelsFile = *channels
		}
	}

	result, err := orchestrator.Fetch(ctx, req)

	if !*keepWork {
		if cerr := orchestrator.Cleanup(); cerr != nil {
			logger.Printf("Cleanup warning: %v", cerr)
		}
	}

	if err != nil {
		logger.Printf("Fetch failed: %v", err)
		os.Exit(exitCode(err))
	}

	// Print summary
	fmt.Println("\n=== Fetch Summary ===")
	fmt.Printf("Job ID:       %s\n", result.JobID)
	fmt.Printf("Backend:      %s\n", result.Backend)
	fmt.Printf("Guide:        %s\n", result.Path)
	if result.GzipPath != "" {
		fmt.Printf("Compressed:   %s\n", result.GzipPath)
	}
	if result.CopiedPath != "" {
		fmt.Printf("Copied To:    %s\n", result.CopiedPath)
	}
	fmt.Printf("Completed At: %s\n", result.CompletedAt.Format("2006-01-02 15:04:05 UTC"))
}

// exitCode maps the error taxonomy to process exit codes: 1 validation,
// 2 backend execution or setup, 3 missing artifact.
func exitCode(err error) int {
	var invalid *domain.InvalidRequestError
	var unsupported *domain.UnsupportedModeError
	var missing *domain.OutputMissingError
	switch {
	case errors.As(err, &invalid), errors.As(err, &unsupported):
		return 1
	case errors.As(err, &missing):
		return 3
	}
	return 2
}
