package domain

import "time"

// BackendKind selects the execution strategy for a fetch.
type BackendKind string

const (
	// BackendAuto picks a backend once, before the fetch begins: a site
	// selector forces the local toolchain, otherwise the container runtime
	// is preferred when available.
	BackendAuto      BackendKind = "auto"
	BackendLocal     BackendKind = "local"
	BackendContainer BackendKind = "docker"
)

// Defaults applied by NewFetchRequest.
const (
	DefaultOutputFile     = "guide.xml"
	DefaultMaxConnections = 1
	DefaultTimeoutMS      = 30000
	DefaultDelayMS        = 0
)

// FetchRequest describes a single guide fetch. Exactly one selector of
// Site, Channels or ChannelsFile must be set.
type FetchRequest struct {
	Site         string
	Channels     []Channel
	ChannelsFile string

	// OutputFile is the guide file name produced by the local backend,
	// resolved against the grabber checkout unless absolute. OutputDir is
	// the directory the container backend mounts for its output.
	OutputFile string
	OutputDir  string

	Days int
	Lang string

	MaxConnections int
	TimeoutMS      int
	DelayMS        int
	Gzip           bool

	Backend BackendKind
}

// NewFetchRequest returns a request with documented defaults applied.
func NewFetchRequest() FetchRequest {
	return FetchRequest{
		OutputFile:     DefaultOutputFile,
		MaxConnections: DefaultMaxConnections,
		TimeoutMS:      DefaultTimeoutMS,
		DelayMS:        DefaultDelayMS,
		Backend:        BackendAuto,
	}
}

// Validate rejects malformed requests. Out-of-range numeric values are
// rejected rather than clamped.
func (r *FetchRequest) Validate() error {
	selectors := 0
	if r.Site != "" {
		selectors++
	}
	if len(r.Channels) > 0 {
		selectors++
	}
	if r.ChannelsFile != "" {
		selectors++
	}
	switch {
	case selectors == 0:
		return &InvalidRequestError{Reason: "either site or channels must be provided"}
	case selectors > 1:
		return &InvalidRequestError{Reason: "site and channels are mutually exclusive"}
	}
	if r.OutputFile == "" {
		return &InvalidRequestError{Reason: "output file must not be empty"}
	}
	if r.MaxConnections < 1 {
		return &InvalidRequestError{Reason: "max connections must be at least 1"}
	}
	if r.TimeoutMS < 0 {
		return &InvalidRequestError{Reason: "timeout must not be negative"}
	}
	if r.DelayMS < 0 {
		return &InvalidRequestError{Reason: "delay must not be negative"}
	}
	if r.Days < 0 {
		return &InvalidRequestError{Reason: "days must not be negative"}
	}
	return nil
}

// FetchResult holds the outcome of a completed fetch.
type FetchResult struct {
	JobID   string
	Backend string

	// Path is the produced guide artifact; GzipPath its compressed sibling
	// when one was produced. CopiedPath is set when the artifact was copied
	// to a caller-supplied destination directory.
	Path       string
	GzipPath   string
	CopiedPath string

	CompletedAt time.Time
}
