package domain

import "fmt"

// InvalidRequestError reports malformed or contradictory fetch input.
// The request is rejected before any external process is spawned.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// SetupError reports a failure while preparing a backend (cloning the
// grabber checkout, installing its dependencies, resolving a backend).
type SetupError struct {
	Step string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed during %s: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// UnsupportedModeError reports a selector/backend combination the chosen
// backend cannot serve.
type UnsupportedModeError struct {
	Backend string
	Reason  string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("%s backend: unsupported mode: %s", e.Backend, e.Reason)
}

// BackendExecutionError reports a grabber process that ran and failed, or
// could not be run at all. Reason is "cancelled" when the caller's context
// terminated the process.
type BackendExecutionError struct {
	Backend  string
	ExitCode int
	Reason   string
	Err      error
}

func (e *BackendExecutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s backend execution failed: %s", e.Backend, e.Reason)
	}
	return fmt.Sprintf("%s backend exited with code %d", e.Backend, e.ExitCode)
}

func (e *BackendExecutionError) Unwrap() error { return e.Err }

// OutputMissingError reports an apparently successful run that left no
// guide artifact at the expected path.
type OutputMissingError struct {
	Backend string
	Path    string
}

func (e *OutputMissingError) Error() string {
	return fmt.Sprintf("%s backend: output file not created: %s", e.Backend, e.Path)
}
