package execrunner

import (
	"context"

	"github.com/Debe2025/epg-fetcher/internal/core/ports"
)

// MockRunner is a scripted CommandRunner for tests. Results and Errs are
// consumed per call in order; missing entries default to success.
type MockRunner struct {
	Calls   []ports.Command
	Results []ports.RunResult
	Errs    []error

	// Hook runs after each call is recorded, before the scripted result is
	// returned. Tests use it to drop expected output files into place.
	Hook func(call int, cmd ports.Command)
}

func (m *MockRunner) Run(ctx context.Context, cmd ports.Command) (ports.RunResult, error) {
	i := len(m.Calls)
	m.Calls = append(m.Calls, cmd)
	if m.Hook != nil {
		m.Hook(i, cmd)
	}
	var res ports.RunResult
	if i < len(m.Results) {
		res = m.Results[i]
	}
	var err error
	if i < len(m.Errs) {
		err = m.Errs[i]
	}
	return res, err
}
