package remotelist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// HTTPSource implements ports.ChannelSource using standard HTTP.
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource creates a new HTTPSource.
func NewHTTPSource() *HTTPSource {
	return &HTTPSource{
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Fetch downloads the channel-list document at url into destPath.
func (s *HTTPSource) Fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download channel list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("failed to write channel list: %w", err)
	}
	return nil
}
