package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"evently/internal/domain"
)

// InvalidatorConfig holds configuration for creating a path invalidator.
// Provider "http" posts to the frontend's on-demand revalidation endpoint;
// "noop" or unknown logs and discards the signal.
type InvalidatorConfig struct {
	Provider string
	URL      string
	Secret   string
}

// NewInvalidator creates a PathInvalidator from config.
func NewInvalidator(config InvalidatorConfig) (domain.PathInvalidator, error) {
	switch config.Provider {
	case "http":
		if config.URL == "" {
			return nil, fmt.Errorf("revalidate provider %q requires a URL", config.Provider)
		}
		return &httpInvalidator{
			url:    config.URL,
			secret: config.Secret,
			client: &http.Client{Timeout: 5 * time.Second},
		}, nil
	case "noop":
		return &noopInvalidator{}, nil
	default:
		log.Printf("[REVALIDATE] Unknown provider %q, using noop", config.Provider)
		return &noopInvalidator{}, nil
	}
}

type httpInvalidator struct {
	url    string
	secret string
	client *http.Client
}

type revalidateRequest struct {
	Path string `json:"path"`
}

// Invalidate tells the frontend to drop its cached rendering of the given
// route. The receiving endpoint re-fetches on the next request.
func (i *httpInvalidator) Invalidate(ctx context.Context, path string) error {
	body, err := json.Marshal(revalidateRequest{Path: path})
	if err != nil {
		return fmt.Errorf("marshal revalidate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build revalidate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if i.secret != "" {
		req.Header.Set("X-Revalidate-Secret", i.secret)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("send revalidate request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revalidate endpoint returned %d", resp.StatusCode)
	}
	return nil
}

type noopInvalidator struct{}

func (n *noopInvalidator) Invalidate(ctx context.Context, path string) error {
	log.Println("[REVALIDATE] Path would be invalidated (noop)", "path", path)
	return nil
}
