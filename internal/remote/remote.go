// Package remote talks to hosted code-execution services.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mini-maxit/grader/pkg/errors"
)

// RunRequest is one execution of Source fed with Stdin.
type RunRequest struct {
	Source   string
	Stdin    string
	Language string
	Version  string
}

// RunResponse carries the raw program streams as reported by the service.
type RunResponse struct {
	Stdout    string
	Stderr    string
	RuntimeMs float64
}

// Runner executes code on a remote service. Any transport failure or non-2xx
// status is reported as an error wrapping errors.ErrRemoteUnavailable.
type Runner interface {
	Run(ctx context.Context, req RunRequest) (*RunResponse, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// postJSON sends body to url and decodes a 2xx response into out.
func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyJSON))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", errors.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", errors.ErrRemoteUnavailable, resp.StatusCode, strings.TrimSpace(string(text)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", errors.ErrRemoteUnavailable, err)
	}
	return nil
}
