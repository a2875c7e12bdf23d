package remote

import (
	"context"
	"net/http"
	"time"
)

// PistonClient speaks the Piston v2 execute API.
type PistonClient struct {
	url    string
	client *http.Client
}

func NewPistonClient(url string, timeout time.Duration) *PistonClient {
	return &PistonClient{url: url, client: newHTTPClient(timeout)}
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin"`
}

type pistonStage struct {
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
	Runtime  *float64 `json:"runtime"`
	WallTime *float64 `json:"wall_time"`
}

type pistonResponse struct {
	Run     pistonStage  `json:"run"`
	Compile *pistonStage `json:"compile"`
}

func (c *PistonClient) Run(ctx context.Context, req RunRequest) (*RunResponse, error) {
	var resp pistonResponse
	err := postJSON(ctx, c.client, c.url, pistonRequest{
		Language: req.Language,
		Version:  req.Version,
		Files:    []pistonFile{{Content: req.Source}},
		Stdin:    req.Stdin,
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := &RunResponse{Stdout: resp.Run.Stdout, Stderr: resp.Run.Stderr}
	if resp.Compile != nil && resp.Compile.Stderr != "" {
		out.Stderr = resp.Compile.Stderr
	}
	switch {
	case resp.Run.Runtime != nil:
		out.RuntimeMs = *resp.Run.Runtime
	case resp.Run.WallTime != nil:
		out.RuntimeMs = *resp.Run.WallTime
	}
	return out, nil
}
