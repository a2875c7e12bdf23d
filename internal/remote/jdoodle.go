package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// JDoodleClient speaks the JDoodle v1 execute API. Runtime errors are reported
// in the error field of a successful response.
type JDoodleClient struct {
	url          string
	clientID     string
	clientSecret string
	client       *http.Client
}

func NewJDoodleClient(url, clientID, clientSecret string, timeout time.Duration) *JDoodleClient {
	return &JDoodleClient{
		url:          url,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       newHTTPClient(timeout),
	}
}

type jdoodleRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Script       string `json:"script"`
	Stdin        string `json:"stdin"`
	Language     string `json:"language"`
	VersionIndex string `json:"versionIndex"`
}

type jdoodleResponse struct {
	Output  string          `json:"output"`
	Error   string          `json:"error"`
	CPUTime json.RawMessage `json:"cpuTime"` // seconds, sometimes quoted
}

func (c *JDoodleClient) Run(ctx context.Context, req RunRequest) (*RunResponse, error) {
	var resp jdoodleResponse
	err := postJSON(ctx, c.client, c.url, jdoodleRequest{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Script:       req.Source,
		Stdin:        req.Stdin,
		Language:     req.Language,
		VersionIndex: req.Version,
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := &RunResponse{Stdout: resp.Output, Stderr: resp.Error}
	raw := strings.Trim(string(resp.CPUTime), `"`)
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		out.RuntimeMs = seconds * 1000
	}
	return out, nil
}
